package helpers

import (
	"math/rand"
	"strings"
)

// GenerateFakeCPF produces a CPF that passes check-digit validation but does
// not belong to a real person. Gateways require a payer document even when
// the user has not provided one.
func GenerateFakeCPF() string {
	digits := make([]int, 0, 11)
	for i := 0; i < 9; i++ {
		digits = append(digits, rand.Intn(10))
	}

	sum := 0
	for i := 0; i < 9; i++ {
		sum += digits[i] * (10 - i)
	}
	d1 := (sum * 10) % 11
	if d1 >= 10 {
		d1 = 0
	}
	digits = append(digits, d1)

	sum = 0
	for i := 0; i < 10; i++ {
		sum += digits[i] * (11 - i)
	}
	d2 := (sum * 10) % 11
	if d2 >= 10 {
		d2 = 0
	}
	digits = append(digits, d2)

	var sb strings.Builder
	for _, d := range digits {
		sb.WriteByte(byte('0' + d))
	}
	return sb.String()
}

// CleanCPF strips everything but digits.
func CleanCPF(cpf string) string {
	var sb strings.Builder
	for _, r := range cpf {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
