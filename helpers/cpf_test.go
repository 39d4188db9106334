package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func cpfCheckDigit(digits []int, weight int) int {
	sum := 0
	for _, d := range digits {
		sum += d * weight
		weight--
	}
	rest := (sum * 10) % 11
	if rest == 10 {
		return 0
	}
	return rest
}

func TestGenerateFakeCPFIsValid(t *testing.T) {
	for i := 0; i < 50; i++ {
		cpf := GenerateFakeCPF()
		require.Len(t, cpf, 11)

		digits := make([]int, 11)
		for j, r := range cpf {
			require.GreaterOrEqual(t, r, '0')
			require.LessOrEqual(t, r, '9')
			digits[j] = int(r - '0')
		}

		require.Equal(t, cpfCheckDigit(digits[:9], 10), digits[9])
		require.Equal(t, cpfCheckDigit(digits[:10], 11), digits[10])
	}
}

func TestCleanCPF(t *testing.T) {
	require.Equal(t, "12345678901", CleanCPF("123.456.789-01"))
	require.Equal(t, "12345678901", CleanCPF(" 123 456 789 01 "))
	require.Equal(t, "", CleanCPF("no digits"))
}
