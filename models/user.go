package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model

	Username     string `gorm:"uniqueIndex;size:32" json:"username"`
	Email        string `gorm:"index;size:128" json:"email"`
	PasswordHash string `gorm:"size:128" json:"-"`
	CPF          string `gorm:"size:16" json:"cpf"`

	// Balance is the total spendable amount. BonusBalance is the promotional,
	// non-withdrawable portion of it: 0 <= BonusBalance <= Balance. Both are
	// written only through the ledger package.
	Balance      float64 `json:"balance"`
	BonusBalance float64 `json:"bonus_balance"`

	IsAdmin  bool  `gorm:"default:false" json:"is_admin"`
	IsActive *bool `gorm:"default:true" json:"is_active"`

	ReferredByAffiliateID *uint `gorm:"index" json:"referred_by_affiliate_id"`

	Deposits    []Deposit    `gorm:"foreignKey:UserID"`
	Withdrawals []Withdrawal `gorm:"foreignKey:UserID"`
	Bets        []Bet        `gorm:"foreignKey:UserID"`
}

// WithdrawableBalance is the portion of Balance a user may cash out.
func (u *User) WithdrawableBalance() float64 {
	return u.Balance - u.BonusBalance
}
