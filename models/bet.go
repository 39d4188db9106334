package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BetStatus string

const (
	BetPending   BetStatus = "PENDING"
	BetWon       BetStatus = "WON"
	BetLost      BetStatus = "LOST"
	BetCancelled BetStatus = "CANCELLED"
)

// Bet is one game round reported by the slot aggregator. ExternalID carries
// the aggregator's txn_id and is the idempotency key for replayed callbacks.
type Bet struct {
	gorm.Model

	UserID   uint   `gorm:"index" json:"user_id"`
	GameID   string `gorm:"size:64;index" json:"game_id"`
	Provider string `gorm:"size:32;index" json:"provider"`

	Amount    float64 `json:"amount"`
	WinAmount float64 `json:"win_amount"`

	Status BetStatus `gorm:"size:16;index" json:"status"`

	TransactionID string `gorm:"size:64;index" json:"transaction_id"`
	ExternalID    string `gorm:"size:64;uniqueIndex" json:"external_id"`

	Note     string `gorm:"size:255" json:"note"`
	Metadata datatypes.JSON `gorm:"type:jsonb" json:"metadata"`
}

// FTD marks a user's first approved deposit. At most one row per user; its
// creation is what triggers the one-time affiliate CPA commission.
type FTD struct {
	gorm.Model

	UserID    uint    `gorm:"uniqueIndex" json:"user_id"`
	DepositID uint    `gorm:"index" json:"deposit_id"`
	Amount    float64 `json:"amount"`

	Status TransactionStatus `gorm:"size:16;default:APPROVED" json:"status"`
}
