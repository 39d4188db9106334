package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusApproved  TransactionStatus = "APPROVED"
	StatusRejected  TransactionStatus = "REJECTED"
	StatusCancelled TransactionStatus = "CANCELLED"
)

// Deposit is a PIX cash-in. Balance is credited only on the
// PENDING -> APPROVED transition, driven by the gateway webhook.
type Deposit struct {
	gorm.Model

	UserID    uint    `gorm:"index" json:"user_id"`
	GatewayID uint    `gorm:"index" json:"gateway_id"`
	Amount    float64 `json:"amount"`

	Status TransactionStatus `gorm:"size:16;index;default:PENDING" json:"status"`

	// TransactionID is our internal id, ExternalID the gateway's. ExternalID
	// doubles as the idempotency key for webhook deliveries.
	TransactionID string `gorm:"size:64;index" json:"transaction_id"`
	ExternalID    string `gorm:"size:128;uniqueIndex" json:"external_id"`

	Metadata datatypes.JSON `gorm:"type:jsonb" json:"metadata"`
}

// Withdrawal is a PIX cash-out. The amount is debited from the user at
// creation (reservation) and refunded only if the gateway reports failure
// while the row is still PENDING.
type Withdrawal struct {
	gorm.Model

	UserID    uint    `gorm:"index" json:"user_id"`
	GatewayID uint    `gorm:"index" json:"gateway_id"`
	Amount    float64 `json:"amount"`

	Status TransactionStatus `gorm:"size:16;index;default:PENDING" json:"status"`

	TransactionID string `gorm:"size:64;index" json:"transaction_id"`
	ExternalID    string `gorm:"size:128;uniqueIndex" json:"external_id"`

	PixKey     string `gorm:"size:128" json:"pix_key"`
	PixKeyType string `gorm:"size:32" json:"pix_key_type"`

	Metadata datatypes.JSON `gorm:"type:jsonb" json:"metadata"`
}
