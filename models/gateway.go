package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Gateway is a configured payment provider. Credentials holds the provider's
// keys as JSON (ci/cs for SuitPay, api_key for NXGATE, username/password for
// Gatebox).
type Gateway struct {
	gorm.Model

	Name        string         `gorm:"uniqueIndex;size:64" json:"name"`
	Type        string         `gorm:"size:16;index" json:"type"`
	Credentials datatypes.JSON `gorm:"type:jsonb" json:"-"`
	IsActive    *bool          `gorm:"default:true" json:"is_active"`
}

// GoldAgent is a configured slot-aggregator agent allowed to call the
// seamless gold_api endpoint.
type GoldAgent struct {
	gorm.Model

	AgentCode string `gorm:"uniqueIndex;size:32" json:"agent_code"`
	SecretKey string `gorm:"size:128" json:"-"`
	AgentKey  string `gorm:"size:128" json:"-"`
	IsActive  *bool  `gorm:"default:true" json:"is_active"`
}
