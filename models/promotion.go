package models

import (
	"time"

	"gorm.io/gorm"
)

// Promotion grants a percentage bonus on qualifying deposits. When several
// promotions are active, the first one by position desc, created_at desc wins.
type Promotion struct {
	gorm.Model

	Title string `gorm:"size:128" json:"title"`

	BonusPercentage float64 `json:"bonus_percentage"`
	MinDeposit      float64 `json:"min_deposit"`
	MaxBonus        float64 `json:"max_bonus"`

	Position  int        `gorm:"index" json:"position"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`

	IsActive *bool `gorm:"default:true" json:"is_active"`
}
