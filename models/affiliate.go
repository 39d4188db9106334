package models

import (
	"gorm.io/gorm"
)

type Affiliate struct {
	gorm.Model

	UserID        uint   `gorm:"uniqueIndex" json:"user_id"`
	ManagerID     *uint  `gorm:"index" json:"manager_id"`
	AffiliateCode string `gorm:"uniqueIndex;size:32" json:"affiliate_code"`

	CPAAmount          float64 `json:"cpa_amount"`
	RevsharePercentage float64 `json:"revshare_percentage"`

	TotalReferrals      int     `json:"total_referrals"`
	TotalDeposits       float64 `json:"total_deposits"`
	TotalCPAEarned      float64 `json:"total_cpa_earned"`
	TotalRevshareEarned float64 `json:"total_revshare_earned"`
	TotalEarnings       float64 `json:"total_earnings"`

	IsActive *bool `gorm:"default:true" json:"is_active"`
}

type Manager struct {
	gorm.Model

	UserID uint `gorm:"uniqueIndex" json:"user_id"`

	CPAPool            float64 `json:"cpa_pool"`
	RevsharePercentage float64 `json:"revshare_percentage"`

	TotalCPAEarned      float64 `json:"total_cpa_earned"`
	TotalRevshareEarned float64 `json:"total_revshare_earned"`
	TotalEarnings       float64 `json:"total_earnings"`

	IsActive *bool `gorm:"default:true" json:"is_active"`
}
