package models

import (
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
)

type Notification struct {
	gorm.Model

	UserID  uint             `gorm:"index" json:"user_id"`
	Title   string           `gorm:"size:128" json:"title"`
	Message string           `gorm:"size:512" json:"message"`
	Type    NotificationType `gorm:"size:16" json:"type"`
	Link    string           `gorm:"size:128" json:"link"`

	IsRead   bool  `gorm:"default:false" json:"is_read"`
	IsActive *bool `gorm:"default:true" json:"is_active"`
}
