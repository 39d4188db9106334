package services

import (
	"fmt"

	"luxbet/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// notify writes an inbox entry in the settlement transaction. A failed
// insert is logged and swallowed; the money movement must not roll back
// over an inbox row.
func notify(tx *gorm.DB, userID uint, kind models.NotificationType, title, format string, args ...any) {
	n := models.Notification{
		UserID:   userID,
		Title:    title,
		Message:  fmt.Sprintf(format, args...),
		Type:     kind,
		IsActive: models.Bool(true),
	}
	if err := tx.Create(&n).Error; err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("notification insert failed")
	}
}
