package services

import (
	"errors"

	"luxbet/database"
	"luxbet/ledger"
	"luxbet/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrWithdrawalNotFound = errors.New("withdrawal not found")

// ConfirmWithdrawal marks a PIX payout as settled. The funds were already
// reserved when the withdrawal was created, so no balance moves here.
func ConfirmWithdrawal(db *gorm.DB, externalID, source string) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		withdrawal, err := lockWithdrawal(tx, externalID)
		if err != nil {
			return err
		}
		if withdrawal.Status == models.StatusApproved {
			return nil
		}
		if withdrawal.Status != models.StatusPending {
			logrus.WithFields(logrus.Fields{
				"withdrawal_id": withdrawal.ID,
				"status":        withdrawal.Status,
			}).Warn("payout confirmation for non-pending withdrawal ignored")
			return nil
		}
		notify(tx, withdrawal.UserID, models.NotificationSuccess, "Saque concluído",
			"Seu saque de R$ %.2f foi pago.", withdrawal.Amount)
		return tx.Model(withdrawal).Update("status", models.StatusApproved).Error
	})
	if err == nil {
		SettlementsApplied.WithLabelValues(source).Inc()
	}
	return err
}

// FailWithdrawal refunds a payout the gateway could not complete. The refund
// only fires on the PENDING to REJECTED transition, so a replayed failure
// webhook cannot credit the user twice.
func FailWithdrawal(db *gorm.DB, externalID, source string) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		withdrawal, err := lockWithdrawal(tx, externalID)
		if err != nil {
			return err
		}
		if withdrawal.Status != models.StatusPending {
			return nil
		}

		if _, err := ledger.Apply(tx, withdrawal.UserID, ledger.Delta{Amount: withdrawal.Amount}); err != nil {
			return err
		}

		logrus.WithFields(logrus.Fields{
			"withdrawal_id": withdrawal.ID,
			"user_id":       withdrawal.UserID,
			"refunded":      withdrawal.Amount,
		}).Info("failed withdrawal refunded")

		notify(tx, withdrawal.UserID, models.NotificationWarning, "Saque não realizado",
			"Seu saque de R$ %.2f falhou e o valor foi devolvido ao saldo.", withdrawal.Amount)
		return tx.Model(withdrawal).Update("status", models.StatusRejected).Error
	})
	if err == nil {
		SettlementsApplied.WithLabelValues(source).Inc()
	}
	return err
}

func lockWithdrawal(tx *gorm.DB, externalID string) (*models.Withdrawal, error) {
	var withdrawal models.Withdrawal
	err := database.LockForUpdate(tx).
		Where("external_id = ?", externalID).First(&withdrawal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWithdrawalNotFound
	}
	if err != nil {
		return nil, err
	}
	return &withdrawal, nil
}
