package services

import (
	"errors"
	"time"

	"luxbet/database"
	"luxbet/ledger"
	"luxbet/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrDepositNotFound = errors.New("deposit not found")

// ApproveDeposit settles a paid PIX charge: credits the user, grants any
// promotion bonus and pays referral commissions, all in one transaction.
// A deposit already approved is a webhook replay and turns into a no-op.
func ApproveDeposit(db *gorm.DB, externalID, source string) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		var deposit models.Deposit
		err := database.LockForUpdate(tx).
			Where("external_id = ?", externalID).First(&deposit).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepositNotFound
		}
		if err != nil {
			return err
		}

		if deposit.Status == models.StatusApproved {
			return nil
		}
		if deposit.Status != models.StatusPending {
			logrus.WithFields(logrus.Fields{
				"deposit_id": deposit.ID,
				"status":     deposit.Status,
			}).Warn("paid webhook for non-pending deposit ignored")
			return nil
		}

		user, err := ledger.Lock(tx, deposit.UserID)
		if err != nil {
			return err
		}

		if err := ledger.ApplyTo(tx, user, ledger.Delta{Amount: deposit.Amount}); err != nil {
			return err
		}
		bonus, err := ApplyPromotionBonus(tx, user, deposit.Amount)
		if err != nil {
			return err
		}
		if err := CreditAffiliateOnDeposit(tx, user, &deposit); err != nil {
			return err
		}

		notify(tx, user.ID, models.NotificationSuccess, "Depósito aprovado",
			"Seu depósito de R$ %.2f foi creditado.", deposit.Amount)
		if bonus > 0 {
			notify(tx, user.ID, models.NotificationInfo, "Bônus recebido",
				"Você recebeu R$ %.2f de bônus.", bonus)
		}

		return tx.Model(&deposit).Update("status", models.StatusApproved).Error
	})
	if err == nil {
		SettlementsApplied.WithLabelValues(source).Inc()
	}
	return err
}

// ChargebackDeposit reverses an approved deposit. The debit is capped at the
// user's current balance so the reversal always lands even after the funds
// were partly played through.
func ChargebackDeposit(db *gorm.DB, externalID, source string) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		var deposit models.Deposit
		err := database.LockForUpdate(tx).
			Where("external_id = ?", externalID).First(&deposit).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepositNotFound
		}
		if err != nil {
			return err
		}

		if deposit.Status == models.StatusCancelled {
			return nil
		}
		if deposit.Status != models.StatusApproved {
			return tx.Model(&deposit).Update("status", models.StatusCancelled).Error
		}

		user, err := ledger.Lock(tx, deposit.UserID)
		if err != nil {
			return err
		}

		debit := deposit.Amount
		if debit > user.Balance {
			debit = user.Balance
		}
		if debit > 0 {
			if err := ledger.ApplyTo(tx, user, ledger.Delta{Amount: -debit}); err != nil {
				return err
			}
		}

		logrus.WithFields(logrus.Fields{
			"deposit_id": deposit.ID,
			"user_id":    user.ID,
			"reversed":   debit,
		}).Warn("deposit chargeback applied")

		return tx.Model(&deposit).Update("status", models.StatusCancelled).Error
	})
	if err == nil {
		SettlementsApplied.WithLabelValues(source).Inc()
	}
	return err
}

// ExpirePendingDeposits cancels PIX charges whose QR code was never paid
// within the TTL. No balance was ever credited, so only the row changes.
func ExpirePendingDeposits(db *gorm.DB, ttl time.Duration) (int64, error) {
	cutoff := time.Now().Add(-ttl)
	res := db.Model(&models.Deposit{}).
		Where("status = ? AND created_at < ?", models.StatusPending, cutoff).
		Update("status", models.StatusCancelled)
	return res.RowsAffected, res.Error
}
