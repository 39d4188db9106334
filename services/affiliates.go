package services

import (
	"errors"

	"luxbet/ledger"
	"luxbet/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func revshareOf(amount, percentage float64) float64 {
	return decimal.NewFromFloat(amount).
		Mul(decimal.NewFromFloat(percentage)).
		Div(decimal.NewFromInt(100)).
		Round(2).InexactFloat64()
}

// CreditAffiliateOnDeposit pays out referral commissions for an approved
// deposit, inside the caller's transaction. Revshare is earned on every
// approved deposit; CPA is earned once, on the referred user's first one.
// The depositor's row is expected to be locked already.
func CreditAffiliateOnDeposit(tx *gorm.DB, user *models.User, deposit *models.Deposit) error {
	if user.ReferredByAffiliateID == nil {
		return nil
	}

	var affiliate models.Affiliate
	err := tx.Where("id = ? AND is_active = ?", *user.ReferredByAffiliateID, true).
		First(&affiliate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	revshare := revshareOf(deposit.Amount, affiliate.RevsharePercentage)
	cpa := 0.0

	firstDeposit, err := recordFirstDeposit(tx, user.ID, deposit)
	if err != nil {
		return err
	}
	if firstDeposit {
		cpa = affiliate.CPAAmount
	}

	if err := creditCommission(tx, affiliate.UserID, revshare+cpa); err != nil {
		return err
	}

	updates := map[string]any{
		"total_deposits":        gorm.Expr("total_deposits + ?", deposit.Amount),
		"total_revshare_earned": gorm.Expr("total_revshare_earned + ?", revshare),
		"total_cpa_earned":      gorm.Expr("total_cpa_earned + ?", cpa),
		"total_earnings":        gorm.Expr("total_earnings + ?", revshare+cpa),
	}
	if firstDeposit {
		updates["total_referrals"] = gorm.Expr("total_referrals + 1")
	}
	if err := tx.Model(&models.Affiliate{}).Where("id = ?", affiliate.ID).
		Updates(updates).Error; err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"affiliate_id": affiliate.ID,
		"deposit_id":   deposit.ID,
		"revshare":     revshare,
		"cpa":          cpa,
	}).Info("affiliate commission credited")

	if affiliate.ManagerID != nil {
		if err := creditManagerOnDeposit(tx, *affiliate.ManagerID, deposit, firstDeposit); err != nil {
			return err
		}
	}
	return nil
}

// recordFirstDeposit inserts the FTD marker for the user if none exists yet.
// The unique index on user_id makes this race-safe; a duplicate insert means
// another deposit already claimed the first slot.
func recordFirstDeposit(tx *gorm.DB, userID uint, deposit *models.Deposit) (bool, error) {
	var count int64
	if err := tx.Model(&models.FTD{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	ftd := models.FTD{
		UserID:    userID,
		DepositID: deposit.ID,
		Amount:    deposit.Amount,
	}
	if err := tx.Create(&ftd).Error; err != nil {
		return false, err
	}
	return true, nil
}

// creditManagerOnDeposit mirrors the commission to the affiliate's manager:
// revshare at the manager's own rate on every deposit, a CPA pool payout on
// the referred user's first one.
func creditManagerOnDeposit(tx *gorm.DB, managerID uint, deposit *models.Deposit, firstDeposit bool) error {
	var manager models.Manager
	err := tx.Where("id = ? AND is_active = ?", managerID, true).First(&manager).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	revshare := revshareOf(deposit.Amount, manager.RevsharePercentage)
	cpa := 0.0
	if firstDeposit {
		cpa = manager.CPAPool
	}

	if err := creditCommission(tx, manager.UserID, revshare+cpa); err != nil {
		return err
	}

	return tx.Model(&models.Manager{}).Where("id = ?", manager.ID).Updates(map[string]any{
		"total_revshare_earned": gorm.Expr("total_revshare_earned + ?", revshare),
		"total_cpa_earned":      gorm.Expr("total_cpa_earned + ?", cpa),
		"total_earnings":        gorm.Expr("total_earnings + ?", revshare+cpa),
	}).Error
}

func creditCommission(tx *gorm.DB, userID uint, amount float64) error {
	if amount <= 0 {
		return nil
	}
	_, err := ledger.Apply(tx, userID, ledger.Delta{Amount: amount})
	return err
}
