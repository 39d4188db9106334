package services

import (
	"errors"
	"time"

	"luxbet/ledger"
	"luxbet/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// EligiblePromotion returns the best active promotion covering the deposit
// amount at the given instant, or nil when none applies. Ties are broken by
// position, then recency.
func EligiblePromotion(tx *gorm.DB, amount float64, at time.Time) (*models.Promotion, error) {
	var promo models.Promotion
	err := tx.
		Where("is_active = ?", true).
		Where("min_deposit <= ?", amount).
		Where("(start_date IS NULL OR start_date <= ?)", at).
		Where("(end_date IS NULL OR end_date >= ?)", at).
		Order("position desc, created_at desc").
		First(&promo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

// ComputeBonus calculates the bonus a promotion grants on a deposit amount,
// capped by the promotion's max_bonus when one is set.
func ComputeBonus(promo *models.Promotion, amount float64) float64 {
	if promo == nil || promo.BonusPercentage <= 0 {
		return 0
	}
	bonus := decimal.NewFromFloat(amount).
		Mul(decimal.NewFromFloat(promo.BonusPercentage)).
		Div(decimal.NewFromInt(100)).
		Round(2).InexactFloat64()
	if promo.MaxBonus > 0 && bonus > promo.MaxBonus {
		bonus = promo.MaxBonus
	}
	return bonus
}

// ApplyPromotionBonus credits the applicable promotion bonus to an already
// locked user row inside the caller's transaction. The bonus raises both the
// balance and the bonus portion, so it is playable but not withdrawable.
// Returns the amount granted, zero when no promotion matched.
func ApplyPromotionBonus(tx *gorm.DB, user *models.User, depositAmount float64) (float64, error) {
	promo, err := EligiblePromotion(tx, depositAmount, time.Now())
	if err != nil {
		return 0, err
	}
	bonus := ComputeBonus(promo, depositAmount)
	if bonus <= 0 {
		return 0, nil
	}

	if err := ledger.ApplyTo(tx, user, ledger.Delta{Amount: bonus, Bonus: bonus}); err != nil {
		return 0, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":   user.ID,
		"promotion": promo.ID,
		"bonus":     bonus,
	}).Info("promotion bonus credited")
	return bonus, nil
}
