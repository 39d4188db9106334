package services

import (
	"testing"
	"time"

	"luxbet/models"

	"github.com/stretchr/testify/require"
)

func TestComputeBonus(t *testing.T) {
	promo := &models.Promotion{BonusPercentage: 50, MaxBonus: 100}

	require.Equal(t, 25.0, ComputeBonus(promo, 50))
	require.Equal(t, 100.0, ComputeBonus(promo, 500)) // capped
	require.Equal(t, 0.0, ComputeBonus(nil, 50))
	require.Equal(t, 0.0, ComputeBonus(&models.Promotion{}, 50))

	// no cap configured
	uncapped := &models.Promotion{BonusPercentage: 10}
	require.Equal(t, 33.33, ComputeBonus(uncapped, 333.33))
}

func TestEligiblePromotionOrdering(t *testing.T) {
	db := testDB(t)

	require.NoError(t, db.Create(&models.Promotion{
		Title: "low", BonusPercentage: 10, Position: 1, IsActive: models.Bool(true),
	}).Error)
	require.NoError(t, db.Create(&models.Promotion{
		Title: "high", BonusPercentage: 20, Position: 5, IsActive: models.Bool(true),
	}).Error)
	require.NoError(t, db.Create(&models.Promotion{
		Title: "inactive", BonusPercentage: 90, Position: 9, IsActive: models.Bool(false),
	}).Error)

	promo, err := EligiblePromotion(db, 100, time.Now())
	require.NoError(t, err)
	require.NotNil(t, promo)
	require.Equal(t, "high", promo.Title)
}

func TestInactivePromotionStaysInactive(t *testing.T) {
	db := testDB(t)

	// The is_active column defaults to true. An explicit false must survive
	// the insert instead of being swallowed by the column default.
	require.NoError(t, db.Create(&models.Promotion{
		Title: "paused", BonusPercentage: 50, IsActive: models.Bool(false),
	}).Error)

	var stored models.Promotion
	require.NoError(t, db.Where("title = ?", "paused").First(&stored).Error)
	require.NotNil(t, stored.IsActive)
	require.False(t, *stored.IsActive)

	promo, err := EligiblePromotion(db, 100, time.Now())
	require.NoError(t, err)
	require.Nil(t, promo)
}

func TestEligiblePromotionDateWindow(t *testing.T) {
	db := testDB(t)

	past := time.Now().Add(-48 * time.Hour)
	ended := time.Now().Add(-24 * time.Hour)
	require.NoError(t, db.Create(&models.Promotion{
		Title: "expired", BonusPercentage: 10,
		StartDate: &past, EndDate: &ended, IsActive: models.Bool(true),
	}).Error)

	promo, err := EligiblePromotion(db, 100, time.Now())
	require.NoError(t, err)
	require.Nil(t, promo)
}
