package services

import (
	"path/filepath"
	"testing"
	"time"

	"luxbet/database"
	"luxbet/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string, balance float64) *models.User {
	t.Helper()
	user := &models.User{Username: username, Balance: balance, IsActive: models.Bool(true)}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createDeposit(t *testing.T, db *gorm.DB, userID uint, amount float64, externalID string) *models.Deposit {
	t.Helper()
	dep := &models.Deposit{
		UserID:     userID,
		Amount:     amount,
		Status:     models.StatusPending,
		ExternalID: externalID,
	}
	require.NoError(t, db.Create(dep).Error)
	return dep
}

func balanceOf(t *testing.T, db *gorm.DB, userID uint) (float64, float64) {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, userID).Error)
	return user.Balance, user.BonusBalance
}

func TestApproveDepositCreditsOnce(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db, "alice", 0)
	createDeposit(t, db, user.ID, 100, "tx-1")

	require.NoError(t, ApproveDeposit(db, "tx-1", "suitpay"))

	balance, _ := balanceOf(t, db, user.ID)
	require.Equal(t, 100.0, balance)

	// replayed webhook is a no-op
	require.NoError(t, ApproveDeposit(db, "tx-1", "suitpay"))
	balance, _ = balanceOf(t, db, user.ID)
	require.Equal(t, 100.0, balance)
}

func TestApproveDepositUnknown(t *testing.T) {
	db := testDB(t)
	require.ErrorIs(t, ApproveDeposit(db, "no-such-tx", "suitpay"), ErrDepositNotFound)
}

func TestApproveDepositGrantsPromotionBonus(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db, "alice", 0)
	createDeposit(t, db, user.ID, 100, "tx-1")

	require.NoError(t, db.Create(&models.Promotion{
		Title:           "100% welcome",
		BonusPercentage: 100,
		MinDeposit:      50,
		MaxBonus:        80,
		IsActive:        models.Bool(true),
	}).Error)

	require.NoError(t, ApproveDeposit(db, "tx-1", "suitpay"))

	balance, bonus := balanceOf(t, db, user.ID)
	require.Equal(t, 180.0, balance)
	require.Equal(t, 80.0, bonus)
}

func TestPromotionBelowMinDepositIgnored(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db, "alice", 0)
	createDeposit(t, db, user.ID, 20, "tx-1")

	require.NoError(t, db.Create(&models.Promotion{
		BonusPercentage: 50,
		MinDeposit:      50,
		IsActive:        models.Bool(true),
	}).Error)

	require.NoError(t, ApproveDeposit(db, "tx-1", "suitpay"))

	balance, bonus := balanceOf(t, db, user.ID)
	require.Equal(t, 20.0, balance)
	require.Equal(t, 0.0, bonus)
}

func TestAffiliateCommissions(t *testing.T) {
	db := testDB(t)
	affUser := createUser(t, db, "affiliate", 0)
	affiliate := models.Affiliate{
		UserID:             affUser.ID,
		AffiliateCode:      "AFF1",
		CPAAmount:          25,
		RevsharePercentage: 10,
		IsActive:           models.Bool(true),
	}
	require.NoError(t, db.Create(&affiliate).Error)

	player := createUser(t, db, "bob", 0)
	require.NoError(t, db.Model(player).Update("referred_by_affiliate_id", affiliate.ID).Error)

	// first deposit pays CPA and revshare
	createDeposit(t, db, player.ID, 100, "tx-1")
	require.NoError(t, ApproveDeposit(db, "tx-1", "suitpay"))

	balance, _ := balanceOf(t, db, affUser.ID)
	require.Equal(t, 35.0, balance)

	// second deposit pays revshare only
	createDeposit(t, db, player.ID, 200, "tx-2")
	require.NoError(t, ApproveDeposit(db, "tx-2", "suitpay"))

	balance, _ = balanceOf(t, db, affUser.ID)
	require.Equal(t, 55.0, balance)

	var reloaded models.Affiliate
	require.NoError(t, db.First(&reloaded, affiliate.ID).Error)
	require.Equal(t, 1, reloaded.TotalReferrals)
	require.Equal(t, 300.0, reloaded.TotalDeposits)
	require.Equal(t, 25.0, reloaded.TotalCPAEarned)
	require.Equal(t, 30.0, reloaded.TotalRevshareEarned)
	require.Equal(t, 55.0, reloaded.TotalEarnings)

	var ftdCount int64
	require.NoError(t, db.Model(&models.FTD{}).Where("user_id = ?", player.ID).Count(&ftdCount).Error)
	require.Equal(t, int64(1), ftdCount)
}

func TestManagerMirror(t *testing.T) {
	db := testDB(t)
	mgrUser := createUser(t, db, "manager", 0)
	manager := models.Manager{
		UserID:             mgrUser.ID,
		CPAPool:            5,
		RevsharePercentage: 2,
		IsActive:           models.Bool(true),
	}
	require.NoError(t, db.Create(&manager).Error)

	affUser := createUser(t, db, "affiliate", 0)
	affiliate := models.Affiliate{
		UserID:             affUser.ID,
		ManagerID:          &manager.ID,
		AffiliateCode:      "AFF1",
		CPAAmount:          25,
		RevsharePercentage: 10,
		IsActive:           models.Bool(true),
	}
	require.NoError(t, db.Create(&affiliate).Error)

	player := createUser(t, db, "bob", 0)
	require.NoError(t, db.Model(player).Update("referred_by_affiliate_id", affiliate.ID).Error)

	createDeposit(t, db, player.ID, 100, "tx-1")
	require.NoError(t, ApproveDeposit(db, "tx-1", "suitpay"))

	balance, _ := balanceOf(t, db, mgrUser.ID)
	require.Equal(t, 7.0, balance)
}

func TestChargebackReversesDeposit(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db, "alice", 0)
	createDeposit(t, db, user.ID, 100, "tx-1")
	require.NoError(t, ApproveDeposit(db, "tx-1", "suitpay"))

	require.NoError(t, ChargebackDeposit(db, "tx-1", "suitpay"))

	balance, _ := balanceOf(t, db, user.ID)
	require.Equal(t, 0.0, balance)

	// replayed chargeback changes nothing
	require.NoError(t, ChargebackDeposit(db, "tx-1", "suitpay"))
	balance, _ = balanceOf(t, db, user.ID)
	require.Equal(t, 0.0, balance)
}

func TestChargebackCappedAtBalance(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db, "alice", 0)
	createDeposit(t, db, user.ID, 100, "tx-1")
	require.NoError(t, ApproveDeposit(db, "tx-1", "suitpay"))

	// the player lost 70 in play before the chargeback landed
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("balance", 30).Error)

	require.NoError(t, ChargebackDeposit(db, "tx-1", "suitpay"))

	balance, _ := balanceOf(t, db, user.ID)
	require.Equal(t, 0.0, balance)
}

func TestConfirmWithdrawalNoBalanceChange(t *testing.T) {
	db := testDB(t)
	// balance already reduced by the reservation at creation
	user := createUser(t, db, "alice", 50)
	wd := models.Withdrawal{
		UserID:     user.ID,
		Amount:     50,
		Status:     models.StatusPending,
		ExternalID: "wd-1",
	}
	require.NoError(t, db.Create(&wd).Error)

	require.NoError(t, ConfirmWithdrawal(db, "wd-1", "suitpay"))

	balance, _ := balanceOf(t, db, user.ID)
	require.Equal(t, 50.0, balance)

	var reloaded models.Withdrawal
	require.NoError(t, db.First(&reloaded, wd.ID).Error)
	require.Equal(t, models.StatusApproved, reloaded.Status)
}

func TestFailWithdrawalRefundsOnce(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db, "alice", 0)
	wd := models.Withdrawal{
		UserID:     user.ID,
		Amount:     50,
		Status:     models.StatusPending,
		ExternalID: "wd-1",
	}
	require.NoError(t, db.Create(&wd).Error)

	require.NoError(t, FailWithdrawal(db, "wd-1", "suitpay"))

	balance, _ := balanceOf(t, db, user.ID)
	require.Equal(t, 50.0, balance)

	// replayed failure webhook must not refund again
	require.NoError(t, FailWithdrawal(db, "wd-1", "suitpay"))
	balance, _ = balanceOf(t, db, user.ID)
	require.Equal(t, 50.0, balance)

	// neither can a late confirmation flip a rejected payout
	require.NoError(t, ConfirmWithdrawal(db, "wd-1", "suitpay"))
	var reloaded models.Withdrawal
	require.NoError(t, db.First(&reloaded, wd.ID).Error)
	require.Equal(t, models.StatusRejected, reloaded.Status)
}

func TestExpirePendingDeposits(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db, "alice", 0)

	stale := createDeposit(t, db, user.ID, 10, "tx-old")
	require.NoError(t, db.Model(stale).
		Update("created_at", time.Now().Add(-2*time.Hour)).Error)
	createDeposit(t, db, user.ID, 10, "tx-new")

	n, err := ExpirePendingDeposits(db, time.Hour)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	var reloaded models.Deposit
	require.NoError(t, db.First(&reloaded, stale.ID).Error)
	require.Equal(t, models.StatusCancelled, reloaded.Status)
}
