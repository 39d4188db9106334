// Package ledger is the settlement engine. It owns every write to
// User.Balance and User.BonusBalance: callers describe the change as a Delta
// and the engine applies it under a locked read-modify-write inside the
// caller's database transaction, so the balance mutation commits atomically
// with whatever row (Deposit, Withdrawal, Bet) guards its idempotency.
package ledger

import (
	"errors"
	"fmt"

	"luxbet/database"
	"luxbet/helpers"
	"luxbet/models"

	"gorm.io/gorm"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUserNotFound      = errors.New("user not found")
)

const eps = 1e-6

// Delta is a signed balance change.
type Delta struct {
	// Amount is added to Balance. Negative amounts are debits and fail with
	// ErrInsufficientFunds when they would drive Balance below zero.
	Amount float64

	// Bonus is added to BonusBalance. Promotional credits set it together
	// with a matching Amount; it is never applied alone.
	Bonus float64

	// RequireWithdrawable restricts a debit to Balance - BonusBalance.
	// Withdrawal reservations set it; game debits do not (bonus funds are
	// playable, just not cashable).
	RequireWithdrawable bool
}

// Lock fetches the user's row FOR UPDATE so concurrent settlements for the
// same user serialize. Must run inside a transaction.
func Lock(tx *gorm.DB, userID uint) (*models.User, error) {
	var user models.User
	if err := database.LockForUpdate(tx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lock user %d: %w", userID, err)
	}
	return &user, nil
}

// LockByUsername is Lock keyed by the aggregator-facing user_code.
func LockByUsername(tx *gorm.DB, username string) (*models.User, error) {
	var user models.User
	err := database.LockForUpdate(tx).
		Where("username = ? AND is_active = true", username).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lock user %q: %w", username, err)
	}
	return &user, nil
}

// ApplyTo settles a delta against an already-locked user and persists the new
// balances. The user struct is updated in place on success.
func ApplyTo(tx *gorm.DB, user *models.User, d Delta) error {
	newBalance := helpers.FormatFloat(user.Balance+d.Amount, 2)
	if newBalance < -eps {
		return ErrInsufficientFunds
	}
	if newBalance < 0 {
		newBalance = 0
	}

	if d.RequireWithdrawable && d.Amount < 0 {
		if -d.Amount > user.WithdrawableBalance()+eps {
			return ErrInsufficientFunds
		}
	}

	newBonus := helpers.FormatFloat(user.BonusBalance+d.Bonus, 2)
	if newBonus < 0 {
		newBonus = 0
	}
	// A debit may eat into bonus funds during play; the bonus tracker can
	// never exceed what is actually left.
	if newBonus > newBalance {
		newBonus = newBalance
	}

	err := tx.Model(user).Updates(map[string]any{
		"balance":       newBalance,
		"bonus_balance": newBonus,
	}).Error
	if err != nil {
		return fmt.Errorf("update balance for user %d: %w", user.ID, err)
	}

	user.Balance = newBalance
	user.BonusBalance = newBonus
	return nil
}

// Apply locks the user and settles the delta in one step.
func Apply(tx *gorm.DB, userID uint, d Delta) (*models.User, error) {
	user, err := Lock(tx, userID)
	if err != nil {
		return nil, err
	}
	if err := ApplyTo(tx, user, d); err != nil {
		return nil, err
	}
	return user, nil
}

// Balance reads the user's balances without locking; fine for query-only
// callers like the user_balance method.
func Balance(db *gorm.DB, userID uint) (balance, bonus float64, err error) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, ErrUserNotFound
		}
		return 0, 0, err
	}
	return user.Balance, user.BonusBalance, nil
}
