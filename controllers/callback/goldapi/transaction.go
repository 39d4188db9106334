package goldapi

import (
	"errors"

	"luxbet/database"
	"luxbet/helpers"
	"luxbet/ledger"
	"luxbet/models"
	"luxbet/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// errInvalidTxnType rolls the transaction back and is translated into the
// INVALID_PARAMETER protocol msg.
var errInvalidTxnType = errors.New("invalid txn type")

// transaction settles one spin. Each txn_id is settled at most once per
// phase: a replayed payload changes nothing and answers with the current
// balance, which keeps the endpoint safe under aggregator retries.
func transaction(c *fiber.Ctx, req *callbackRequest) error {
	// slot.type is the round detail (BASE/FREE), not the game type.
	if req.GameType != "" && req.GameType != "slot" {
		services.SettlementsRejected.WithLabelValues("goldapi", "unsupported_game_type").Inc()
		return helpers.GoldError(c, "UNSUPPORTED_GAME_TYPE")
	}
	if req.Slot == nil || req.Slot.TxnID == "" {
		services.SettlementsRejected.WithLabelValues("goldapi", "invalid_parameter").Inc()
		return helpers.GoldError(c, "INVALID_PARAMETER")
	}

	bet, betErr := req.Slot.Bet.ToFloat64()
	win, winErr := req.Slot.Win.ToFloat64()
	if betErr != nil || winErr != nil || bet < 0 || win < 0 {
		services.SettlementsRejected.WithLabelValues("goldapi", "invalid_parameter").Inc()
		return helpers.GoldError(c, "INVALID_PARAMETER")
	}

	var balance float64
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		user, err := ledger.LockByUsername(tx, req.UserCode)
		if err != nil {
			return err
		}

		var existing models.Bet
		err = database.LockForUpdate(tx).
			Where("external_id = ?", req.Slot.TxnID).First(&existing).Error
		switch {
		case err == nil:
			balance, err = settleExisting(tx, user, &existing, req.Slot, win)
			return err
		case errors.Is(err, gorm.ErrRecordNotFound):
			balance, err = settleNew(tx, user, req.Slot, bet, win)
			return err
		default:
			return err
		}
	})
	if err != nil {
		return transactionError(c, err)
	}

	services.SettlementsApplied.WithLabelValues("goldapi").Inc()
	return helpers.GoldSuccess(c, balance)
}

// settleExisting handles a txn_id that was seen before. A pending row is a
// debit waiting for its result phase; anything else is a replay.
func settleExisting(tx *gorm.DB, user *models.User, bet *models.Bet, slot *slotPayload, win float64) (float64, error) {
	if bet.Status != models.BetPending {
		return user.Balance, nil
	}
	switch slot.TxnType {
	case "debit":
		// Duplicate debit for a pending round.
		return user.Balance, nil
	case "credit", "debit_credit":
		if err := ledger.ApplyTo(tx, user, ledger.Delta{Amount: win}); err != nil {
			return 0, err
		}
		wager := bet.Amount
		if slot.TxnType == "credit" {
			// The wager was settled in the debit phase.
			wager = 0
		}
		if err := tx.Model(bet).Updates(map[string]any{
			"win_amount": win,
			"status":     betOutcome(win, wager),
		}).Error; err != nil {
			return 0, err
		}
		return user.Balance, nil
	default:
		return 0, errInvalidTxnType
	}
}

// settleNew handles the first occurrence of a txn_id.
func settleNew(tx *gorm.DB, user *models.User, slot *slotPayload, bet, win float64) (float64, error) {
	row := models.Bet{
		UserID:     user.ID,
		GameID:     slot.GameCode,
		Provider:   slot.ProviderCode,
		Amount:     bet,
		ExternalID: slot.TxnID,
	}

	switch slot.TxnType {
	case "debit":
		if err := ledger.ApplyTo(tx, user, ledger.Delta{Amount: -bet}); err != nil {
			return 0, err
		}
		row.Status = models.BetPending
	case "credit":
		// Result without a recorded wager. Settle it anyway but leave a
		// trace for reconciliation.
		logrus.WithFields(logrus.Fields{
			"txn_id":  slot.TxnID,
			"user_id": user.ID,
		}).Warn("credit without matching debit")
		if err := ledger.ApplyTo(tx, user, ledger.Delta{Amount: win}); err != nil {
			return 0, err
		}
		row.Amount = 0
		row.WinAmount = win
		row.Status = betOutcome(win, 0)
		row.Note = "credit without debit"
	case "debit_credit":
		if err := ledger.ApplyTo(tx, user, ledger.Delta{Amount: -bet}); err != nil {
			return 0, err
		}
		if err := ledger.ApplyTo(tx, user, ledger.Delta{Amount: win}); err != nil {
			return 0, err
		}
		row.WinAmount = win
		row.Status = betOutcome(win, bet)
	default:
		return 0, errInvalidTxnType
	}

	if err := tx.Create(&row).Error; err != nil {
		return 0, err
	}
	return user.Balance, nil
}

// betOutcome compares the payout against the wager. A result-only credit
// has no wager in the same payload and passes bet 0, so any payout wins.
func betOutcome(win, bet float64) models.BetStatus {
	if win > bet {
		return models.BetWon
	}
	return models.BetLost
}

func transactionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ledger.ErrUserNotFound):
		services.SettlementsRejected.WithLabelValues("goldapi", "invalid_user").Inc()
		return helpers.GoldError(c, "INVALID_USER")
	case errors.Is(err, ledger.ErrInsufficientFunds):
		services.SettlementsRejected.WithLabelValues("goldapi", "insufficient_funds").Inc()
		return helpers.GoldError(c, "INSUFFICIENT_USER_FUNDS")
	case errors.Is(err, errInvalidTxnType):
		services.SettlementsRejected.WithLabelValues("goldapi", "invalid_parameter").Inc()
		return helpers.GoldError(c, "INVALID_PARAMETER")
	default:
		logrus.WithError(err).Error("slot transaction failed")
		services.SettlementsRejected.WithLabelValues("goldapi", "internal").Inc()
		return helpers.GoldError(c, "INTERNAL_ERROR")
	}
}
