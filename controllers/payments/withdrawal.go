package payments

import (
	"encoding/json"
	"errors"
	"fmt"

	"luxbet/config"
	"luxbet/database"
	"luxbet/gateways"
	"luxbet/helpers"
	"luxbet/ledger"
	"luxbet/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var pixKeyTypes = map[string]bool{
	"document":    true,
	"phoneNumber": true,
	"email":       true,
	"randomKey":   true,
	"paymentCode": true,
}

type withdrawalRequest struct {
	Amount     float64 `json:"amount"`
	PixKey     string  `json:"pix_key"`
	PixKeyType string  `json:"pix_key_type"`
}

// CreateWithdrawal pays out PIX to the player's key. Bonus money never
// leaves: only the withdrawable part of the balance is eligible. The debit
// is reserved as soon as the gateway accepts the transfer; a later failure
// webhook refunds it.
func CreateWithdrawal(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var req withdrawalRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.Amount < config.C.MinWithdrawal {
		return helpers.JSONError(c, fmt.Sprintf("MIN_WITHDRAWAL_%.2f", config.C.MinWithdrawal))
	}
	if req.PixKey == "" || !pixKeyTypes[req.PixKeyType] {
		return helpers.JSONError(c, "INVALID_PIX_KEY")
	}
	if req.Amount > user.WithdrawableBalance() {
		return helpers.JSONError(c, "INSUFFICIENT_WITHDRAWABLE_BALANCE")
	}

	gw, client, err := activeGateway()
	if err != nil {
		logrus.WithError(err).Error("no usable payment gateway")
		return helpers.JSONErrorStatus(c, fiber.StatusServiceUnavailable, "GATEWAY_UNAVAILABLE")
	}

	provider := gateways.Detect(gw.Name)
	requestID := uuid.NewString()
	transfer, err := client.TransferPix(gateways.TransferRequest{
		Amount:      req.Amount,
		PixKey:      req.PixKey,
		PixKeyType:  req.PixKeyType,
		Document:    user.CPF,
		HolderName:  user.Username,
		ExternalID:  requestID,
		CallbackURL: config.C.WebhookBaseURL + "/api/webhooks/" + provider + "/cashout",
	})
	if err != nil {
		var gerr *gateways.Error
		if errors.As(err, &gerr) {
			logrus.WithFields(logrus.Fields{
				"gateway": gw.Name,
				"code":    gerr.Code,
			}).Warn("pix transfer rejected")
			return helpers.JSONError(c, gerr.Code)
		}
		logrus.WithError(err).WithField("gateway", gw.Name).Error("pix transfer failed")
		return helpers.JSONErrorStatus(c, fiber.StatusBadGateway, "GATEWAY_ERROR")
	}

	externalID := transfer.ExternalID
	if externalID == "" {
		externalID = requestID
	}

	meta, _ := json.Marshal(transfer.Raw)
	var withdrawal models.Withdrawal
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := ledger.Apply(tx, user.ID, ledger.Delta{
			Amount:              -req.Amount,
			RequireWithdrawable: true,
		}); err != nil {
			return err
		}
		withdrawal = models.Withdrawal{
			UserID:        user.ID,
			GatewayID:     gw.ID,
			Amount:        helpers.FormatFloat(req.Amount, 2),
			Status:        models.StatusPending,
			TransactionID: requestID,
			ExternalID:    externalID,
			PixKey:        req.PixKey,
			PixKeyType:    req.PixKeyType,
			Metadata:      datatypes.JSON(meta),
		}
		return tx.Create(&withdrawal).Error
	})
	if err != nil {
		// The gateway already accepted the transfer. Reconciliation has to
		// resolve this by hand, so make it loud.
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id":     user.ID,
			"external_id": externalID,
			"amount":      req.Amount,
		}).Error("withdrawal accepted by gateway but reservation failed")
		if errors.Is(err, ledger.ErrInsufficientFunds) {
			return helpers.JSONError(c, "INSUFFICIENT_WITHDRAWABLE_BALANCE")
		}
		return helpers.JSONErrorStatus(c, fiber.StatusInternalServerError, "INTERNAL_ERROR")
	}

	return helpers.JSONSuccess(c, "WITHDRAWAL_CREATED", fiber.Map{
		"withdrawal_id": withdrawal.ID,
		"amount":        withdrawal.Amount,
		"status":        withdrawal.Status,
	})
}
