// Package payments exposes the player-facing PIX cash-in and cash-out
// endpoints.
package payments

import (
	"encoding/json"
	"fmt"

	"luxbet/config"
	"luxbet/database"
	"luxbet/gateways"
	"luxbet/helpers"
	"luxbet/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

type depositRequest struct {
	Amount float64 `json:"amount"`
	CPF    string  `json:"cpf"`
}

// CreateDeposit creates a PIX charge on the active gateway and records a
// PENDING deposit. The balance only moves when the paid webhook arrives.
func CreateDeposit(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var req depositRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.Amount < config.C.MinDeposit {
		return helpers.JSONError(c, fmt.Sprintf("MIN_DEPOSIT_%.2f", config.C.MinDeposit))
	}

	gw, client, err := activeGateway()
	if err != nil {
		logrus.WithError(err).Error("no usable payment gateway")
		return helpers.JSONErrorStatus(c, fiber.StatusServiceUnavailable, "GATEWAY_UNAVAILABLE")
	}

	document := helpers.CleanCPF(req.CPF)
	if document == "" {
		document = user.CPF
	}
	if document == "" {
		// Some gateways refuse charges without a payer document.
		document = helpers.GenerateFakeCPF()
	}

	provider := gateways.Detect(gw.Name)
	requestID := uuid.NewString()
	charge, err := client.CreatePixCharge(gateways.ChargeRequest{
		Amount:        req.Amount,
		PayerName:     user.Username,
		PayerDocument: document,
		PayerEmail:    user.Email,
		RequestNumber: requestID,
		CallbackURL:   config.C.WebhookBaseURL + "/api/webhooks/" + provider + "/cashin",
	})
	if err != nil {
		logrus.WithError(err).WithField("gateway", gw.Name).Error("pix charge failed")
		return helpers.JSONErrorStatus(c, fiber.StatusBadGateway, "GATEWAY_ERROR")
	}
	if charge.ExternalID == "" {
		return helpers.JSONErrorStatus(c, fiber.StatusBadGateway, "GATEWAY_ERROR")
	}

	meta, _ := json.Marshal(charge.Raw)
	deposit := models.Deposit{
		UserID:        user.ID,
		GatewayID:     gw.ID,
		Amount:        helpers.FormatFloat(req.Amount, 2),
		Status:        models.StatusPending,
		TransactionID: requestID,
		ExternalID:    charge.ExternalID,
		Metadata:      datatypes.JSON(meta),
	}
	if err := database.DB.Create(&deposit).Error; err != nil {
		logrus.WithError(err).Error("deposit create failed")
		return helpers.JSONErrorStatus(c, fiber.StatusInternalServerError, "INTERNAL_ERROR")
	}

	return helpers.JSONSuccess(c, "DEPOSIT_CREATED", fiber.Map{
		"deposit_id":     deposit.ID,
		"amount":         deposit.Amount,
		"pix_code":       charge.PixCode,
		"qr_code_base64": charge.QRCodeBase64,
	})
}

// activeGateway loads the first active gateway row and builds its client.
func activeGateway() (*models.Gateway, gateways.PixClient, error) {
	var gw models.Gateway
	if err := database.DB.Where("is_active = ?", true).Order("id asc").First(&gw).Error; err != nil {
		return nil, nil, fmt.Errorf("no active gateway: %w", err)
	}
	client, err := gateways.ClientFor(&gw)
	if err != nil {
		return nil, nil, err
	}
	return &gw, client, nil
}
