// Package webhooks receives payment gateway callbacks and routes them into
// the settlement services. Unknown transactions and unknown statuses are
// acknowledged with 200 so gateways stop retrying; nothing moves for them.
package webhooks

import (
	"encoding/json"
	"errors"

	"luxbet/database"
	"luxbet/gateways"
	"luxbet/models"
	"luxbet/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func ack(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}

func settleCashin(c *fiber.Ctx, source string, event gateways.WebhookEvent) error {
	var err error
	switch event.Status {
	case gateways.WebhookPaid:
		err = withFallbackID(event, func(id string) error {
			return services.ApproveDeposit(database.DB, id, source)
		})
	case gateways.WebhookChargeback:
		err = withFallbackID(event, func(id string) error {
			return services.ChargebackDeposit(database.DB, id, source)
		})
	default:
		services.WebhooksReceived.WithLabelValues(source, "ignored").Inc()
		return ack(c)
	}

	return finish(c, source, event.ExternalID, err, services.ErrDepositNotFound)
}

func settleCashout(c *fiber.Ctx, source string, event gateways.WebhookEvent) error {
	var err error
	switch event.Status {
	case gateways.WebhookConfirmed:
		err = withFallbackID(event, func(id string) error {
			return services.ConfirmWithdrawal(database.DB, id, source)
		})
	case gateways.WebhookFailed:
		err = withFallbackID(event, func(id string) error {
			return services.FailWithdrawal(database.DB, id, source)
		})
	default:
		services.WebhooksReceived.WithLabelValues(source, "ignored").Inc()
		return ack(c)
	}

	return finish(c, source, event.ExternalID, err, services.ErrWithdrawalNotFound)
}

// withFallbackID retries the settlement under the secondary reference when
// the primary one matches no row.
func withFallbackID(event gateways.WebhookEvent, settle func(id string) error) error {
	err := settle(event.ExternalID)
	if event.AltID != "" && event.AltID != event.ExternalID &&
		(errors.Is(err, services.ErrDepositNotFound) || errors.Is(err, services.ErrWithdrawalNotFound)) {
		return settle(event.AltID)
	}
	return err
}

func finish(c *fiber.Ctx, source, externalID string, err, notFound error) error {
	switch {
	case err == nil:
		services.WebhooksReceived.WithLabelValues(source, "settled").Inc()
		return ack(c)
	case errors.Is(err, notFound):
		logrus.WithFields(logrus.Fields{
			"gateway":     source,
			"external_id": externalID,
		}).Warn("webhook for unknown transaction")
		services.WebhooksReceived.WithLabelValues(source, "unknown").Inc()
		return ack(c)
	default:
		logrus.WithError(err).WithField("gateway", source).Error("webhook settlement failed")
		services.WebhooksReceived.WithLabelValues(source, "error").Inc()
		return c.SendStatus(fiber.StatusInternalServerError)
	}
}

// gatewayCredentials loads the stored credentials of the configured gateway
// matching the given provider name.
func gatewayCredentials(provider string) (map[string]string, error) {
	var rows []models.Gateway
	if err := database.DB.Where("is_active = ?", true).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		if gateways.Detect(rows[i].Name) != provider {
			continue
		}
		creds := map[string]string{}
		if len(rows[i].Credentials) > 0 {
			if err := json.Unmarshal(rows[i].Credentials, &creds); err != nil {
				return nil, err
			}
		}
		return creds, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func parseBody(c *fiber.Ctx) (map[string]any, error) {
	var data map[string]any
	if err := json.Unmarshal(c.Body(), &data); err != nil {
		return nil, err
	}
	return data, nil
}
