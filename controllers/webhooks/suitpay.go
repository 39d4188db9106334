package webhooks

import (
	"luxbet/gateways/suitpay"
	"luxbet/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// verifySuitpay checks the keyed hash SuitPay signs its webhooks with.
// A payload that fails the check is answered 401 and never settled.
func verifySuitpay(c *fiber.Ctx) (bool, error) {
	creds, err := gatewayCredentials("suitpay")
	if err != nil {
		return false, err
	}
	secret := creds["client_secret"]
	if secret == "" {
		secret = creds["cs"]
	}
	return suitpay.ValidateWebhookHash(c.Body(), secret), nil
}

func suitpayWebhook(c *fiber.Ctx, cashout bool) error {
	ok, err := verifySuitpay(c)
	if err != nil {
		logrus.WithError(err).Error("suitpay webhook verification unavailable")
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	if !ok {
		services.WebhooksReceived.WithLabelValues("suitpay", "bad_signature").Inc()
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	data, err := parseBody(c)
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}
	if cashout {
		return settleCashout(c, "suitpay", suitpay.ParseCashout(data))
	}
	return settleCashin(c, "suitpay", suitpay.ParseCashin(data))
}

func SuitpayCashin(c *fiber.Ctx) error  { return suitpayWebhook(c, false) }
func SuitpayCashout(c *fiber.Ctx) error { return suitpayWebhook(c, true) }
