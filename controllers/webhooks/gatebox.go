package webhooks

import (
	"luxbet/gateways/gatebox"

	"github.com/gofiber/fiber/v2"
)

func GateboxCashin(c *fiber.Ctx) error {
	data, err := parseBody(c)
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}
	return settleCashin(c, "gatebox", gatebox.ParseCashin(data))
}

func GateboxCashout(c *fiber.Ctx) error {
	data, err := parseBody(c)
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}
	return settleCashout(c, "gatebox", gatebox.ParseCashout(data))
}
