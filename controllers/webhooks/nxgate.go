package webhooks

import (
	"luxbet/gateways/nxgate"

	"github.com/gofiber/fiber/v2"
)

func NxgateCashin(c *fiber.Ctx) error {
	data, err := parseBody(c)
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}
	return settleCashin(c, "nxgate", nxgate.ParseCashin(data))
}

func NxgateCashout(c *fiber.Ctx) error {
	data, err := parseBody(c)
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}
	return settleCashout(c, "nxgate", nxgate.ParseCashout(data))
}
