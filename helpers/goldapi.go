package helpers

import "github.com/gofiber/fiber/v2"

// Gold API responses are always HTTP 200; the aggregator looks only at the
// status field and retries on anything that is not a syntactically valid body.

func GoldSuccess(c *fiber.Ctx, userBalance float64) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":       1,
		"user_balance": FormatFloat(userBalance, 2),
	})
}

func GoldError(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":       0,
		"user_balance": 0,
		"msg":          msg,
	})
}
