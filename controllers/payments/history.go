package payments

import (
	"luxbet/database"
	"luxbet/helpers"
	"luxbet/models"

	"github.com/gofiber/fiber/v2"
)

const historyPageSize = 50

// History returns the user's recent deposits and withdrawals.
func History(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	offset := c.QueryInt("offset", 0)

	var deposits []models.Deposit
	err := database.DB.Where("user_id = ?", user.ID).
		Order("created_at desc").
		Limit(historyPageSize).
		Offset(offset).
		Find(&deposits).Error
	if err != nil {
		return helpers.JSONErrorStatus(c, fiber.StatusInternalServerError, "INTERNAL_ERROR")
	}

	var withdrawals []models.Withdrawal
	err = database.DB.Where("user_id = ?", user.ID).
		Order("created_at desc").
		Limit(historyPageSize).
		Offset(offset).
		Find(&withdrawals).Error
	if err != nil {
		return helpers.JSONErrorStatus(c, fiber.StatusInternalServerError, "INTERNAL_ERROR")
	}

	return helpers.JSONSuccess(c, "OK", fiber.Map{
		"deposits":    deposits,
		"withdrawals": withdrawals,
	})
}

// BetHistory returns the user's recent game rounds.
func BetHistory(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var bets []models.Bet
	err := database.DB.Where("user_id = ?", user.ID).
		Order("created_at desc").
		Limit(historyPageSize).
		Offset(c.QueryInt("offset", 0)).
		Find(&bets).Error
	if err != nil {
		return helpers.JSONErrorStatus(c, fiber.StatusInternalServerError, "INTERNAL_ERROR")
	}
	return helpers.JSONSuccess(c, "OK", bets)
}
