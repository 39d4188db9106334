package goldapi

import (
	"luxbet/database"
	"luxbet/helpers"
	"luxbet/models"

	"github.com/gofiber/fiber/v2"
)

func userBalance(c *fiber.Ctx, req *callbackRequest) error {
	if req.UserCode == "" {
		return helpers.GoldError(c, "INVALID_PARAMETER")
	}

	var user models.User
	err := database.DB.Where("username = ? AND is_active = ?", req.UserCode, true).
		First(&user).Error
	if err != nil {
		return helpers.GoldError(c, "INVALID_USER")
	}
	return helpers.GoldSuccess(c, user.Balance)
}
