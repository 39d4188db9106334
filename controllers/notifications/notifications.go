// Package notifications serves the player inbox.
package notifications

import (
	"luxbet/database"
	"luxbet/helpers"
	"luxbet/models"

	"github.com/gofiber/fiber/v2"
)

func List(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var rows []models.Notification
	err := database.DB.
		Where("user_id = ? AND is_active = ?", user.ID, true).
		Order("created_at desc").
		Limit(100).
		Find(&rows).Error
	if err != nil {
		return helpers.JSONErrorStatus(c, fiber.StatusInternalServerError, "INTERNAL_ERROR")
	}
	return helpers.JSONSuccess(c, "OK", rows)
}

func MarkRead(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	id, err := c.ParamsInt("id")
	if err != nil {
		return helpers.JSONError(c, "INVALID_ID")
	}

	res := database.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, user.ID).
		Update("is_read", true)
	if res.Error != nil {
		return helpers.JSONErrorStatus(c, fiber.StatusInternalServerError, "INTERNAL_ERROR")
	}
	if res.RowsAffected == 0 {
		return helpers.JSONErrorStatus(c, fiber.StatusNotFound, "NOT_FOUND")
	}
	return helpers.JSONSuccess(c, "OK", nil)
}
