// Package affiliates exposes the referral program endpoints.
package affiliates

import (
	"errors"
	"strings"

	"luxbet/database"
	"luxbet/helpers"
	"luxbet/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Join enrolls the authenticated user as an affiliate and hands back the
// referral code. Calling it again returns the existing enrollment.
func Join(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var existing models.Affiliate
	err := database.DB.Where("user_id = ?", user.ID).First(&existing).Error
	if err == nil {
		return helpers.JSONSuccess(c, "OK", fiber.Map{"affiliate_code": existing.AffiliateCode})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return helpers.JSONErrorStatus(c, fiber.StatusInternalServerError, "INTERNAL_ERROR")
	}

	affiliate := models.Affiliate{
		UserID:        user.ID,
		AffiliateCode: strings.ToUpper(uuid.NewString()[:8]),
		IsActive:      models.Bool(true),
	}
	if err := database.DB.Create(&affiliate).Error; err != nil {
		return helpers.JSONErrorStatus(c, fiber.StatusInternalServerError, "INTERNAL_ERROR")
	}

	return helpers.JSONSuccess(c, "AFFILIATE_CREATED", fiber.Map{"affiliate_code": affiliate.AffiliateCode})
}

// Stats reports the affiliate's referral and earnings totals.
func Stats(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var affiliate models.Affiliate
	err := database.DB.Where("user_id = ?", user.ID).First(&affiliate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helpers.JSONErrorStatus(c, fiber.StatusNotFound, "NOT_AN_AFFILIATE")
	}
	if err != nil {
		return helpers.JSONErrorStatus(c, fiber.StatusInternalServerError, "INTERNAL_ERROR")
	}

	return helpers.JSONSuccess(c, "OK", fiber.Map{
		"affiliate_code":        affiliate.AffiliateCode,
		"total_referrals":       affiliate.TotalReferrals,
		"total_deposits":        affiliate.TotalDeposits,
		"total_cpa_earned":      affiliate.TotalCPAEarned,
		"total_revshare_earned": affiliate.TotalRevshareEarned,
		"total_earnings":        affiliate.TotalEarnings,
	})
}
