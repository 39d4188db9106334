package middlewares

import (
	"strings"

	"luxbet/config"
	"luxbet/database"
	"luxbet/helpers"
	"luxbet/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// UserAuth resolves the bearer token to an active user and stores the row
// in c.Locals("user").
func UserAuth(c *fiber.Ctx) error {
	header := c.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return helpers.JSONErrorStatus(c, fiber.StatusUnauthorized, "MISSING_TOKEN")
	}

	token, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(config.C.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return helpers.JSONErrorStatus(c, fiber.StatusUnauthorized, "INVALID_TOKEN")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return helpers.JSONErrorStatus(c, fiber.StatusUnauthorized, "INVALID_TOKEN")
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return helpers.JSONErrorStatus(c, fiber.StatusUnauthorized, "INVALID_TOKEN")
	}

	var user models.User
	if err := database.DB.Where("id = ? AND is_active = ?", uint(sub), true).
		First(&user).Error; err != nil {
		return helpers.JSONErrorStatus(c, fiber.StatusUnauthorized, "USER_NOT_FOUND")
	}

	c.Locals("user", &user)
	return c.Next()
}
