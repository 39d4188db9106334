// Package auth implements player registration and login.
package auth

import (
	"errors"
	"time"

	"luxbet/config"
	"luxbet/database"
	"luxbet/helpers"
	"luxbet/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type registerRequest struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	CPF          string `json:"cpf"`
	ReferralCode string `json:"referral_code"`
}

func Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.Username == "" || req.Password == "" {
		return helpers.JSONError(c, "USERNAME_AND_PASSWORD_REQUIRED")
	}
	if len(req.Password) < 6 {
		return helpers.JSONError(c, "PASSWORD_TOO_SHORT")
	}

	var existing models.User
	if err := database.DB.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		return helpers.JSONError(c, "USERNAME_TAKEN")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return helpers.JSONErrorStatus(c, fiber.StatusInternalServerError, "INTERNAL_ERROR")
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		CPF:          helpers.CleanCPF(req.CPF),
		IsActive:     models.Bool(true),
	}

	if req.ReferralCode != "" {
		var affiliate models.Affiliate
		err := database.DB.Where("affiliate_code = ? AND is_active = ?", req.ReferralCode, true).
			First(&affiliate).Error
		if err == nil {
			user.ReferredByAffiliateID = &affiliate.ID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.JSONErrorStatus(c, fiber.StatusInternalServerError, "INTERNAL_ERROR")
		}
	}

	if err := database.DB.Create(&user).Error; err != nil {
		logrus.WithError(err).Error("user create failed")
		return helpers.JSONErrorStatus(c, fiber.StatusInternalServerError, "INTERNAL_ERROR")
	}

	return helpers.JSONSuccess(c, "REGISTERED", fiber.Map{
		"id":       user.ID,
		"username": user.Username,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	var user models.User
	err := database.DB.Where("username = ? AND is_active = ?", req.Username, true).
		First(&user).Error
	if err != nil {
		return helpers.JSONErrorStatus(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return helpers.JSONErrorStatus(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS")
	}

	token, err := issueToken(user.ID)
	if err != nil {
		return helpers.JSONErrorStatus(c, fiber.StatusInternalServerError, "INTERNAL_ERROR")
	}

	return helpers.JSONSuccess(c, "OK", fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"balance":  user.Balance,
		},
	})
}

func issueToken(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"sub": float64(userID),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.C.JWTSecret))
}

// Me returns the authenticated user's profile and balances.
func Me(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	return helpers.JSONSuccess(c, "OK", fiber.Map{
		"id":           user.ID,
		"username":     user.Username,
		"email":        user.Email,
		"balance":      user.Balance,
		"bonus":        user.BonusBalance,
		"withdrawable": helpers.FormatFloat(user.WithdrawableBalance(), 2),
	})
}
