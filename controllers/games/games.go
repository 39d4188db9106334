// Package games serves the slot catalog and game session launching.
package games

import (
	"luxbet/cache"
	"luxbet/gateways/igamewin"
	"luxbet/helpers"
	"luxbet/models"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type launchRequest struct {
	GameCode     string `json:"game_code"`
	ProviderCode string `json:"provider_code"`
	Lang         string `json:"lang"`
}

// Launch creates a game session for the player and returns the iframe URL.
// The player account is created upstream on first launch.
func Launch(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var req launchRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.GameCode == "" {
		return helpers.JSONError(c, "GAME_CODE_REQUIRED")
	}
	if req.Lang == "" {
		req.Lang = "pt"
	}

	client, err := igamewin.FromActiveAgent()
	if err != nil {
		logrus.WithError(err).Error("game agent unavailable")
		return helpers.JSONErrorStatus(c, fiber.StatusServiceUnavailable, "GAMES_UNAVAILABLE")
	}

	if err := client.CreateUser(user.Username); err != nil {
		// user_create on an existing user_code still answers status 1, so
		// a failure here is a real upstream problem.
		logrus.WithError(err).WithField("user_id", user.ID).Warn("aggregator user_create failed")
	}

	url, err := client.LaunchGame(user.Username, req.GameCode, req.ProviderCode, req.Lang)
	if err != nil {
		logrus.WithError(err).WithField("game_code", req.GameCode).Error("game launch failed")
		return helpers.JSONErrorStatus(c, fiber.StatusBadGateway, "LAUNCH_FAILED")
	}

	return helpers.JSONSuccess(c, "OK", fiber.Map{"launch_url": url})
}

// List returns the game catalog, cached to spare the aggregator.
func List(c *fiber.Ctx) error {
	provider := c.Query("provider_code")
	key := "games:" + provider

	if cached, ok := cache.Get(key); ok {
		return helpers.JSONSuccess(c, "OK", cached)
	}

	client, err := igamewin.FromActiveAgent()
	if err != nil {
		logrus.WithError(err).Error("game agent unavailable")
		return helpers.JSONErrorStatus(c, fiber.StatusServiceUnavailable, "GAMES_UNAVAILABLE")
	}

	games, err := client.Games(provider)
	if err != nil {
		logrus.WithError(err).Error("game list fetch failed")
		return helpers.JSONErrorStatus(c, fiber.StatusBadGateway, "CATALOG_UNAVAILABLE")
	}

	cache.Set(key, games)
	return helpers.JSONSuccess(c, "OK", games)
}

// Providers returns the studio list, cached like the catalog.
func Providers(c *fiber.Ctx) error {
	const key = "providers"

	if cached, ok := cache.Get(key); ok {
		return helpers.JSONSuccess(c, "OK", cached)
	}

	client, err := igamewin.FromActiveAgent()
	if err != nil {
		logrus.WithError(err).Error("game agent unavailable")
		return helpers.JSONErrorStatus(c, fiber.StatusServiceUnavailable, "GAMES_UNAVAILABLE")
	}

	providers, err := client.Providers()
	if err != nil {
		logrus.WithError(err).Error("provider list fetch failed")
		return helpers.JSONErrorStatus(c, fiber.StatusBadGateway, "CATALOG_UNAVAILABLE")
	}

	cache.Set(key, providers)
	return helpers.JSONSuccess(c, "OK", providers)
}
