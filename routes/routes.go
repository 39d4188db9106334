package routes

import (
	"luxbet/controllers/affiliates"
	"luxbet/controllers/auth"
	"luxbet/controllers/callback/goldapi"
	"luxbet/controllers/games"
	"luxbet/controllers/notifications"
	"luxbet/controllers/payments"
	"luxbet/controllers/webhooks"
	"luxbet/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Setup(app *fiber.App) {
	api := app.Group("/api")

	api.Post("/auth/register", auth.Register)
	api.Post("/auth/login", auth.Login)
	api.Get("/auth/me", middlewares.UserAuth, auth.Me)

	// player wallet
	pay := api.Group("/payments", middlewares.UserAuth)
	pay.Post("/deposit/pix", payments.CreateDeposit)
	pay.Post("/withdrawal/pix", payments.CreateWithdrawal)
	pay.Get("/history", payments.History)
	pay.Get("/bets", payments.BetHistory)

	// games
	game := api.Group("/games")
	game.Get("/list", games.List)
	game.Get("/providers", games.Providers)
	game.Post("/launch", middlewares.UserAuth, games.Launch)

	// referral program
	aff := api.Group("/affiliate", middlewares.UserAuth)
	aff.Post("/join", affiliates.Join)
	aff.Get("/stats", affiliates.Stats)

	// inbox
	inbox := api.Group("/notifications", middlewares.UserAuth)
	inbox.Get("/", notifications.List)
	inbox.Post("/:id/read", notifications.MarkRead)

	// seamless wallet callback
	app.Post("/seamless/slot/gold_api", goldapi.Handle)

	// payment gateway callbacks
	hooks := api.Group("/webhooks")
	hooks.Post("/suitpay/cashin", webhooks.SuitpayCashin)
	hooks.Post("/suitpay/cashout", webhooks.SuitpayCashout)
	hooks.Post("/nxgate/cashin", webhooks.NxgateCashin)
	hooks.Post("/nxgate/cashout", webhooks.NxgateCashout)
	hooks.Post("/gatebox/cashin", webhooks.GateboxCashin)
	hooks.Post("/gatebox/cashout", webhooks.GateboxCashout)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
