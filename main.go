package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"luxbet/config"
	"luxbet/database"
	_ "luxbet/gateways/gatebox"
	_ "luxbet/gateways/nxgate"
	_ "luxbet/gateways/suitpay"
	"luxbet/jobs"
	"luxbet/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("no .env file found, using process environment")
	}
	if err := config.Load(); err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	database.Connect()

	app := fiber.New(fiber.Config{
		AppName: "luxbet",
	})
	routes.Setup(app)

	expiry := jobs.StartDepositExpiry()
	defer expiry.Stop()

	addr := fmt.Sprintf("%s:%s", config.C.Host, config.C.Port)
	logrus.WithField("addr", addr).Info("server starting")

	go func() {
		if err := app.Listen(addr); err != nil {
			logrus.WithError(err).Panic("server failed")
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	logrus.Info("shutting down")
	if err := app.Shutdown(); err != nil {
		logrus.WithError(err).Fatal("forced shutdown")
	}
	logrus.Info("server exited cleanly")
}
