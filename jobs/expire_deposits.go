// Package jobs holds the background schedulers.
package jobs

import (
	"time"

	"luxbet/config"
	"luxbet/database"
	"luxbet/services"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StartDepositExpiry cancels unpaid PIX charges every five minutes once
// they outlive the configured TTL.
func StartDepositExpiry() *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc("*/5 * * * *", func() {
		ttl := time.Duration(config.C.DepositTTLMinutes) * time.Minute
		n, err := services.ExpirePendingDeposits(database.DB, ttl)
		if err != nil {
			logrus.WithError(err).Error("deposit expiry sweep failed")
			return
		}
		if n > 0 {
			logrus.WithField("expired", n).Info("stale deposits cancelled")
		}
	})
	if err != nil {
		logrus.WithError(err).Fatal("failed to schedule deposit expiry")
	}

	c.Start()
	return c
}
