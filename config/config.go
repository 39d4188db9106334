package config

import (
	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime settings loaded from the environment.
type Config struct {
	Host string `envconfig:"HOST" default:"127.0.0.1"`
	Port string `envconfig:"PORT" default:"3000"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	WebhookBaseURL string `envconfig:"WEBHOOK_BASE_URL" default:"https://api.luxbet.site"`

	MinDeposit    float64 `envconfig:"MIN_DEPOSIT" default:"2.00"`
	MinWithdrawal float64 `envconfig:"MIN_WITHDRAWAL" default:"10.00"`

	// Pending PIX deposits older than this are cancelled by the expiry job.
	DepositTTLMinutes int `envconfig:"DEPOSIT_TTL_MINUTES" default:"60"`

	IGameWinURL string `envconfig:"IGAMEWIN_API_URL" default:"https://igamewin.com"`
}

var C Config

func Load() error {
	return envconfig.Process("", &C)
}
