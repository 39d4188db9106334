package gateways

import (
	"encoding/json"
	"fmt"
	"strings"

	"luxbet/models"
)

// ChargeRequest asks a gateway to create a PIX cash-in QR code.
type ChargeRequest struct {
	Amount        float64
	PayerName     string
	PayerDocument string
	PayerEmail    string
	PayerPhone    string
	RequestNumber string
	CallbackURL   string
}

// Charge is the gateway's answer to a ChargeRequest.
type Charge struct {
	ExternalID   string
	PixCode      string
	QRCodeBase64 string
	Raw          map[string]any
}

// TransferRequest asks a gateway to pay out a PIX cash-out.
type TransferRequest struct {
	Amount      float64
	PixKey      string
	PixKeyType  string
	Document    string
	HolderName  string
	ExternalID  string
	CallbackURL string
}

// Transfer is the gateway's answer to a TransferRequest. A Transfer without
// an ExternalID is useless for webhook matching and callers must treat it as
// a failure.
type Transfer struct {
	ExternalID string
	Raw        map[string]any
}

// PixClient is one configured payment provider.
type PixClient interface {
	CreatePixCharge(req ChargeRequest) (*Charge, error)
	TransferPix(req TransferRequest) (*Transfer, error)
}

// Error is a classified gateway rejection (NO_FUNDS, PIX_KEY_NOT_FOUND, ...).
// Anything else that goes wrong while talking to a gateway surfaces as a
// plain wrapped error and is treated as a communication failure.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("gateway rejected request: %s (%s)", e.Message, e.Code)
}

// WebhookStatus is the canonical outcome extracted from a gateway callback.
type WebhookStatus string

const (
	WebhookPaid       WebhookStatus = "PAID"
	WebhookChargeback WebhookStatus = "CHARGEBACK"
	WebhookConfirmed  WebhookStatus = "CONFIRMED"
	WebhookFailed     WebhookStatus = "FAILED"
	WebhookUnknown    WebhookStatus = "UNKNOWN"
)

// WebhookEvent is the one shape the settlement services consume; each gateway
// package normalizes its own payload field names and casings into it.
type WebhookEvent struct {
	ExternalID string
	// AltID is a secondary transaction reference some gateways send
	// (NXGATE's internalreference); matched when ExternalID finds nothing.
	AltID  string
	Status WebhookStatus
	Amount float64
}

type Factory func(credentials map[string]string) (PixClient, error)

var factories = map[string]Factory{}

func Register(name string, f Factory) {
	factories[strings.ToLower(name)] = f
}

// Detect maps a configured gateway display name onto a registered provider.
func Detect(name string) string {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "nxgate") || strings.Contains(n, "nx"):
		return "nxgate"
	case strings.Contains(n, "suitpay") || strings.Contains(n, "suit"):
		return "suitpay"
	case strings.Contains(n, "gatebox"):
		return "gatebox"
	}
	return ""
}

// ClientFor builds a PixClient from a configured gateway row.
func ClientFor(gw *models.Gateway) (PixClient, error) {
	name := Detect(gw.Name)
	if name == "" {
		return nil, fmt.Errorf("unsupported gateway %q", gw.Name)
	}

	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("gateway %q is not registered", name)
	}

	creds := map[string]string{}
	if len(gw.Credentials) > 0 {
		if err := json.Unmarshal(gw.Credentials, &creds); err != nil {
			return nil, fmt.Errorf("invalid credentials for gateway %q: %w", gw.Name, err)
		}
	}

	return factory(creds)
}
