package gatebox

import (
	"testing"

	"luxbet/gateways"

	"github.com/stretchr/testify/require"
)

func TestParseCashin(t *testing.T) {
	event := ParseCashin(map[string]any{
		"transactionId": "tx-1",
		"externalId":    "ext-1",
		"status":        "COMPLETED",
		"amount":        120.0,
	})
	require.Equal(t, gateways.WebhookPaid, event.Status)
	require.Equal(t, "tx-1", event.ExternalID)
	require.Equal(t, "ext-1", event.AltID)
	require.Equal(t, 120.0, event.Amount)
}

func TestParseCashinEnveloped(t *testing.T) {
	event := ParseCashin(map[string]any{
		"statusCode": 200.0,
		"data": map[string]any{
			"uuid":   "uuid-2",
			"status": "paid",
		},
	})
	require.Equal(t, gateways.WebhookPaid, event.Status)
	require.Equal(t, "uuid-2", event.ExternalID)
}

func TestParseCashinChargeback(t *testing.T) {
	event := ParseCashin(map[string]any{
		"transactionId": "tx-3",
		"status":        "REFUNDED",
	})
	require.Equal(t, gateways.WebhookChargeback, event.Status)
}

func TestParseCashout(t *testing.T) {
	event := ParseCashout(map[string]any{
		"uuid":   "uuid-4",
		"status": "SUCCESS",
	})
	require.Equal(t, gateways.WebhookConfirmed, event.Status)
	require.Equal(t, "uuid-4", event.ExternalID)

	event = ParseCashout(map[string]any{
		"uuid":   "uuid-5",
		"status": "FAILED",
	})
	require.Equal(t, gateways.WebhookFailed, event.Status)

	event = ParseCashout(map[string]any{
		"uuid":   "uuid-6",
		"status": "PROCESSING",
	})
	require.Equal(t, gateways.WebhookUnknown, event.Status)
}
