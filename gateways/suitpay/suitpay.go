// Package suitpay integrates the SuitPay PIX gateway: cash-in QR codes,
// cash-out transfers and the keyed-hash webhook authenticity check.
package suitpay

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"luxbet/gateways"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	sandboxURL    = "https://sandbox.ws.suitpay.app"
	productionURL = "https://ws.suitpay.app"
)

type Client struct {
	clientID     string
	clientSecret string
	baseURL      string
	http         *http.Client
}

func New(clientID, clientSecret string, sandbox bool) *Client {
	base := productionURL
	if sandbox {
		base = sandboxURL
	}
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      base,
		http:         &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *Client) post(endpoint string, payload map[string]any) (map[string]any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal suitpay payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("ci", s.clientID)
	req.Header.Set("cs", s.clientSecret)

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("suitpay %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("suitpay %s: read body: %w", endpoint, err)
	}

	logrus.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"status":   resp.StatusCode,
	}).Debug("suitpay response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("suitpay %s: status %s", endpoint, resp.Status)
	}

	var result map[string]any
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("suitpay %s: decode body: %w", endpoint, err)
	}
	return result, nil
}

func (s *Client) CreatePixCharge(req gateways.ChargeRequest) (*gateways.Charge, error) {
	payload := map[string]any{
		"value":         req.Amount,
		"payerName":     req.PayerName,
		"payerTaxId":    req.PayerDocument,
		"requestNumber": req.RequestNumber,
	}
	if req.CallbackURL != "" {
		payload["urlCallback"] = req.CallbackURL
	}

	result, err := s.post("/api/v1/gateway/pix/create", payload)
	if err != nil {
		return nil, err
	}

	charge := &gateways.Charge{
		ExternalID:   str(result["idTransaction"]),
		PixCode:      str(result["paymentCode"]),
		QRCodeBase64: str(result["paymentCodeBase64"]),
		Raw:          result,
	}
	if charge.ExternalID == "" {
		return nil, fmt.Errorf("suitpay pix/create: no idTransaction in response")
	}
	return charge, nil
}

var transferErrors = map[string]string{
	"ACCOUNT_DOCUMENTS_NOT_VALIDATED": "gateway account not validated",
	"NO_FUNDS":                        "insufficient funds at the gateway",
	"PIX_KEY_NOT_FOUND":               "pix key not found",
	"UNAUTHORIZED_IP":                 "server IP not authorized at the gateway",
	"DOCUMENT_VALIDATE":               "pix key does not belong to the given document",
	"DUPLICATE_EXTERNAL_ID":           "external id already used",
	"ERROR":                           "internal gateway error",
}

func (s *Client) TransferPix(req gateways.TransferRequest) (*gateways.Transfer, error) {
	payload := map[string]any{
		"key":     req.PixKey,
		"typeKey": req.PixKeyType,
		"value":   req.Amount,
	}
	if req.CallbackURL != "" {
		payload["callbackUrl"] = req.CallbackURL
	}
	if req.Document != "" {
		payload["documentValidation"] = req.Document
	}
	if req.ExternalID != "" {
		payload["externalId"] = req.ExternalID
	}

	result, err := s.post("/api/v1/gateway/pix/transfer", payload)
	if err != nil {
		return nil, err
	}

	if code := strings.ToUpper(str(result["response"])); code != "OK" {
		msg, ok := transferErrors[code]
		if !ok {
			msg = "unexpected gateway response"
		}
		return nil, &gateways.Error{Code: code, Message: msg}
	}

	transfer := &gateways.Transfer{
		ExternalID: str(result["idTransaction"]),
		Raw:        result,
	}
	if transfer.ExternalID == "" {
		return nil, fmt.Errorf("suitpay pix/transfer: no idTransaction in response")
	}
	return transfer, nil
}

// ValidateWebhookHash checks the sha256 the gateway sends with every webhook:
// the payload values concatenated in their original JSON order, with the
// client secret appended, hashed and compared case-insensitively.
func ValidateWebhookHash(body []byte, clientSecret string) bool {
	values, received, err := orderedValues(body)
	if err != nil || received == "" {
		return false
	}

	sum := sha256.Sum256([]byte(strings.Join(values, "") + clientSecret))
	calculated := hex.EncodeToString(sum[:])
	return calculated == strings.ToLower(received)
}

// orderedValues walks the top-level JSON object preserving key order and
// stringifies every non-null value except "hash", which it returns
// separately.
func orderedValues(body []byte) (values []string, hash string, err error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, "", err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, "", fmt.Errorf("webhook body is not a JSON object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, "", err
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, "", err
		}

		val, skip := stringify(raw)
		if key == "hash" {
			hash = val
			continue
		}
		if !skip {
			values = append(values, val)
		}
	}
	return values, hash, nil
}

func stringify(raw json.RawMessage) (val string, skip bool) {
	text := strings.TrimSpace(string(raw))
	switch {
	case text == "null":
		return "", true
	case strings.HasPrefix(text, `"`):
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", true
		}
		return s, false
	case text == "true":
		return "True", false
	case text == "false":
		return "False", false
	default:
		// numbers keep their literal representation
		return text, false
	}
}

// ParseCashin normalizes a deposit webhook.
func ParseCashin(data map[string]any) gateways.WebhookEvent {
	event := gateways.WebhookEvent{
		ExternalID: str(data["idTransaction"]),
		Amount:     amount(data["value"]),
	}
	switch str(data["statusTransaction"]) {
	case "PAID_OUT":
		event.Status = gateways.WebhookPaid
	case "CHARGEBACK":
		event.Status = gateways.WebhookChargeback
	default:
		event.Status = gateways.WebhookUnknown
	}
	return event
}

// ParseCashout normalizes a withdrawal webhook.
func ParseCashout(data map[string]any) gateways.WebhookEvent {
	event := gateways.WebhookEvent{
		ExternalID: str(data["idTransaction"]),
		Amount:     amount(data["value"]),
	}
	switch str(data["statusTransaction"]) {
	case "PAID_OUT":
		event.Status = gateways.WebhookConfirmed
	case "CANCELED":
		event.Status = gateways.WebhookFailed
	default:
		event.Status = gateways.WebhookUnknown
	}
	return event
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func amount(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		d, err := decimal.NewFromString(n)
		if err != nil {
			return 0
		}
		return d.InexactFloat64()
	case json.Number:
		f, _ := n.Float64()
		return f
	}
	return 0
}

func init() {
	gateways.Register("suitpay", func(creds map[string]string) (gateways.PixClient, error) {
		clientID := creds["client_id"]
		if clientID == "" {
			clientID = creds["ci"]
		}
		clientSecret := creds["client_secret"]
		if clientSecret == "" {
			clientSecret = creds["cs"]
		}
		if clientID == "" || clientSecret == "" {
			return nil, fmt.Errorf("suitpay credentials not configured")
		}
		sandbox := creds["sandbox"] == "true"
		return New(clientID, clientSecret, sandbox), nil
	})
}
