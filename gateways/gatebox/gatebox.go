// Package gatebox integrates the Gatebox PIX gateway. Gatebox requires a
// sign-in call first; the bearer token is cached per client and wrapped
// responses arrive as {"statusCode":200,"data":{...}}.
package gatebox

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"luxbet/gateways"

	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://api.gatebox.com.br"

type Client struct {
	username string
	password string
	baseURL  string
	http     *http.Client

	mu    sync.Mutex
	token string
}

func New(username, password, apiURL string) *Client {
	if apiURL == "" {
		apiURL = defaultBaseURL
	}
	return &Client{
		username: username,
		password: password,
		baseURL:  strings.TrimRight(apiURL, "/"),
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

func (g *Client) signIn() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.token != "" {
		return g.token, nil
	}

	body, _ := json.Marshal(map[string]string{
		"username": g.username,
		"password": g.password,
	})
	resp, err := g.http.Post(g.baseURL+"/v1/customers/auth/sign-in", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gatebox sign-in: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("gatebox sign-in: read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("gatebox sign-in: status %s", resp.Status)
	}

	var parsed map[string]any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("gatebox sign-in: decode body: %w", err)
	}
	data := unwrap(parsed)

	token := str(data["access_token"])
	if token == "" {
		token = str(data["token"])
	}
	if token == "" {
		// the token sometimes arrives under stackAuth as a bare JWT string
		if stack, ok := data["stackAuth"].(string); ok {
			token = strings.TrimSpace(stack)
		}
	}
	if token == "" {
		return "", fmt.Errorf("gatebox sign-in: no token in response")
	}

	g.token = token
	return token, nil
}

func (g *Client) post(endpoint string, payload map[string]any) (map[string]any, error) {
	token, err := g.signIn()
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal gatebox payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, g.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gatebox %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gatebox %s: read body: %w", endpoint, err)
	}

	if resp.StatusCode == http.StatusUnprocessableEntity {
		var parsed map[string]any
		msg := "invalid request data"
		if json.Unmarshal(raw, &parsed) == nil {
			if m := str(parsed["message"]); m != "" {
				msg = m
			}
		}
		return nil, &gateways.Error{Code: "VALIDATION", Message: msg}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("gatebox %s: status %s", endpoint, resp.Status)
	}

	var parsed map[string]any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("gatebox %s: decode body: %w", endpoint, err)
	}
	return unwrap(parsed), nil
}

func (g *Client) CreatePixCharge(req gateways.ChargeRequest) (*gateways.Charge, error) {
	payload := map[string]any{
		"externalId": req.RequestNumber,
		"amount":     req.Amount,
		"document":   req.PayerDocument,
		"name":       req.PayerName,
		"expire":     3600,
	}
	if req.PayerEmail != "" {
		payload["email"] = req.PayerEmail
	}
	if req.PayerPhone != "" {
		payload["phone"] = req.PayerPhone
	}

	result, err := g.post("/v1/customers/pix/create-immediate-qrcode", payload)
	if err != nil {
		return nil, err
	}

	externalID := str(result["uuid"])
	if externalID == "" {
		externalID = str(result["transactionId"])
	}
	if externalID == "" {
		return nil, fmt.Errorf("gatebox create-qrcode: no transaction id in response")
	}

	return &gateways.Charge{
		ExternalID:   externalID,
		PixCode:      str(result["key"]),
		QRCodeBase64: str(result["base64"]),
		Raw:          result,
	}, nil
}

func (g *Client) TransferPix(req gateways.TransferRequest) (*gateways.Transfer, error) {
	payload := map[string]any{
		"externalId": req.ExternalID,
		"key":        req.PixKey,
		"name":       req.HolderName,
		"amount":     req.Amount,
	}
	if req.Document != "" {
		payload["documentNumber"] = req.Document
	}

	result, err := g.post("/v1/customers/pix/withdraw", payload)
	if err != nil {
		return nil, err
	}

	externalID := str(result["uuid"])
	if externalID == "" {
		externalID = str(result["transactionId"])
	}
	if externalID == "" {
		externalID = req.ExternalID
	}
	if externalID == "" {
		return nil, fmt.Errorf("gatebox withdraw: no transaction id in response")
	}

	return &gateways.Transfer{ExternalID: externalID, Raw: result}, nil
}

// ParseCashin normalizes a deposit webhook. Gatebox mirrors its pix/status
// shape: {"transactionId"|"uuid"|"externalId":...,"status":"COMPLETED"|...}.
func ParseCashin(data map[string]any) gateways.WebhookEvent {
	data = unwrap(data)
	event := gateways.WebhookEvent{
		ExternalID: firstOf(data, "transactionId", "uuid"),
		AltID:      str(data["externalId"]),
		Amount:     amount(data["amount"]),
		Status:     gateways.WebhookUnknown,
	}
	switch strings.ToUpper(str(data["status"])) {
	case "COMPLETED", "PAID", "APPROVED":
		event.Status = gateways.WebhookPaid
	case "REFUNDED", "CHARGEBACK":
		event.Status = gateways.WebhookChargeback
	}
	return event
}

// ParseCashout normalizes a withdrawal webhook.
func ParseCashout(data map[string]any) gateways.WebhookEvent {
	data = unwrap(data)
	event := gateways.WebhookEvent{
		ExternalID: firstOf(data, "transactionId", "uuid"),
		AltID:      str(data["externalId"]),
		Amount:     amount(data["amount"]),
		Status:     gateways.WebhookUnknown,
	}
	switch strings.ToUpper(str(data["status"])) {
	case "COMPLETED", "PAID", "APPROVED", "SUCCESS":
		event.Status = gateways.WebhookConfirmed
	case "FAILED", "ERROR", "CANCELLED", "CANCELED", "REJECTED":
		event.Status = gateways.WebhookFailed
	}
	return event
}

func unwrap(body map[string]any) map[string]any {
	if data, ok := body["data"].(map[string]any); ok {
		return data
	}
	return body
}

func firstOf(data map[string]any, keys ...string) string {
	for _, k := range keys {
		if v := str(data[k]); v != "" {
			return v
		}
	}
	return ""
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
	}
	return 0
}

func init() {
	gateways.Register("gatebox", func(creds map[string]string) (gateways.PixClient, error) {
		username := creds["username"]
		password := creds["password"]
		if username == "" || password == "" {
			return nil, fmt.Errorf("gatebox credentials not configured")
		}
		return New(username, password, creds["api_url"]), nil
	})
}
