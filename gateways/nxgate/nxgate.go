// Package nxgate integrates the NXGATE PIX gateway. NXGATE authenticates by
// api_key carried in the request body and reports webhooks in two formats, a
// flat one and an enveloped one; both normalize to the same event shape.
package nxgate

import (
	"bytes"
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

const baseURL = "https://api.nxgate.com.br"

type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func New(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (n *Client) post(endpoint string, payload map[string]any) (map[string]any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal nxgate payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, n.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("accept", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nxgate %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("nxgate %s: read body: %w", endpoint, err)
	}

	// An HTML body means the request never reached the API (blocked IP,
	// wrong route); treat it as a communication failure, not a rejection.
	if ct := resp.Header.Get("Content-Type"); strings.HasPrefix(ct, "text/html") {
		logrus.WithField("endpoint", endpoint).Warn("nxgate returned HTML instead of JSON")
		return nil, fmt.Errorf("nxgate %s: non-JSON response", endpoint)
	}

	var result map[string]any
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("nxgate %s: decode body: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("nxgate %s: status %s", endpoint, resp.Status)
	}
	return result, nil
}

func (n *Client) CreatePixCharge(req gateways.ChargeRequest) (*gateways.Charge, error) {
	payload := map[string]any{
		"nome_pagador":      req.PayerName,
		"documento_pagador": req.PayerDocument,
		"valor":             req.Amount,
		"api_key":           n.apiKey,
	}
	if req.CallbackURL != "" {
		payload["webhook"] = req.CallbackURL
	}

	result, err := n.post("/pix/gerar", payload)
	if err != nil {
		return nil, err
	}

	pixCode := str(result["pix_copy_and_paste"])
	if pixCode == "" {
		pixCode = str(result["qr_code"])
	}

	charge := &gateways.Charge{
		ExternalID:   str(result["idTransaction"]),
		PixCode:      pixCode,
		QRCodeBase64: str(result["base_64_image"]),
		Raw:          result,
	}
	if charge.ExternalID == "" {
		return nil, fmt.Errorf("nxgate pix/gerar: no idTransaction in response")
	}
	return charge, nil
}

var keyTypes = map[string]string{
	"document":    "CPF",
	"phoneNumber": "PHONE",
	"email":       "EMAIL",
	"randomKey":   "RANDOM",
}

func (n *Client) TransferPix(req gateways.TransferRequest) (*gateways.Transfer, error) {
	tipoChave, ok := keyTypes[req.PixKeyType]
	if !ok {
		tipoChave = "CPF"
	}

	payload := map[string]any{
		"api_key":    n.apiKey,
		"valor":      fmt.Sprintf("%.2f", req.Amount),
		"chave_pix":  req.PixKey,
		"tipo_chave": tipoChave,
		"documento":  req.Document,
	}
	if req.CallbackURL != "" {
		payload["webhook"] = req.CallbackURL
	}

	result, err := n.post("/pix/sacar", payload)
	if err != nil {
		return nil, err
	}

	status := strings.ToLower(str(result["status"]))
	if status == "error" {
		msg := str(result["message"])
		if msg == "" {
			msg = "unknown nxgate error"
		}
		return nil, &gateways.Error{Code: "NXGATE_ERROR", Message: msg}
	}

	// NXGATE reports the cash-out id as internalreference; some responses
	// carry idTransaction instead.
	externalID := str(result["internalreference"])
	if externalID == "" {
		externalID = str(result["idTransaction"])
	}
	if externalID == "" {
		return nil, fmt.Errorf("nxgate pix/sacar: no transaction id in response")
	}

	return &gateways.Transfer{ExternalID: externalID, Raw: result}, nil
}

// ParseCashin normalizes a deposit webhook. Two formats exist:
// flat {"status":"paid","idTransaction":...} and enveloped
// {"type":"QR_CODE_COPY_AND_PASTE_PAID","data":{"tx_id":...,"status":...}}.
func ParseCashin(data map[string]any) gateways.WebhookEvent {
	event := gateways.WebhookEvent{Status: gateways.WebhookUnknown}

	if inner, ok := data["data"].(map[string]any); ok && data["type"] != nil {
		event.ExternalID = str(inner["tx_id"])
		if event.ExternalID == "" {
			event.ExternalID = str(inner["qr_code_id"])
		}
		event.Amount = amount(inner["amount"])
		if strings.EqualFold(str(inner["status"]), "paid") {
			event.Status = gateways.WebhookPaid
		}
		return event
	}

	event.ExternalID = str(data["idTransaction"])
	event.Amount = amount(data["amount"])
	if strings.EqualFold(str(data["status"]), "paid") {
		event.Status = gateways.WebhookPaid
	}
	return event
}

// ParseCashout normalizes a withdrawal webhook
// ({"type":"PIX_CASHOUT_SUCCESS"|"PIX_CASHOUT_ERROR","idTransaction":...,
// "internalreference":...,"status":"SUCCESS"|"ERROR"}).
func ParseCashout(data map[string]any) gateways.WebhookEvent {
	event := gateways.WebhookEvent{
		ExternalID: str(data["idTransaction"]),
		AltID:      str(data["internalreference"]),
		Amount:     amount(data["amount"]),
		Status:     gateways.WebhookUnknown,
	}

	typ := strings.ToUpper(str(data["type"]))
	status := strings.ToUpper(str(data["status"]))

	switch {
	case typ == "PIX_CASHOUT_SUCCESS" || status == "SUCCESS":
		event.Status = gateways.WebhookConfirmed
	case typ == "PIX_CASHOUT_ERROR" || status == "ERROR":
		event.Status = gateways.WebhookFailed
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
	}
	return 0
}

func init() {
	gateways.Register("nxgate", func(creds map[string]string) (gateways.PixClient, error) {
		apiKey := creds["api_key"]
		if apiKey == "" {
			return nil, fmt.Errorf("nxgate api_key not configured")
		}
		return New(apiKey), nil
	})
}
