// Package igamewin is the outbound client for the slot aggregator. All
// endpoints share a single POST URL and select the operation through the
// "method" field of the JSON body.
package igamewin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"luxbet/config"
	"luxbet/database"
	"luxbet/models"

	"github.com/sirupsen/logrus"
)

type Client struct {
	agentCode  string
	agentToken string
	baseURL    string
	http       *http.Client
}

// Provider is one upstream game studio exposed by the aggregator.
type Provider struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Status int    `json:"status"`
}

// Game is one launchable title in the aggregator catalog.
type Game struct {
	GameCode     string `json:"game_code"`
	GameName     string `json:"game_name"`
	ProviderCode string `json:"provider_code"`
	Banner       string `json:"banner"`
	Status       int    `json:"status"`
}

func New(agentCode, agentToken, apiURL string) *Client {
	base := strings.TrimRight(apiURL, "/")
	switch {
	case strings.HasSuffix(base, "/api/v1"):
	case strings.HasSuffix(base, "/api"):
		base += "/v1"
	default:
		base += "/api/v1"
	}
	return &Client{
		agentCode:  agentCode,
		agentToken: agentToken,
		baseURL:    base,
		http:       &http.Client{Timeout: 30 * time.Second},
	}
}

// FromActiveAgent builds a client from the active agent row. Returns an
// error when no usable agent is configured.
func FromActiveAgent() (*Client, error) {
	var agent models.GoldAgent
	err := database.DB.Where("is_active = ?", true).First(&agent).Error
	if err != nil {
		return nil, fmt.Errorf("no active game agent: %w", err)
	}
	if agent.AgentCode == "" || agent.AgentKey == "" {
		return nil, fmt.Errorf("game agent %d has empty credentials", agent.ID)
	}
	return New(agent.AgentCode, agent.AgentKey, config.C.IGameWinURL), nil
}

func (c *Client) call(method string, extra map[string]any) (map[string]any, error) {
	payload := map[string]any{
		"method":      method,
		"agent_code":  c.agentCode,
		"agent_token": c.agentToken,
	}
	for k, v := range extra {
		payload[k] = v
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", method, err)
	}

	resp, err := c.http.Post(c.baseURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("igamewin %s: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("igamewin %s: read body: %w", method, err)
	}

	logrus.WithFields(logrus.Fields{
		"method": method,
		"status": resp.StatusCode,
	}).Debug("igamewin response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("igamewin %s: status %s", method, resp.Status)
	}

	var result map[string]any
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("igamewin %s: decode body: %w", method, err)
	}

	// The aggregator answers {"status": 1, ...} on success and
	// {"status": 0, "msg": "..."} on every rejection.
	if status, ok := result["status"].(float64); ok && status != 1 {
		msg, _ := result["msg"].(string)
		return nil, fmt.Errorf("igamewin %s rejected: %s", method, msg)
	}
	return result, nil
}

// CreateUser registers the player on the aggregator side. Safe to repeat;
// the aggregator treats an existing user_code as success.
func (c *Client) CreateUser(userCode string) error {
	_, err := c.call("user_create", map[string]any{"user_code": userCode})
	return err
}

// LaunchGame returns the iframe URL for a game session.
func (c *Client) LaunchGame(userCode, gameCode, providerCode, lang string) (string, error) {
	extra := map[string]any{
		"user_code": userCode,
		"game_code": gameCode,
		"lang":      lang,
	}
	if providerCode != "" {
		extra["provider_code"] = providerCode
	}

	result, err := c.call("game_launch", extra)
	if err != nil {
		return "", err
	}

	url, _ := result["launch_url"].(string)
	if strings.TrimSpace(url) == "" {
		return "", fmt.Errorf("igamewin game_launch: missing launch_url")
	}
	return url, nil
}

// Providers lists the studios available to this agent.
func (c *Client) Providers() ([]Provider, error) {
	result, err := c.call("provider_list", nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		Providers []Provider `json:"providers"`
	}
	if err := remarshal(result, &out); err != nil {
		return nil, fmt.Errorf("igamewin provider_list: %w", err)
	}
	return out.Providers, nil
}

// Games lists the catalog, optionally filtered to one studio.
func (c *Client) Games(providerCode string) ([]Game, error) {
	extra := map[string]any{}
	if providerCode != "" {
		extra["provider_code"] = providerCode
	}
	result, err := c.call("game_list", extra)
	if err != nil {
		return nil, err
	}
	var out struct {
		Games []Game `json:"games"`
	}
	if err := remarshal(result, &out); err != nil {
		return nil, fmt.Errorf("igamewin game_list: %w", err)
	}
	return out.Games, nil
}

// AgentBalance reports the prepaid balance the agent holds upstream.
func (c *Client) AgentBalance() (float64, error) {
	result, err := c.call("money_info", nil)
	if err != nil {
		return 0, err
	}
	agent, _ := result["agent"].(map[string]any)
	if agent == nil {
		return 0, fmt.Errorf("igamewin money_info: missing agent block")
	}
	balance, _ := agent["balance"].(float64)
	return balance, nil
}

func remarshal(src map[string]any, dst any) error {
	raw, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}
