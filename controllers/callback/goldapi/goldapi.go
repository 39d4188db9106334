// Package goldapi implements the seamless wallet callback the slot
// aggregator calls on every spin. Protocol errors are always answered with
// HTTP 200 and {status: 0, msg: "..."}.
package goldapi

import (
	"luxbet/database"
	"luxbet/helpers"
	"luxbet/models"

	"github.com/gofiber/fiber/v2"
)

type slotPayload struct {
	Type         string                `json:"type"` // round detail, BASE or FREE
	ProviderCode string                `json:"provider_code"`
	GameCode     string                `json:"game_code"`
	TxnID        string                `json:"txn_id"`
	TxnType      string                `json:"txn_type"`
	Bet          models.FlexibleString `json:"bet_money"`
	Win          models.FlexibleString `json:"win_money"`
}

type callbackRequest struct {
	Method      string       `json:"method"`
	AgentCode   string       `json:"agent_code"`
	AgentSecret string       `json:"agent_secret"`
	UserCode    string       `json:"user_code"`
	GameType    string       `json:"game_type"`
	Slot        *slotPayload `json:"slot"`
}

// Handle authenticates the agent and dispatches on the method field.
func Handle(c *fiber.Ctx) error {
	var req callbackRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.GoldError(c, "INVALID_PARAMETER")
	}

	var agent models.GoldAgent
	err := database.DB.Where("agent_code = ? AND is_active = ?", req.AgentCode, true).
		First(&agent).Error
	if err != nil {
		return helpers.GoldError(c, "INVALID_AGENT")
	}
	if req.AgentSecret != agent.SecretKey {
		return helpers.GoldError(c, "INVALID_SECRET")
	}

	switch req.Method {
	case "user_balance":
		return userBalance(c, &req)
	case "transaction":
		return transaction(c, &req)
	default:
		return helpers.GoldError(c, "INVALID_METHOD")
	}
}
