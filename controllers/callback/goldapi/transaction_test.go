package goldapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"luxbet/database"
	"luxbet/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setup(t *testing.T) *fiber.App {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	require.NoError(t, db.Create(&models.GoldAgent{
		AgentCode: "agent1",
		SecretKey: "secret1",
		IsActive:  models.Bool(true),
	}).Error)
	require.NoError(t, db.Create(&models.User{
		Username: "player1",
		Balance:  100,
		IsActive: models.Bool(true),
	}).Error)

	app := fiber.New()
	app.Post("/seamless/slot/gold_api", Handle)
	return app
}

func call(t *testing.T, app *fiber.App, body map[string]any) map[string]any {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/seamless/slot/gold_api", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func spin(txnID, txnType string, bet, win float64) map[string]any {
	return map[string]any{
		"method":       "transaction",
		"agent_code":   "agent1",
		"agent_secret": "secret1",
		"user_code":    "player1",
		"game_type":    "slot",
		"slot": map[string]any{
			"type":          "BASE",
			"provider_code": "PRAGMATIC",
			"game_code":     "vs20doghouse",
			"txn_id":        txnID,
			"txn_type":      txnType,
			"bet_money":     bet,
			"win_money":     win,
		},
	}
}

func TestUserBalanceMethod(t *testing.T) {
	app := setup(t)
	out := call(t, app, map[string]any{
		"method":       "user_balance",
		"agent_code":   "agent1",
		"agent_secret": "secret1",
		"user_code":    "player1",
	})
	require.Equal(t, float64(1), out["status"])
	require.Equal(t, 100.0, out["user_balance"])
}

func TestAgentAuth(t *testing.T) {
	app := setup(t)

	out := call(t, app, map[string]any{
		"method":     "user_balance",
		"agent_code": "nobody",
		"user_code":  "player1",
	})
	require.Equal(t, float64(0), out["status"])
	require.Equal(t, "INVALID_AGENT", out["msg"])

	out = call(t, app, map[string]any{
		"method":       "user_balance",
		"agent_code":   "agent1",
		"agent_secret": "wrong",
		"user_code":    "player1",
	})
	require.Equal(t, "INVALID_SECRET", out["msg"])

	out = call(t, app, map[string]any{
		"method":       "destroy",
		"agent_code":   "agent1",
		"agent_secret": "secret1",
	})
	require.Equal(t, "INVALID_METHOD", out["msg"])
}

func TestUnknownUser(t *testing.T) {
	app := setup(t)
	out := call(t, app, map[string]any{
		"method":       "user_balance",
		"agent_code":   "agent1",
		"agent_secret": "secret1",
		"user_code":    "ghost",
	})
	require.Equal(t, "INVALID_USER", out["msg"])
}

func TestDebitThenCredit(t *testing.T) {
	app := setup(t)

	out := call(t, app, spin("r1", "debit", 10, 0))
	require.Equal(t, float64(1), out["status"])
	require.Equal(t, 90.0, out["user_balance"])

	out = call(t, app, spin("r1", "credit", 10, 25))
	require.Equal(t, float64(1), out["status"])
	require.Equal(t, 115.0, out["user_balance"])

	var bet models.Bet
	require.NoError(t, database.DB.Where("external_id = ?", "r1").First(&bet).Error)
	require.Equal(t, models.BetWon, bet.Status)
	require.Equal(t, 25.0, bet.WinAmount)
}

func TestDebitCreditSingleShot(t *testing.T) {
	app := setup(t)

	// payout below the wager loses even though win_money is positive
	out := call(t, app, spin("r1", "debit_credit", 10, 4))
	require.Equal(t, float64(1), out["status"])
	require.Equal(t, 94.0, out["user_balance"])

	var bet models.Bet
	require.NoError(t, database.DB.Where("external_id = ?", "r1").First(&bet).Error)
	require.Equal(t, models.BetLost, bet.Status)

	out = call(t, app, spin("r2", "debit_credit", 10, 30))
	require.Equal(t, 114.0, out["user_balance"])
	bet = models.Bet{}
	require.NoError(t, database.DB.Where("external_id = ?", "r2").First(&bet).Error)
	require.Equal(t, models.BetWon, bet.Status)
}

func TestDuplicateTxnIsNoop(t *testing.T) {
	app := setup(t)

	call(t, app, spin("r1", "debit", 10, 0))
	out := call(t, app, spin("r1", "debit", 10, 0))
	require.Equal(t, float64(1), out["status"])
	require.Equal(t, 90.0, out["user_balance"])

	// settled round replayed in full
	call(t, app, spin("r1", "credit", 10, 25))
	out = call(t, app, spin("r1", "credit", 10, 25))
	require.Equal(t, float64(1), out["status"])
	require.Equal(t, 115.0, out["user_balance"])
}

func TestInsufficientFunds(t *testing.T) {
	app := setup(t)

	out := call(t, app, spin("r1", "debit", 500, 0))
	require.Equal(t, float64(0), out["status"])
	require.Equal(t, "INSUFFICIENT_USER_FUNDS", out["msg"])

	// nothing was written
	var count int64
	require.NoError(t, database.DB.Model(&models.Bet{}).Count(&count).Error)
	require.Equal(t, int64(0), count)
}

func TestCreditWithoutDebit(t *testing.T) {
	app := setup(t)

	out := call(t, app, spin("r9", "credit", 0, 40))
	require.Equal(t, float64(1), out["status"])
	require.Equal(t, 140.0, out["user_balance"])

	var bet models.Bet
	require.NoError(t, database.DB.Where("external_id = ?", "r9").First(&bet).Error)
	require.Equal(t, "credit without debit", bet.Note)
}

func TestUnsupportedGameType(t *testing.T) {
	app := setup(t)

	body := spin("r1", "debit", 10, 0)
	body["game_type"] = "casino"
	out := call(t, app, body)
	require.Equal(t, "UNSUPPORTED_GAME_TYPE", out["msg"])

	// rejected before the slot block is even looked at
	delete(body, "slot")
	out = call(t, app, body)
	require.Equal(t, "UNSUPPORTED_GAME_TYPE", out["msg"])
}

func TestFreeRoundDetailAccepted(t *testing.T) {
	app := setup(t)

	body := spin("r1", "debit", 10, 0)
	body["slot"].(map[string]any)["type"] = "FREE"
	out := call(t, app, body)
	require.Equal(t, float64(1), out["status"])
	require.Equal(t, 90.0, out["user_balance"])
}

func TestMissingSlotBlock(t *testing.T) {
	app := setup(t)

	out := call(t, app, map[string]any{
		"method":       "transaction",
		"agent_code":   "agent1",
		"agent_secret": "secret1",
		"user_code":    "player1",
	})
	require.Equal(t, "INVALID_PARAMETER", out["msg"])
}

func TestStringAmounts(t *testing.T) {
	app := setup(t)

	body := spin("r1", "debit", 0, 0)
	body["slot"].(map[string]any)["bet_money"] = "12.50"
	out := call(t, app, body)
	require.Equal(t, float64(1), out["status"])
	require.Equal(t, 87.5, out["user_balance"])
}
