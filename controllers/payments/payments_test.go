package payments

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"luxbet/config"
	"luxbet/database"
	"luxbet/gateways"
	"luxbet/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// stubClient records the last request it saw and answers with fixed
// gateway-side transaction ids.
type stubClient struct {
	lastCharge   gateways.ChargeRequest
	lastTransfer gateways.TransferRequest
}

func (s *stubClient) CreatePixCharge(req gateways.ChargeRequest) (*gateways.Charge, error) {
	s.lastCharge = req
	return &gateways.Charge{
		ExternalID:   "gw-charge-1",
		PixCode:      "00020126pix",
		QRCodeBase64: "aGVsbG8=",
		Raw:          map[string]any{"idTransaction": "gw-charge-1"},
	}, nil
}

func (s *stubClient) TransferPix(req gateways.TransferRequest) (*gateways.Transfer, error) {
	s.lastTransfer = req
	return &gateways.Transfer{
		ExternalID: "gw-transfer-1",
		Raw:        map[string]any{"idTransaction": "gw-transfer-1"},
	}, nil
}

func setup(t *testing.T) (*fiber.App, *stubClient, *models.User) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	config.C.MinDeposit = 2
	config.C.MinWithdrawal = 10

	stub := &stubClient{}
	gateways.Register("suitpay", func(map[string]string) (gateways.PixClient, error) {
		return stub, nil
	})
	require.NoError(t, db.Create(&models.Gateway{
		Name:        "SuitPay",
		Type:        "pix",
		Credentials: datatypes.JSON(`{"ci":"client-id","cs":"client-secret"}`),
		IsActive:    models.Bool(true),
	}).Error)

	user := &models.User{Username: "player1", Balance: 100, IsActive: models.Bool(true)}
	require.NoError(t, db.Create(user).Error)

	app := fiber.New()
	asUser := func(c *fiber.Ctx) error {
		c.Locals("user", user)
		return c.Next()
	}
	app.Post("/deposit/pix", asUser, CreateDeposit)
	app.Post("/withdrawal/pix", asUser, CreateWithdrawal)
	return app, stub, user
}

func post(t *testing.T, app *fiber.App, path string, body map[string]any) (int, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return resp.StatusCode, out
}

func TestCreateDepositKeepsInternalAndGatewayIDsApart(t *testing.T) {
	app, stub, user := setup(t)

	status, out := post(t, app, "/deposit/pix", map[string]any{"amount": 50.0})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, out["success"])

	var deposit models.Deposit
	require.NoError(t, database.DB.Where("user_id = ?", user.ID).First(&deposit).Error)
	require.Equal(t, "gw-charge-1", deposit.ExternalID)
	require.NoError(t, uuid.Validate(deposit.TransactionID))
	require.NotEqual(t, deposit.ExternalID, deposit.TransactionID)
	require.Equal(t, stub.lastCharge.RequestNumber, deposit.TransactionID)
}

func TestCreateWithdrawalKeepsInternalAndGatewayIDsApart(t *testing.T) {
	app, stub, user := setup(t)

	status, out := post(t, app, "/withdrawal/pix", map[string]any{
		"amount":       20.0,
		"pix_key":      "player@luxbet.site",
		"pix_key_type": "email",
	})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, out["success"])

	var withdrawal models.Withdrawal
	require.NoError(t, database.DB.Where("user_id = ?", user.ID).First(&withdrawal).Error)
	require.Equal(t, "gw-transfer-1", withdrawal.ExternalID)
	require.NoError(t, uuid.Validate(withdrawal.TransactionID))
	require.NotEqual(t, withdrawal.ExternalID, withdrawal.TransactionID)
	require.Equal(t, stub.lastTransfer.ExternalID, withdrawal.TransactionID)
}

func TestWithdrawalPixKeyTypeWhitelist(t *testing.T) {
	app, _, _ := setup(t)

	status, out := post(t, app, "/withdrawal/pix", map[string]any{
		"amount":       20.0,
		"pix_key":      "0002012658suitpay",
		"pix_key_type": "paymentCode",
	})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, out["success"])

	status, out = post(t, app, "/withdrawal/pix", map[string]any{
		"amount":       20.0,
		"pix_key":      "12345678000190",
		"pix_key_type": "cnpj",
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "INVALID_PIX_KEY", out["message"])
}
