package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/beinghouse/miniapp-backend/database"
	"github.com/beinghouse/miniapp-backend/models"
	"github.com/beinghouse/miniapp-backend/routes"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.TaskType{},
		&models.Task{},
		&models.TaskClaim{},
		&models.WalletTransaction{},
		&models.Referral{},
	))
	database.DB = db

	app := fiber.New()
	routes.AuthRoutes(app)
	routes.TaskRoutes(app)
	routes.WalletRoutes(app)
	routes.UserRoutes(app)
	routes.AdminRoutes(app)
	return app
}

func apiRequest(t *testing.T, app *fiber.App, method, path string, telegramID int64, body interface{}) (*http.Response, map[string]json.RawMessage) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if telegramID != 0 {
		req.Header.Set("X-Telegram-ID", fmt.Sprintf("%d", telegramID))
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	decoded := map[string]json.RawMessage{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = json.Unmarshal(raw, &decoded)
	return resp, decoded
}

func seedUser(t *testing.T, telegramID int64, points int) models.User {
	t.Helper()

	user := models.User{TelegramID: telegramID, Username: "user", Points: points}
	require.NoError(t, database.DB.Create(&user).Error)
	return user
}

func seedTask(t *testing.T, owner models.User, totalClicks, rewardPoints int) models.Task {
	t.Helper()

	task := models.Task{
		OwnerID:      owner.ID,
		TaskTypeID:   models.TaskTypeAffiliateLink,
		Name:         "Join",
		Link:         "https://t.me/x",
		TotalClicks:  totalClicks,
		RewardPoints: rewardPoints,
		Status:       models.TaskStatusOpen,
	}
	require.NoError(t, database.DB.Create(&task).Error)
	return task
}

func errorCode(t *testing.T, body map[string]json.RawMessage) string {
	t.Helper()

	var code string
	require.NoError(t, json.Unmarshal(body["code"], &code))
	return code
}

func TestRequestsWithoutTelegramIDAreUnauthenticated(t *testing.T) {
	app := setupTestApp(t)

	resp, body := apiRequest(t, app, http.MethodGet, "/api/task/get_tasks_with_type?task_type_id=1", 0, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthenticated", errorCode(t, body))

	// Unknown ids are just as unauthenticated as missing ones.
	resp, body = apiRequest(t, app, http.MethodGet, "/api/task/get_tasks_with_type?task_type_id=1", 999, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthenticated", errorCode(t, body))
}

func TestClaimTaskOverHTTP(t *testing.T) {
	app := setupTestApp(t)

	owner := seedUser(t, 100, 0)
	claimant := seedUser(t, 200, 0)
	other := seedUser(t, 300, 0)
	task := seedTask(t, owner, 1, 50)

	payload := map[string]string{"task_id": task.ID.String()}

	resp, body := apiRequest(t, app, http.MethodPost, "/api/task/claim_task", claimant.TelegramID, payload)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var balance int
	require.NoError(t, json.Unmarshal(body["balance"], &balance))
	assert.Equal(t, 50, balance)

	resp, body = apiRequest(t, app, http.MethodPost, "/api/task/claim_task", claimant.TelegramID, payload)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "already_claimed", errorCode(t, body))

	resp, body = apiRequest(t, app, http.MethodPost, "/api/task/claim_task", other.TelegramID, payload)
	assert.Equal(t, http.StatusGone, resp.StatusCode)
	assert.Equal(t, "task_closed", errorCode(t, body))
}

func TestWalletTransactionOverHTTP(t *testing.T) {
	app := setupTestApp(t)

	user := seedUser(t, 100, 0)

	resp, _ := apiRequest(t, app, http.MethodPost, "/api/wallet/connect", user.TelegramID,
		map[string]string{"wallet_address": "UQC-wallet"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := apiRequest(t, app, http.MethodPost, "/api/wallet/transactions/", user.TelegramID,
		map[string]interface{}{"wallet_address": "UQC-wallet", "amount": "3", "transaction_type": "deposit"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var transactionID string
	require.NoError(t, json.Unmarshal(body["id"], &transactionID))

	path := fmt.Sprintf("/api/wallet/transactions/%s/", transactionID)
	resp, _ = apiRequest(t, app, http.MethodPut, path, user.TelegramID, map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var fresh models.User
	require.NoError(t, database.DB.First(&fresh, "telegram_id = ?", user.TelegramID).Error)
	assert.Equal(t, 1500, fresh.Points)

	// Replaying the reconciliation must not credit twice.
	resp, body = apiRequest(t, app, http.MethodPut, path, user.TelegramID, map[string]string{"status": "completed"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "invalid_transition", errorCode(t, body))

	require.NoError(t, database.DB.First(&fresh, "telegram_id = ?", user.TelegramID).Error)
	assert.Equal(t, 1500, fresh.Points)
}

func TestTelegramAuthCreatesUserAndReferral(t *testing.T) {
	app := setupTestApp(t)

	resp, body := apiRequest(t, app, http.MethodPost, "/api/auth/telegram", 0,
		map[string]interface{}{"telegram_id": 100, "username": "alice"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var created struct {
		ReferralCode *string `json:"referral_code"`
	}
	require.NoError(t, json.Unmarshal(body["user"], &created))
	require.NotNil(t, created.ReferralCode)
	assert.NotEmpty(t, body["token"])

	resp, _ = apiRequest(t, app, http.MethodPost, "/api/auth/telegram", 0,
		map[string]interface{}{"telegram_id": 200, "username": "bob", "referred_by_code": *created.ReferralCode})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var referrals int64
	require.NoError(t, database.DB.Model(&models.Referral{}).Count(&referrals).Error)
	assert.Equal(t, int64(1), referrals)
}

func TestAdminStatisticsRequiresRole(t *testing.T) {
	app := setupTestApp(t)

	hashed, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.DefaultCost)
	require.NoError(t, err)
	password := string(hashed)
	admin := models.User{TelegramID: 1, Username: "root", Role: "admin", Password: &password}
	require.NoError(t, database.DB.Create(&admin).Error)

	seedUser(t, 100, 10)

	// No token at all.
	resp, _ := apiRequest(t, app, http.MethodGet, "/api/admin/statistics", 0, nil)
	assert.NotEqual(t, http.StatusOK, resp.StatusCode)

	resp, body := apiRequest(t, app, http.MethodPost, "/api/auth/admin", 0,
		map[string]string{"username": "root", "password": "hunter22"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var token string
	require.NoError(t, json.Unmarshal(body["token"], &token))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/statistics", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	adminResp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, adminResp.StatusCode)

	var stats struct {
		TotalUsers int64 `json:"total_users"`
	}
	require.NoError(t, json.NewDecoder(adminResp.Body).Decode(&stats))
	assert.Equal(t, int64(2), stats.TotalUsers)
}
