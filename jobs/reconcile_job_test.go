package jobs

import (
	"testing"
	"time"

	"github.com/beinghouse/miniapp-backend/database"
	"github.com/beinghouse/miniapp-backend/models"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedTransaction(t *testing.T, status string, age time.Duration) models.WalletTransaction {
	t.Helper()

	user := models.User{TelegramID: time.Now().UnixNano()}
	require.NoError(t, database.DB.Create(&user).Error)

	transaction := models.WalletTransaction{
		UserID:          user.ID,
		WalletAddress:   "UQC-wallet",
		Amount:          decimal.NewFromInt(3),
		TransactionType: models.TransactionTypeDeposit,
		Status:          status,
	}
	require.NoError(t, database.DB.Create(&transaction).Error)
	require.NoError(t, database.DB.Model(&transaction).
		UpdateColumn("created_at", time.Now().Add(-age)).Error)
	return transaction
}

func TestReconcileStaleTransactions(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.WalletTransaction{}))
	database.DB = db

	stale := seedTransaction(t, models.TransactionStatusPending, 25*time.Hour)
	fresh := seedTransaction(t, models.TransactionStatusPending, time.Minute)
	done := seedTransaction(t, models.TransactionStatusCompleted, 48*time.Hour)

	ReconcileStaleTransactions()

	reload := func(id interface{}) string {
		var transaction models.WalletTransaction
		require.NoError(t, database.DB.First(&transaction, "id = ?", id).Error)
		return transaction.Status
	}

	assert.Equal(t, models.TransactionStatusFailed, reload(stale.ID))
	assert.Equal(t, models.TransactionStatusPending, reload(fresh.ID))
	assert.Equal(t, models.TransactionStatusCompleted, reload(done.ID))
}
