package services

import (
	"testing"

	"github.com/beinghouse/miniapp-backend/database"
	"github.com/beinghouse/miniapp-backend/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB points the global database handle at a fresh in-memory
// database. One connection only, so transactions serialize like the
// production row-locking path.
func setupTestDB(t *testing.T) {
	t.Helper()

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
}

func createTestUser(t *testing.T, telegramID int64, points int) models.User {
	t.Helper()

	user := models.User{
		TelegramID: telegramID,
		Username:   "user",
		Points:     points,
	}
	require.NoError(t, database.DB.Create(&user).Error)
	return user
}

func createTestTask(t *testing.T, owner models.User, totalClicks, rewardPoints int) models.Task {
	t.Helper()

	task := models.Task{
		OwnerID:      owner.ID,
		TaskTypeID:   models.TaskTypeAffiliateLink,
		Name:         "Join the channel",
		Link:         "https://t.me/somechannel",
		TotalClicks:  totalClicks,
		RewardPoints: rewardPoints,
		Status:       models.TaskStatusOpen,
	}
	require.NoError(t, database.DB.Create(&task).Error)
	return task
}

func reloadUser(t *testing.T, user models.User) models.User {
	t.Helper()

	var fresh models.User
	require.NoError(t, database.DB.First(&fresh, "id = ?", user.ID).Error)
	return fresh
}

func reloadTask(t *testing.T, task models.Task) models.Task {
	t.Helper()

	var fresh models.Task
	require.NoError(t, database.DB.First(&fresh, "id = ?", task.ID).Error)
	return fresh
}
