package database

import (
	"fmt"
	"log"
	"strconv"

	config "github.com/beinghouse/miniapp-backend/configs"
	"github.com/beinghouse/miniapp-backend/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	fmt.Println("✅ Database connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.TaskType{},
		&models.Task{},
		&models.TaskClaim{},
		&models.WalletTransaction{},
		&models.Referral{},
	)
	if err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}
	fmt.Println("✅ Database migration successful")
}

func SeedTaskTypes() {
	taskTypes := []models.TaskType{
		{ID: models.TaskTypeAffiliateLink, Name: "affiliate_link"},
		{ID: models.TaskTypeChannelSubscription, Name: "channel_subscription"},
		{ID: models.TaskTypeRatingVote, Name: "rating_vote"},
		{ID: models.TaskTypeVideoWatch, Name: "video_watch"},
	}

	for _, taskType := range taskTypes {
		if err := DB.FirstOrCreate(&taskType, models.TaskType{ID: taskType.ID}).Error; err != nil {
			log.Fatalf("🔥 Failed to seed task type %q: %v", taskType.Name, err)
		}
	}
	log.Println("✅ Task types seeded successfully")
}

// SeedAdmin creates the statistics-panel admin account. The admin holds the
// role claim server-side; clients never carry an admin id list.
func SeedAdmin() {
	adminUsername := config.Config("ADMIN_USERNAME")
	adminPassword := config.Config("ADMIN_PASSWORD")
	adminTelegramID, err := strconv.ParseInt(config.Config("ADMIN_TELEGRAM_ID"), 10, 64)
	if adminUsername == "" || adminPassword == "" || err != nil {
		log.Println("Admin credentials not configured, skipping admin seed.")
		return
	}

	var count int64
	if err := DB.Model(&models.User{}).Where("role = ?", "admin").Count(&count).Error; err != nil {
		log.Fatalf("🔥 Failed to check for admin user: %v", err)
	}
	if count > 0 {
		log.Println("Admin user already exists.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("🔥 Failed to hash admin password: %v", err)
	}

	password := string(hashedPassword)
	adminUser := models.User{
		TelegramID: adminTelegramID,
		Username:   adminUsername,
		Password:   &password,
		Role:       "admin",
	}

	if err := DB.Create(&adminUser).Error; err != nil {
		log.Fatalf("🔥 Failed to seed admin user: %v", err)
	}

	log.Println("✅ Admin user seeded successfully")
}
