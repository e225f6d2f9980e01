package handlers

import (
	"errors"
	"log"
	"time"

	config "github.com/beinghouse/miniapp-backend/configs"
	"github.com/beinghouse/miniapp-backend/database"
	"github.com/beinghouse/miniapp-backend/models"
	"github.com/beinghouse/miniapp-backend/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type TelegramAuthRequest struct {
	TelegramID     int64   `json:"telegram_id" validate:"required"`
	Username       string  `json:"username" validate:"max=255"`
	FirstName      string  `json:"first_name" validate:"max=255"`
	LastName       string  `json:"last_name" validate:"max=255"`
	LanguageCode   string  `json:"language_code" validate:"omitempty,max=5"`
	IsPremium      bool    `json:"is_premium"`
	ReferredByCode *string `json:"referred_by_code,omitempty"`
}

type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// AuthenticateTelegramUser creates or fetches the mini-app user and issues a
// JWT carrying the server-stored role. Admin access is decided here, never by
// an id list shipped to the client.
func AuthenticateTelegramUser(c *fiber.Ctx) error {
	var req TelegramAuthRequest
	if err := c.BodyParser(&req); err != nil {
		return parseError(c)
	}
	if err := validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	var user models.User
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("telegram_id = ?", req.TelegramID).First(&user).Error
		if err == nil {
			return tx.Model(&user).Updates(map[string]interface{}{
				"username":   req.Username,
				"first_name": req.FirstName,
				"last_name":  req.LastName,
				"is_premium": req.IsPremium,
			}).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var referrer *models.User
		if req.ReferredByCode != nil && *req.ReferredByCode != "" {
			referrer = &models.User{}
			if err := tx.Where("referral_code = ?", *req.ReferredByCode).First(referrer).Error; err != nil {
				log.Printf("Invalid referral code used: %s", *req.ReferredByCode)
				referrer = nil
			}
		}

		uniqueCode, err := utils.GenerateUniqueReferralCode(tx)
		if err != nil {
			return errors.New("failed to generate unique referral code")
		}

		languageCode := req.LanguageCode
		if languageCode == "" {
			languageCode = "en"
		}

		user = models.User{
			TelegramID:     req.TelegramID,
			Username:       req.Username,
			FirstName:      req.FirstName,
			LastName:       req.LastName,
			IsPremium:      req.IsPremium,
			LanguageCode:   languageCode,
			ReferralCode:   &uniqueCode,
			ReferredByCode: req.ReferredByCode,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		if referrer != nil {
			referral := models.Referral{
				ReferrerID:     referrer.ID,
				ReferredUserID: user.ID,
				Status:         "pending",
			}
			if err := tx.Create(&referral).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("🔥 Failed to authenticate Telegram user %d: %v", req.TelegramID, err)
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to authenticate user", "code": "internal_error"})
	}

	token, err := issueToken(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to create token", "code": "internal_error"})
	}

	return c.JSON(AuthResponse{User: user, Token: token})
}

// AdminLogin authenticates the statistics-panel admin with a password.
func AdminLogin(c *fiber.Ctx) error {
	var req AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return parseError(c)
	}
	if err := validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	var user models.User
	result := database.DB.Where("username = ? AND role = ?", req.Username, "admin").First(&user)
	if result.Error != nil || user.Password == nil {
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"error": "Invalid username or password", "code": "unauthenticated"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"error": "Invalid username or password", "code": "unauthenticated"})
	}

	token, err := issueToken(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to create token", "code": "internal_error"})
	}

	return c.JSON(fiber.Map{"token": token})
}

func issueToken(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":     user.ID.String(),
		"telegram_id": user.TelegramID,
		"role":        user.Role,
		"exp":         time.Now().Add(time.Hour * 72).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Config("JWT_SECRET")))
}
