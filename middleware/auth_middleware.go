package middleware

import (
	"errors"
	"strconv"

	config "github.com/beinghouse/miniapp-backend/configs"
	"github.com/beinghouse/miniapp-backend/database"
	"github.com/beinghouse/miniapp-backend/models"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// TelegramAuth resolves the requesting mini-app user from the X-Telegram-ID
// header. Validation of the signed init payload happens upstream; here a
// missing or unknown id is simply unauthenticated.
func TelegramAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("X-Telegram-ID")
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).
				JSON(fiber.Map{"error": "User not authenticated", "code": "unauthenticated"})
		}

		telegramID, err := strconv.ParseInt(header, 10, 64)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).
				JSON(fiber.Map{"error": "User not authenticated", "code": "unauthenticated"})
		}

		var user models.User
		if err := database.DB.Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusUnauthorized).
					JSON(fiber.Map{"error": "User not authenticated", "code": "unauthenticated"})
			}
			return c.Status(fiber.StatusInternalServerError).
				JSON(fiber.Map{"error": "Failed to load user", "code": "internal_error"})
		}

		c.Locals("currentUser", user)
		return c.Next()
	}
}

// CurrentUser returns the user loaded by TelegramAuth.
func CurrentUser(c *fiber.Ctx) models.User {
	return c.Locals("currentUser").(models.User)
}

func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(config.Config("JWT_SECRET")),
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"status": "error", "message": "Missing or malformed JWT", "data": nil})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"status": "error", "message": "Invalid or expired JWT", "data": nil})
}

// AdminRequired gates a route on the role claim issued at login. The role is
// never taken from anything the client stores itself.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Locals("user").(*jwt.Token)
		claims := token.Claims.(jwt.MapClaims)
		role, _ := claims["role"].(string)

		if role != "admin" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: Admin access required",
			})
		}
		return c.Next()
	}
}
