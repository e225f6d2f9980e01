package routes

import (
	"github.com/beinghouse/miniapp-backend/handlers"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/telegram", handlers.AuthenticateTelegramUser)
	auth.Post("/admin", handlers.AdminLogin)
}
