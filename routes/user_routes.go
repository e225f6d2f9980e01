package routes

import (
	"github.com/beinghouse/miniapp-backend/handlers"
	"github.com/beinghouse/miniapp-backend/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func UserRoutes(app *fiber.App) {
	api := app.Group("/api")

	users := api.Group("/users", middleware.TelegramAuth())
	users.Get("/me", handlers.GetMe)
	users.Get("/me/referrals", handlers.ListMyReferrals)

	uploads := api.Group("/uploads", middleware.TelegramAuth())
	uploads.Get("/signature", handlers.GenerateUploadSignature)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	app.Get("/ws", websocket.New(handlers.ServeWs))
}
