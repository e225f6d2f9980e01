package routes

import (
	"github.com/beinghouse/miniapp-backend/handlers"
	"github.com/beinghouse/miniapp-backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())
	admin.Get("/statistics", handlers.GetStatistics)
}
