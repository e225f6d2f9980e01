package routes

import (
	"github.com/beinghouse/miniapp-backend/handlers"
	"github.com/beinghouse/miniapp-backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func WalletRoutes(app *fiber.App) {
	api := app.Group("/api")

	wallet := api.Group("/wallet", middleware.TelegramAuth())
	wallet.Post("/connect", handlers.ConnectWallet)
	wallet.Get("/rates", handlers.GetRates)

	transactions := wallet.Group("/transactions")
	transactions.Post("/", handlers.CreateWalletTransaction)
	transactions.Get("/", handlers.ListWalletTransactions)
	transactions.Put("/:transactionId/", handlers.UpdateWalletTransaction)
}
