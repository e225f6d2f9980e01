package routes

import (
	"github.com/beinghouse/miniapp-backend/handlers"
	"github.com/beinghouse/miniapp-backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func TaskRoutes(app *fiber.App) {
	api := app.Group("/api")

	task := api.Group("/task", middleware.TelegramAuth())
	task.Get("/get_tasks_with_type", handlers.GetTasksWithType)
	task.Post("/claim_task", handlers.ClaimTask)
	task.Get("/get_active_tasks", handlers.GetActiveTasks)
	task.Get("/get_archived_tasks", handlers.GetArchivedTasks)
	task.Post("/create", handlers.CreateTask)
	task.Post("/finish_task", handlers.FinishTask)
}
