package handlers

import (
	"github.com/beinghouse/miniapp-backend/middleware"
	"github.com/beinghouse/miniapp-backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	TaskTypeID     int     `json:"task_type_id" validate:"required,min=1,max=4"`
	Name           string  `json:"name" validate:"required,max=255"`
	Description    string  `json:"description" validate:"max=2000"`
	Link           string  `json:"link" validate:"required,url"`
	ImageURL       *string `json:"image_url" validate:"omitempty,url"`
	TotalClicks    int     `json:"total_clicks" validate:"required,min=10"`
	RewardPerClick int     `json:"reward_per_click" validate:"required,min=1"`
	IsPremiumOnly  bool    `json:"is_premium_only"`
}

type TaskIDRequest struct {
	TaskID string `json:"task_id" validate:"required,uuid4"`
}

// GetTasksWithType lists claimable tasks for the Earn screen tab.
func GetTasksWithType(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	taskTypeID := c.QueryInt("task_type_id")
	if taskTypeID < 1 {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "task_type_id is required", "code": "validation_error"})
	}

	tasks, err := services.ListOpenTasks(user, taskTypeID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(tasks)
}

// ClaimTask performs the exactly-once reward credit for a completed task.
func ClaimTask(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req TaskIDRequest
	if err := c.BodyParser(&req); err != nil {
		return parseError(c)
	}
	if err := validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	taskID, err := uuid.Parse(req.TaskID)
	if err != nil {
		return validationError(c, err)
	}

	result, err := services.ClaimTask(taskID, user)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(result)
}

// CreateTask registers an advertiser task. The reward_per_click wire field is
// a flat per-completion reward.
func CreateTask(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return parseError(c)
	}
	if err := validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	task, err := services.CreateTask(user, services.TaskDefinition{
		TaskTypeID:    req.TaskTypeID,
		Name:          req.Name,
		Description:   req.Description,
		Link:          req.Link,
		ImageURL:      req.ImageURL,
		TotalClicks:   req.TotalClicks,
		RewardPoints:  req.RewardPerClick,
		IsPremiumOnly: req.IsPremiumOnly,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

// FinishTask stops one of the owner's tasks.
func FinishTask(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req TaskIDRequest
	if err := c.BodyParser(&req); err != nil {
		return parseError(c)
	}
	if err := validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	taskID, err := uuid.Parse(req.TaskID)
	if err != nil {
		return validationError(c, err)
	}

	if err := services.StopTask(user, taskID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Task stopped"})
}

func GetActiveTasks(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	tasks, err := services.ListActiveTasksForOwner(user)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(tasks)
}

func GetArchivedTasks(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	tasks, err := services.ListArchivedTasksForOwner(user)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(tasks)
}
