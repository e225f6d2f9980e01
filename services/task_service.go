package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/beinghouse/miniapp-backend/database"
	"github.com/beinghouse/miniapp-backend/models"
	"github.com/beinghouse/miniapp-backend/notifications"
	"github.com/beinghouse/miniapp-backend/websocket"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClaimResult is returned to the client after a successful claim so it can
// reflect the new balance without an extra fetch.
type ClaimResult struct {
	Task    models.Task `json:"task"`
	Balance int         `json:"balance"`
}

type TaskDefinition struct {
	TaskTypeID    int
	Name          string
	Description   string
	Link          string
	ImageURL      *string
	TotalClicks   int
	RewardPoints  int
	IsPremiumOnly bool
}

// ClaimTask credits a task completion exactly once per (task, user) pair.
//
// The claim row insert, quota increment, status flip and balance credit all
// commit as one transaction. The unique index on task_claims(task_id, user_id)
// rejects a concurrent duplicate after the fast-path check passed, and the
// guarded quota increment rejects the (quota+1)-th claim that raced past the
// status check.
func ClaimTask(taskID uuid.UUID, claimant models.User) (*ClaimResult, error) {
	var result ClaimResult

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, "id = ?", taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}

		var claimed int64
		if err := tx.Model(&models.TaskClaim{}).
			Where("task_id = ? AND user_id = ?", task.ID, claimant.ID).
			Count(&claimed).Error; err != nil {
			return err
		}
		if claimed > 0 {
			return ErrAlreadyClaimed
		}

		if task.Status != models.TaskStatusOpen || task.CompletedClicks >= task.TotalClicks {
			return ErrTaskClosed
		}

		claim := models.TaskClaim{
			TaskID:        task.ID,
			UserID:        claimant.ID,
			PointsAwarded: task.RewardPoints,
		}
		if err := tx.Create(&claim).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyClaimed
			}
			return err
		}

		res := tx.Model(&models.Task{}).
			Where("id = ? AND status = ? AND completed_clicks < total_clicks", task.ID, models.TaskStatusOpen).
			UpdateColumn("completed_clicks", gorm.Expr("completed_clicks + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTaskClosed
		}

		if err := tx.Model(&models.Task{}).
			Where("id = ? AND completed_clicks >= total_clicks", task.ID).
			UpdateColumn("status", models.TaskStatusQuotaReached).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", claimant.ID).
			UpdateColumn("points", gorm.Expr("points + ?", task.RewardPoints)).Error; err != nil {
			return err
		}

		if err := CreditReferralShare(tx, claimant, task.RewardPoints); err != nil {
			return err
		}

		if err := tx.First(&result.Task, "id = ?", task.ID).Error; err != nil {
			return err
		}
		var updated models.User
		if err := tx.First(&updated, "id = ?", claimant.ID).Error; err != nil {
			return err
		}
		result.Balance = updated.Points

		return nil
	})
	if err != nil {
		return nil, err
	}

	go notifications.SendTelegramMessage(claimant.TelegramID,
		fmt.Sprintf("Task %q completed! +%d points.", result.Task.Name, result.Task.RewardPoints))
	websocket.Notify(claimant.TelegramID, websocket.Event{
		Type:    websocket.EventTaskCredited,
		TaskID:  result.Task.ID.String(),
		Points:  result.Task.RewardPoints,
		Balance: result.Balance,
	})

	return &result, nil
}

// CreateTask registers a new task and debits the owner the full funding cost
// (quota x reward) so every later claim credit is already covered.
func CreateTask(owner models.User, def TaskDefinition) (*models.Task, error) {
	if def.TotalClicks < models.MinTotalClicks || def.RewardPoints < models.MinRewardPoints {
		return nil, ErrInvalidAmount
	}

	task := models.Task{
		OwnerID:       owner.ID,
		TaskTypeID:    def.TaskTypeID,
		Name:          def.Name,
		Description:   def.Description,
		Link:          def.Link,
		ImageURL:      def.ImageURL,
		TotalClicks:   def.TotalClicks,
		RewardPoints:  def.RewardPoints,
		IsPremiumOnly: def.IsPremiumOnly,
		Status:        models.TaskStatusOpen,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		fundingCost := def.TotalClicks * def.RewardPoints

		res := tx.Model(&models.User{}).
			Where("id = ? AND points >= ?", owner.ID, fundingCost).
			UpdateColumn("points", gorm.Expr("points - ?", fundingCost))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientBalance
		}

		return tx.Create(&task).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Task %s created by user %d (%d clicks x %d points)",
		task.ID, owner.TelegramID, task.TotalClicks, task.RewardPoints)
	return &task, nil
}

// StopTask archives an open task. Idempotent when already stopped.
func StopTask(owner models.User, taskID uuid.UUID) error {
	var task models.Task
	err := database.DB.First(&task, "id = ? AND owner_id = ?", taskID, owner.ID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}

	if task.Status == models.TaskStatusStopped {
		return nil
	}

	return database.DB.Model(&models.Task{}).
		Where("id = ? AND status = ?", task.ID, models.TaskStatusOpen).
		UpdateColumn("status", models.TaskStatusStopped).Error
}

// ListOpenTasks returns claimable tasks in a category for the requesting
// user: open, quota not reached, not premium-gated away, not yet claimed.
// Ordered by creation time so a catalog snapshot pages deterministically.
func ListOpenTasks(requester models.User, taskTypeID int) ([]models.Task, error) {
	query := database.DB.
		Where("task_type_id = ?", taskTypeID).
		Where("status = ?", models.TaskStatusOpen).
		Where("completed_clicks < total_clicks").
		Where("NOT EXISTS (SELECT 1 FROM task_claims WHERE task_claims.task_id = tasks.id AND task_claims.user_id = ?)", requester.ID)

	if !requester.IsPremium {
		query = query.Where("is_premium_only = ?", false)
	}

	var tasks []models.Task
	if err := query.Order("created_at asc").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListActiveTasksForOwner returns the owner's open tasks.
func ListActiveTasksForOwner(owner models.User) ([]models.Task, error) {
	var tasks []models.Task
	err := database.DB.
		Where("owner_id = ? AND status = ?", owner.ID, models.TaskStatusOpen).
		Order("created_at asc").
		Find(&tasks).Error
	return tasks, err
}

// ListArchivedTasksForOwner returns the owner's stopped or quota-reached tasks.
func ListArchivedTasksForOwner(owner models.User) ([]models.Task, error) {
	var tasks []models.Task
	err := database.DB.
		Where("owner_id = ? AND status <> ?", owner.ID, models.TaskStatusOpen).
		Order("created_at asc").
		Find(&tasks).Error
	return tasks, err
}
