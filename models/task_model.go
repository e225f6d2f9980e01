package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TaskStatusOpen         = "open"
	TaskStatusQuotaReached = "quota_reached"
	TaskStatusStopped      = "stopped"
)

const (
	MinTotalClicks  = 10
	MinRewardPoints = 1
)

type Task struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID    uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	TaskTypeID int       `gorm:"not null;index" json:"task_type_id"`

	Name        string  `gorm:"size:255;not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Link        string  `gorm:"size:255;not null" json:"link"`
	ImageURL    *string `gorm:"size:255" json:"image_url"`

	// Quota and reward are immutable after creation.
	TotalClicks     int `gorm:"not null" json:"total_clicks"`
	CompletedClicks int `gorm:"not null;default:0" json:"completed_clicks"`
	RewardPoints    int `gorm:"not null" json:"reward_points"`

	IsPremiumOnly bool   `gorm:"default:false" json:"is_premium_only"`
	Status        string `gorm:"size:20;not null;default:'open'" json:"status"`

	Owner    User     `gorm:"foreignkey:OwnerID" json:"-"`
	TaskType TaskType `gorm:"foreignkey:TaskTypeID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Archived reports whether the task no longer accepts claims.
func (t *Task) Archived() bool {
	return t.Status != TaskStatusOpen
}
