package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskClaim records that one user completed one task. The composite unique
// index is the durability anchor for exactly-once crediting: a concurrent
// duplicate claim fails the insert instead of double-crediting.
type TaskClaim struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TaskID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_task_claims_task_user" json:"task_id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_task_claims_task_user" json:"user_id"`
	PointsAwarded int       `gorm:"not null" json:"points_awarded"`

	Task Task `gorm:"foreignkey:TaskID" json:"-"`
	User User `gorm:"foreignkey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (tc *TaskClaim) BeforeCreate(tx *gorm.DB) error {
	if tc.ID == uuid.Nil {
		tc.ID = uuid.New()
	}
	return nil
}
