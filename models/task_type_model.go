package models

type TaskType struct {
	ID   int    `gorm:"primary_key" json:"id"`
	Name string `gorm:"size:50;not null;unique" json:"name"`
}

// Seeded task categories. IDs double as the mini-app tab order.
const (
	TaskTypeAffiliateLink       = 1
	TaskTypeChannelSubscription = 2
	TaskTypeRatingVote          = 3
	TaskTypeVideoWatch          = 4
)
