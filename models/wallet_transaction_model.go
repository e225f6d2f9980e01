package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TransactionTypeDeposit = "deposit"

	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
)

type WalletTransaction struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	WalletAddress   string          `gorm:"size:255;not null" json:"wallet_address"`
	TransactionHash *string         `gorm:"size:255" json:"transaction_hash"`
	Amount          decimal.Decimal `gorm:"type:numeric(18,8);not null" json:"amount"`
	TransactionType string          `gorm:"size:20;not null" json:"transaction_type"`

	// pending -> completed | failed. Terminal states are final.
	Status string `gorm:"size:20;not null;default:'pending'" json:"status"`

	User User `gorm:"foreignkey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (wt *WalletTransaction) BeforeCreate(tx *gorm.DB) error {
	if wt.ID == uuid.Nil {
		wt.ID = uuid.New()
	}
	return nil
}

// Terminal reports whether the transaction has reached a final status.
func (wt *WalletTransaction) Terminal() bool {
	return wt.Status != TransactionStatusPending
}
