package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TelegramID int64     `gorm:"not null;uniqueIndex" json:"telegram_id"`
	Username   string    `gorm:"size:255" json:"username"`
	FirstName  string    `gorm:"size:255" json:"first_name"`
	LastName   string    `gorm:"size:255" json:"last_name"`
	Role       string    `gorm:"size:20;not null;default:'user'" json:"role"`

	// Admin accounts authenticate with a password instead of Telegram init data.
	Password *string `gorm:"size:255" json:"-"`

	Points    int  `gorm:"not null;default:0" json:"points"`
	IsPremium bool `gorm:"default:false" json:"is_premium"`

	ReferralCode   *string `gorm:"size:10;unique" json:"referral_code"`
	ReferredByCode *string `gorm:"size:10" json:"referred_by_code"`

	WalletAddress *string `gorm:"size:255" json:"wallet_address"`
	LanguageCode  string  `gorm:"size:5;default:'en'" json:"language_code"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
