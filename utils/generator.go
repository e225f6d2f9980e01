package utils

import (
	"math/rand"

	"github.com/beinghouse/miniapp-backend/models"
	"gorm.io/gorm"
)

const referralCodeLength = 8
const letterBytes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateUniqueReferralCode picks a code not yet owned by any user. Runs
// inside the registration transaction so the uniqueness check holds at commit.
func GenerateUniqueReferralCode(tx *gorm.DB) (string, error) {
	for {
		b := make([]byte, referralCodeLength)
		for i := range b {
			b[i] = letterBytes[rand.Intn(len(letterBytes))]
		}
		code := string(b)

		var count int64
		if err := tx.Model(&models.User{}).Where("referral_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
}
