package services

import (
	"errors"

	"github.com/beinghouse/miniapp-backend/models"
	"gorm.io/gorm"
)

// ReferralSharePercent of every task reward is paid on top to the referrer.
const ReferralSharePercent = 10

// CreditReferralShare pays the claimant's referrer their share of a task
// reward. Runs inside the claim transaction so the share is all-or-nothing
// with the claim itself. No referrer, no share, no error.
func CreditReferralShare(tx *gorm.DB, claimant models.User, rewardPoints int) error {
	share := rewardPoints * ReferralSharePercent / 100
	if share <= 0 {
		return nil
	}

	var referral models.Referral
	if err := tx.Where("referred_user_id = ?", claimant.ID).First(&referral).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if err := tx.Model(&models.User{}).
		Where("id = ?", referral.ReferrerID).
		UpdateColumn("points", gorm.Expr("points + ?", share)).Error; err != nil {
		return err
	}

	return tx.Model(&models.Referral{}).
		Where("id = ?", referral.ID).
		Updates(map[string]interface{}{
			"status":        "completed",
			"reward_points": gorm.Expr("reward_points + ?", share),
		}).Error
}
