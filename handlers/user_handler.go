package handlers

import (
	"github.com/beinghouse/miniapp-backend/database"
	"github.com/beinghouse/miniapp-backend/middleware"
	"github.com/beinghouse/miniapp-backend/models"
	"github.com/gofiber/fiber/v2"
)

func GetMe(c *fiber.Ctx) error {
	return c.JSON(middleware.CurrentUser(c))
}

type ReferralEntry struct {
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	Status       string `json:"status"`
	RewardPoints int    `json:"reward_points"`
}

// ListMyReferrals returns the users invited by the caller together with the
// points each has contributed through the referral share.
func ListMyReferrals(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var entries []ReferralEntry
	err := database.DB.Model(&models.Referral{}).
		Select("users.username", "users.first_name", "referrals.status", "referrals.reward_points").
		Joins("JOIN users ON users.id = referrals.referred_user_id").
		Where("referrals.referrer_id = ?", user.ID).
		Order("referrals.created_at asc").
		Find(&entries).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to retrieve referrals", "code": "internal_error"})
	}

	return c.JSON(entries)
}
