package handlers

import (
	"github.com/beinghouse/miniapp-backend/database"
	"github.com/beinghouse/miniapp-backend/models"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type StatisticsResponse struct {
	TotalUsers   int64 `json:"total_users"`
	PremiumUsers int64 `json:"premium_users"`
	PointsIssued int64 `json:"points_issued"`

	TasksByStatus map[string]int64 `json:"tasks_by_status"`
	TotalClaims   int64            `json:"total_claims"`

	TransactionsByStatus map[string]int64           `json:"transactions_by_status"`
	DepositedByStatus    map[string]decimal.Decimal `json:"deposited_by_status"`
}

// GetStatistics aggregates the admin dashboard numbers.
func GetStatistics(c *fiber.Ctx) error {
	stats := StatisticsResponse{
		TasksByStatus:        map[string]int64{},
		TransactionsByStatus: map[string]int64{},
		DepositedByStatus:    map[string]decimal.Decimal{},
	}

	if err := database.DB.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return statisticsError(c, err)
	}
	if err := database.DB.Model(&models.User{}).Where("is_premium = ?", true).Count(&stats.PremiumUsers).Error; err != nil {
		return statisticsError(c, err)
	}

	if err := database.DB.Model(&models.TaskClaim{}).
		Select("COALESCE(SUM(points_awarded), 0)").Scan(&stats.PointsIssued).Error; err != nil {
		return statisticsError(c, err)
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var taskCounts []statusCount
	if err := database.DB.Model(&models.Task{}).
		Select("status, COUNT(*) as count").Group("status").Scan(&taskCounts).Error; err != nil {
		return statisticsError(c, err)
	}
	for _, row := range taskCounts {
		stats.TasksByStatus[row.Status] = row.Count
	}

	if err := database.DB.Model(&models.TaskClaim{}).Count(&stats.TotalClaims).Error; err != nil {
		return statisticsError(c, err)
	}

	type statusSum struct {
		Status string
		Count  int64
		Total  decimal.Decimal
	}
	var txSums []statusSum
	if err := database.DB.Model(&models.WalletTransaction{}).
		Select("status, COUNT(*) as count, COALESCE(SUM(amount), 0) as total").
		Group("status").Scan(&txSums).Error; err != nil {
		return statisticsError(c, err)
	}
	for _, row := range txSums {
		stats.TransactionsByStatus[row.Status] = row.Count
		stats.DepositedByStatus[row.Status] = row.Total
	}

	return c.JSON(stats)
}

func statisticsError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).
		JSON(fiber.Map{"error": "Failed to aggregate statistics", "code": "internal_error"})
}
