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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Deposit tiers offered in the wallet screen. Stand-in for the external
// pricing contract; amounts outside the tiers credit nothing.
var depositTiers = []struct {
	Amount decimal.Decimal
	Points int
}{
	{decimal.NewFromInt(3), 1500},
	{decimal.NewFromInt(10), 5000},
	{decimal.NewFromInt(50), 25000},
}

// PointsForDeposit maps a deposited TON amount to the points it buys.
func PointsForDeposit(amount decimal.Decimal) int {
	for _, tier := range depositTiers {
		if amount.Equal(tier.Amount) {
			return tier.Points
		}
	}
	return 0
}

// DepositTiers returns the offered top-up amounts with their point values.
func DepositTiers() []map[string]interface{} {
	tiers := make([]map[string]interface{}, 0, len(depositTiers))
	for _, tier := range depositTiers {
		tiers = append(tiers, map[string]interface{}{
			"amount": tier.Amount,
			"points": tier.Points,
		})
	}
	return tiers
}

// ConnectWallet links a payment wallet address to the user.
func ConnectWallet(user models.User, walletAddress string) error {
	if walletAddress == "" {
		return ErrInvalidAmount
	}
	return database.DB.Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("wallet_address", walletAddress).Error
}

// CreateTransaction records a deposit intent in pending state. The external
// payment is only attempted by the client after this row exists.
func CreateTransaction(user models.User, walletAddress string, amount decimal.Decimal, transactionType string) (*models.WalletTransaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if user.WalletAddress == nil || *user.WalletAddress == "" {
		return nil, ErrWalletNotConnected
	}
	if transactionType == "" {
		transactionType = models.TransactionTypeDeposit
	}

	transaction := models.WalletTransaction{
		UserID:          user.ID,
		WalletAddress:   walletAddress,
		Amount:          amount,
		TransactionType: transactionType,
		Status:          models.TransactionStatusPending,
	}

	if err := database.DB.Create(&transaction).Error; err != nil {
		return nil, err
	}

	log.Printf("Transaction %s created by user %d (%s TON)", transaction.ID, user.TelegramID, amount)
	return &transaction, nil
}

// ResolveTransaction moves a pending transaction to a terminal status and, on
// completion, credits the purchased points. The guarded status update makes
// replays of the same reconciliation call fail with ErrInvalidTransition
// instead of double-crediting.
func ResolveTransaction(user models.User, transactionID uuid.UUID, status string, transactionHash *string) (*models.WalletTransaction, error) {
	if status != models.TransactionStatusCompleted && status != models.TransactionStatusFailed {
		return nil, ErrInvalidTransition
	}

	var transaction models.WalletTransaction
	var credited int

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&transaction, "id = ? AND user_id = ?", transactionID, user.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}

		updates := map[string]interface{}{"status": status}
		if transactionHash != nil {
			updates["transaction_hash"] = *transactionHash
		}

		res := tx.Model(&models.WalletTransaction{}).
			Where("id = ? AND status = ?", transaction.ID, models.TransactionStatusPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}

		if status == models.TransactionStatusCompleted {
			credited = PointsForDeposit(transaction.Amount)
			if credited > 0 {
				if err := tx.Model(&models.User{}).
					Where("id = ?", user.ID).
					UpdateColumn("points", gorm.Expr("points + ?", credited)).Error; err != nil {
					return err
				}
			}
		}

		return tx.First(&transaction, "id = ?", transaction.ID).Error
	})
	if err != nil {
		return nil, err
	}

	if credited > 0 {
		go notifications.SendTelegramMessage(user.TelegramID,
			fmt.Sprintf("Deposit of %s TON confirmed! +%d points.", transaction.Amount, credited))
		websocket.Notify(user.TelegramID, websocket.Event{
			Type:          websocket.EventDepositCredited,
			TransactionID: transaction.ID.String(),
			Points:        credited,
			Balance:       user.Points + credited,
		})
	}

	return &transaction, nil
}

// ListTransactions returns the user's transactions, newest first.
func ListTransactions(user models.User) ([]models.WalletTransaction, error) {
	var transactions []models.WalletTransaction
	err := database.DB.
		Where("user_id = ?", user.ID).
		Order("created_at desc").
		Find(&transactions).Error
	return transactions, err
}
