package handlers

import (
	"github.com/beinghouse/miniapp-backend/middleware"
	"github.com/beinghouse/miniapp-backend/payments"
	"github.com/beinghouse/miniapp-backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ConnectWalletRequest struct {
	WalletAddress string `json:"wallet_address" validate:"required,max=255"`
}

type CreateTransactionRequest struct {
	WalletAddress   string          `json:"wallet_address" validate:"required,max=255"`
	Amount          decimal.Decimal `json:"amount" validate:"required"`
	TransactionType string          `json:"transaction_type" validate:"omitempty,oneof=deposit"`
}

type UpdateTransactionRequest struct {
	Status          string  `json:"status" validate:"required,oneof=completed failed"`
	TransactionHash *string `json:"transaction_hash" validate:"omitempty,max=255"`
}

// ConnectWallet links the TON Connect address reported by the mini-app.
func ConnectWallet(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req ConnectWalletRequest
	if err := c.BodyParser(&req); err != nil {
		return parseError(c)
	}
	if err := validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	if err := services.ConnectWallet(user, req.WalletAddress); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Wallet connected"})
}

// CreateWalletTransaction records a deposit intent before the external
// payment is requested.
func CreateWalletTransaction(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req CreateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return parseError(c)
	}
	if err := validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	transaction, err := services.CreateTransaction(user, req.WalletAddress, req.Amount, req.TransactionType)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(transaction)
}

// UpdateWalletTransaction reconciles the terminal outcome of the external
// payment. Replays with the same id are rejected, never double-applied.
func UpdateWalletTransaction(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	transactionID, err := uuid.Parse(c.Params("transactionId"))
	if err != nil {
		return validationError(c, err)
	}

	var req UpdateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return parseError(c)
	}
	if err := validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	transaction, err := services.ResolveTransaction(user, transactionID, req.Status, req.TransactionHash)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(transaction)
}

func ListWalletTransactions(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	transactions, err := services.ListTransactions(user)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(transactions)
}

// GetRates returns the deposit tiers and the cached TON/USD price.
func GetRates(c *fiber.Ctx) error {
	price, err := payments.GetTonPrice()
	if err != nil {
		return c.Status(fiber.StatusBadGateway).
			JSON(fiber.Map{"error": "Failed to fetch TON price", "code": "upstream_error"})
	}

	return c.JSON(fiber.Map{
		"ton_usd": price,
		"tiers":   services.DepositTiers(),
	})
}
