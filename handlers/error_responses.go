package handlers

import (
	"errors"

	"github.com/beinghouse/miniapp-backend/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// serviceError maps the service error taxonomy onto HTTP responses. The
// machine-readable code lets clients distinguish "already done" from "task
// full" from genuine failures (only the latter are retryable).
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrTransactionNotFound),
		errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).
			JSON(fiber.Map{"error": err.Error(), "code": "not_found"})
	case errors.Is(err, services.ErrAlreadyClaimed):
		return c.Status(fiber.StatusConflict).
			JSON(fiber.Map{"error": err.Error(), "code": "already_claimed"})
	case errors.Is(err, services.ErrTaskClosed):
		return c.Status(fiber.StatusGone).
			JSON(fiber.Map{"error": err.Error(), "code": "task_closed"})
	case errors.Is(err, services.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).
			JSON(fiber.Map{"error": err.Error(), "code": "invalid_transition"})
	case errors.Is(err, services.ErrInsufficientBalance):
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": err.Error(), "code": "insufficient_balance"})
	case errors.Is(err, services.ErrWalletNotConnected):
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": err.Error(), "code": "wallet_not_connected"})
	case errors.Is(err, services.ErrInvalidAmount):
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": err.Error(), "code": "validation_error"})
	default:
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Internal server error", "code": "internal_error"})
	}
}

func validationError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).
		JSON(fiber.Map{"error": err.Error(), "code": "validation_error"})
}

func parseError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).
		JSON(fiber.Map{"error": "Cannot parse JSON", "code": "validation_error"})
}
