package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultPaymentValidity is how long the external payment confirmation may
// take before the attempt is treated as failed.
const DefaultPaymentValidity = 5 * time.Minute

// PaymentFunc performs the external payment confirmation (TON Connect). It
// must respect ctx's deadline: the validity window is enforced through it.
type PaymentFunc func(ctx context.Context, walletAddress string, amount decimal.Decimal) error

// TopUpFlow drives a wallet deposit: create the pending transaction, request
// the external payment, then reconcile the terminal status. The status
// report is mandatory on every path so no transaction is left pending by a
// merely declined payment.
type TopUpFlow struct {
	api      *Client
	pay      PaymentFunc
	Validity time.Duration
}

func NewTopUpFlow(api *Client, pay PaymentFunc) *TopUpFlow {
	return &TopUpFlow{
		api:      api,
		pay:      pay,
		Validity: DefaultPaymentValidity,
	}
}

// TopUp executes one deposit attempt and returns the reconciled transaction.
// If the terminal status cannot be reported even after a retry, the error is
// surfaced and the transaction stays pending server-side for the
// reconciliation sweep; it is never silently abandoned.
func (f *TopUpFlow) TopUp(ctx context.Context, walletAddress string, amount decimal.Decimal) (*Transaction, error) {
	transaction, err := f.api.CreateTransaction(ctx, walletAddress, amount)
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	payCtx, cancel := context.WithTimeout(ctx, f.Validity)
	payErr := f.pay(payCtx, walletAddress, amount)
	cancel()

	status := "completed"
	if payErr != nil {
		status = "failed"
	}

	if err := f.report(ctx, transaction.ID, status); err != nil {
		return transaction, fmt.Errorf("report %s status: %w", status, err)
	}
	transaction.Status = status

	if payErr != nil {
		return transaction, fmt.Errorf("payment failed: %w", payErr)
	}
	return transaction, nil
}

// report pushes the terminal status, retrying once on transient upstream
// failure. A replay rejection means the status already landed.
func (f *TopUpFlow) report(ctx context.Context, transactionID, status string) error {
	err := f.api.UpdateTransactionStatus(ctx, transactionID, status)
	if errors.Is(err, ErrUpstream) {
		err = f.api.UpdateTransactionStatus(ctx, transactionID, status)
	}
	if errors.Is(err, ErrInvalidTransition) {
		return nil
	}
	return err
}
