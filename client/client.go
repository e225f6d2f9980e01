// Package client implements the mini-app side of the task and wallet flows:
// a REST client for the points API plus the screen-level state machines the
// Earn and Wallet views drive.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrUnauthenticated   = errors.New("user not authenticated")
	ErrNotFound          = errors.New("not found")
	ErrAlreadyClaimed    = errors.New("task already claimed")
	ErrTaskClosed        = errors.New("task no longer accepts claims")
	ErrInvalidTransition = errors.New("transaction already finalized")
	ErrValidation        = errors.New("invalid request")
	ErrUpstream          = errors.New("server unavailable")
)

type Task struct {
	ID              string `json:"id"`
	TaskTypeID      int    `json:"task_type_id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Link            string `json:"link"`
	TotalClicks     int    `json:"total_clicks"`
	CompletedClicks int    `json:"completed_clicks"`
	RewardPoints    int    `json:"reward_points"`
	IsPremiumOnly   bool   `json:"is_premium_only"`
	Status          string `json:"status"`
}

type ClaimResult struct {
	Task    Task `json:"task"`
	Balance int  `json:"balance"`
}

type Transaction struct {
	ID              string          `json:"id"`
	WalletAddress   string          `json:"wallet_address"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionType string          `json:"transaction_type"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Client talks to the points API on behalf of one Telegram user. The base
// URL is injected once here instead of being repeated per screen.
type Client struct {
	BaseURL    string
	TelegramID int64
	HTTPClient *http.Client
}

func NewClient(baseURL string, telegramID int64) *Client {
	return &Client{
		BaseURL:    baseURL,
		TelegramID: telegramID,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) TasksWithType(ctx context.Context, taskTypeID int) ([]Task, error) {
	var tasks []Task
	path := fmt.Sprintf("/api/task/get_tasks_with_type?task_type_id=%d", taskTypeID)
	if err := c.do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) ClaimTask(ctx context.Context, taskID string) (*ClaimResult, error) {
	var result ClaimResult
	body := map[string]string{"task_id": taskID}
	if err := c.do(ctx, http.MethodPost, "/api/task/claim_task", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ConnectWallet(ctx context.Context, walletAddress string) error {
	body := map[string]string{"wallet_address": walletAddress}
	return c.do(ctx, http.MethodPost, "/api/wallet/connect", body, nil)
}

func (c *Client) CreateTransaction(ctx context.Context, walletAddress string, amount decimal.Decimal) (*Transaction, error) {
	var transaction Transaction
	body := map[string]interface{}{
		"wallet_address":   walletAddress,
		"amount":           amount,
		"transaction_type": "deposit",
	}
	if err := c.do(ctx, http.MethodPost, "/api/wallet/transactions/", body, &transaction); err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (c *Client) UpdateTransactionStatus(ctx context.Context, transactionID, status string) error {
	body := map[string]string{"status": status}
	path := fmt.Sprintf("/api/wallet/transactions/%s/", transactionID)
	return c.do(ctx, http.MethodPut, path, body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(payload)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Telegram-ID", strconv.FormatInt(c.TelegramID, 10))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	}

	var apiErr struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&apiErr)

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: %s", ErrUpstream, resp.Status)
	}

	switch apiErr.Code {
	case "unauthenticated":
		return ErrUnauthenticated
	case "not_found":
		return ErrNotFound
	case "already_claimed":
		return ErrAlreadyClaimed
	case "task_closed":
		return ErrTaskClosed
	case "invalid_transition":
		return ErrInvalidTransition
	case "upstream_error":
		return fmt.Errorf("%w: %s", ErrUpstream, apiErr.Error)
	default:
		return fmt.Errorf("%w: %s", ErrValidation, apiErr.Error)
	}
}
