package services

import "errors"

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrTaskClosed          = errors.New("task no longer accepts claims")
	ErrAlreadyClaimed      = errors.New("task already claimed by this user")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrUserNotFound        = errors.New("user not found")
	ErrWalletNotConnected  = errors.New("wallet not connected")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidTransition   = errors.New("transaction already finalized")
)
