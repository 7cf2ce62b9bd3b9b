package usecase

import "errors"

// Failure taxonomy surfaced to handlers. Services wrap these with context via
// fmt.Errorf("...: %w", Err...) so handlers can match with errors.Is.
var (
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrSlotConflict        = errors.New("slot unavailable")
	ErrSlotNotReserved     = errors.New("slot not reserved")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrPaymentGateway      = errors.New("payment gateway error")
	ErrInvalidInput        = errors.New("invalid input")
)
