package domain

import (
	"errors"
	"fmt"
)

// Closed error set consumed by the booking workflow and the API layer.
var (
	ErrUnknownFlight     = errors.New("unknown flight")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidInput      = errors.New("invalid input")
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrBookingNotFound   = errors.New("booking not found")
)

// PersistenceError wraps a failed document-store round trip. The operation it
// names committed nothing; callers may retry.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}
