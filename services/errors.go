package services

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrSuggestionNotFound   = errors.New("suggestion not found")
	ErrInvalidTransition    = errors.New("order status does not allow this action")
	ErrHoldNotFound         = errors.New("no pending payment for this session")
	ErrHoldExpired          = errors.New("pending payment expired, please checkout again")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrLineNotFound         = errors.New("cart line not found")
	ErrStockContention      = errors.New("stock is being updated by other orders, try again")
	ErrNoActiveOrder        = errors.New("no order to track")
	ErrStoreClosed          = errors.New("we're closed, see you saturday")
)

// ValidationError is a malformed checkout or admin input, reported per field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StockConflictError is raised when the requested quantity exceeds stock.
type StockConflictError struct {
	Item      string
	Available int
	Requested int
}

func (e *StockConflictError) Error() string {
	if e.Available <= 0 {
		return fmt.Sprintf("%s is out of stock!", e.Item)
	}
	return fmt.Sprintf("Only %d left of %s!", e.Available, e.Item)
}

// PersistenceError wraps a failed write to orders, suggestions or stock.
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

func persistErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}
