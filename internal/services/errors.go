package services

import (
	"errors"
	"fmt"
)

// Domain errors surfaced to API callers as 400 responses. The messages are
// part of the API contract, so they are spelled the way clients expect.
var (
	ErrEmptyCart            = errors.New("Cart is empty")
	ErrInvalidOrExpiredCode = errors.New("Invalid or expired code")
)

// InsufficientStockError is returned when a checkout needs more units of a
// product than are in stock. Available carries the stock observed inside
// the failing transaction.
type InsufficientStockError struct {
	ProductName string
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Not enough stock for %s. Available: %d", e.ProductName, e.Available)
}
