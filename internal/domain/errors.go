package domain

import (
	"errors"
	"fmt"
)

// Domain errors are recoverable, request-scoped failures. Anything that
// is not one of these is treated as an infrastructure failure by the
// HTTP layer and reported as a generic database error.
var (
	ErrNotFound           = errors.New("record not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrAlreadyRegistered  = errors.New("already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrStatusTransition   = errors.New("status transition not allowed")
)

// InsufficientStockError identifies the offending product by name so the
// caller can report which line item exceeded the available stock.
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("product %q exceeds available stock (requested %d, available %d)",
		e.ProductName, e.Requested, e.Available)
}

// IsDomainError reports whether err belongs to the recoverable taxonomy.
func IsDomainError(err error) bool {
	var stockErr *InsufficientStockError
	if errors.As(err, &stockErr) {
		return true
	}
	for _, target := range []error{
		ErrNotFound, ErrUnauthorized, ErrAlreadyRegistered,
		ErrInvalidCredentials, ErrInvalidToken, ErrInvalidQuantity,
		ErrInvalidStatus, ErrStatusTransition,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
