package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")
	// ErrCartNotFound is returned when a cart is not found.
	ErrCartNotFound = errors.New("cart not found")
	// ErrProductNotInCart is returned when a quantity update targets a product the cart does not hold.
	ErrProductNotInCart = errors.New("product not found in cart")

	ErrInvalidID       = errors.New("invalid id")
	ErrDuplicateKey    = errors.New("duplicate key")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrValidation      = errors.New("validation failed")
)

// ValidationError lists every field problem found in a request payload.
type ValidationError struct {
	Problems []string
}

func NewValidationError(problems ...string) *ValidationError {
	return &ValidationError{Problems: problems}
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ParseID parses a document identifier, returning ErrInvalidID when it is not a UUID.
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, ErrInvalidID
	}
	return id, nil
}
