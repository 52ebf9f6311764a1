package services

import "errors"

var (
	// ErrValidation marks caller mistakes; nothing was attempted.
	ErrValidation = errors.New("validation failed")

	// ErrOrderNotFound deliberately covers both a missing order and an
	// order owned by someone else, so existence is not leaked to
	// non-owners.
	ErrOrderNotFound = errors.New("order not found or unauthorized")

	// ErrOrderNotCancellable means the order has moved past confirmed.
	ErrOrderNotCancellable = errors.New("order cannot be cancelled at this stage")

	// ErrInsufficientStock means a conditional quantity decrement matched
	// no row; the whole creation was rolled back.
	ErrInsufficientStock = errors.New("insufficient quantity available")
)
