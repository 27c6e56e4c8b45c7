// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// ErrNotFound covers operations addressing a nonexistent pattern id.
	ErrNotFound = errors.New("not found")

	// ErrValidation covers out-of-range caller input. Never retried.
	ErrValidation = errors.New("invalid input")

	// ErrInsufficientData is a soft signal: the input was well-formed but
	// there is not enough history to classify, score, or estimate. Callers
	// render it as a message rather than treating it as a failure.
	ErrInsufficientData = errors.New("insufficient data")
)

// NewValidationError wraps ErrValidation with a description of the bad input.
func NewValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// IsInsufficientData reports whether err is the soft insufficient-data signal.
func IsInsufficientData(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}
