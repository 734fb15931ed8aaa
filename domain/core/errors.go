package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Contract violations
	ErrFieldNotFound = errors.New("field not found in data source")
	ErrInvalidInput  = errors.New("invalid input")

	// Statistical condition. The test suite recovers under-sized input
	// locally with sentinel results; loaders that need a hard failure
	// surface this instead. Degenerate numerics (zero variance, empty
	// contingency rows) substitute safe values and never error.
	ErrInsufficientData = errors.New("insufficient data for analysis")

	// Request lifecycle
	ErrAborted      = errors.New("aggregation aborted")
	ErrStaleRequest = errors.New("request superseded by a newer one")
)

// Error constructors with context
func NewFieldNotFoundError(field string) error {
	return fmt.Errorf("%w: %q", ErrFieldNotFound, field)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidInput, field, reason)
}

func NewAbortedError(requestID string) error {
	return fmt.Errorf("%w: request %s", ErrAborted, requestID)
}

// Error checking helpers
func IsAborted(err error) bool {
	return errors.Is(err, ErrAborted)
}

func IsFieldNotFound(err error) bool {
	return errors.Is(err, ErrFieldNotFound)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
