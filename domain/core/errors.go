package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input errors
	ErrInvalidColumn      = errors.New("invalid column")
	ErrNonNumericResponse = errors.New("response is not numeric")
	ErrLengthMismatch     = errors.New("column length mismatch")
	ErrInsufficientData   = errors.New("insufficient data for analysis")

	// Scoring errors
	ErrDegenerateBinning = errors.New("degenerate binning")
	ErrTooManyPredictors = errors.New("too many predictors")
	ErrTooManyPairs      = errors.New("too many predictor pairs")
)

// Error constructors with context
func NewInvalidColumnError(column string) error {
	return fmt.Errorf("%w: %q not present in dataset", ErrInvalidColumn, column)
}

func NewDegenerateBinningError(column string, reason string) error {
	return fmt.Errorf("%w for %s: %s", ErrDegenerateBinning, column, reason)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

func NewLengthMismatchError(column string, got, want int) error {
	return fmt.Errorf("%w: %s has %d rows, expected %d", ErrLengthMismatch, column, got, want)
}

// Error checking helpers
func IsInvalidColumnError(err error) bool {
	return errors.Is(err, ErrInvalidColumn)
}

func IsDegenerateBinningError(err error) bool {
	return errors.Is(err, ErrDegenerateBinning)
}

// IsInputError reports whether err was caused by the caller's request or dataset
// rather than by the engine.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidColumn) ||
		errors.Is(err, ErrNonNumericResponse) ||
		errors.Is(err, ErrLengthMismatch) ||
		errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrTooManyPredictors) ||
		errors.Is(err, ErrTooManyPairs)
}
