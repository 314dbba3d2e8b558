package service

import (
	"errors"
	"fmt"

	"mdinsert/internal/insert"
)

var (
	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrInsertFailed is returned when an insertion marker cannot be resolved.
	ErrInsertFailed = errors.New("insert failed")
)

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// classifyInsertError tags errors coming from the insert transform with
// ErrInsertFailed, keeping the original chain intact.
func classifyInsertError(err error) error {
	var (
		malformed *insert.MalformedRangeError
		reversed  *insert.ReversedRangeError
		access    *insert.FileAccessError
		bounds    *insert.RangeOutOfBoundsError
	)
	switch {
	case errors.As(err, &malformed), errors.As(err, &reversed),
		errors.As(err, &access), errors.As(err, &bounds):
		return fmt.Errorf("%w: %w", ErrInsertFailed, err)
	default:
		return err
	}
}
