package ledger

import (
	"errors"
	"fmt"

	"github.com/mmynk/mefinance/internal/storage"
)

var (
	// ErrValidation marks malformed or missing input. Concrete errors are *FieldError.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a referenced category, bill or balance that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPreconditionFailed marks a balance mutation before the balance exists.
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrConflict marks a second balance for a user, or a payment against a settled bill.
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized marks an operation without an authenticated user.
	ErrUnauthorized = errors.New("unauthorized")
)

// FieldError reports which input field failed validation.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is(err, ErrValidation) match.
func (e *FieldError) Unwrap() error {
	return ErrValidation
}

func invalid(field, message string) error {
	return &FieldError{Field: field, Message: message}
}

// classify maps storage errors onto the ledger taxonomy, keeping the
// original error in the chain.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNoBalance):
		return fmt.Errorf("%w: create a balance first: %w", ErrPreconditionFailed, err)
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, storage.ErrAlreadyExists), errors.Is(err, storage.ErrBillPaid):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	default:
		return err
	}
}
