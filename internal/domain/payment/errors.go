package payment

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers a missing payment row.
	ErrNotFound = errors.New("payment not found")

	// ErrAppointmentNotFound means the referenced appointment could not
	// be resolved. Payments carry a bare appointment identifier, so the
	// lookup is explicit rather than enforced by the store.
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrInvalidAmount rejects a non-positive settlement amount.
	ErrInvalidAmount = errors.New("amount must be positive")
)

// ValidationError is a method-specific credential failure from the
// gateway, e.g. a missing CVV or an expired card.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
