package entity

import (
	"errors"
	"fmt"
)

// ErrInvalidInput matches every *ValidationError via errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError reports a rejected request field (url, name, kind, axis, id).
// Its message is safe to show to API clients.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// AsValidationError finds the first *ValidationError in err's chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}
