package contract

import (
	"errors"
	"fmt"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrUnknownIntent       = errors.New("intent is not supported")
	ErrUnsupportedDuration = errors.New("unsupported appointment duration")
	ErrSlotUnavailable     = errors.New("time slot is not in the availability set")
)

// FieldError is a field-scoped resolution failure: an upstream-resolved slot
// had no valid interpretation. The engine surfaces the message verbatim as a
// close directive instead of failing the turn.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("slot %s: %s", e.Field, e.Message)
}

// AsFieldError unwraps err into a *FieldError if it is one.
func AsFieldError(err error) (*FieldError, bool) {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
