package service

import "errors"

// ErrNotFound is returned when a target row is absent or belongs to a
// different owner. The two cases are deliberately indistinguishable so a
// caller cannot probe for other users' data.
var ErrNotFound = errors.New("not found")

// ValidationError reports rejected client input for a specific field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// AsValidation returns the ValidationError inside err, if any.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
