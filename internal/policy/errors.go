package policy

import "errors"

var (
	// ErrNoForm is returned by Submit when no form is open.
	ErrNoForm = errors.New("no form open")

	// ErrUnknownEntry is returned when an Entry_ID is not in the current list.
	ErrUnknownEntry = errors.New("no policy with that Entry_ID")
)

// ValidationError reports a required field left empty. No request is made.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return e.Field + " is required"
}
