package store

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingEntryID is matched by every PreconditionError.
	ErrMissingEntryID = errors.New("Entry_ID missing")

	// ErrNotFound is returned when no row has the requested Entry_ID.
	ErrNotFound = errors.New("entry not found")

	// ErrDuplicateEntryID is returned when a created row reuses an Entry_ID.
	ErrDuplicateEntryID = errors.New("duplicate Entry_ID")
)

// FetchError reports a failed List. Callers degrade to an empty list.
type FetchError struct {
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch records: HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch records: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// WriteError reports a failed create, update or delete.
type WriteError struct {
	Op         string // "add", "update" or "delete"
	EntryID    string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *WriteError) Error() string {
	msg := "Failed to " + e.Op
	if e.StatusCode > 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *WriteError) Unwrap() error { return e.Err }

// PreconditionError is returned before any request when an addressed
// operation has no Entry_ID.
type PreconditionError struct {
	Op string
}

func (e *PreconditionError) Error() string {
	return "Entry_ID missing for " + e.Op
}

func (e *PreconditionError) Is(target error) bool {
	return target == ErrMissingEntryID
}

func requireEntryID(op, entryID string) error {
	if entryID == "" {
		return &PreconditionError{Op: op}
	}
	return nil
}
