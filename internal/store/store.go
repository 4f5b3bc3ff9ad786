// Package store provides the policy table interface with a REST and a SQLite
// implementation.
package store

import (
	"context"

	"github.com/mohidul-hq/VIM-System/internal/model"
)

// KeyColumn is the column that addresses a row for update and delete.
const KeyColumn = "Entry_ID"

// Store defines the policy table. Each call is a single round trip with no
// retry.
type Store interface {
	// List returns every row in table order.
	List(ctx context.Context) ([]model.Policy, error)

	// Create appends p. The caller assigns p.EntryID.
	Create(ctx context.Context, p model.Policy) error

	// Update replaces the row whose Entry_ID is entryID with p.
	Update(ctx context.Context, entryID string, p model.Policy) error

	// Delete removes the row whose Entry_ID is entryID.
	Delete(ctx context.Context, entryID string) error

	// Close releases the store.
	Close() error
}
