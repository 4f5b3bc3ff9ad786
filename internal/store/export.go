package store

import (
	"context"

	"github.com/mohidul-hq/VIM-System/internal/model"
)

// Export returns every row of s. Unlike a dashboard refresh, a failed fetch
// is returned rather than read as an empty table.
func Export(ctx context.Context, s Store) ([]model.Policy, error) {
	return s.List(ctx)
}

// Import creates each row in order. Rows without an Entry_ID get one from
// newID; rows without a vehicle number, or whose Entry_ID already exists in
// s, are skipped. It returns the number of rows created and stops at the
// first failure.
func Import(ctx context.Context, s Store, rows []model.Policy, newID func() string) (int, error) {
	existing, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(existing))
	for _, p := range existing {
		seen[p.EntryID] = true
	}

	imported := 0
	for _, p := range rows {
		p = p.Normalize()
		if p.VehicleNumber == "" {
			continue
		}
		if p.EntryID == "" {
			p.EntryID = newID()
		}
		if seen[p.EntryID] {
			continue
		}
		if err := s.Create(ctx, p); err != nil {
			return imported, err
		}
		seen[p.EntryID] = true
		imported++
	}
	return imported, nil
}
