package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mohidul-hq/VIM-System/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func samplePolicy(id, number string) model.Policy {
	return model.Policy{
		EntryID:       id,
		VehicleNumber: number,
		VehicleType:   model.FourWheeler,
		CustomerName:  "Ravi",
		CustomerPhone: "+91 98200 00000",
		BookDate:      model.NewDate(2025, time.November, 1),
		ExpDate:       model.NewDate(2026, time.October, 31),
	}
}

func TestCreateAndList(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	want := samplePolicy("1760700000000", "MH12AB1234")
	if err := s.Create(ctx, want); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 row, got %d", len(got))
	}
	if got[0] != want {
		t.Errorf("row mismatch:\n got %+v\nwant %+v", got[0], want)
	}
}

func TestListEmpty(t *testing.T) {
	s := newTestStore(t)
	got, err := s.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestInsertionOrderSurvivesUpdate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, id := range []string{"c", "a", "b"} {
		if err := s.Create(ctx, samplePolicy(id, "KA01"+id)); err != nil {
			t.Fatal(err)
		}
	}

	upd := samplePolicy("ignored", "KA01NEW")
	upd.Notes = "renewed"
	if err := s.Update(ctx, "c", upd); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, _ := s.List(ctx)
	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got))
	}
	if got[0].EntryID != "c" || got[1].EntryID != "a" || got[2].EntryID != "b" {
		t.Errorf("expected store order c,a,b, got %s,%s,%s", got[0].EntryID, got[1].EntryID, got[2].EntryID)
	}
	if got[0].VehicleNumber != "KA01NEW" || got[0].Notes != "renewed" {
		t.Errorf("update not applied: %+v", got[0])
	}
}

func TestDuplicateEntryID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Create(ctx, samplePolicy("dup", "A1"))
	err := s.Create(ctx, samplePolicy("dup", "A2"))
	if !errors.Is(err, ErrDuplicateEntryID) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	var we *WriteError
	if !errors.As(err, &we) || we.Op != "add" {
		t.Errorf("expected WriteError for add, got %T %v", err, err)
	}
}

func TestUpdateDeleteUnknown(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.Update(ctx, "nope", samplePolicy("", "X")); !errors.Is(err, ErrNotFound) {
		t.Errorf("update: expected not found, got %v", err)
	}
	if err := s.Delete(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete: expected not found, got %v", err)
	}
}

func TestMissingEntryID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	var pe *PreconditionError
	if err := s.Update(ctx, "", samplePolicy("", "X")); !errors.As(err, &pe) || pe.Op != "update" {
		t.Errorf("update: expected precondition error, got %v", err)
	}
	if err := s.Delete(ctx, ""); !errors.Is(err, ErrMissingEntryID) {
		t.Errorf("delete: expected missing Entry_ID, got %v", err)
	}
	if err := s.Create(ctx, samplePolicy("", "X")); !errors.Is(err, ErrMissingEntryID) {
		t.Errorf("create: expected missing Entry_ID, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Create(ctx, samplePolicy("1", "A1"))
	s.Create(ctx, samplePolicy("2", "A2"))

	if err := s.Delete(ctx, "1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ := s.List(ctx)
	if len(got) != 1 || got[0].EntryID != "2" {
		t.Errorf("expected only row 2 left, got %+v", got)
	}
	if err := s.Delete(ctx, "1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected second delete to miss, got %v", err)
	}
}

func TestCreateBatchIsAtomic(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	err := s.CreateBatch(ctx, []model.Policy{
		samplePolicy("1", "A1"),
		samplePolicy("2", "A2"),
		samplePolicy("1", "A3"),
	})
	if !errors.Is(err, ErrDuplicateEntryID) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	got, _ := s.List(ctx)
	if len(got) != 0 {
		t.Errorf("expected rollback, got %d rows", len(got))
	}
}

func TestReopenKeepsRows(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "records.db")

	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Create(ctx, samplePolicy("1", "A1"))
	s.Close()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected db file: %v", err)
	}

	s2, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	got, _ := s2.List(ctx)
	if len(got) != 1 {
		t.Errorf("expected 1 row after reopen, got %d", len(got))
	}
}

// storeRequests reads vim_store_requests_total for op and outcome.
func storeRequests(t *testing.T, op, outcome string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != "vim_store_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["op"] == op && labels["outcome"] == outcome {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestSQLiteRecordsMetrics(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	created := storeRequests(t, "create", "ok")
	listed := storeRequests(t, "list", "ok")
	rejected := storeRequests(t, "delete", "precondition")
	failed := storeRequests(t, "update", "error")

	s.Create(ctx, samplePolicy("1", "A1"))
	s.CreateBatch(ctx, []model.Policy{samplePolicy("2", "A2")})
	s.List(ctx)
	s.Delete(ctx, "")
	s.Update(ctx, "missing", samplePolicy("", "X"))

	if got := storeRequests(t, "create", "ok") - created; got != 2 {
		t.Errorf("create ok: expected +2, got %v", got)
	}
	if got := storeRequests(t, "list", "ok") - listed; got != 1 {
		t.Errorf("list ok: expected +1, got %v", got)
	}
	if got := storeRequests(t, "delete", "precondition") - rejected; got != 1 {
		t.Errorf("delete precondition: expected +1, got %v", got)
	}
	if got := storeRequests(t, "update", "error") - failed; got != 1 {
		t.Errorf("update error: expected +1, got %v", got)
	}
}
