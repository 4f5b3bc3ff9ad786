package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mohidul-hq/VIM-System/internal/model"
)

// SQLiteStore implements Store on a local SQLite table. Rows are listed in
// insertion order; updates keep a row's position.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS policies (
		entry_id          TEXT NOT NULL UNIQUE,
		vehicle_number    TEXT NOT NULL DEFAULT '',
		vehicle_type      TEXT NOT NULL DEFAULT '',
		customer_name     TEXT NOT NULL DEFAULT '',
		customer_phone    TEXT NOT NULL DEFAULT '',
		book_date         TEXT NOT NULL DEFAULT '',
		exp_date          TEXT NOT NULL DEFAULT '',
		reference_name    TEXT NOT NULL DEFAULT '',
		reference_contact TEXT NOT NULL DEFAULT '',
		notes             TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_policies_exp ON policies(exp_date);
	`
	_, err := s.db.Exec(schema)
	return err
}

const policyColumns = `entry_id, vehicle_number, vehicle_type, customer_name, customer_phone,
	book_date, exp_date, reference_name, reference_contact, notes`

func (s *SQLiteStore) List(ctx context.Context) ([]model.Policy, error) {
	start := time.Now()
	policies, err := s.list(ctx)
	observe("list", start, err)
	return policies, err
}

func (s *SQLiteStore) list(ctx context.Context) ([]model.Policy, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+policyColumns+` FROM policies ORDER BY rowid`)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	defer rows.Close()

	policies := []model.Policy{}
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, &FetchError{Err: err}
		}
		policies = append(policies, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &FetchError{Err: err}
	}
	return policies, nil
}

func (s *SQLiteStore) Create(ctx context.Context, p model.Policy) error {
	start := time.Now()
	var err error
	if ierr := s.insert(ctx, s.db, p); ierr != nil {
		err = &WriteError{Op: "add", EntryID: p.EntryID, Err: ierr}
	}
	observe("create", start, err)
	return err
}

// CreateBatch inserts all rows in one transaction; either all are stored or
// none.
func (s *SQLiteStore) CreateBatch(ctx context.Context, ps []model.Policy) error {
	start := time.Now()
	err := s.createBatch(ctx, ps)
	observe("create", start, err)
	return err
}

func (s *SQLiteStore) createBatch(ctx context.Context, ps []model.Policy) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &WriteError{Op: "add", Err: err}
	}
	defer tx.Rollback()

	for _, p := range ps {
		if err := s.insert(ctx, tx, p); err != nil {
			return &WriteError{Op: "add", EntryID: p.EntryID, Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &WriteError{Op: "add", Err: err}
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *SQLiteStore) insert(ctx context.Context, db execer, p model.Policy) error {
	if p.EntryID == "" {
		return ErrMissingEntryID
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO policies (`+policyColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		policyArgs(p)...)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: %s", ErrDuplicateEntryID, p.EntryID)
		}
		return fmt.Errorf("insert policy: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Update(ctx context.Context, entryID string, p model.Policy) error {
	start := time.Now()
	err := s.update(ctx, entryID, p)
	observe("update", start, err)
	return err
}

func (s *SQLiteStore) update(ctx context.Context, entryID string, p model.Policy) error {
	if err := requireEntryID("update", entryID); err != nil {
		return err
	}
	p.EntryID = entryID
	res, err := s.db.ExecContext(ctx,
		`UPDATE policies SET vehicle_number = ?, vehicle_type = ?, customer_name = ?, customer_phone = ?,
		        book_date = ?, exp_date = ?, reference_name = ?, reference_contact = ?, notes = ?
		 WHERE entry_id = ?`,
		append(policyArgs(p)[1:], entryID)...)
	if err != nil {
		return &WriteError{Op: "update", EntryID: entryID, Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &WriteError{Op: "update", EntryID: entryID, Err: ErrNotFound}
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, entryID string) error {
	start := time.Now()
	err := s.delete(ctx, entryID)
	observe("delete", start, err)
	return err
}

func (s *SQLiteStore) delete(ctx context.Context, entryID string) error {
	if err := requireEntryID("delete", entryID); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM policies WHERE entry_id = ?`, entryID)
	if err != nil {
		return &WriteError{Op: "delete", EntryID: entryID, Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &WriteError{Op: "delete", EntryID: entryID, Err: ErrNotFound}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func policyArgs(p model.Policy) []any {
	return []any{
		p.EntryID, p.VehicleNumber, string(p.VehicleType), p.CustomerName, p.CustomerPhone,
		p.BookDate.String(), p.ExpDate.String(), p.ReferenceName, p.ReferenceContact, p.Notes,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPolicy(row scanner) (model.Policy, error) {
	var p model.Policy
	var vehicleType, bookDate, expDate string

	err := row.Scan(
		&p.EntryID, &p.VehicleNumber, &vehicleType, &p.CustomerName, &p.CustomerPhone,
		&bookDate, &expDate, &p.ReferenceName, &p.ReferenceContact, &p.Notes,
	)
	if err != nil {
		return p, err
	}

	p.VehicleType = model.VehicleType(vehicleType)
	p.BookDate = model.ParseDate(bookDate)
	p.ExpDate = model.ParseDate(expDate)
	return p, nil
}
