// Package policy owns the in-memory policy list and mediates every mutation
// through a store.Store.
package policy

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mohidul-hq/VIM-System/internal/model"
	"github.com/mohidul-hq/VIM-System/internal/query"
	"github.com/mohidul-hq/VIM-System/internal/store"
)

// Form is the state of the add/edit form. Target is the record being edited
// and is zero when adding.
type Form struct {
	Editing bool
	Target  model.Policy
	Draft   model.Policy
}

// Manager holds the canonical policy list. After every successful mutation
// the list is replaced by a fresh List from the store; it is never patched
// locally.
type Manager struct {
	store  store.Store
	notify Notifier
	log    zerolog.Logger
	now    func() time.Time
	newID  func() string

	opMu sync.Mutex // one mutation at a time

	mu      sync.RWMutex
	records []model.Policy
	form    *Form
	pending *model.Policy
}

// Option configures a Manager.
type Option func(*Manager)

// WithNotifier sets where success and error notices go.
func WithNotifier(n Notifier) Option {
	return func(m *Manager) { m.notify = n }
}

// WithLogger sets the logger. The default discards.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithClock overrides time.Now for status classification.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator overrides Entry_ID generation.
func WithIDGenerator(f func() string) Option {
	return func(m *Manager) { m.newID = f }
}

// NewManager returns a Manager over s with an empty list. Call Refresh to
// load it.
func NewManager(s store.Store, opts ...Option) *Manager {
	m := &Manager{
		store:   s,
		notify:  discardNotifier{},
		log:     zerolog.Nop(),
		now:     time.Now,
		newID:   NewIDGenerator(),
		records: []model.Policy{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Refresh replaces the list with the store's rows. A failed fetch leaves the
// list empty; it is logged but not notified.
func (m *Manager) Refresh(ctx context.Context) {
	rows, err := m.store.List(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("fetch records failed, showing empty list")
		rows = []model.Policy{}
	}
	m.mu.Lock()
	m.records = rows
	m.mu.Unlock()
}

// Records returns a copy of the current list in store order.
func (m *Manager) Records() []model.Policy {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.Policy(nil), m.records...)
}

// Find returns the record with the given Entry_ID.
func (m *Manager) Find(entryID string) (model.Policy, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if entryID == "" {
		return model.Policy{}, false
	}
	for _, p := range m.records {
		if p.EntryID == entryID {
			return p, true
		}
	}
	return model.Policy{}, false
}

// View returns the records matching search and f.
func (m *Manager) View(search string, f query.Filter) []model.Policy {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return query.Apply(m.records, search, f, m.now())
}

// Summary returns counts over the whole list.
func (m *Manager) Summary() query.Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return query.Summarize(m.records, m.now())
}

// OpenCreate opens a blank form for a new record.
func (m *Manager) OpenCreate() {
	m.mu.Lock()
	m.form = &Form{Draft: model.NewPolicy()}
	m.mu.Unlock()
}

// OpenEditRecord opens the form on target. target is used as-is, so a record
// without an Entry_ID can be opened but not submitted.
func (m *Manager) OpenEditRecord(target model.Policy) {
	m.mu.Lock()
	m.form = &Form{Editing: true, Target: target, Draft: target}
	m.mu.Unlock()
}

// OpenEdit opens the form on the listed record with the given Entry_ID.
func (m *Manager) OpenEdit(entryID string) error {
	p, ok := m.Find(entryID)
	if !ok {
		return ErrUnknownEntry
	}
	m.OpenEditRecord(p)
	return nil
}

// Form returns the open form, if any.
func (m *Manager) Form() (Form, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.form == nil {
		return Form{}, false
	}
	return *m.form, true
}

// CloseForm discards the open form.
func (m *Manager) CloseForm() {
	m.mu.Lock()
	m.form = nil
	m.mu.Unlock()
}

// Submit saves draft through the open form. On success the list is refreshed
// and the form closed. On failure the form stays open holding draft and the
// error is notified and returned.
func (m *Manager) Submit(ctx context.Context, draft model.Policy) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	draft = draft.Normalize()

	m.mu.Lock()
	if m.form == nil {
		m.mu.Unlock()
		return ErrNoForm
	}
	m.form.Draft = draft
	form := *m.form
	m.mu.Unlock()

	var err error
	msg := msgAdded
	if form.Editing {
		msg = msgUpdated
		err = m.update(ctx, form.Target.EntryID, draft)
	} else {
		err = m.create(ctx, draft)
	}
	if err != nil {
		m.fail(err)
		return err
	}

	m.Refresh(ctx)
	m.CloseForm()
	m.notify.Notify(Notice{Kind: Success, Message: msg})
	return nil
}

func (m *Manager) create(ctx context.Context, draft model.Policy) error {
	if draft.VehicleNumber == "" {
		return &ValidationError{Field: "Vehicle_Number"}
	}
	draft.EntryID = m.newID()
	if err := m.store.Create(ctx, draft); err != nil {
		return err
	}
	m.log.Info().Str("entry_id", draft.EntryID).Str("vehicle_number", draft.VehicleNumber).Msg("policy added")
	return nil
}

func (m *Manager) update(ctx context.Context, entryID string, draft model.Policy) error {
	if entryID == "" {
		return &store.PreconditionError{Op: "update"}
	}
	if draft.VehicleNumber == "" {
		return &ValidationError{Field: "Vehicle_Number"}
	}
	draft.EntryID = entryID
	if err := m.store.Update(ctx, entryID, draft); err != nil {
		return err
	}
	m.log.Info().Str("entry_id", entryID).Msg("policy updated")
	return nil
}

// Create opens a blank form and submits draft.
func (m *Manager) Create(ctx context.Context, draft model.Policy) error {
	m.OpenCreate()
	return m.Submit(ctx, draft)
}

// Update opens the form on the listed record and submits draft.
func (m *Manager) Update(ctx context.Context, entryID string, draft model.Policy) error {
	if err := m.OpenEdit(entryID); err != nil {
		return err
	}
	return m.Submit(ctx, draft)
}

// RequestDelete asks for confirmation before deleting target.
func (m *Manager) RequestDelete(target model.Policy) {
	m.mu.Lock()
	m.pending = &target
	m.mu.Unlock()
}

// RequestDeleteByID asks for confirmation before deleting the listed record.
func (m *Manager) RequestDeleteByID(entryID string) error {
	p, ok := m.Find(entryID)
	if !ok {
		return ErrUnknownEntry
	}
	m.RequestDelete(p)
	return nil
}

// PendingDelete returns the record awaiting confirmation.
func (m *Manager) PendingDelete() (model.Policy, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.pending == nil {
		return model.Policy{}, false
	}
	return *m.pending, true
}

// CancelDelete dismisses the confirmation.
func (m *Manager) CancelDelete() {
	m.mu.Lock()
	m.pending = nil
	m.mu.Unlock()
}

// ConfirmDelete deletes the pending record. The confirmation is dismissed
// whatever the outcome. With nothing pending it does nothing.
func (m *Manager) ConfirmDelete(ctx context.Context) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	target, ok := m.PendingDelete()
	if !ok {
		return nil
	}
	defer m.CancelDelete()

	if target.EntryID == "" {
		err := &store.PreconditionError{Op: "delete"}
		m.fail(err)
		return err
	}
	if err := m.store.Delete(ctx, target.EntryID); err != nil {
		m.fail(err)
		return err
	}
	m.log.Info().Str("entry_id", target.EntryID).Msg("policy deleted")

	m.Refresh(ctx)
	m.notify.Notify(Notice{Kind: Success, Message: msgDeleted})
	return nil
}

// Delete requests and immediately confirms deletion of the listed record.
func (m *Manager) Delete(ctx context.Context, entryID string) error {
	if err := m.RequestDeleteByID(entryID); err != nil {
		return err
	}
	return m.ConfirmDelete(ctx)
}

// Export returns the store's rows, failing rather than degrading to empty.
func (m *Manager) Export(ctx context.Context) ([]model.Policy, error) {
	return store.Export(ctx, m.store)
}

// Import creates rows that are not already in the store and refreshes the
// list.
func (m *Manager) Import(ctx context.Context, rows []model.Policy) (int, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	n, err := store.Import(ctx, m.store, rows, m.newID)
	if n > 0 {
		m.Refresh(ctx)
	}
	if err != nil {
		m.fail(err)
	}
	return n, err
}

func (m *Manager) fail(err error) {
	ev := m.log.Error()
	var ve *ValidationError
	var pe *store.PreconditionError
	if errors.As(err, &ve) || errors.As(err, &pe) {
		ev = m.log.Warn()
	}
	ev.Err(err).Msg("policy mutation rejected")
	m.notify.Notify(Notice{Kind: Failure, Message: err.Error()})
}
