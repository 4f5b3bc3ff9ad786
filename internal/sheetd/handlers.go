// Package sheetd serves a policy table over the same REST contract as the
// hosted spreadsheet API, for local development and tests.
package sheetd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/mohidul-hq/VIM-System/internal/model"
	"github.com/mohidul-hq/VIM-System/internal/store"
)

// Table is the backing storage. store.SQLiteStore implements it.
type Table interface {
	store.Store
	CreateBatch(ctx context.Context, ps []model.Policy) error
}

// Handler serves the table routes.
type Handler struct {
	table Table
	log   zerolog.Logger
}

// NewHandler creates a Handler with dependencies.
func NewHandler(table Table, log zerolog.Logger) *Handler {
	return &Handler{table: table, log: log}
}

// Routes registers the table routes on r.
func (h *Handler) Routes(r *mux.Router) {
	r.HandleFunc("/records", h.handleList).Methods(http.MethodGet)
	r.HandleFunc("/records", h.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/records/{column}/{value}", h.handleUpdate).Methods(http.MethodPatch)
	r.HandleFunc("/records/{column}/{value}", h.handleDelete).Methods(http.MethodDelete)
}

type payload struct {
	Data json.RawMessage `json:"data"`
}

// handleList processes GET /records.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	rows, err := h.table.List(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list rows")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// handleCreate processes POST /records with {"data":[row,...]} or
// {"data":row}.
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var p payload
	if err := decodeStrict(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var rows []model.Policy
	data := bytes.TrimSpace(p.Data)
	switch {
	case len(data) == 0:
		writeError(w, http.StatusBadRequest, "data is required")
		return
	case data[0] == '[':
		if err := json.Unmarshal(data, &rows); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid rows: %v", err))
			return
		}
	default:
		var row model.Policy
		if err := json.Unmarshal(data, &row); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid row: %v", err))
			return
		}
		rows = []model.Policy{row}
	}
	for _, row := range rows {
		if row.EntryID == "" {
			writeError(w, http.StatusBadRequest, store.KeyColumn+" is required")
			return
		}
	}

	if err := h.table.CreateBatch(r.Context(), rows); err != nil {
		if errors.Is(err, store.ErrDuplicateEntryID) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("create rows")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"created": len(rows)})
}

// handleUpdate processes PATCH /records/Entry_ID/{id}: a full replace of the
// row.
func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := keyFromPath(w, r)
	if !ok {
		return
	}

	var p payload
	if err := decodeStrict(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var row model.Policy
	if err := json.Unmarshal(p.Data, &row); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid row: %v", err))
		return
	}

	if err := h.table.Update(r.Context(), id, row); err != nil {
		h.writeStoreError(w, "update row", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"updated": 1})
}

// handleDelete processes DELETE /records/Entry_ID/{id}.
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := keyFromPath(w, r)
	if !ok {
		return
	}
	if err := h.table.Delete(r.Context(), id); err != nil {
		h.writeStoreError(w, "delete row", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": 1})
}

func keyFromPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	vars := mux.Vars(r)
	if vars["column"] != store.KeyColumn {
		writeError(w, http.StatusBadRequest, "rows can only be addressed by "+store.KeyColumn)
		return "", false
	}
	if vars["value"] == "" {
		writeError(w, http.StatusBadRequest, store.KeyColumn+" is required")
		return "", false
	}
	return vars["value"], true
}

func (h *Handler) writeStoreError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "no row matches")
	case errors.Is(err, store.ErrMissingEntryID):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error().Err(err).Msg(msg)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeStrict(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request payload: %v", err)
	}
	if dec.More() {
		return fmt.Errorf("request body must only contain a single JSON object")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
