package sheetd

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohidul-hq/VIM-System/internal/model"
	"github.com/mohidul-hq/VIM-System/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.SQLiteStore) {
	t.Helper()
	table, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	t.Cleanup(func() { table.Close() })

	srv := httptest.NewServer(NewRouter(table, zerolog.Nop()))
	t.Cleanup(srv.Close)
	return srv, table
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestCreateListRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/records",
		`{"data":[{"Entry_ID":"1","Vehicle_Number":"MH12AB1234","Exp_Date":"2026-10-27"},
		          {"Entry_ID":"2","Vehicle_Number":"KA05MN7777"}]}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	var created map[string]int
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, 2, created["created"])

	resp = do(t, http.MethodPost, srv.URL+"/records", `{"data":{"Entry_ID":"3","Vehicle_Number":"DL3CAB0001"}}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/records", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rows []model.Policy
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rows))
	require.Len(t, rows, 3)
	assert.Equal(t, "MH12AB1234", rows[0].VehicleNumber)
	assert.Equal(t, model.NewDate(2026, time.October, 27), rows[0].ExpDate)
	assert.Equal(t, "3", rows[2].EntryID)
}

func TestEmptyTableListsEmptyArray(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := do(t, http.MethodGet, srv.URL+"/records", "")
	var raw json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	assert.JSONEq(t, `[]`, string(raw))
}

func TestCreateRejects(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"not json", `{`, http.StatusBadRequest},
		{"unknown field", `{"rows":[]}`, http.StatusBadRequest},
		{"no data", `{}`, http.StatusBadRequest},
		{"missing key", `{"data":[{"Vehicle_Number":"A"}]}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, srv.URL+"/records", tt.body)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}

	resp := do(t, http.MethodPost, srv.URL+"/records", `{"data":[{"Entry_ID":"1"}]}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = do(t, http.MethodPost, srv.URL+"/records", `{"data":[{"Entry_ID":"1"}]}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestUpdateDeleteAddressing(t *testing.T) {
	srv, table := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, table.Create(ctx, model.Policy{EntryID: "1", VehicleNumber: "A1"}))

	resp := do(t, http.MethodPatch, srv.URL+"/records/Vehicle_Number/A1", `{"data":{"Vehicle_Number":"A2"}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPatch, srv.URL+"/records/Entry_ID/missing", `{"data":{"Vehicle_Number":"A2"}}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodPatch, srv.URL+"/records/Entry_ID/1", `{"data":{"Vehicle_Number":"A2"}}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	rows, err := table.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "A2", rows[0].VehicleNumber)
	assert.Equal(t, "1", rows[0].EntryID)

	resp = do(t, http.MethodDelete, srv.URL+"/records/Entry_ID/1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = do(t, http.MethodDelete, srv.URL+"/records/Entry_ID/1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv, _ := newTestServer(t)
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "req-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "req-123", resp.Header.Get(RequestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := do(t, http.MethodPost, srv.URL+"/records", `{"data":[{"Entry_ID":"m1","Vehicle_Number":"A1"}]}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	do(t, http.MethodGet, srv.URL+"/records", "")

	resp = do(t, http.MethodGet, srv.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := string(b)
	assert.Contains(t, body, "vim_sheetd_http_requests_total")
	assert.Contains(t, body, `vim_store_requests_total{op="list",outcome="ok"}`)
	assert.Contains(t, body, `vim_store_requests_total{op="create",outcome="ok"}`)
	assert.Contains(t, body, "vim_store_request_duration_seconds")
}

// TestRESTStoreAgainstServer drives the REST adapter against the dev server
// end to end.
func TestRESTStoreAgainstServer(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()

	rs, err := store.NewRESTStore(srv.URL + "/records")
	require.NoError(t, err)

	p := model.Policy{
		EntryID:       "1760700000000",
		VehicleNumber: "MH12AB1234",
		VehicleType:   model.TwoWheeler,
		CustomerName:  "Asha",
		ExpDate:       model.NewDate(2026, time.October, 27),
	}
	require.NoError(t, rs.Create(ctx, p))

	p.Notes = "renewed"
	require.NoError(t, rs.Update(ctx, p.EntryID, p))

	rows, err := rs.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, p, rows[0])

	require.NoError(t, rs.Delete(ctx, p.EntryID))
	err = rs.Delete(ctx, p.EntryID)
	var we *store.WriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, http.StatusNotFound, we.StatusCode)

	rows, err = rs.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
