package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mohidul-hq/VIM-System/internal/model"
)

// RESTStore implements Store against a SheetDB-style tabular REST API:
//
//	GET    {base}                     list rows
//	POST   {base}                     {"data":[row]}
//	PATCH  {base}/Entry_ID/{id}       {"data":row}
//	DELETE {base}/Entry_ID/{id}
type RESTStore struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// clientOptions collects the HTTP settings so they apply in a fixed order
// after every Option has run.
type clientOptions struct {
	client     *http.Client
	timeout    time.Duration
	hasTimeout bool
	debug      bool
}

// Option configures a RESTStore in NewRESTStore.
type Option func(*RESTStore, *clientOptions) error

// WithHTTPClient uses a copy of c. c itself is never modified.
func WithHTTPClient(c *http.Client) Option {
	return func(_ *RESTStore, co *clientOptions) error {
		if c == nil {
			return fmt.Errorf("http client must not be nil")
		}
		co.client = c
		return nil
	}
}

// WithTimeout bounds each request. Zero disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(_ *RESTStore, co *clientOptions) error {
		if d < 0 {
			return fmt.Errorf("http timeout must be >= 0")
		}
		co.timeout = d
		co.hasTimeout = true
		return nil
	}
}

// WithDebugLogging dumps every request and response at debug level.
func WithDebugLogging(enabled bool) Option {
	return func(_ *RESTStore, co *clientOptions) error {
		co.debug = enabled
		return nil
	}
}

// WithLogger sets the logger. The default discards.
func WithLogger(l zerolog.Logger) Option {
	return func(s *RESTStore, _ *clientOptions) error {
		s.log = l
		return nil
	}
}

// NewRESTStore returns a store for the table at baseURL.
func NewRESTStore(baseURL string, opts ...Option) (*RESTStore, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid store url %q", baseURL)
	}
	s := &RESTStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     zerolog.Nop(),
	}
	var co clientOptions
	for _, opt := range opts {
		if err := opt(s, &co); err != nil {
			return nil, err
		}
	}

	c := &http.Client{}
	if co.client != nil {
		own := *co.client
		c = &own
	}
	if co.hasTimeout {
		c.Timeout = co.timeout
	}
	if co.debug {
		c.Transport = &debugTransport{base: c.Transport, log: &s.log}
	}
	s.http = c
	return s, nil
}

type createBody struct {
	Data []model.Policy `json:"data"`
}

type updateBody struct {
	Data model.Policy `json:"data"`
}

func (s *RESTStore) rowURL(entryID string) string {
	return s.baseURL + "/" + KeyColumn + "/" + url.PathEscape(entryID)
}

func (s *RESTStore) List(ctx context.Context) ([]model.Policy, error) {
	start := time.Now()
	rows, err := s.list(ctx)
	observe("list", start, err)
	return rows, err
}

func (s *RESTStore) list(ctx context.Context) ([]model.Policy, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL, nil)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		return nil, &FetchError{StatusCode: resp.StatusCode, Err: fmt.Errorf("%s", readSnippet(resp.Body))}
	}

	var rows []model.Policy
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, &FetchError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decode rows: %w", err)}
	}
	if rows == nil {
		rows = []model.Policy{}
	}
	return rows, nil
}

func (s *RESTStore) Create(ctx context.Context, p model.Policy) error {
	start := time.Now()
	err := s.send(ctx, "add", http.MethodPost, s.baseURL, p.EntryID, createBody{Data: []model.Policy{p}})
	observe("create", start, err)
	return err
}

func (s *RESTStore) Update(ctx context.Context, entryID string, p model.Policy) error {
	start := time.Now()
	err := requireEntryID("update", entryID)
	if err == nil {
		p.EntryID = entryID
		err = s.send(ctx, "update", http.MethodPatch, s.rowURL(entryID), entryID, updateBody{Data: p})
	}
	observe("update", start, err)
	return err
}

func (s *RESTStore) Delete(ctx context.Context, entryID string) error {
	start := time.Now()
	err := requireEntryID("delete", entryID)
	if err == nil {
		err = s.send(ctx, "delete", http.MethodDelete, s.rowURL(entryID), entryID, nil)
	}
	observe("delete", start, err)
	return err
}

func (s *RESTStore) send(ctx context.Context, op, method, target, entryID string, body any) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &WriteError{Op: op, EntryID: entryID, Err: err}
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, r)
	if err != nil {
		return &WriteError{Op: op, EntryID: entryID, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return &WriteError{Op: op, EntryID: entryID, Err: err}
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		snippet := readSnippet(resp.Body)
		s.log.Debug().Str("op", op).Str("entry_id", entryID).Int("status", resp.StatusCode).Str("body", snippet).Msg("store rejected write")
		var cause error
		if snippet != "" {
			cause = fmt.Errorf("%s", snippet)
		}
		return &WriteError{Op: op, EntryID: entryID, StatusCode: resp.StatusCode, Err: cause}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Close is a no-op; RESTStore holds no connections of its own.
func (s *RESTStore) Close() error { return nil }

func success(code int) bool { return code >= 200 && code < 300 }

func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 512))
	return strings.TrimSpace(string(b))
}
