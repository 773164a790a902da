package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/formwright/internal/core/domain"
	"github.com/custodia-labs/formwright/internal/core/ports/driven"
	"github.com/custodia-labs/formwright/internal/logger"
)

// Table is the remote table holding forms.
const Table = "inspection_forms"

const (
	restPrefix   = "/rest/v1/"
	maxErrorBody = 4 << 10
)

// Store is a FormStore backed by the remote table.
type Store struct {
	baseURL string
	key     string
	client  *http.Client
	limiter *rate.Limiter
}

var _ driven.FormStore = (*Store)(nil)

// APIError is a non-2xx response from the remote backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote returned status %d", e.Status)
	}
	return fmt.Sprintf("remote returned status %d: %s", e.Status, e.Message)
}

// Unwrap classifies the error: 404 as not found, 409 as a duplicate, the
// rest as an unavailable backend.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrAlreadyExists
	default:
		return domain.ErrRemoteUnavailable
	}
}

// List returns all forms, newest createdAt first.
func (s *Store) List(ctx context.Context) ([]domain.Form, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "created_at.desc")

	var rows []Row
	if err := s.do(ctx, http.MethodGet, q, nil, &rows); err != nil {
		return nil, fmt.Errorf("listing forms: %w", err)
	}
	return fromRows(rows)
}

// Get retrieves a form by ID.
func (s *Store) Get(ctx context.Context, id string) (*domain.Form, error) {
	var rows []Row
	if err := s.do(ctx, http.MethodGet, byID(id, true), nil, &rows); err != nil {
		return nil, fmt.Errorf("getting form %s: %w", id, err)
	}
	return single(rows, id)
}

// Create inserts a new row and returns the stored representation.
func (s *Store) Create(ctx context.Context, form domain.Form) (*domain.Form, error) {
	row, err := ToRow(form)
	if err != nil {
		return nil, err
	}
	var rows []Row
	if err := s.do(ctx, http.MethodPost, url.Values{}, row, &rows); err != nil {
		return nil, fmt.Errorf("creating form %s: %w", form.ID, err)
	}
	return single(rows, form.ID)
}

// Update replaces the row for form.ID.
func (s *Store) Update(ctx context.Context, form domain.Form) (*domain.Form, error) {
	row, err := ToRow(form)
	if err != nil {
		return nil, err
	}
	var rows []Row
	if err := s.do(ctx, http.MethodPatch, byID(form.ID, false), row, &rows); err != nil {
		return nil, fmt.Errorf("updating form %s: %w", form.ID, err)
	}
	return single(rows, form.ID)
}

// Delete removes the row for id.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.do(ctx, http.MethodDelete, byID(id, false), nil, nil); err != nil {
		return fmt.Errorf("deleting form %s: %w", id, err)
	}
	return nil
}

// Ping checks that the table is reachable with the configured key.
func (s *Store) Ping(ctx context.Context) error {
	q := url.Values{}
	q.Set("select", "id")
	q.Set("limit", "1")
	var rows []json.RawMessage
	if err := s.do(ctx, http.MethodGet, q, nil, &rows); err != nil {
		return fmt.Errorf("pinging remote: %w", err)
	}
	return nil
}

func byID(id string, selectAll bool) url.Values {
	q := url.Values{}
	if selectAll {
		q.Set("select", "*")
	}
	q.Set("id", "eq."+id)
	return q
}

func single(rows []Row, id string) (*domain.Form, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("form %s: %w", id, domain.ErrNotFound)
	}
	f, err := FromRow(rows[0])
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func fromRows(rows []Row) ([]domain.Form, error) {
	forms := make([]domain.Form, 0, len(rows))
	for i := range rows {
		f, err := FromRow(rows[i])
		if err != nil {
			return nil, err
		}
		forms = append(forms, f)
	}
	return forms, nil
}

// do performs one request. in is JSON-encoded as the body when non-nil; out
// receives the decoded response when non-nil.
func (s *Store) do(ctx context.Context, method string, query url.Values, in, out any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	endpoint := s.baseURL + restPrefix + Table
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("apikey", s.key)
	req.Header.Set("Authorization", "Bearer "+s.key)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost || method == http.MethodPatch {
		req.Header.Set("Prefer", "return=representation")
	}

	logger.Debug("remote %s %s", method, req.URL.Path)
	resp, err := s.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return errors.Join(domain.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Join(domain.ErrRemoteUnavailable, fmt.Errorf("decoding response: %w", err))
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{Status: resp.StatusCode}

	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &payload) == nil && payload.Message != "" {
		apiErr.Message = payload.Message
	} else {
		apiErr.Message = string(bytes.TrimSpace(raw))
	}
	return apiErr
}
