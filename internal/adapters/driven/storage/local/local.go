// Package local implements the fallback form backend.
//
// All forms live in one JSON collection stored under a fixed key in a
// driven.RecordStore, mirroring how a browser keeps a single localStorage
// entry. Timestamps are serialised as RFC 3339 strings and rehydrated on read.
// An absent or unparsable collection reads as empty and the corrupt record
// is discarded.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/formwright/internal/core/domain"
	"github.com/custodia-labs/formwright/internal/core/ports/driven"
	"github.com/custodia-labs/formwright/internal/logger"
)

// CollectionKey is the record key holding the serialised collection.
const CollectionKey = "inspectionForms"

// Ensure Store implements the interface.
var _ driven.FormStore = (*Store)(nil)

// Store is a driven.FormStore over a single record.
type Store struct {
	// mu serialises read-modify-write cycles on the collection.
	mu      sync.Mutex
	records driven.RecordStore
	key     string
}

// New creates a local form store backed by records.
func New(records driven.RecordStore) *Store {
	return &Store{records: records, key: CollectionKey}
}

// List returns all forms, newest createdAt first.
func (s *Store) List(ctx context.Context) ([]domain.Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	forms, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(forms, func(i, j int) bool {
		return forms[i].CreatedAt.After(forms[j].CreatedAt)
	})
	return forms, nil
}

// Get retrieves a form by ID.
func (s *Store) Get(ctx context.Context, id string) (*domain.Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	forms, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range forms {
		if forms[i].ID == id {
			return &forms[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// Create prepends form to the collection.
func (s *Store) Create(ctx context.Context, form domain.Form) (*domain.Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	forms, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range forms {
		if forms[i].ID == form.ID {
			return nil, domain.ErrAlreadyExists
		}
	}
	forms = append([]domain.Form{form}, forms...)
	if err := s.save(ctx, forms); err != nil {
		return nil, err
	}
	return &form, nil
}

// Update replaces the stored form with the same ID.
func (s *Store) Update(ctx context.Context, form domain.Form) (*domain.Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	forms, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range forms {
		if forms[i].ID != form.ID {
			continue
		}
		forms[i] = form
		if err := s.save(ctx, forms); err != nil {
			return nil, err
		}
		return &form, nil
	}
	return nil, domain.ErrNotFound
}

// Delete removes the form with the given ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	forms, err := s.load(ctx)
	if err != nil {
		return err
	}
	kept := forms[:0]
	for i := range forms {
		if forms[i].ID != id {
			kept = append(kept, forms[i])
		}
	}
	return s.save(ctx, kept)
}

// load reads the collection. Caller must hold mu.
func (s *Store) load(ctx context.Context) ([]domain.Form, error) {
	data, err := s.records.Get(ctx, s.key)
	if errors.Is(err, domain.ErrNotFound) {
		return []domain.Form{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.key, err)
	}

	var forms []domain.Form
	if err := json.Unmarshal(data, &forms); err != nil {
		logger.Warn("local: discarding unparsable %s record: %v", s.key, err)
		if delErr := s.records.Delete(ctx, s.key); delErr != nil {
			logger.Warn("local: clearing %s: %v", s.key, delErr)
		}
		return []domain.Form{}, nil
	}
	if forms == nil {
		forms = []domain.Form{}
	}
	return forms, nil
}

// save writes the collection. Caller must hold mu.
func (s *Store) save(ctx context.Context, forms []domain.Form) error {
	data, err := json.Marshal(forms)
	if err != nil {
		return fmt.Errorf("marshalling %s: %w", s.key, err)
	}
	if err := s.records.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("writing %s: %w", s.key, err)
	}
	logger.Debug("local: saved %d forms under %s", len(forms), s.key)
	return nil
}
