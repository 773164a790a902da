package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/formwright/internal/core/domain"
	"github.com/custodia-labs/formwright/internal/core/ports/driven"
)

// Ensure FormStore implements the interface.
var _ driven.FormStore = (*FormStore)(nil)

// FormStore is an in-memory implementation of driven.FormStore.
// Forms are deep-copied on the way in and out.
type FormStore struct {
	mu    sync.RWMutex
	forms map[string]domain.Form
}

// NewFormStore creates a new in-memory form store.
func NewFormStore() *FormStore {
	return &FormStore{
		forms: make(map[string]domain.Form),
	}
}

// List returns all forms, newest createdAt first.
func (s *FormStore) List(_ context.Context) ([]domain.Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Form, 0, len(s.forms))
	for _, f := range s.forms {
		result = append(result, f.Clone())
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// Get retrieves a form by ID.
func (s *FormStore) Get(_ context.Context, id string) (*domain.Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.forms[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := f.Clone()
	return &out, nil
}

// Create stores a new form.
func (s *FormStore) Create(_ context.Context, form domain.Form) (*domain.Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.forms[form.ID]; exists {
		return nil, domain.ErrAlreadyExists
	}
	s.forms[form.ID] = form.Clone()
	out := form.Clone()
	return &out, nil
}

// Update replaces an existing form.
func (s *FormStore) Update(_ context.Context, form domain.Form) (*domain.Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.forms[form.ID]; !exists {
		return nil, domain.ErrNotFound
	}
	s.forms[form.ID] = form.Clone()
	out := form.Clone()
	return &out, nil
}

// Delete removes a form.
func (s *FormStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.forms, id)
	return nil
}
