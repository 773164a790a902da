package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/formwright/internal/core/domain"
	"github.com/custodia-labs/formwright/internal/core/ports/driven"
	"github.com/custodia-labs/formwright/internal/core/ports/driving"
	"github.com/custodia-labs/formwright/internal/logger"
)

// Ensure FormService implements the interface.
var _ driving.FormService = (*FormService)(nil)

// FormService routes persistence calls to the remote backend when it is
// configured and healthy, and to the local backend otherwise.
type FormService struct {
	local   driven.FormStore
	remote  driven.FormStore
	breaker *breaker
	now     func() time.Time
	newID   func() string
	owner   string
}

// FormServiceOption configures a FormService.
type FormServiceOption func(*FormService)

// WithRemote enables the remote backend. A nil store leaves it disabled.
func WithRemote(remote driven.FormStore) FormServiceOption {
	return func(s *FormService) {
		s.remote = remote
	}
}

// WithProbeInterval sets how often a failing remote is re-tried.
func WithProbeInterval(d time.Duration) FormServiceOption {
	return func(s *FormService) {
		s.breaker = newBreaker(d)
	}
}

// WithFormClock overrides the timestamp source.
func WithFormClock(now func() time.Time) FormServiceOption {
	return func(s *FormService) {
		s.now = now
	}
}

// WithFormIDs overrides the id generator used for new forms.
func WithFormIDs(newID func() string) FormServiceOption {
	return func(s *FormService) {
		s.newID = newID
	}
}

// WithDefaultOwner sets the owner recorded on forms created without one.
func WithDefaultOwner(owner string) FormServiceOption {
	return func(s *FormService) {
		if owner != "" {
			s.owner = owner
		}
	}
}

// NewFormService creates a form service over the local backend.
func NewFormService(local driven.FormStore, opts ...FormServiceOption) *FormService {
	s := &FormService{
		local:   local,
		breaker: newBreaker(DefaultProbeInterval),
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
		owner:   domain.DefaultOwner,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mode reports which backend is currently serving calls.
func (s *FormService) Mode() domain.StorageMode {
	return s.Health().Mode
}

// Health returns the routing state.
func (s *FormService) Health() domain.StorageHealth {
	if s.remote == nil {
		return domain.StorageHealth{Mode: domain.StorageModeLocal}
	}
	open, since, lastErr, trips := s.breaker.snapshot()
	h := domain.StorageHealth{Mode: domain.StorageModeRemote, Trips: trips}
	if lastErr != nil {
		h.LastError = lastErr.Error()
	}
	if open {
		h.Mode = domain.StorageModeDegraded
		h.DegradedSince = since
	}
	return h
}

// ListForms returns stored forms matching filter, newest first.
func (s *FormService) ListForms(ctx context.Context, filter domain.FormFilter) ([]domain.Form, error) {
	if s.local == nil {
		return nil, domain.ErrNotImplemented
	}
	forms, err := route(s, ctx, "list", false, func(store driven.FormStore) ([]domain.Form, error) {
		return store.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	return domain.FilterForms(forms, filter), nil
}

// GetForm retrieves a form by ID.
func (s *FormService) GetForm(ctx context.Context, id string) (*domain.Form, error) {
	if s.local == nil {
		return nil, domain.ErrNotImplemented
	}
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	return route(s, ctx, "get", true, func(store driven.FormStore) (*domain.Form, error) {
		return store.Get(ctx, id)
	})
}

// CreateForm stores a new form, filling in a missing id, owner, timestamps
// and version.
func (s *FormService) CreateForm(ctx context.Context, form domain.Form) (*domain.Form, error) {
	if s.local == nil {
		return nil, domain.ErrNotImplemented
	}
	form = s.prepareNew(form)
	if err := form.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("creating form %s (%q)", form.ID, form.Title)
	return route(s, ctx, "create", false, func(store driven.FormStore) (*domain.Form, error) {
		return store.Create(ctx, form)
	})
}

// UpdateForm merges patch into the stored form, stamps UpdatedAt and bumps
// the version.
func (s *FormService) UpdateForm(ctx context.Context, id string, patch domain.FormPatch) (*domain.Form, error) {
	current, err := s.GetForm(ctx, id)
	if err != nil {
		return nil, err
	}

	next := patch.Apply(*current)
	next.ID = id
	next.Sections = renumbered(next.Sections)
	next.UpdatedAt = s.now()
	if next.UpdatedAt.Before(next.CreatedAt) {
		next.UpdatedAt = next.CreatedAt
	}
	next.Version = max(current.Version, 1) + 1
	if err := next.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("updating form %s to version %d", id, next.Version)
	return route(s, ctx, "update", true, func(store driven.FormStore) (*domain.Form, error) {
		return store.Update(ctx, next)
	})
}

// SaveForm creates the form on first save and updates it thereafter.
func (s *FormService) SaveForm(ctx context.Context, form domain.Form) (*domain.Form, error) {
	if form.ID == "" {
		return s.CreateForm(ctx, form)
	}
	_, err := s.GetForm(ctx, form.ID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return s.CreateForm(ctx, form)
	case err != nil:
		return nil, err
	}
	return s.UpdateForm(ctx, form.ID, domain.PatchFrom(form))
}

// DeleteForm removes a stored form. The local copy is always removed too,
// so a form saved locally during an outage does not reappear.
func (s *FormService) DeleteForm(ctx context.Context, id string) error {
	if s.local == nil {
		return domain.ErrNotImplemented
	}
	if id == "" {
		return domain.ErrInvalidInput
	}
	var remoteErr error
	remoteDone := false
	if s.remote != nil && s.breaker.allow(s.now()) {
		err := s.remote.Delete(ctx, id)
		switch {
		case err == nil || isAnswer(err):
			s.breaker.success()
			remoteDone = true
		case ctx.Err() != nil:
			return ctx.Err()
		default:
			s.breaker.failure(s.now(), err)
			remoteErr = err
		}
	}
	if err := s.local.Delete(ctx, id); err != nil {
		switch {
		case remoteDone:
			logger.Warn("delete %s: local copy not removed: %v", id, err)
			return nil
		case remoteErr != nil:
			return storageUnavailable(remoteErr, err)
		}
		return err
	}
	return nil
}

// prepareNew fills the attributes a new form must carry.
func (s *FormService) prepareNew(form domain.Form) domain.Form {
	now := s.now()
	if form.ID == "" {
		form.ID = s.newID()
	}
	if form.CreatedBy == "" {
		form.CreatedBy = s.owner
	}
	if form.CreatedAt.IsZero() {
		form.CreatedAt = now
	}
	if form.UpdatedAt.IsZero() || form.UpdatedAt.Before(form.CreatedAt) {
		form.UpdatedAt = form.CreatedAt
	}
	if form.Version < 1 {
		form.Version = 1
	}
	form.Sections = renumbered(form.Sections)
	return form
}

// route runs op against the remote backend when the breaker allows it and
// against the local backend otherwise. A remote outage trips the breaker and
// falls back to local. With notFoundFallsThrough, a remote ErrNotFound also
// falls back, since the form may have been saved locally during an outage.
func route[T any](s *FormService, ctx context.Context, name string, notFoundFallsThrough bool,
	op func(driven.FormStore) (T, error)) (T, error) {
	var zero T
	var remoteErr error

	if s.remote != nil && s.breaker.allow(s.now()) {
		v, err := op(s.remote)
		switch {
		case err == nil:
			s.breaker.success()
			return v, nil
		case errors.Is(err, domain.ErrNotFound) && notFoundFallsThrough:
			s.breaker.success()
			logger.Debug("%s: not on remote, checking local storage", name)
		case isAnswer(err):
			s.breaker.success()
			return zero, err
		case ctx.Err() != nil:
			return zero, ctx.Err()
		default:
			s.breaker.failure(s.now(), err)
			remoteErr = err
		}
	}

	v, err := op(s.local)
	if err == nil {
		return v, nil
	}
	if remoteErr == nil || isAnswer(err) {
		return zero, err
	}
	logger.Error("%s: remote and local storage both failed", name)
	return zero, storageUnavailable(remoteErr, err)
}

// isAnswer reports whether err is a definitive reply from a working backend
// rather than an outage.
func isAnswer(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrAlreadyExists) ||
		errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrInvalidForm)
}

func storageUnavailable(remoteErr, localErr error) error {
	return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable,
		errors.Join(fmt.Errorf("remote: %w", remoteErr), fmt.Errorf("local: %w", localErr)))
}

func renumbered(sections []domain.Section) []domain.Section {
	if sections == nil {
		return []domain.Section{}
	}
	out := make([]domain.Section, len(sections))
	for i := range sections {
		out[i] = sections[i].Clone()
		out[i].Order = i
	}
	return out
}
