package driving

import (
	"context"

	"github.com/custodia-labs/formwright/internal/core/domain"
)

// FormService is the persistence surface the UI layer talks to.
// Callers never learn which backend served a call.
type FormService interface {
	// ListForms returns stored forms matching filter, newest first.
	ListForms(ctx context.Context, filter domain.FormFilter) ([]domain.Form, error)

	// GetForm retrieves a form by ID.
	GetForm(ctx context.Context, id string) (*domain.Form, error)

	// CreateForm stores a new form. A missing ID, owner or timestamps are filled in.
	CreateForm(ctx context.Context, form domain.Form) (*domain.Form, error)

	// UpdateForm merges patch into the stored form and bumps its version.
	UpdateForm(ctx context.Context, id string, patch domain.FormPatch) (*domain.Form, error)

	// SaveForm creates the form on first save and updates it thereafter.
	SaveForm(ctx context.Context, form domain.Form) (*domain.Form, error)

	// DeleteForm removes a stored form.
	DeleteForm(ctx context.Context, id string) error

	// Mode reports which backend is currently serving calls.
	Mode() domain.StorageMode

	// Health returns the routing state, including the last remote failure.
	Health() domain.StorageHealth
}
