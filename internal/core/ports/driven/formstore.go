package driven

import (
	"context"

	"github.com/custodia-labs/formwright/internal/core/domain"
)

// FormStore persists whole forms, one record per form id.
// The remote and local backends both implement it, so the mediator can swap
// them per call.
type FormStore interface {
	// List returns all forms, newest createdAt first.
	List(ctx context.Context) ([]domain.Form, error)

	// Get retrieves a form by ID. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id string) (*domain.Form, error)

	// Create stores a new form and returns the stored representation.
	Create(ctx context.Context, form domain.Form) (*domain.Form, error)

	// Update replaces the form stored under form.ID.
	// Returns domain.ErrNotFound if no such record exists.
	Update(ctx context.Context, form domain.Form) (*domain.Form, error)

	// Delete removes a form. Deleting an absent form is not an error.
	Delete(ctx context.Context, id string) error
}
