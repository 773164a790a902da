package driving

import (
	"context"

	"github.com/custodia-labs/formwright/internal/core/domain"
)

// TemplateService synthesises templates from free text.
type TemplateService interface {
	// Generate builds a template from a description and optional conversation context.
	Generate(ctx context.Context, description, transcript string) (*domain.Template, error)

	// Modify applies a free-text instruction to a template and returns the result.
	Modify(ctx context.Context, template *domain.Template, instruction string) (*domain.Template, error)

	// Templates lists the industry templates in the library.
	Templates() []domain.Template

	// Accept turns a template into a new form owned by owner.
	Accept(template domain.Template, owner string) domain.Form
}

// GenerationSession is one synthesis conversation with a draft template.
type GenerationSession interface {
	// Send routes input to generation or modification of the current draft.
	Send(ctx context.Context, input string) (*domain.Template, error)

	// Current returns the draft template, or nil before the first Send.
	Current() *domain.Template

	// Transcript returns the conversation so far, one "User: ..." line per turn.
	Transcript() string

	// RemoveSection drops a section from the draft.
	RemoveSection(sectionID string) bool

	// RemoveField drops a field from the draft.
	RemoveField(sectionID, fieldID string) bool

	// Accept converts the draft into a form and resets the session.
	Accept(owner string) (domain.Form, error)

	// Reset clears the draft and transcript.
	Reset()
}
