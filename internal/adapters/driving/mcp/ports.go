package mcp

import (
	"github.com/custodia-labs/formwright/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Forms stores and retrieves forms.
	Forms driving.FormService

	// Templates lists the template library.
	Templates driving.TemplateService

	// Session drafts templates conversationally. Without it the drafting
	// tools are not registered.
	Session driving.GenerationSession

	// Owner is recorded on forms saved from a draft.
	Owner string
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Forms == nil {
		return ErrMissingFormService
	}
	return nil
}
