// Package tui provides an interactive terminal browser for stored forms.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/formwright/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Forms lists, reads and updates stored forms.
	Forms driving.FormService
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p == nil || p.Forms == nil {
		return ErrMissingFormService
	}
	return nil
}
