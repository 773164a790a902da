// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/formwright/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewForms lists stored forms.
	ViewForms ViewType = iota
	// ViewFormDetail shows one form's sections and fields.
	ViewFormDetail
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewForms:
		return "forms"
	case ViewFormDetail:
		return "form_detail"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// FormsLoaded carries the stored forms back to the model.
type FormsLoaded struct {
	Forms []domain.Form
	Err   error
}

// FormSelected is sent when a form is chosen from the list.
type FormSelected struct {
	Form domain.Form
}

// FormLoaded carries a freshly read form back to the detail view.
type FormLoaded struct {
	Form *domain.Form
	Err  error
}

// FormPublished reports the outcome of publishing a form.
type FormPublished struct {
	Form *domain.Form
	Err  error
}

// ErrorOccurred is sent when an operation fails.
type ErrorOccurred struct {
	Err error
}

// Quit requests application exit.
type Quit struct{}
