// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/formwright/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/formwright/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/formwright/internal/core/domain"
)

// State represents the current application state for display.
type State string

const (
	StateReady   State = "ready"
	StateLoading State = "loading"
	StateError   State = "error"
)

// Bar displays the storage mode, a message and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	state    State
	mode     domain.StorageMode
	message  string
	bindings []key.Binding
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles:   s,
		keymap:   km,
		state:    StateReady,
		mode:     domain.StorageModeLocal,
		bindings: km.ListHelp(),
		width:    80,
	}
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := max(s.width-lipgloss.Width(left)-lipgloss.Width(right), 1)

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	mode := s.styles.Muted.Render("[" + s.mode.String() + "]")
	switch s.state {
	case StateLoading:
		return mode + " " + s.styles.Muted.Render("Loading...")
	case StateError:
		if s.message != "" {
			return mode + " " + s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return mode + " " + s.styles.Error.Render("Error")
	case StateReady:
		if s.message != "" {
			return mode + " " + s.styles.Normal.Render(s.message)
		}
	}
	return mode
}

func (s *Bar) renderRight() string {
	hints := make([]string, 0, len(s.bindings))
	for _, b := range s.bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMode records which storage backend is serving calls.
func (s *Bar) SetMode(mode domain.StorageMode) {
	s.mode = mode
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetBindings replaces the keybinding hints.
func (s *Bar) SetBindings(bindings []key.Binding) {
	s.bindings = bindings
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
}
