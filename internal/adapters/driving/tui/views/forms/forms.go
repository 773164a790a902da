// Package forms provides the form list view for the TUI.
package forms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/formwright/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/formwright/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/formwright/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/formwright/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/formwright/internal/core/domain"
	"github.com/custodia-labs/formwright/internal/core/ports/driving"
)

// statusCycle is the order the status key steps through.
var statusCycle = []string{domain.StatusAll, domain.StatusDraft, domain.StatusPublished}

// View lists stored forms with a text filter and a status filter.
type View struct {
	styles      *styles.Styles
	keymap      *keymap.KeyMap
	formService driving.FormService
	ctx         context.Context

	filter  *input.FilterInput
	status  int
	all     []domain.Form
	visible []domain.Form

	selected     int
	scrollOffset int
	width        int
	height       int
	loading      bool
	err          error
}

// NewView creates a new form list view.
func NewView(s *styles.Styles, km *keymap.KeyMap, formService driving.FormService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:      s,
		keymap:      km,
		formService: formService,
		ctx:         context.Background(),
		filter:      input.NewFilterInput(s),
		width:       80,
		height:      24,
	}
}

// SetContext sets the context used for storage calls.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// Init loads the forms.
func (v *View) Init() tea.Cmd {
	return v.Reload()
}

// Reload returns a command that reads every stored form.
func (v *View) Reload() tea.Cmd {
	if v.formService == nil {
		return func() tea.Msg {
			return messages.FormsLoaded{Err: errors.New("form service not available")}
		}
	}
	v.loading = true
	ctx, svc := v.ctx, v.formService
	return func() tea.Msg {
		forms, err := svc.ListForms(ctx, domain.FormFilter{})
		return messages.FormsLoaded{Forms: forms, Err: err}
	}
}

// Update handles messages for the form list.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.FormsLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.all = msg.Forms
			v.apply()
		}
		return v, nil

	case tea.KeyMsg:
		if v.filter.Focused() {
			return v.handleFilterKey(msg)
		}
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *View) handleFilterKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		v.filter.Blur()
		return v, nil
	case tea.KeyEsc:
		v.filter.Reset()
		v.filter.Blur()
		v.apply()
		return v, nil
	}
	var cmd tea.Cmd
	v.filter, cmd = v.filter.Update(msg)
	v.apply()
	return v, cmd
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()
	switch {
	case keymap.Matches(keyStr, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
		v.scroll()
	case keymap.Matches(keyStr, v.keymap.Down):
		if v.selected < len(v.visible)-1 {
			v.selected++
		}
		v.scroll()
	case keymap.Matches(keyStr, v.keymap.Open):
		if form, ok := v.Selected(); ok {
			return v, func() tea.Msg { return messages.FormSelected{Form: form} }
		}
	case keymap.Matches(keyStr, v.keymap.Filter):
		return v, v.filter.Focus()
	case keymap.Matches(keyStr, v.keymap.Status):
		v.status = (v.status + 1) % len(statusCycle)
		v.apply()
	case keymap.Matches(keyStr, v.keymap.Refresh):
		return v, v.Reload()
	case keymap.Matches(keyStr, v.keymap.Help):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewHelp} }
	case keymap.Matches(keyStr, v.keymap.Quit):
		return v, func() tea.Msg { return messages.Quit{} }
	}
	return v, nil
}

// apply recomputes the visible forms from the filters and clamps the selection.
func (v *View) apply() {
	v.visible = domain.FilterForms(v.all, domain.FormFilter{
		Search: v.filter.Value(),
		Status: statusCycle[v.status],
	})
	if v.selected >= len(v.visible) {
		v.selected = max(len(v.visible)-1, 0)
	}
	v.scroll()
}

func (v *View) scroll() {
	rows := v.rows()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	}
	if v.selected >= v.scrollOffset+rows {
		v.scrollOffset = v.selected - rows + 1
	}
}

// rows is the number of list lines that fit beneath the header.
func (v *View) rows() int {
	return max(v.height-8, 1)
}

// View renders the list.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Forms"))
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  status: %s", statusCycle[v.status])))
	b.WriteString("\n\n")

	if v.filter.Focused() || v.filter.Value() != "" {
		b.WriteString(v.filter.View())
		b.WriteString("\n\n")
	}

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	case v.loading && len(v.all) == 0:
		b.WriteString(v.styles.Muted.Render("Loading forms..."))
		b.WriteString("\n")
	case len(v.visible) == 0:
		b.WriteString(v.styles.Muted.Render("No forms found."))
		b.WriteString("\n")
	default:
		end := min(v.scrollOffset+v.rows(), len(v.visible))
		for i := v.scrollOffset; i < end; i++ {
			b.WriteString(v.renderRow(i))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (v *View) renderRow(i int) string {
	f := &v.visible[i]
	title := f.Title
	if title == "" {
		title = "(untitled)"
	}
	detail := fmt.Sprintf("  %s · v%d · %d sections · %d fields  ", f.Industry, f.Version, len(f.Sections), f.FieldCount())
	if i == v.selected {
		return v.styles.Selected.Render("> "+title) + v.styles.Muted.Render(detail) + v.styles.Badge(f.IsPublished)
	}
	return v.styles.Normal.Render("  "+title) + v.styles.Muted.Render(detail) + v.styles.Badge(f.IsPublished)
}

// SetDimensions sets the view size.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.filter.SetWidth(width)
	v.scroll()
}

// Selected returns the highlighted form.
func (v *View) Selected() (domain.Form, bool) {
	if v.selected < 0 || v.selected >= len(v.visible) {
		return domain.Form{}, false
	}
	return v.visible[v.selected], true
}

// Visible returns the forms passing the current filters.
func (v *View) Visible() []domain.Form {
	return v.visible
}

// Count returns the number of loaded forms.
func (v *View) Count() int {
	return len(v.all)
}

// Filtering reports whether keystrokes go to the filter input.
func (v *View) Filtering() bool {
	return v.filter.Focused()
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}
