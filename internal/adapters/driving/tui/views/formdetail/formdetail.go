// Package formdetail provides the single-form view for the TUI.
package formdetail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/formwright/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/formwright/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/formwright/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/formwright/internal/core/domain"
	"github.com/custodia-labs/formwright/internal/core/mutation"
	"github.com/custodia-labs/formwright/internal/core/ports/driving"
)

// headerLines is the space taken above the scrolling body.
const headerLines = 5

// View shows one form's sections and fields in a scrollable viewport.
type View struct {
	styles      *styles.Styles
	keymap      *keymap.KeyMap
	formService driving.FormService
	engine      *mutation.Engine
	ctx         context.Context

	form     *domain.Form
	viewport viewport.Model
	width    int
	height   int
	busy     bool
	err      error
}

// NewView creates a new form detail view.
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
		engine:      mutation.New(),
		ctx:         context.Background(),
		viewport:    viewport.New(80, 24-headerLines),
		width:       80,
		height:      24,
	}
}

// SetContext sets the context used for storage calls.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// SetForm shows form immediately and returns a command re-reading it from
// storage.
func (v *View) SetForm(form domain.Form) tea.Cmd {
	v.form = &form
	v.err = nil
	v.busy = false
	v.render()
	v.viewport.GotoTop()
	return v.reload()
}

func (v *View) reload() tea.Cmd {
	if v.form == nil || v.formService == nil {
		return nil
	}
	ctx, svc, id := v.ctx, v.formService, v.form.ID
	return func() tea.Msg {
		form, err := svc.GetForm(ctx, id)
		return messages.FormLoaded{Form: form, Err: err}
	}
}

// publish marks the form published and writes it back as a patch.
func (v *View) publish() tea.Cmd {
	if v.form == nil || v.formService == nil {
		return nil
	}
	if v.form.IsPublished {
		return nil
	}
	v.busy = true
	ctx, svc, engine, id := v.ctx, v.formService, v.engine, v.form.ID
	return func() tea.Msg {
		current, err := svc.GetForm(ctx, id)
		if err != nil {
			return messages.FormPublished{Err: err}
		}
		updated, err := svc.UpdateForm(ctx, id, domain.PatchFrom(engine.Publish(*current)))
		return messages.FormPublished{Form: updated, Err: err}
	}
}

// Update handles messages for the detail view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.FormLoaded:
		v.setResult(msg.Form, msg.Err)
		return v, nil

	case messages.FormPublished:
		v.busy = false
		v.setResult(msg.Form, msg.Err)
		return v, nil

	case tea.KeyMsg:
		keyStr := msg.String()
		switch {
		case keymap.Matches(keyStr, v.keymap.Back):
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewForms} }
		case keymap.Matches(keyStr, v.keymap.Publish):
			if v.busy {
				return v, nil
			}
			return v, v.publish()
		case keymap.Matches(keyStr, v.keymap.Refresh):
			return v, v.reload()
		case keymap.Matches(keyStr, v.keymap.Quit):
			return v, func() tea.Msg { return messages.Quit{} }
		}
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) setResult(form *domain.Form, err error) {
	if err != nil {
		v.err = err
		return
	}
	if form == nil {
		v.err = errors.New("form not returned")
		return
	}
	v.err = nil
	v.form = form
	v.render()
}

// render writes the section and field tree into the viewport.
func (v *View) render() {
	if v.form == nil {
		v.viewport.SetContent("")
		return
	}
	var b strings.Builder
	if v.form.Description != "" {
		b.WriteString(v.styles.Muted.Render(v.form.Description))
		b.WriteString("\n\n")
	}
	if len(v.form.Sections) == 0 {
		b.WriteString(v.styles.Muted.Render("No sections yet."))
	}
	for i := range v.form.Sections {
		s := &v.form.Sections[i]
		b.WriteString(v.styles.Section.Render(fmt.Sprintf("%d. %s", i+1, s.Title)))
		b.WriteString("\n")
		if len(s.Fields) == 0 {
			b.WriteString(v.styles.Muted.Render("   (no fields)"))
			b.WriteString("\n")
		}
		for j := range s.Fields {
			b.WriteString(renderField(v.styles, &s.Fields[j]))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	v.viewport.SetContent(b.String())
}

func renderField(st *styles.Styles, f *domain.Field) string {
	label := f.Label
	if f.Required {
		label += " *"
	}
	line := st.Normal.Render("   - "+label) + st.Muted.Render(" ("+f.Type.String()+")")
	if len(f.Options) > 0 {
		line += st.Muted.Render(" [" + strings.Join(f.Options, ", ") + "]")
	}
	return line
}

// View renders the form.
func (v *View) View() string {
	if v.form == nil {
		return v.styles.Muted.Render("No form selected.")
	}
	var b strings.Builder
	b.WriteString(v.styles.Title.Render(v.form.Title))
	b.WriteString("  ")
	b.WriteString(v.styles.Badge(v.form.IsPublished))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("%s · %s · v%d · by %s",
		v.form.ID, v.form.Industry, v.form.Version, v.form.CreatedBy)))
	b.WriteString("\n")
	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case v.busy:
		b.WriteString(v.styles.Muted.Render("Publishing..."))
	}
	b.WriteString("\n\n")
	b.WriteString(v.viewport.View())
	return b.String()
}

// SetDimensions sets the view size.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.viewport.Width = width
	v.viewport.Height = max(height-headerLines-1, 1)
}

// Form returns the form being shown.
func (v *View) Form() *domain.Form {
	return v.form
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
