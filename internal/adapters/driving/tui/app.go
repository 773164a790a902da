package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/formwright/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/formwright/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/formwright/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/formwright/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/formwright/internal/adapters/driving/tui/views/formdetail"
	"github.com/custodia-labs/formwright/internal/adapters/driving/tui/views/forms"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	// formsView lists stored forms.
	formsView *forms.View

	// detailView shows the selected form.
	detailView *formdetail.View

	// statusBar shows the storage mode and key hints.
	statusBar *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	width  int
	height int

	// ready indicates if the app has received its first window size.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	bar := status.NewBar(s, km)
	bar.SetMode(ports.Forms.Mode())

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		formsView:   forms.NewView(s, km, ports.Forms),
		detailView:  formdetail.NewView(s, km, ports.Forms),
		statusBar:   bar,
		currentView: messages.ViewForms,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.formsView.SetContext(ctx)
	a.detailView.SetContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	a.statusBar.SetState(status.StateLoading)
	return tea.Batch(
		tea.SetWindowTitle("formwright"),
		a.formsView.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		switch a.currentView {
		case messages.ViewForms:
			a.formsView, cmd = a.formsView.Update(msg)
		case messages.ViewFormDetail:
			a.detailView, cmd = a.detailView.Update(msg)
		case messages.ViewHelp:
			if msg.Type == tea.KeyEsc || keymap.Matches(msg.String(), a.keymap.Help) {
				a.switchTo(messages.ViewForms)
			}
		}
		return a, cmd

	case messages.FormsLoaded:
		a.formsView, cmd = a.formsView.Update(msg)
		a.statusBar.SetMode(a.ports.Forms.Mode())
		if msg.Err != nil {
			a.fail(msg.Err)
		} else {
			a.statusBar.Clear()
			a.statusBar.SetMessage(fmt.Sprintf("%d forms", a.formsView.Count()))
		}
		return a, cmd

	case messages.FormSelected:
		a.switchTo(messages.ViewFormDetail)
		return a, a.detailView.SetForm(msg.Form)

	case messages.FormLoaded:
		a.detailView, cmd = a.detailView.Update(msg)
		if msg.Err != nil {
			a.fail(msg.Err)
		}
		return a, cmd

	case messages.FormPublished:
		a.detailView, cmd = a.detailView.Update(msg)
		a.statusBar.SetMode(a.ports.Forms.Mode())
		if msg.Err != nil {
			a.fail(msg.Err)
			return a, cmd
		}
		a.statusBar.Clear()
		if msg.Form != nil {
			a.statusBar.SetMessage(fmt.Sprintf("Published %s (v%d)", msg.Form.ID, msg.Form.Version))
		}
		return a, cmd

	case messages.ViewChanged:
		a.switchTo(msg.View)
		if msg.View == messages.ViewForms {
			return a, a.formsView.Reload()
		}
		return a, nil

	case messages.ErrorOccurred:
		a.fail(msg.Err)
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	return a, nil
}

func (a *App) switchTo(view messages.ViewType) {
	a.currentView = view
	switch view {
	case messages.ViewFormDetail:
		a.statusBar.SetBindings(a.keymap.DetailHelp())
	case messages.ViewForms, messages.ViewHelp:
		a.statusBar.SetBindings(a.keymap.ListHelp())
	}
}

func (a *App) fail(err error) {
	a.err = err
	a.statusBar.SetState(status.StateError)
	a.statusBar.SetMessage(err.Error())
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewFormDetail:
		body = a.detailView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.formsView.View()
	}

	gap := max(a.height-strings.Count(body, "\n")-2, 0)
	return body + strings.Repeat("\n", gap) + "\n" + a.statusBar.View()
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-10s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Muted.Render("[esc] back to forms"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.formsView.SetDimensions(width, height-1)
	a.detailView.SetDimensions(width, height-1)
	a.statusBar.SetWidth(width)
}
