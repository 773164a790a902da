package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/formwright/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/formwright/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/formwright/internal/core/domain"
	"github.com/custodia-labs/formwright/internal/core/services"
)

func newTestApp(t *testing.T, titles ...string) (*App, *services.FormService) {
	t.Helper()
	n := 0
	svc := services.NewFormService(memory.NewFormStore(),
		services.WithFormClock(func() time.Time { return time.Date(2026, 9, 1, 0, 0, n, 0, time.UTC) }),
		services.WithFormIDs(func() string {
			n++
			return fmt.Sprintf("form-%d", n)
		}),
	)
	for _, title := range titles {
		_, err := svc.CreateForm(context.Background(), domain.Form{Title: title, Industry: "general"})
		require.NoError(t, err)
	}
	app, err := NewApp(&Ports{Forms: svc})
	require.NoError(t, err)
	return app, svc
}

// load feeds the form list into app as the first render would.
func load(t *testing.T, app *App) {
	t.Helper()
	cmd := app.formsView.Init()
	require.NotNil(t, cmd)
	app.Update(cmd())
}

func TestNewApp_RequiresFormService(t *testing.T) {
	_, err := NewApp(&Ports{})
	assert.ErrorIs(t, err, ErrMissingFormService)

	_, err = NewApp(nil)
	assert.ErrorIs(t, err, ErrMissingFormService)
}

func TestNewApp_Defaults(t *testing.T) {
	app, _ := newTestApp(t)

	assert.Equal(t, messages.ViewForms, app.CurrentView())
	assert.False(t, app.Ready())
	assert.NoError(t, app.Err())
	assert.NotNil(t, app.Init())
	assert.Equal(t, "Initialising...", app.View())
}

func TestApp_WindowSizeMakesReady(t *testing.T) {
	app, _ := newTestApp(t, "Kitchen audit")
	load(t, app)

	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	require.True(t, app.Ready())
	out := app.View()
	assert.Contains(t, out, "Kitchen audit")
	assert.Contains(t, out, "[local]")
	assert.Contains(t, out, "1 forms")
}

func TestApp_LoadErrorShowsInStatus(t *testing.T) {
	app, _ := newTestApp(t)
	app.SetDimensions(100, 30)

	app.Update(messages.FormsLoaded{Err: errors.New("disk gone")})

	assert.EqualError(t, app.Err(), "disk gone")
	assert.Contains(t, app.View(), "disk gone")
}

func TestApp_OpenAndPublishForm(t *testing.T) {
	app, svc := newTestApp(t, "Kitchen audit")
	app.SetDimensions(100, 30)
	load(t, app)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	_, cmd = app.Update(cmd())
	assert.Equal(t, messages.ViewFormDetail, app.CurrentView())
	require.NotNil(t, cmd)
	app.Update(cmd())

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Contains(t, app.View(), "Published form-1 (v2)")
	stored, err := svc.GetForm(context.Background(), "form-1")
	require.NoError(t, err)
	assert.True(t, stored.IsPublished)
}

func TestApp_BackToFormsReloads(t *testing.T) {
	app, svc := newTestApp(t, "Kitchen audit")
	app.SetDimensions(100, 30)
	load(t, app)
	app.Update(messages.FormSelected{Form: app.formsView.Visible()[0]})

	_, err := svc.CreateForm(context.Background(), domain.Form{Title: "Bar audit", Industry: "general"})
	require.NoError(t, err)
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	_, cmd = app.Update(cmd())
	assert.Equal(t, messages.ViewForms, app.CurrentView())
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Equal(t, 2, app.formsView.Count())
}

func TestApp_HelpView(t *testing.T) {
	app, _ := newTestApp(t)
	app.SetDimensions(100, 30)

	app.Update(messages.ViewChanged{View: messages.ViewHelp})
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "[esc] back to forms")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewForms, app.CurrentView())
}

func TestApp_Quit(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	_, cmd = app.Update(messages.Quit{})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestApp_ErrorOccurred(t *testing.T) {
	app, _ := newTestApp(t)

	app.Update(messages.ErrorOccurred{Err: errors.New("boom")})

	assert.EqualError(t, app.Err(), "boom")
}

func TestApp_WithContext(t *testing.T) {
	app, _ := newTestApp(t)
	ctx := context.WithValue(context.Background(), struct{}{}, "x")

	assert.Same(t, app, app.WithContext(ctx))
	assert.Equal(t, ctx, app.ctx)
}
