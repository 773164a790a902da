package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFilterInput(t *testing.T) {
	f := NewFilterInput(nil)

	require.NotNil(t, f)
	assert.NotNil(t, f.styles)
	assert.False(t, f.Focused())
	assert.Empty(t, f.Value())
}

func TestFilterInput_TypingWhenFocused(t *testing.T) {
	f := NewFilterInput(nil)
	f.Focus()

	f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("kit")})

	assert.Equal(t, "kit", f.Value())
	assert.Contains(t, f.View(), "Filter:")
}

func TestFilterInput_SetValueAndReset(t *testing.T) {
	f := NewFilterInput(nil)

	f.SetValue("audit")
	assert.Equal(t, "audit", f.Value())

	f.Reset()
	assert.Empty(t, f.Value())
}

func TestFilterInput_SetWidthHasFloor(t *testing.T) {
	f := NewFilterInput(nil)

	f.SetWidth(10)
	assert.Equal(t, 20, f.textinput.Width)

	f.SetWidth(100)
	assert.Equal(t, 86, f.textinput.Width)
}

func TestFilterInput_BlurStopsFocus(t *testing.T) {
	f := NewFilterInput(nil)
	f.Focus()
	require.True(t, f.Focused())

	f.Blur()

	assert.False(t, f.Focused())
}
