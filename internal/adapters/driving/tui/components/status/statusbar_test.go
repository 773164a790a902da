package status

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/formwright/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/formwright/internal/core/domain"
)

func TestNewBar_Defaults(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
	assert.Contains(t, bar.View(), "[local]")
	assert.Contains(t, bar.View(), "enter: open")
}

func TestBar_ShowsModeAndMessage(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(160)
	bar.SetMode(domain.StorageModeDegraded)
	bar.SetMessage("3 forms")

	view := bar.View()

	assert.Contains(t, view, "[degraded]")
	assert.Contains(t, view, "3 forms")
}

func TestBar_ErrorState(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(160)
	bar.SetState(StateError)
	bar.SetMessage(errors.New("boom").Error())

	assert.Contains(t, bar.View(), "Error: boom")

	bar.Clear()
	assert.Equal(t, StateReady, bar.State())
	assert.NotContains(t, bar.View(), "boom")
}

func TestBar_LoadingAndBindings(t *testing.T) {
	km := keymap.DefaultKeyMap()
	bar := NewBar(nil, km)
	bar.SetWidth(160)
	bar.SetState(StateLoading)
	bar.SetBindings(km.DetailHelp())

	view := bar.View()

	assert.Contains(t, view, "Loading...")
	assert.Contains(t, view, "p: publish")
	assert.NotContains(t, view, "/: filter")
}
