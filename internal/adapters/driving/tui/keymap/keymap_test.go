package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	require.NotNil(t, km)
}

func TestDefaultKeyMap_Bindings(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name string
		keys []string
		want []string
	}{
		{"quit", km.Quit.Keys(), []string{"q", "ctrl+c"}},
		{"help", km.Help.Keys(), []string{"?"}},
		{"back", km.Back.Keys(), []string{"esc"}},
		{"up", km.Up.Keys(), []string{"up", "k"}},
		{"down", km.Down.Keys(), []string{"down", "j"}},
		{"open", km.Open.Keys(), []string{"enter"}},
		{"filter", km.Filter.Keys(), []string{"/"}},
		{"status", km.Status.Keys(), []string{"s"}},
		{"refresh", km.Refresh.Keys(), []string{"r"}},
		{"publish", km.Publish.Keys(), []string{"p"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.keys)
		})
	}
}

func TestKeyMap_HelpGroups(t *testing.T) {
	km := DefaultKeyMap()

	assert.Len(t, km.ListHelp(), 5)
	assert.Len(t, km.DetailHelp(), 5)
	assert.Len(t, km.FullHelp(), 4)
	for _, group := range km.FullHelp() {
		assert.NotEmpty(t, group)
	}
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("q", km.Quit))
	assert.True(t, Matches("ctrl+c", km.Quit))
	assert.True(t, Matches("j", km.Down))
	assert.False(t, Matches("x", km.Quit))
	assert.False(t, Matches("", km.Publish))
}
