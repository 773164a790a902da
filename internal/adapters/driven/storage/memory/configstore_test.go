package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Seed(t *testing.T) {
	seed := map[string]any{"remote.url": "https://x.supabase.co"}
	store := NewConfigStore(seed)
	seed["remote.url"] = "changed"

	assert.Equal(t, "https://x.supabase.co", store.GetString("remote.url"))
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore(map[string]any{
		"a.string": "value",
		"a.int":    int64(42),
		"a.float":  float64(7),
		"a.bool":   true,
	})

	assert.Equal(t, "value", store.GetString("a.string"))
	assert.Equal(t, 42, store.GetInt("a.int"))
	assert.Equal(t, 7, store.GetInt("a.float"))
	assert.True(t, store.GetBool("a.bool"))

	// Wrong types and missing keys fall back to zero values.
	assert.Empty(t, store.GetString("a.int"))
	assert.Equal(t, 0, store.GetInt("a.string"))
	assert.False(t, store.GetBool("missing"))
}

func TestConfigStore_SetUnsetKeys(t *testing.T) {
	store := NewConfigStore(nil)

	require.NoError(t, store.Set("b", 1))
	require.NoError(t, store.Set("a", 2))
	assert.Equal(t, []string{"a", "b"}, store.Keys())

	require.NoError(t, store.Unset("a"))
	_, ok := store.Get("a")
	assert.False(t, ok)
	assert.Equal(t, []string{"b"}, store.Keys())
}
