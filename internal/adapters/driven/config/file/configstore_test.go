package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*ConfigStore, string) {
	t.Helper()
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	return store, tmpDir
}

func TestNewConfigStore_Success(t *testing.T) {
	store, tmpDir := setupStore(t)

	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
	assert.Empty(t, store.Keys())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".formwright", "config.toml"), store.Path())
}

func TestNewConfigStore_WithNestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.DirExists(t, dir)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("remote = [unclosed"), 0600))

	store, err := NewConfigStore(tmpDir)

	assert.Nil(t, store)
	assert.Error(t, err)
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, _ := setupStore(t)

	require.NoError(t, store.Set("remote.url", "https://abc.supabase.co"))

	val, ok := store.Get("remote.url")
	assert.True(t, ok)
	assert.Equal(t, "https://abc.supabase.co", val)

	_, ok = store.Get("remote.key")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, _ := setupStore(t)
	require.NoError(t, store.Set("s", "hello"))
	require.NoError(t, store.Set("i", 42))
	require.NoError(t, store.Set("i64", int64(7)))
	require.NoError(t, store.Set("b", true))

	assert.Equal(t, "hello", store.GetString("s"))
	assert.Equal(t, "", store.GetString("i"))
	assert.Equal(t, "", store.GetString("missing"))

	assert.Equal(t, 42, store.GetInt("i"))
	assert.Equal(t, 7, store.GetInt("i64"))
	assert.Equal(t, 0, store.GetInt("s"))

	assert.True(t, store.GetBool("b"))
	assert.False(t, store.GetBool("s"))
	assert.False(t, store.GetBool("missing"))
}

func TestConfigStore_WritesNestedTables(t *testing.T) {
	store, _ := setupStore(t)
	require.NoError(t, store.Set("remote.url", "https://abc.supabase.co"))
	require.NoError(t, store.Set("synthesis.generate_delay_ms", 250))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "[remote]")
	assert.Contains(t, content, "[synthesis]")
	assert.NotContains(t, content, `"remote.url"`)
}

func TestConfigStore_Persistence(t *testing.T) {
	store, tmpDir := setupStore(t)
	require.NoError(t, store.Set("remote.url", "https://abc.supabase.co"))
	require.NoError(t, store.Set("breaker.probe_interval", "45s"))
	require.NoError(t, store.Set("synthesis.modify_delay_ms", 10))
	require.NoError(t, store.Set("storage.ephemeral", true))

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "https://abc.supabase.co", reloaded.GetString("remote.url"))
	assert.Equal(t, "45s", reloaded.GetString("breaker.probe_interval"))
	assert.Equal(t, 10, reloaded.GetInt("synthesis.modify_delay_ms"))
	assert.True(t, reloaded.GetBool("storage.ephemeral"))
	assert.Equal(t, []string{
		"breaker.probe_interval",
		"remote.url",
		"storage.ephemeral",
		"synthesis.modify_delay_ms",
	}, reloaded.Keys())
}

func TestConfigStore_ReadsHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[remote]
url = "https://abc.supabase.co"
key = "anon-key-0123456789abcdef"

[storage]
data_dir = "/var/lib/formwright"
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "anon-key-0123456789abcdef", store.GetString("remote.key"))
	assert.Equal(t, "/var/lib/formwright", store.GetString("storage.data_dir"))
}

func TestConfigStore_Unset(t *testing.T) {
	store, tmpDir := setupStore(t)
	require.NoError(t, store.Set("remote.url", "x"))
	require.NoError(t, store.Set("remote.key", "y"))

	require.NoError(t, store.Unset("remote.url"))
	require.NoError(t, store.Unset("never.set"))

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"remote.key"}, reloaded.Keys())
}

func TestConfigStore_Set_ConflictingKeyRollsBack(t *testing.T) {
	store, _ := setupStore(t)
	require.NoError(t, store.Set("remote", "flat"))

	err := store.Set("remote.url", "nested")

	assert.Error(t, err)
	_, ok := store.Get("remote.url")
	assert.False(t, ok)
	assert.Equal(t, "flat", store.GetString("remote"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, _ := setupStore(t)
	require.NoError(t, store.Set("remote.key", "secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), nil, 0600))

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Empty(t, store.Keys())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, _ := setupStore(t)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("concurrent.key", n)
			_ = store.GetInt("concurrent.key")
			_ = store.Keys()
		}(i)
	}
	wg.Wait()

	_, ok := store.Get("concurrent.key")
	assert.True(t, ok)
}

func TestNestMap(t *testing.T) {
	nested, err := nestMap(map[string]any{"a.b.c": 1, "a.d": "x", "e": true})

	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"a": map[string]any{
			"b": map[string]any{"c": 1},
			"d": "x",
		},
		"e": true,
	}, nested)
	assert.Equal(t, map[string]any{"a.b.c": 1, "a.d": "x", "e": true}, flattenMap(nested, ""))
}
