package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/formwright/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "formwright-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

func TestNewStore_CreatesDatabaseFile(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	assert.Equal(t, dbFile, filepath.Base(store.Path()))
	_, err := os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewStore_CreatesMissingDirectory(t *testing.T) {
	tempDir := t.TempDir()
	dataDir := filepath.Join(tempDir, "nested", "data")

	store, err := NewStore(dataDir)
	require.NoError(t, err)
	defer store.Close()

	info, err := os.Stat(dataDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewStore_MigrationsApplied(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	version, err := store.SchemaVersion(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestNewStore_ReopenIsIdempotent(t *testing.T) {
	tempDir := t.TempDir()
	ctx := context.Background()

	first, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, first.Put(ctx, "k", []byte("v")))
	require.NoError(t, first.Close())

	second, err := NewStore(tempDir)
	require.NoError(t, err)
	defer second.Close()

	version, err := second.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	got, err := second.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestStore_Get_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_PutGet(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "inspectionForms", []byte(`[{"id":"a"}]`)))

	got, err := store.Get(ctx, "inspectionForms")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a"}]`, string(got))
}

func TestStore_Put_Overwrites(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "k", []byte("one")))
	require.NoError(t, store.Put(ctx, "k", []byte("two")))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))
}

func TestStore_Put_NilValue(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "k", nil))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_Delete(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "k", []byte("v")))
	require.NoError(t, store.Delete(ctx, "k"))

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Delete_AbsentKey(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	assert.NoError(t, store.Delete(context.Background(), "never-written"))
}
