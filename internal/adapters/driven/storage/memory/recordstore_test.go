package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/formwright/internal/core/domain"
)

func TestNewRecordStore(t *testing.T) {
	store := NewRecordStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.records)
	assert.Equal(t, 0, store.Len())
}

func TestRecordStore_PutGet(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "inspectionForms", []byte(`[]`)))

	got, err := store.Get(ctx, "inspectionForms")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)
}

func TestRecordStore_Get_NotFound(t *testing.T) {
	store := NewRecordStore()

	_, err := store.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordStore_CopiesValues(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()
	value := []byte("abc")

	require.NoError(t, store.Put(ctx, "k", value))
	value[0] = 'z'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[1] = 'z'
	again, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestRecordStore_Delete(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "k", []byte("v")))
	require.NoError(t, store.Delete(ctx, "k"))
	require.NoError(t, store.Delete(ctx, "k"))

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordStore_ConcurrentAccess(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("k-%d", n)
			_ = store.Put(ctx, key, []byte(key))
			_, _ = store.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, store.Len())
}
