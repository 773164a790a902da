package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/formwright/internal/core/domain"
)

func testForm(id string, created time.Time) domain.Form {
	f := domain.NewForm(id, "Form "+id, "general", "tester", created)
	f.Sections = []domain.Section{{
		ID:     "s-1",
		Title:  "General",
		Fields: []domain.Field{{ID: "f-1", Type: domain.FieldTypeText, Label: "Name"}},
	}}
	return f
}

func TestFormStore_CreateGet(t *testing.T) {
	store := NewFormStore()
	ctx := context.Background()
	now := time.Now().UTC()

	created, err := store.Create(ctx, testForm("a", now))
	require.NoError(t, err)
	assert.Equal(t, "a", created.ID)

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Form a", got.Title)
	assert.Len(t, got.Sections, 1)
}

func TestFormStore_Create_Duplicate(t *testing.T) {
	store := NewFormStore()
	ctx := context.Background()

	_, err := store.Create(ctx, testForm("a", time.Now()))
	require.NoError(t, err)
	_, err = store.Create(ctx, testForm("a", time.Now()))

	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestFormStore_Get_ReturnsCopy(t *testing.T) {
	store := NewFormStore()
	ctx := context.Background()
	_, err := store.Create(ctx, testForm("a", time.Now()))
	require.NoError(t, err)

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	got.Sections[0].Fields[0].Label = "changed"

	again, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Name", again.Sections[0].Fields[0].Label)
}

func TestFormStore_Update(t *testing.T) {
	store := NewFormStore()
	ctx := context.Background()
	f := testForm("a", time.Now())
	_, err := store.Create(ctx, f)
	require.NoError(t, err)

	f.Title = "Renamed"
	updated, err := store.Update(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)

	_, err = store.Update(ctx, testForm("missing", time.Now()))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFormStore_List_NewestFirst(t *testing.T) {
	store := NewFormStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "new", "mid"} {
		offset := []time.Duration{0, 2 * time.Hour, time.Hour}[i]
		_, err := store.Create(ctx, testForm(id, base.Add(offset)))
		require.NoError(t, err)
	}

	forms, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, forms, 3)
	assert.Equal(t, "new", forms[0].ID)
	assert.Equal(t, "mid", forms[1].ID)
	assert.Equal(t, "old", forms[2].ID)
}

func TestFormStore_Delete(t *testing.T) {
	store := NewFormStore()
	ctx := context.Background()
	_, err := store.Create(ctx, testForm("a", time.Now()))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "a"))
	require.NoError(t, store.Delete(ctx, "a"))

	_, err = store.Get(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
