package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func sampleForm() Form {
	f := NewForm("f1", "Kitchen audit", "food-service", "alice", testNow)
	f.Sections = []Section{
		{ID: "s1", Title: "Prep", Order: 0, Fields: []Field{
			{ID: "a", Type: FieldTypeText, Label: "Surfaces"},
			{ID: "b", Type: FieldTypeSelect, Label: "Grade", Options: []string{"A", "B"}},
		}},
		{ID: "s2", Title: "Storage", Order: 1, Fields: []Field{}},
	}
	return f
}

func TestNewForm(t *testing.T) {
	f := NewForm("f1", "Kitchen audit", "food-service", "", testNow)

	assert.Equal(t, DefaultOwner, f.CreatedBy)
	assert.Equal(t, 1, f.Version)
	assert.Equal(t, testNow, f.CreatedAt)
	assert.Equal(t, testNow, f.UpdatedAt)
	assert.NotNil(t, f.Sections)
	assert.Empty(t, f.Sections)
	assert.Equal(t, DefaultSettings(), f.Settings)
	assert.False(t, f.IsPublished)
	require.NoError(t, f.Validate())
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.True(t, s.AllowOffline)
	assert.True(t, s.RequireLocation)
	assert.False(t, s.RequireSignature)
	assert.True(t, s.AutoSave)
}

func TestForm_Lookups(t *testing.T) {
	f := sampleForm()

	assert.Equal(t, 1, f.SectionIndex("s2"))
	assert.Equal(t, -1, f.SectionIndex("nope"))

	s, ok := f.Section("s1")
	require.True(t, ok)
	assert.Equal(t, 1, s.FieldIndex("b"))
	assert.Equal(t, -1, s.FieldIndex("nope"))

	_, ok = f.Section("nope")
	assert.False(t, ok)

	assert.Equal(t, 2, f.FieldCount())
	assert.Equal(t, StatusDraft, f.Status())
	f.IsPublished = true
	assert.Equal(t, StatusPublished, f.Status())
}

func TestForm_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Form)
		want   string
	}{
		{"empty id", func(f *Form) { f.ID = "" }, "form id is empty"},
		{"version zero", func(f *Form) { f.Version = 0 }, "version 0 is below 1"},
		{"updated before created", func(f *Form) { f.UpdatedAt = testNow.Add(-time.Second) }, "updatedAt precedes createdAt"},
		{"duplicate section", func(f *Form) { f.Sections[1].ID = "s1" }, "duplicate section id s1"},
		{"order mismatch", func(f *Form) { f.Sections[1].Order = 5 }, "order 5 does not match position 1"},
		{"empty section id", func(f *Form) { f.Sections[1].ID = "" }, "section id is empty"},
		{"duplicate field", func(f *Form) { f.Sections[0].Fields[1].ID = "a" }, "duplicate field id a"},
		{"bad field", func(f *Form) { f.Sections[0].Fields[0].Type = "slider" }, `unknown type "slider"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := sampleForm()
			tt.mutate(&f)

			err := f.Validate()

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidForm)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	assert.NoError(t, sampleForm().Validate())
}

func TestForm_ValidateReportsEveryViolation(t *testing.T) {
	f := sampleForm()
	f.ID = ""
	f.Version = 0

	err := f.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "form id is empty")
	assert.Contains(t, err.Error(), "version 0 is below 1")
}

func TestForm_Clone(t *testing.T) {
	f := sampleForm()

	c := f.Clone()
	c.Sections[0].Title = "Changed"
	c.Sections[0].Fields[1].Options[0] = "Z"

	assert.Equal(t, "Prep", f.Sections[0].Title)
	assert.Equal(t, "A", f.Sections[0].Fields[1].Options[0])
}

func TestFormPatch_Apply(t *testing.T) {
	f := sampleForm()
	title := "Bar audit"
	published := true

	out := FormPatch{Title: &title, IsPublished: &published}.Apply(f)

	assert.Equal(t, "Bar audit", out.Title)
	assert.True(t, out.IsPublished)
	assert.Equal(t, f.Industry, out.Industry)
	assert.Equal(t, f.Sections, out.Sections)
	assert.Equal(t, "Kitchen audit", f.Title)
}

func TestPatchFrom(t *testing.T) {
	src := sampleForm()
	src.Title = "Replaced"
	src.Description = "New"
	src.Settings.RequireSignature = true
	dst := NewForm("f1", "Old", "general", "bob", testNow)

	out := PatchFrom(src).Apply(dst)

	assert.Equal(t, "Replaced", out.Title)
	assert.Equal(t, "New", out.Description)
	assert.Equal(t, "food-service", out.Industry)
	assert.Equal(t, "alice", out.CreatedBy)
	assert.True(t, out.Settings.RequireSignature)
	assert.Len(t, out.Sections, 2)
}
