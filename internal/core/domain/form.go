package domain

import (
	"errors"
	"fmt"
	"time"
)

// DefaultOwner is recorded as the creator when no identity is supplied.
// There is no authentication, so every form belongs to the demo user.
const DefaultOwner = "demo-user"

// Section is a named, ordered group of fields within a form.
type Section struct {
	ID          string  `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []Field `json:"fields" yaml:"fields"`

	// Order mirrors the section's position in Form.Sections. Position is
	// authoritative; Order is re-stamped on every structural change.
	Order int `json:"order" yaml:"order"`
}

// FieldIndex returns the position of the field with the given ID, or -1.
func (s Section) FieldIndex(id string) int {
	for i := range s.Fields {
		if s.Fields[i].ID == id {
			return i
		}
	}
	return -1
}

// Validate checks the section and all of its fields.
func (s Section) Validate() error {
	var errs []error
	if s.ID == "" {
		errs = append(errs, errors.New("section id is empty"))
	}
	seen := make(map[string]struct{}, len(s.Fields))
	for i := range s.Fields {
		f := s.Fields[i]
		if _, dup := seen[f.ID]; dup && f.ID != "" {
			errs = append(errs, fmt.Errorf("section %s: duplicate field id %s", s.ID, f.ID))
		}
		seen[f.ID] = struct{}{}
		if err := f.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("section %s: %w", s.ID, err))
		}
	}
	return errors.Join(errs...)
}

// Clone returns a deep copy of the section.
func (s Section) Clone() Section {
	out := s
	if s.Fields != nil {
		out.Fields = make([]Field, len(s.Fields))
		for i := range s.Fields {
			out.Fields[i] = s.Fields[i].Clone()
		}
	}
	return out
}

// Settings holds per-form capture behaviour.
type Settings struct {
	AllowOffline     bool `json:"allowOffline" yaml:"allowOffline" toml:"allow_offline"`
	RequireLocation  bool `json:"requireLocation" yaml:"requireLocation" toml:"require_location"`
	RequireSignature bool `json:"requireSignature" yaml:"requireSignature" toml:"require_signature"`
	AutoSave         bool `json:"autoSave" yaml:"autoSave" toml:"auto_save"`
}

// DefaultSettings returns the settings given to newly created forms.
func DefaultSettings() Settings {
	return Settings{
		AllowOffline:     true,
		RequireLocation:  true,
		RequireSignature: false,
		AutoSave:         true,
	}
}

// Form is the root inspection document: ordered sections of ordered fields.
type Form struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Industry    string    `json:"industry" yaml:"industry"`
	// Sections is never nil on a stored or edited form. A form without
	// sections holds an empty slice so it encodes as [] rather than null.
	Sections    []Section `json:"sections" yaml:"sections"`
	CreatedBy   string    `json:"createdBy" yaml:"createdBy"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"updatedAt"`
	Version     int       `json:"version" yaml:"version"`
	IsTemplate  bool      `json:"isTemplate" yaml:"isTemplate"`
	IsPublished bool      `json:"isPublished" yaml:"isPublished"`
	Settings    Settings  `json:"settings" yaml:"settings"`
}

// NewForm creates an empty form owned by owner.
func NewForm(id, title, industry, owner string, now time.Time) Form {
	if owner == "" {
		owner = DefaultOwner
	}
	return Form{
		ID:        id,
		Title:     title,
		Industry:  industry,
		Sections:  []Section{},
		CreatedBy: owner,
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
		Settings:  DefaultSettings(),
	}
}

// SectionIndex returns the position of the section with the given ID, or -1.
func (f Form) SectionIndex(id string) int {
	for i := range f.Sections {
		if f.Sections[i].ID == id {
			return i
		}
	}
	return -1
}

// Section returns the section with the given ID.
func (f Form) Section(id string) (Section, bool) {
	i := f.SectionIndex(id)
	if i < 0 {
		return Section{}, false
	}
	return f.Sections[i], true
}

// FieldCount returns the number of fields across all sections.
func (f Form) FieldCount() int {
	n := 0
	for i := range f.Sections {
		n += len(f.Sections[i].Fields)
	}
	return n
}

// Status returns "published" or "draft".
func (f Form) Status() string {
	if f.IsPublished {
		return StatusPublished
	}
	return StatusDraft
}

// Validate checks every structural invariant of the form tree.
// All violations are reported, joined, and wrap ErrInvalidForm.
func (f Form) Validate() error {
	var errs []error
	if f.ID == "" {
		errs = append(errs, errors.New("form id is empty"))
	}
	if f.Version < 1 {
		errs = append(errs, fmt.Errorf("version %d is below 1", f.Version))
	}
	if f.UpdatedAt.Before(f.CreatedAt) {
		errs = append(errs, errors.New("updatedAt precedes createdAt"))
	}
	seen := make(map[string]struct{}, len(f.Sections))
	for i := range f.Sections {
		s := f.Sections[i]
		if _, dup := seen[s.ID]; dup && s.ID != "" {
			errs = append(errs, fmt.Errorf("duplicate section id %s", s.ID))
		}
		seen[s.ID] = struct{}{}
		if s.Order != i {
			errs = append(errs, fmt.Errorf("section %s: order %d does not match position %d", s.ID, s.Order, i))
		}
		if err := s.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidForm, errors.Join(errs...))
}

// Clone returns a deep copy of the form.
func (f Form) Clone() Form {
	out := f
	if f.Sections != nil {
		out.Sections = make([]Section, len(f.Sections))
		for i := range f.Sections {
			out.Sections[i] = f.Sections[i].Clone()
		}
	}
	return out
}

// FormPatch is a partial update applied by the persistence layer.
// Nil members leave the corresponding attribute unchanged.
type FormPatch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Industry    *string   `json:"industry,omitempty"`
	Sections    []Section `json:"sections,omitempty"`
	CreatedBy   *string   `json:"createdBy,omitempty"`
	IsTemplate  *bool     `json:"isTemplate,omitempty"`
	IsPublished *bool     `json:"isPublished,omitempty"`
	Settings    *Settings `json:"settings,omitempty"`
}

// PatchFrom builds a patch that replaces every mutable attribute with f's.
func PatchFrom(f Form) FormPatch {
	return FormPatch{
		Title:       &f.Title,
		Description: &f.Description,
		Industry:    &f.Industry,
		Sections:    f.Sections,
		CreatedBy:   &f.CreatedBy,
		IsTemplate:  &f.IsTemplate,
		IsPublished: &f.IsPublished,
		Settings:    &f.Settings,
	}
}

// Apply merges the patch into f and returns the result.
// Identity, timestamps and version are left to the caller.
func (p FormPatch) Apply(f Form) Form {
	out := f
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Industry != nil {
		out.Industry = *p.Industry
	}
	if p.Sections != nil {
		out.Sections = p.Sections
	}
	if p.CreatedBy != nil {
		out.CreatedBy = *p.CreatedBy
	}
	if p.IsTemplate != nil {
		out.IsTemplate = *p.IsTemplate
	}
	if p.IsPublished != nil {
		out.IsPublished = *p.IsPublished
	}
	if p.Settings != nil {
		out.Settings = *p.Settings
	}
	return out
}
