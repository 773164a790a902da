package mutation

import (
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/formwright/internal/core/domain"
)

// Engine applies edits to forms. The zero value is not usable; call New.
type Engine struct {
	now   func() time.Time
	newID func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source used for UpdatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithIDGenerator overrides the generator for new section and field ids.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) {
		e.newID = newID
	}
}

// New creates an engine using the wall clock and random UUIDs.
func New(opts ...Option) *Engine {
	e := &Engine{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = New()

// AddSection appends a new empty section and returns its id.
func (e *Engine) AddSection(f domain.Form, title, description string) (domain.Form, string) {
	s := domain.Section{
		ID:          e.newID(),
		Title:       title,
		Description: description,
		Fields:      []domain.Field{},
		Order:       len(f.Sections),
	}
	out := e.touch(f)
	out.Sections = append(copySections(f.Sections, 1), s)
	return out, s.ID
}

// UpdateSection renames a section and/or replaces its description.
// Nil arguments leave the attribute unchanged.
func (e *Engine) UpdateSection(f domain.Form, sectionID string, title, description *string) (domain.Form, bool) {
	i := f.SectionIndex(sectionID)
	if i < 0 {
		return f, false
	}
	out := e.touch(f)
	out.Sections = copySections(f.Sections, 0)
	if title != nil {
		out.Sections[i].Title = *title
	}
	if description != nil {
		out.Sections[i].Description = *description
	}
	return out, true
}

// DeleteSection removes a section together with all of its fields.
func (e *Engine) DeleteSection(f domain.Form, sectionID string) (domain.Form, bool) {
	i := f.SectionIndex(sectionID)
	if i < 0 {
		return f, false
	}
	sections := make([]domain.Section, 0, len(f.Sections)-1)
	sections = append(sections, f.Sections[:i]...)
	sections = append(sections, f.Sections[i+1:]...)
	out := e.touch(f)
	out.Sections = renumber(sections)
	return out, true
}

// MoveSection moves the section at from to position to.
// Out-of-range indices are clamped to the nearest valid position.
func (e *Engine) MoveSection(f domain.Form, from, to int) (domain.Form, bool) {
	if len(f.Sections) == 0 {
		return f, false
	}
	out := e.touch(f)
	out.Sections = renumber(move(copySections(f.Sections, 0), from, to))
	return out, true
}

// AddField appends a field to the named section and returns its id.
// Any id on spec is replaced.
func (e *Engine) AddField(f domain.Form, sectionID string, spec domain.Field) (domain.Form, string, bool) {
	i := f.SectionIndex(sectionID)
	if i < 0 {
		return f, "", false
	}
	field := spec.Clone()
	field.ID = e.newID()
	out := e.touch(f)
	out.Sections = copySections(f.Sections, 0)
	out.Sections[i].Fields = append(copyFields(f.Sections[i].Fields, 1), field)
	return out, field.ID, true
}

// UpdateField merges patch into the matching field.
func (e *Engine) UpdateField(
	f domain.Form, sectionID, fieldID string, patch domain.FieldPatch,
) (domain.Form, bool) {
	i, j := locate(f, sectionID, fieldID)
	if j < 0 {
		return f, false
	}
	out := e.touch(f)
	out.Sections = copySections(f.Sections, 0)
	fields := copyFields(f.Sections[i].Fields, 0)
	fields[j] = patch.Apply(fields[j])
	out.Sections[i].Fields = fields
	return out, true
}

// DeleteField removes a field from its section.
func (e *Engine) DeleteField(f domain.Form, sectionID, fieldID string) (domain.Form, bool) {
	i, j := locate(f, sectionID, fieldID)
	if j < 0 {
		return f, false
	}
	src := f.Sections[i].Fields
	fields := make([]domain.Field, 0, len(src)-1)
	fields = append(fields, src[:j]...)
	fields = append(fields, src[j+1:]...)
	out := e.touch(f)
	out.Sections = copySections(f.Sections, 0)
	out.Sections[i].Fields = fields
	return out, true
}

// ReorderFields moves the field at from to position to within one section.
// Out-of-range indices are clamped to the nearest valid position, so the
// result is always a permutation of the section's fields.
func (e *Engine) ReorderFields(f domain.Form, sectionID string, from, to int) (domain.Form, bool) {
	i := f.SectionIndex(sectionID)
	if i < 0 || len(f.Sections[i].Fields) == 0 {
		return f, false
	}
	out := e.touch(f)
	out.Sections = copySections(f.Sections, 0)
	out.Sections[i].Fields = move(copyFields(f.Sections[i].Fields, 0), from, to)
	return out, true
}

// Publish marks the form published. Publishing is one-way and idempotent.
func (e *Engine) Publish(f domain.Form) domain.Form {
	out := e.touch(f)
	out.IsPublished = true
	return out
}

// touch returns a shallow copy of f stamped with the current time.
// A nil section list comes back empty.
func (e *Engine) touch(f domain.Form) domain.Form {
	out := f
	if out.Sections == nil {
		out.Sections = []domain.Section{}
	}
	out.UpdatedAt = e.now()
	if out.UpdatedAt.Before(out.CreatedAt) {
		out.UpdatedAt = out.CreatedAt
	}
	return out
}
