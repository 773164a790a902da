package domain

import "time"

// Template is a form-shaped starting point produced by synthesis.
// Accepting a template yields a new Form; the template itself is left as is.
type Template struct {
	Form

	// Name is the display name of the template.
	Name string `json:"name"`

	// Confidence is the synthesis certainty in [0, 1].
	Confidence float64 `json:"confidence"`

	// SuggestedFields is advisory and not applied by any mutation.
	SuggestedFields []Field `json:"suggestedFields"`
}

// Clone returns a deep copy of the template.
func (t Template) Clone() Template {
	out := t
	out.Form = t.Form.Clone()
	if t.SuggestedFields != nil {
		out.SuggestedFields = make([]Field, len(t.SuggestedFields))
		for i := range t.SuggestedFields {
			out.SuggestedFields[i] = t.SuggestedFields[i].Clone()
		}
	}
	return out
}

// FromTemplate wraps a template's sections in a fresh form envelope.
// Sections are shared with the template, not copied; edits to the form go
// through copy-on-write mutations and never reach the template.
func FromTemplate(t Template, id, owner string, now time.Time) Form {
	title := t.Name
	if title == "" {
		title = t.Title
	}
	f := NewForm(id, title, t.Industry, owner, now)
	f.Description = t.Description
	if t.Sections != nil {
		f.Sections = t.Sections
	}
	return f
}
