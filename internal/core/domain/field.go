package domain

import (
	"errors"
	"fmt"
)

// FieldType identifies the kind of input a field collects.
type FieldType string

// Supported field types.
const (
	FieldTypeText      FieldType = "text"
	FieldTypeTextarea  FieldType = "textarea"
	FieldTypeSelect    FieldType = "select"
	FieldTypeCheckbox  FieldType = "checkbox"
	FieldTypeRadio     FieldType = "radio"
	FieldTypeRating    FieldType = "rating"
	FieldTypePhoto     FieldType = "photo"
	FieldTypeVideo     FieldType = "video"
	FieldTypeSignature FieldType = "signature"
)

// FieldTypes returns every supported field type in palette order.
func FieldTypes() []FieldType {
	return []FieldType{
		FieldTypeText,
		FieldTypeTextarea,
		FieldTypeSelect,
		FieldTypeCheckbox,
		FieldTypeRadio,
		FieldTypeRating,
		FieldTypePhoto,
		FieldTypeVideo,
		FieldTypeSignature,
	}
}

// IsValid returns true if the field type is recognised.
func (t FieldType) IsValid() bool {
	switch t {
	case FieldTypeText, FieldTypeTextarea, FieldTypeSelect, FieldTypeCheckbox,
		FieldTypeRadio, FieldTypeRating, FieldTypePhoto, FieldTypeVideo, FieldTypeSignature:
		return true
	default:
		return false
	}
}

// RequiresOptions returns true for choice types that must carry options.
func (t FieldType) RequiresOptions() bool {
	return t == FieldTypeSelect || t == FieldTypeCheckbox || t == FieldTypeRadio
}

// IsMedia returns true for capture types (photo, video).
func (t FieldType) IsMedia() bool {
	return t == FieldTypePhoto || t == FieldTypeVideo
}

// String returns the string representation.
func (t FieldType) String() string {
	return string(t)
}

// Validation holds optional value constraints for a field.
type Validation struct {
	Min     *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max     *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Pattern string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

// Conditional shows a field only when another field's answer satisfies a condition.
type Conditional struct {
	// DependsOnFieldID references a field in the same form.
	DependsOnFieldID string `json:"dependsOn" yaml:"dependsOn"`

	// Condition is the comparison operator (e.g. "equals").
	Condition string `json:"condition" yaml:"condition"`

	// Value is the operand compared against the referenced answer. Numbers
	// are held as float64, the type they decode to from a stored form, and
	// Clone widens any other numeric type.
	Value any `json:"value" yaml:"value"`
}

// numericValue widens Go numbers to float64 so a value compares the same
// before and after a JSON round trip. Lists are widened element-wise.
func numericValue(v any) any {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case float32:
		return float64(n)
	case []any:
		out := make([]any, len(n))
		for i := range n {
			out[i] = numericValue(n[i])
		}
		return out
	}
	return v
}

// Field is a single question within a section.
type Field struct {
	ID          string       `json:"id" yaml:"id"`
	Type        FieldType    `json:"type" yaml:"type"`
	Label       string       `json:"label" yaml:"label"`
	Placeholder string       `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Required    bool         `json:"required" yaml:"required"`
	Options     []string     `json:"options,omitempty" yaml:"options,omitempty"`
	Validation  *Validation  `json:"validation,omitempty" yaml:"validation,omitempty"`
	Conditional *Conditional `json:"conditional,omitempty" yaml:"conditional,omitempty"`
}

// Validate checks the field's own invariants.
func (f Field) Validate() error {
	var errs []error
	if f.ID == "" {
		errs = append(errs, errors.New("field id is empty"))
	}
	if !f.Type.IsValid() {
		errs = append(errs, fmt.Errorf("field %s: unknown type %q", f.ID, f.Type))
	}
	if f.Options != nil && len(f.Options) == 0 {
		errs = append(errs, fmt.Errorf("field %s: options present but empty", f.ID))
	}
	if f.Type.RequiresOptions() && len(f.Options) == 0 {
		errs = append(errs, fmt.Errorf("field %s: %s requires options", f.ID, f.Type))
	}
	if !f.Type.RequiresOptions() && len(f.Options) > 0 {
		errs = append(errs, fmt.Errorf("field %s: %s does not take options", f.ID, f.Type))
	}
	if v := f.Validation; v != nil && v.Min != nil && v.Max != nil && *v.Min > *v.Max {
		errs = append(errs, fmt.Errorf("field %s: validation min %g exceeds max %g", f.ID, *v.Min, *v.Max))
	}
	return errors.Join(errs...)
}

// Clone returns a deep copy of the field.
func (f Field) Clone() Field {
	out := f
	if f.Options != nil {
		out.Options = append([]string(nil), f.Options...)
	}
	if f.Validation != nil {
		v := *f.Validation
		if v.Min != nil {
			minVal := *v.Min
			v.Min = &minVal
		}
		if v.Max != nil {
			maxVal := *v.Max
			v.Max = &maxVal
		}
		out.Validation = &v
	}
	if f.Conditional != nil {
		c := *f.Conditional
		c.Value = numericValue(c.Value)
		out.Conditional = &c
	}
	return out
}

// FieldPatch is a partial update merged into an existing field.
// Nil members leave the corresponding attribute unchanged.
type FieldPatch struct {
	Type        *FieldType   `json:"type,omitempty"`
	Label       *string      `json:"label,omitempty"`
	Placeholder *string      `json:"placeholder,omitempty"`
	Required    *bool        `json:"required,omitempty"`
	Options     []string     `json:"options,omitempty"`
	Validation  *Validation  `json:"validation,omitempty"`
	Conditional *Conditional `json:"conditional,omitempty"`
}

// IsEmpty returns true if the patch changes nothing.
func (p FieldPatch) IsEmpty() bool {
	return p.Type == nil && p.Label == nil && p.Placeholder == nil && p.Required == nil &&
		p.Options == nil && p.Validation == nil && p.Conditional == nil
}

// Apply merges the patch into f and returns the result. f is not modified.
func (p FieldPatch) Apply(f Field) Field {
	out := f.Clone()
	if p.Type != nil {
		out.Type = *p.Type
	}
	if p.Label != nil {
		out.Label = *p.Label
	}
	if p.Placeholder != nil {
		out.Placeholder = *p.Placeholder
	}
	if p.Required != nil {
		out.Required = *p.Required
	}
	if p.Options != nil {
		out.Options = append([]string(nil), p.Options...)
	}
	if p.Validation != nil {
		v := Field{Validation: p.Validation}.Clone().Validation
		out.Validation = v
	}
	if p.Conditional != nil {
		c := *p.Conditional
		c.Value = numericValue(c.Value)
		out.Conditional = &c
	}
	return out
}

// Float returns a pointer to v, for building Validation literals.
func Float(v float64) *float64 {
	return &v
}
