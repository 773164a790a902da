// Package templates holds the built-in synthesis library: complete template
// blueprints and the section and field snippets that modifications append.
//
// The library is embedded at build time and is immutable. Blueprints carry no
// ids; Instantiate stamps fresh ones so every generated tree is independent.
package templates

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/formwright/internal/core/domain"
)

//go:embed library.yaml
var libraryYAML []byte

// Keys of the built-in blueprints and snippets.
const (
	KeyApartmentCleaning = "apartment-cleaning"
	KeyRestaurant        = "restaurant"
	KeyGeneric           = "generic"

	SectionSafety     = "safety"
	SectionBathroom   = "bathroom"
	SectionStorage    = "storage"
	SectionDining     = "dining"
	SectionAdditional = "additional"

	FieldPhoto = "photo"
)

// SectionBlueprint is a section without ids.
type SectionBlueprint struct {
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Fields      []domain.Field `yaml:"fields"`
}

// Instantiate builds a section at position order, drawing ids from newID.
func (b SectionBlueprint) Instantiate(newID func() string, order int) domain.Section {
	s := domain.Section{
		ID:          newID(),
		Title:       b.Title,
		Description: b.Description,
		Fields:      make([]domain.Field, len(b.Fields)),
		Order:       order,
	}
	for i := range b.Fields {
		s.Fields[i] = InstantiateField(b.Fields[i], newID)
	}
	return s
}

// InstantiateField copies a field snippet and gives it a fresh id.
func InstantiateField(f domain.Field, newID func() string) domain.Field {
	out := f.Clone()
	out.ID = newID()
	return out
}

// Blueprint is a complete template without ids or timestamps.
type Blueprint struct {
	Key         string             `yaml:"key"`
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Industry    string             `yaml:"industry"`
	Confidence  float64            `yaml:"confidence"`
	Sections    []SectionBlueprint `yaml:"sections"`
}

// Instantiate builds a version-1 template stamped with now.
func (b Blueprint) Instantiate(newID func() string, now time.Time) domain.Template {
	t := domain.Template{
		Form:       domain.NewForm(newID(), b.Name, b.Industry, domain.DefaultOwner, now),
		Name:       b.Name,
		Confidence: b.Confidence,
	}
	t.Description = b.Description
	t.IsTemplate = true
	t.Sections = make([]domain.Section, len(b.Sections))
	for i := range b.Sections {
		t.Sections[i] = b.Sections[i].Instantiate(newID, i)
	}
	return t
}

// Library is the parsed, read-only set of blueprints and snippets.
type Library struct {
	templates map[string]Blueprint
	order     []string
	sections  map[string]SectionBlueprint
	fields    map[string]domain.Field
}

type libraryFile struct {
	Templates []Blueprint                 `yaml:"templates"`
	Sections  map[string]SectionBlueprint `yaml:"sections"`
	Fields    map[string]domain.Field     `yaml:"fields"`
}

// Parse decodes and validates a library document.
func Parse(data []byte) (*Library, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, fmt.Errorf("templates: library is empty")
	}

	var doc libraryFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("templates: parse library: %w", err)
	}

	lib := &Library{
		templates: make(map[string]Blueprint, len(doc.Templates)),
		sections:  make(map[string]SectionBlueprint, len(doc.Sections)),
		fields:    make(map[string]domain.Field, len(doc.Fields)),
	}

	for _, bp := range doc.Templates {
		key := strings.TrimSpace(bp.Key)
		if key == "" {
			return nil, fmt.Errorf("templates: template %q has no key", bp.Name)
		}
		if _, dup := lib.templates[key]; dup {
			return nil, fmt.Errorf("templates: duplicate template %q", key)
		}
		for _, sec := range bp.Sections {
			if err := checkFields(key+"/"+sec.Title, sec.Fields); err != nil {
				return nil, err
			}
		}
		bp.Key = key
		lib.templates[key] = bp
		lib.order = append(lib.order, key)
	}
	for key, sec := range doc.Sections {
		if err := checkFields("section "+key, sec.Fields); err != nil {
			return nil, err
		}
		lib.sections[key] = sec
	}
	for key, f := range doc.Fields {
		if err := checkFields("field "+key, []domain.Field{f}); err != nil {
			return nil, err
		}
		lib.fields[key] = f
	}
	return lib, nil
}

// checkFields validates snippet fields as they would be once given ids.
func checkFields(where string, fields []domain.Field) error {
	for _, f := range fields {
		f.ID = "blueprint"
		if err := f.Validate(); err != nil {
			return fmt.Errorf("templates: %s: %w", where, err)
		}
	}
	return nil
}

var builtin = sync.OnceValues(func() (*Library, error) {
	return Parse(libraryYAML)
})

// Builtin returns the embedded library, parsed once.
func Builtin() (*Library, error) {
	return builtin()
}

// MustBuiltin is Builtin for callers that treat a broken embed as fatal.
func MustBuiltin() *Library {
	lib, err := Builtin()
	if err != nil {
		panic(err)
	}
	return lib
}

// Template returns the blueprint for key.
func (l *Library) Template(key string) (Blueprint, bool) {
	bp, ok := l.templates[key]
	return bp, ok
}

// Templates returns every blueprint in library order.
func (l *Library) Templates() []Blueprint {
	out := make([]Blueprint, 0, len(l.order))
	for _, key := range l.order {
		out = append(out, l.templates[key])
	}
	return out
}

// Section returns the section snippet for key.
func (l *Library) Section(key string) (SectionBlueprint, bool) {
	sec, ok := l.sections[key]
	return sec, ok
}

// SectionKeys returns the snippet keys, sorted.
func (l *Library) SectionKeys() []string {
	keys := make([]string, 0, len(l.sections))
	for k := range l.sections {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Field returns the field snippet for key.
func (l *Library) Field(key string) (domain.Field, bool) {
	f, ok := l.fields[key]
	if !ok {
		return domain.Field{}, false
	}
	return f.Clone(), true
}
