package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/custodia-labs/formwright/internal/core/domain"
)

// Row is the inspection_forms table representation of a form.
type Row struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Industry    string          `json:"industry"`
	Sections    json.RawMessage `json:"sections"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
	Version     int             `json:"version"`
	IsTemplate  bool            `json:"is_template"`
	IsPublished bool            `json:"is_published"`
	Settings    json.RawMessage `json:"settings"`
}

var jsonNull = []byte("null")

const bareTimestamp = "2006-01-02T15:04:05.999999999"

// ToRow translates a form into its table row. Nil sections are stored as an
// empty array and an empty owner as the demo user.
func ToRow(f domain.Form) (Row, error) {
	sections := f.Sections
	if sections == nil {
		sections = []domain.Section{}
	}
	sectionsJSON, err := json.Marshal(sections)
	if err != nil {
		return Row{}, fmt.Errorf("marshalling sections: %w", err)
	}
	settingsJSON, err := json.Marshal(f.Settings)
	if err != nil {
		return Row{}, fmt.Errorf("marshalling settings: %w", err)
	}

	owner := f.CreatedBy
	if owner == "" {
		owner = domain.DefaultOwner
	}

	return Row{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		Industry:    f.Industry,
		Sections:    sectionsJSON,
		CreatedBy:   owner,
		CreatedAt:   formatTime(f.CreatedAt),
		UpdatedAt:   formatTime(f.UpdatedAt),
		Version:     f.Version,
		IsTemplate:  f.IsTemplate,
		IsPublished: f.IsPublished,
		Settings:    settingsJSON,
	}, nil
}

// FromRow translates a table row into a form. Missing settings become the
// defaults; missing sections become an empty list.
func FromRow(r Row) (domain.Form, error) {
	f := domain.Form{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Industry:    r.Industry,
		Sections:    []domain.Section{},
		CreatedBy:   r.CreatedBy,
		Version:     r.Version,
		IsTemplate:  r.IsTemplate,
		IsPublished: r.IsPublished,
		Settings:    domain.DefaultSettings(),
	}
	if f.CreatedBy == "" {
		f.CreatedBy = domain.DefaultOwner
	}

	if present(r.Sections) {
		if err := json.Unmarshal(r.Sections, &f.Sections); err != nil {
			return domain.Form{}, fmt.Errorf("row %s: decoding sections: %w", r.ID, err)
		}
		if f.Sections == nil {
			f.Sections = []domain.Section{}
		}
	}
	if present(r.Settings) {
		if err := json.Unmarshal(r.Settings, &f.Settings); err != nil {
			return domain.Form{}, fmt.Errorf("row %s: decoding settings: %w", r.ID, err)
		}
	}

	var err error
	if f.CreatedAt, err = parseTime(r.CreatedAt); err != nil {
		return domain.Form{}, fmt.Errorf("row %s: created_at: %w", r.ID, err)
	}
	if f.UpdatedAt, err = parseTime(r.UpdatedAt); err != nil {
		return domain.Form{}, fmt.Errorf("row %s: updated_at: %w", r.ID, err)
	}
	return f, nil
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, jsonNull)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		// timestamp columns without a zone come back bare; treat them as UTC.
		bare, bareErr := time.Parse(bareTimestamp, s)
		if bareErr != nil {
			return time.Time{}, err
		}
		t = bare
	}
	return t.UTC(), nil
}
