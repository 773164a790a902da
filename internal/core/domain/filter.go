package domain

import (
	"sort"
	"strings"
)

// Form status values used for list filtering.
const (
	StatusAll       = "all"
	StatusPublished = "published"
	StatusDraft     = "draft"
)

// FormFilter narrows a form listing.
// Zero values match everything.
type FormFilter struct {
	// Search matches case-insensitively against title and description.
	Search string

	// Status is one of StatusAll, StatusPublished or StatusDraft.
	Status string

	// Industry matches exactly; empty or "all" matches any industry.
	Industry string
}

// IsZero returns true if the filter matches every form.
func (ff FormFilter) IsZero() bool {
	return strings.TrimSpace(ff.Search) == "" &&
		(ff.Status == "" || ff.Status == StatusAll) &&
		(ff.Industry == "" || ff.Industry == StatusAll)
}

// Match reports whether f passes the filter.
func (ff FormFilter) Match(f *Form) bool {
	if term := strings.ToLower(strings.TrimSpace(ff.Search)); term != "" {
		if !strings.Contains(strings.ToLower(f.Title), term) &&
			!strings.Contains(strings.ToLower(f.Description), term) {
			return false
		}
	}
	switch ff.Status {
	case StatusPublished:
		if !f.IsPublished {
			return false
		}
	case StatusDraft:
		if f.IsPublished {
			return false
		}
	}
	if ff.Industry != "" && ff.Industry != StatusAll && f.Industry != ff.Industry {
		return false
	}
	return true
}

// FilterForms returns the forms that pass ff, preserving order.
func FilterForms(forms []Form, ff FormFilter) []Form {
	if ff.IsZero() {
		return forms
	}
	out := make([]Form, 0, len(forms))
	for i := range forms {
		if ff.Match(&forms[i]) {
			out = append(out, forms[i])
		}
	}
	return out
}

// FormStats summarises a collection of forms.
type FormStats struct {
	Total      int            `json:"total"`
	Published  int            `json:"published"`
	Drafts     int            `json:"drafts"`
	Templates  int            `json:"templates"`
	Fields     int            `json:"fields"`
	ByIndustry map[string]int `json:"byIndustry"`
}

// Industries returns the industries present, sorted.
func (s FormStats) Industries() []string {
	out := make([]string, 0, len(s.ByIndustry))
	for k := range s.ByIndustry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Stats computes summary counts over forms.
func Stats(forms []Form) FormStats {
	stats := FormStats{ByIndustry: make(map[string]int)}
	for i := range forms {
		f := &forms[i]
		stats.Total++
		if f.IsPublished {
			stats.Published++
		} else {
			stats.Drafts++
		}
		if f.IsTemplate {
			stats.Templates++
		}
		stats.Fields += f.FieldCount()
		stats.ByIndustry[f.Industry]++
	}
	return stats
}
