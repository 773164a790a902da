package mutation

import "github.com/custodia-labs/formwright/internal/core/domain"

// copySections returns a new slice holding the same sections, with spare
// capacity for extra appends.
func copySections(src []domain.Section, extra int) []domain.Section {
	out := make([]domain.Section, len(src), len(src)+extra)
	copy(out, src)
	return out
}

func copyFields(src []domain.Field, extra int) []domain.Field {
	out := make([]domain.Field, len(src), len(src)+extra)
	copy(out, src)
	return out
}

// renumber re-stamps Order from position. The slice must be owned by the caller.
func renumber(sections []domain.Section) []domain.Section {
	for i := range sections {
		sections[i].Order = i
	}
	return sections
}

// move relocates items[from] to index to, in place. Both indices are clamped.
func move[T any](items []T, from, to int) []T {
	from = clamp(from, len(items))
	to = clamp(to, len(items))
	if from == to {
		return items
	}
	item := items[from]
	if from < to {
		copy(items[from:to], items[from+1:to+1])
	} else {
		copy(items[to+1:from+1], items[to:from])
	}
	items[to] = item
	return items
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// locate returns the section and field positions; j is -1 when either is missing.
func locate(f domain.Form, sectionID, fieldID string) (int, int) {
	i := f.SectionIndex(sectionID)
	if i < 0 {
		return -1, -1
	}
	return i, f.Sections[i].FieldIndex(fieldID)
}
