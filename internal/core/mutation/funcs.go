package mutation

import "github.com/custodia-labs/formwright/internal/core/domain"

// AddSection appends a new section using the default engine.
func AddSection(f domain.Form, title, description string) (domain.Form, string) {
	return defaultEngine.AddSection(f, title, description)
}

// UpdateSection edits a section's title or description using the default engine.
func UpdateSection(f domain.Form, sectionID string, title, description *string) (domain.Form, bool) {
	return defaultEngine.UpdateSection(f, sectionID, title, description)
}

// DeleteSection removes a section using the default engine.
func DeleteSection(f domain.Form, sectionID string) (domain.Form, bool) {
	return defaultEngine.DeleteSection(f, sectionID)
}

// MoveSection reorders sections using the default engine.
func MoveSection(f domain.Form, from, to int) (domain.Form, bool) {
	return defaultEngine.MoveSection(f, from, to)
}

// AddField appends a field using the default engine.
func AddField(f domain.Form, sectionID string, spec domain.Field) (domain.Form, string, bool) {
	return defaultEngine.AddField(f, sectionID, spec)
}

// UpdateField patches a field using the default engine.
func UpdateField(f domain.Form, sectionID, fieldID string, patch domain.FieldPatch) (domain.Form, bool) {
	return defaultEngine.UpdateField(f, sectionID, fieldID, patch)
}

// DeleteField removes a field using the default engine.
func DeleteField(f domain.Form, sectionID, fieldID string) (domain.Form, bool) {
	return defaultEngine.DeleteField(f, sectionID, fieldID)
}

// ReorderFields moves a field within its section using the default engine.
func ReorderFields(f domain.Form, sectionID string, from, to int) (domain.Form, bool) {
	return defaultEngine.ReorderFields(f, sectionID, from, to)
}

// Publish marks a form published using the default engine.
func Publish(f domain.Form) domain.Form {
	return defaultEngine.Publish(f)
}
