package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/custodia-labs/formwright/internal/core/domain"
)

type sectionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type sectionPatchRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type moveRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// edit applies a structural change to a form. applied is false when the
// addressed section or field does not exist.
type edit func(f domain.Form) (out domain.Form, applied bool)

// ListForms lists stored forms, filtered by the search, status and industry
// query parameters.
func (h *Handler) ListForms(w http.ResponseWriter, r *http.Request) {
	if h.forms == nil {
		errorToHTTP(w, domain.ErrNotImplemented)
		return
	}
	q := r.URL.Query()
	filter := domain.FormFilter{
		Search:   q.Get("search"),
		Status:   q.Get("status"),
		Industry: q.Get("industry"),
	}
	switch filter.Status {
	case "", domain.StatusAll, domain.StatusPublished, domain.StatusDraft:
	default:
		writeError(w, http.StatusBadRequest, "INVALID_STATUS", "status must be all, published or draft")
		return
	}

	forms, err := h.forms.ListForms(r.Context(), filter)
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, forms)
}

// FormStats summarises every stored form.
func (h *Handler) FormStats(w http.ResponseWriter, r *http.Request) {
	if h.forms == nil {
		errorToHTTP(w, domain.ErrNotImplemented)
		return
	}
	forms, err := h.forms.ListForms(r.Context(), domain.FormFilter{})
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.Stats(forms))
}

// GetForm returns one form.
func (h *Handler) GetForm(w http.ResponseWriter, r *http.Request) {
	if h.forms == nil {
		errorToHTTP(w, domain.ErrNotImplemented)
		return
	}
	form, err := h.forms.GetForm(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// CreateForm stores a new form.
func (h *Handler) CreateForm(w http.ResponseWriter, r *http.Request) {
	if h.forms == nil {
		errorToHTTP(w, domain.ErrNotImplemented)
		return
	}
	var form domain.Form
	if !decodeJSON(w, r, &form) {
		return
	}
	h.create(w, r, form)
}

// SaveForm stores the whole form under the path id, creating it if absent.
func (h *Handler) SaveForm(w http.ResponseWriter, r *http.Request) {
	if h.forms == nil {
		errorToHTTP(w, domain.ErrNotImplemented)
		return
	}
	var form domain.Form
	if !decodeJSON(w, r, &form) {
		return
	}
	form.ID = chi.URLParam(r, "id")
	saved, err := h.forms.SaveForm(r.Context(), form)
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// UpdateForm merges a partial update into the stored form.
func (h *Handler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	if h.forms == nil {
		errorToHTTP(w, domain.ErrNotImplemented)
		return
	}
	var patch domain.FormPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	updated, err := h.forms.UpdateForm(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteForm removes a form.
func (h *Handler) DeleteForm(w http.ResponseWriter, r *http.Request) {
	if h.forms == nil {
		errorToHTTP(w, domain.ErrNotImplemented)
		return
	}
	if err := h.forms.DeleteForm(r.Context(), chi.URLParam(r, "id")); err != nil {
		errorToHTTP(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PublishForm marks a form as published. Publishing twice is harmless.
func (h *Handler) PublishForm(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, func(f domain.Form) (domain.Form, bool) {
		return h.engine.Publish(f), true
	})
}

// AddSection appends an empty section.
func (h *Handler) AddSection(w http.ResponseWriter, r *http.Request) {
	var req sectionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.apply(w, r, func(f domain.Form) (domain.Form, bool) {
		out, _ := h.engine.AddSection(f, req.Title, req.Description)
		return out, true
	})
}

// UpdateSection renames or redescribes a section.
func (h *Handler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	var req sectionPatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sectionID := chi.URLParam(r, "sectionID")
	h.apply(w, r, func(f domain.Form) (domain.Form, bool) {
		return h.engine.UpdateSection(f, sectionID, req.Title, req.Description)
	})
}

// DeleteSection removes a section and its fields.
func (h *Handler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	sectionID := chi.URLParam(r, "sectionID")
	h.apply(w, r, func(f domain.Form) (domain.Form, bool) {
		return h.engine.DeleteSection(f, sectionID)
	})
}

// MoveSection moves a section between positions. Indices are clamped.
func (h *Handler) MoveSection(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.apply(w, r, func(f domain.Form) (domain.Form, bool) {
		return h.engine.MoveSection(f, req.From, req.To)
	})
}

// AddField appends a field to a section. Any id in the body is replaced.
func (h *Handler) AddField(w http.ResponseWriter, r *http.Request) {
	var spec domain.Field
	if !decodeJSON(w, r, &spec) {
		return
	}
	sectionID := chi.URLParam(r, "sectionID")
	h.apply(w, r, func(f domain.Form) (domain.Form, bool) {
		out, _, ok := h.engine.AddField(f, sectionID, spec)
		return out, ok
	})
}

// UpdateField merges a partial update into a field.
func (h *Handler) UpdateField(w http.ResponseWriter, r *http.Request) {
	var patch domain.FieldPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	sectionID, fieldID := chi.URLParam(r, "sectionID"), chi.URLParam(r, "fieldID")
	h.apply(w, r, func(f domain.Form) (domain.Form, bool) {
		return h.engine.UpdateField(f, sectionID, fieldID, patch)
	})
}

// DeleteField removes a field from a section.
func (h *Handler) DeleteField(w http.ResponseWriter, r *http.Request) {
	sectionID, fieldID := chi.URLParam(r, "sectionID"), chi.URLParam(r, "fieldID")
	h.apply(w, r, func(f domain.Form) (domain.Form, bool) {
		return h.engine.DeleteField(f, sectionID, fieldID)
	})
}

// ReorderFields moves a field within its section. Indices are clamped.
func (h *Handler) ReorderFields(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sectionID := chi.URLParam(r, "sectionID")
	h.apply(w, r, func(f domain.Form) (domain.Form, bool) {
		return h.engine.ReorderFields(f, sectionID, req.From, req.To)
	})
}

// apply loads the form named in the path, runs fn on it and stores the result.
func (h *Handler) apply(w http.ResponseWriter, r *http.Request, fn edit) {
	if h.forms == nil {
		errorToHTTP(w, domain.ErrNotImplemented)
		return
	}
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	form, err := h.forms.GetForm(ctx, id)
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	out, applied := fn(*form)
	if !applied {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "section or field not found")
		return
	}
	updated, err := h.forms.UpdateForm(ctx, id, domain.PatchFrom(out))
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
