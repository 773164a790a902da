package httpapi

import (
	"net/http"

	"github.com/custodia-labs/formwright/internal/core/domain"
)

type generateRequest struct {
	Description string `json:"description"`
	Context     string `json:"context"`
}

type modifyRequest struct {
	Template    *domain.Template `json:"template"`
	Instruction string           `json:"instruction"`
}

type acceptRequest struct {
	Template domain.Template `json:"template"`
	Owner    string          `json:"owner"`
}

// ListTemplates returns the industry template library.
func (h *Handler) ListTemplates(w http.ResponseWriter, _ *http.Request) {
	if h.templates == nil {
		errorToHTTP(w, domain.ErrNotImplemented)
		return
	}
	writeJSON(w, http.StatusOK, h.templates.Templates())
}

// GenerateTemplate synthesises a template from a description.
func (h *Handler) GenerateTemplate(w http.ResponseWriter, r *http.Request) {
	if h.templates == nil {
		errorToHTTP(w, domain.ErrNotImplemented)
		return
	}
	var req generateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	tmpl, err := h.templates.Generate(r.Context(), req.Description, req.Context)
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tmpl)
}

// ModifyTemplate applies an instruction to the template in the body.
func (h *Handler) ModifyTemplate(w http.ResponseWriter, r *http.Request) {
	if h.templates == nil {
		errorToHTTP(w, domain.ErrNotImplemented)
		return
	}
	var req modifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	tmpl, err := h.templates.Modify(r.Context(), req.Template, req.Instruction)
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tmpl)
}

// AcceptTemplate stores the template in the body as a new form.
func (h *Handler) AcceptTemplate(w http.ResponseWriter, r *http.Request) {
	if h.templates == nil || h.forms == nil {
		errorToHTTP(w, domain.ErrNotImplemented)
		return
	}
	var req acceptRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	owner := req.Owner
	if owner == "" {
		owner = h.owner
	}
	h.create(w, r, h.templates.Accept(req.Template, owner))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, form domain.Form) {
	created, err := h.forms.CreateForm(r.Context(), form)
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
