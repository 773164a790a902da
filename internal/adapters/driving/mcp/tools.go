package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/formwright/internal/core/domain"
)

// ListFormsInput is the input schema for the list_forms tool.
type ListFormsInput struct {
	Search   string `json:"search,omitempty" jsonschema:"case-insensitive text matched against title and description"`
	Status   string `json:"status,omitempty" jsonschema:"all, published or draft (default all)"`
	Industry string `json:"industry,omitempty" jsonschema:"exact industry to match, such as food-service"`
}

// ListFormsOutput is the output schema for the list_forms tool.
type ListFormsOutput struct {
	Forms []FormSummary `json:"forms"`
	Count int           `json:"count"`
}

// FormSummary is one row of a form listing.
type FormSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Industry  string `json:"industry"`
	Published bool   `json:"published"`
	Version   int    `json:"version"`
	Sections  int    `json:"sections"`
	Fields    int    `json:"fields"`
	UpdatedAt string `json:"updated_at"`
}

// FormInput names a stored form.
type FormInput struct {
	ID string `json:"id" jsonschema:"the form id"`
}

// FormOutput is a form with its sections and fields.
type FormOutput struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Industry    string          `json:"industry"`
	Published   bool            `json:"published"`
	Version     int             `json:"version"`
	Sections    []SectionOutput `json:"sections"`
}

// SectionOutput is one section of a form or template.
type SectionOutput struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Fields      []FieldOutput `json:"fields"`
}

// FieldOutput is one field of a section.
type FieldOutput struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Label    string   `json:"label"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
}

// AddSectionInput is the input schema for the add_section tool.
type AddSectionInput struct {
	FormID      string `json:"form_id" jsonschema:"the form to extend"`
	Title       string `json:"title" jsonschema:"section title"`
	Description string `json:"description,omitempty" jsonschema:"optional section description"`
}

// AddFieldInput is the input schema for the add_field tool.
type AddFieldInput struct {
	FormID      string   `json:"form_id" jsonschema:"the form to extend"`
	SectionID   string   `json:"section_id" jsonschema:"the section receiving the field"`
	Type        string   `json:"type,omitempty" jsonschema:"field type such as text, select, rating or photo (default text)"`
	Label       string   `json:"label" jsonschema:"question shown to the inspector"`
	Placeholder string   `json:"placeholder,omitempty" jsonschema:"hint text"`
	Required    bool     `json:"required,omitempty" jsonschema:"whether an answer is required"`
	Options     []string `json:"options,omitempty" jsonschema:"choices for select, checkbox and radio fields"`
}

// DraftInput is the input schema for the draft_template tool.
type DraftInput struct {
	Message string `json:"message" jsonschema:"a description of the form, or an instruction such as add a safety section"`
}

// TemplateOutput is the current draft template.
type TemplateOutput struct {
	Name       string          `json:"name"`
	Industry   string          `json:"industry"`
	Confidence float64         `json:"confidence"`
	Version    int             `json:"version"`
	Sections   []SectionOutput `json:"sections"`
}

// SaveDraftInput is the input schema for the save_draft tool.
type SaveDraftInput struct {
	Owner string `json:"owner,omitempty" jsonschema:"name recorded as the form's creator"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_forms",
		Description: "List stored inspection forms",
	}, s.handleListForms)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_form",
		Description: "Show a form with its sections and fields",
	}, s.handleGetForm)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "publish_form",
		Description: "Publish a form so inspectors can use it",
	}, s.handlePublishForm)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_section",
		Description: "Append an empty section to a form",
	}, s.handleAddSection)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_field",
		Description: "Append a field to a section of a form",
	}, s.handleAddField)

	if s.ports.Session == nil {
		return
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "draft_template",
		Description: "Generate a form template from a description, or refine the current draft",
	}, s.handleDraftTemplate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "save_draft",
		Description: "Save the current draft template as a new form",
	}, s.handleSaveDraft)
}

// handleListForms handles the list_forms tool invocation.
func (s *Server) handleListForms(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListFormsInput,
) (*mcp.CallToolResult, ListFormsOutput, error) {
	switch input.Status {
	case "", domain.StatusAll, domain.StatusPublished, domain.StatusDraft:
	default:
		return nil, ListFormsOutput{}, fmt.Errorf("%w: status must be all, published or draft", domain.ErrInvalidInput)
	}

	forms, err := s.ports.Forms.ListForms(ctx, domain.FormFilter{
		Search:   input.Search,
		Status:   input.Status,
		Industry: input.Industry,
	})
	if err != nil {
		return nil, ListFormsOutput{}, err
	}

	output := ListFormsOutput{
		Forms: make([]FormSummary, len(forms)),
		Count: len(forms),
	}
	for i := range forms {
		f := &forms[i]
		output.Forms[i] = FormSummary{
			ID:        f.ID,
			Title:     f.Title,
			Industry:  f.Industry,
			Published: f.IsPublished,
			Version:   f.Version,
			Sections:  len(f.Sections),
			Fields:    f.FieldCount(),
			UpdatedAt: f.UpdatedAt.UTC().Format(time.RFC3339),
		}
	}
	return nil, output, nil
}

// handleGetForm handles the get_form tool invocation.
func (s *Server) handleGetForm(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FormInput,
) (*mcp.CallToolResult, FormOutput, error) {
	form, err := s.ports.Forms.GetForm(ctx, input.ID)
	if err != nil {
		return nil, FormOutput{}, err
	}
	return nil, formOutput(form), nil
}

// handlePublishForm handles the publish_form tool invocation.
func (s *Server) handlePublishForm(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FormInput,
) (*mcp.CallToolResult, FormOutput, error) {
	return s.edit(ctx, input.ID, func(f domain.Form) (domain.Form, bool) {
		return s.engine.Publish(f), true
	})
}

// handleAddSection handles the add_section tool invocation.
func (s *Server) handleAddSection(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddSectionInput,
) (*mcp.CallToolResult, FormOutput, error) {
	return s.edit(ctx, input.FormID, func(f domain.Form) (domain.Form, bool) {
		out, _ := s.engine.AddSection(f, input.Title, input.Description)
		return out, true
	})
}

// handleAddField handles the add_field tool invocation.
func (s *Server) handleAddField(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddFieldInput,
) (*mcp.CallToolResult, FormOutput, error) {
	fieldType := domain.FieldTypeText
	if input.Type != "" {
		fieldType = domain.FieldType(input.Type)
	}
	if !fieldType.IsValid() {
		return nil, FormOutput{}, fmt.Errorf("%w: unknown field type %q", domain.ErrInvalidInput, input.Type)
	}

	spec := domain.Field{
		Type:        fieldType,
		Label:       input.Label,
		Placeholder: input.Placeholder,
		Required:    input.Required,
		Options:     input.Options,
	}
	return s.edit(ctx, input.FormID, func(f domain.Form) (domain.Form, bool) {
		out, _, ok := s.engine.AddField(f, input.SectionID, spec)
		return out, ok
	})
}

// handleDraftTemplate handles the draft_template tool invocation.
func (s *Server) handleDraftTemplate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DraftInput,
) (*mcp.CallToolResult, TemplateOutput, error) {
	draft, err := s.ports.Session.Send(ctx, input.Message)
	if err != nil {
		return nil, TemplateOutput{}, err
	}
	return nil, TemplateOutput{
		Name:       draft.Name,
		Industry:   draft.Industry,
		Confidence: draft.Confidence,
		Version:    draft.Version,
		Sections:   sectionOutputs(draft.Sections),
	}, nil
}

// handleSaveDraft handles the save_draft tool invocation.
func (s *Server) handleSaveDraft(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SaveDraftInput,
) (*mcp.CallToolResult, FormOutput, error) {
	owner := input.Owner
	if owner == "" {
		owner = s.ports.Owner
	}
	form, err := s.ports.Session.Accept(owner)
	if err != nil {
		return nil, FormOutput{}, err
	}
	saved, err := s.ports.Forms.CreateForm(ctx, form)
	if err != nil {
		return nil, FormOutput{}, err
	}
	return nil, formOutput(saved), nil
}

// edit applies fn to the stored form and writes the result back as a patch,
// so versioning and validation stay with the form service.
func (s *Server) edit(
	ctx context.Context,
	id string,
	fn func(domain.Form) (domain.Form, bool),
) (*mcp.CallToolResult, FormOutput, error) {
	form, err := s.ports.Forms.GetForm(ctx, id)
	if err != nil {
		return nil, FormOutput{}, err
	}
	out, applied := fn(*form)
	if !applied {
		return nil, FormOutput{}, fmt.Errorf("%w: section or field not found", domain.ErrNotFound)
	}
	updated, err := s.ports.Forms.UpdateForm(ctx, id, domain.PatchFrom(out))
	if err != nil {
		return nil, FormOutput{}, err
	}
	return nil, formOutput(updated), nil
}

func formOutput(f *domain.Form) FormOutput {
	return FormOutput{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		Industry:    f.Industry,
		Published:   f.IsPublished,
		Version:     f.Version,
		Sections:    sectionOutputs(f.Sections),
	}
}

func sectionOutputs(sections []domain.Section) []SectionOutput {
	out := make([]SectionOutput, len(sections))
	for i := range sections {
		sec := &sections[i]
		fields := make([]FieldOutput, len(sec.Fields))
		for j := range sec.Fields {
			fd := &sec.Fields[j]
			fields[j] = FieldOutput{
				ID:       fd.ID,
				Type:     fd.Type.String(),
				Label:    fd.Label,
				Required: fd.Required,
				Options:  fd.Options,
			}
		}
		out[i] = SectionOutput{
			ID:          sec.ID,
			Title:       sec.Title,
			Description: sec.Description,
			Fields:      fields,
		}
	}
	return out
}
