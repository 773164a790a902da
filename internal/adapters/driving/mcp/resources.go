package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/formwright/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for Formwright resources.
	uriScheme = "formwright://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "forms",
		Name:        "forms",
		Description: "Summary of every stored form",
		MIMEType:    "application/json",
	}, s.handleFormsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "forms/{formId}",
		Name:        "form",
		Description: "Full definition of a stored form",
		MIMEType:    "application/json",
	}, s.handleFormResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "templates",
		Name:        "templates",
		Description: "Industry templates available as starting points",
		MIMEType:    "application/json",
	}, s.handleTemplatesResource)
}

// handleFormsResource returns a summary of all stored forms.
func (s *Server) handleFormsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	_, output, err := s.handleListForms(ctx, nil, ListFormsInput{})
	if err != nil {
		return nil, fmt.Errorf("listing forms: %w", err)
	}
	return jsonResource(req.Params.URI, output.Forms)
}

// handleFormResource returns the full definition of one form.
func (s *Server) handleFormResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	formID := extractFormID(req.Params.URI)
	if formID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	form, err := s.ports.Forms.GetForm(ctx, formID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting form: %w", err)
	}
	return jsonResource(req.Params.URI, form)
}

// handleTemplatesResource returns the template library.
func (s *Server) handleTemplatesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	templates := []domain.Template{}
	if s.ports.Templates != nil {
		templates = s.ports.Templates.Templates()
	}
	return jsonResource(req.Params.URI, templates)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractFormID extracts the form ID from a URI like formwright://forms/{formId}.
func extractFormID(uri string) string {
	const prefix = uriScheme + "forms/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
