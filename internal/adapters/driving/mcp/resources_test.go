package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/formwright/internal/core/domain"
)

func TestExtractFormID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid form URI",
			uri:      "formwright://forms/form-123",
			expected: "form-123",
		},
		{
			name:     "invalid prefix",
			uri:      "file://forms/form-123",
			expected: "",
		},
		{
			name:     "nested path",
			uri:      "formwright://forms/form-123/sections",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractFormID(tt.uri)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleFormsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store returns empty list", func(t *testing.T) {
		server := newTestServer(t)

		result, err := server.handleFormsResource(ctx, makeReadResourceRequest("formwright://forms"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns summaries", func(t *testing.T) {
		server := newTestServer(t)
		seedForm(t, server, "Kitchen audit", "food-service")

		result, err := server.handleFormsResource(ctx, makeReadResourceRequest("formwright://forms"))

		require.NoError(t, err)
		var summaries []FormSummary
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &summaries))
		require.Len(t, summaries, 1)
		assert.Equal(t, "form-1", summaries[0].ID)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	})
}

func TestServer_handleFormResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the full form", func(t *testing.T) {
		server := newTestServer(t)
		id := seedForm(t, server, "Kitchen audit", "food-service")

		result, err := server.handleFormResource(ctx, makeReadResourceRequest("formwright://forms/"+id))

		require.NoError(t, err)
		var form domain.Form
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &form))
		assert.Equal(t, "Kitchen audit", form.Title)
		assert.Equal(t, testEpoch, form.CreatedAt)
	})

	t.Run("unknown form is not found", func(t *testing.T) {
		server := newTestServer(t)

		_, err := server.handleFormResource(ctx, makeReadResourceRequest("formwright://forms/missing"))

		assert.Error(t, err)
	})

	t.Run("malformed URI is not found", func(t *testing.T) {
		server := newTestServer(t)

		_, err := server.handleFormResource(ctx, makeReadResourceRequest("formwright://templates"))

		assert.Error(t, err)
	})
}

func TestServer_handleTemplatesResource(t *testing.T) {
	t.Run("lists the library", func(t *testing.T) {
		server := newTestServer(t)

		result, err := server.handleTemplatesResource(context.Background(), makeReadResourceRequest("formwright://templates"))

		require.NoError(t, err)
		var list []domain.Template
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &list))
		assert.Len(t, list, 3)
	})

	t.Run("nil template service returns empty list", func(t *testing.T) {
		ports := newTestPorts()
		ports.Templates = nil
		server, err := NewServer(ports)
		require.NoError(t, err)

		result, err := server.handleTemplatesResource(context.Background(), makeReadResourceRequest("formwright://templates"))

		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})
}
