// Package mcp provides an MCP (Model Context Protocol) server adapter for Formwright.
// It lets AI assistants list and read stored forms and draft new ones through a
// synthesis session.
package mcp

import "errors"

// ErrMissingFormService is returned when the form service is not provided.
var ErrMissingFormService = errors.New("mcp: form service is required")
