// Package mcp provides an MCP (Model Context Protocol) server adapter for lexmap.
// It lets AI assistants process documents, ask questions and request summaries.
package mcp

import "errors"

// ErrMissingExplorer is returned when the explorer is not provided.
var ErrMissingExplorer = errors.New("mcp: explorer is required")
