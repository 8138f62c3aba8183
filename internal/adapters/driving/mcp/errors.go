// Package mcp provides an MCP (Model Context Protocol) server adapter for manualqa.
// It lets AI assistants ask questions against ingested manuals and browse the catalog.
package mcp

import "errors"

// ErrMissingAskService is returned when the ask service is not provided.
var ErrMissingAskService = errors.New("mcp: ask service is required")
