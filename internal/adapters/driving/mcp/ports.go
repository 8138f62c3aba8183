package mcp

import (
	"github.com/ALEX8642/LLM-chatbot/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Ask answers questions against one manual.
	Ask driving.AskService

	// Catalog lists ingested manuals. Optional.
	Catalog driving.CatalogService

	// Ingest indexes documents. Optional; the ingest tool is only
	// registered when set.
	Ingest driving.IngestService

	// Health backs the /healthz endpoint of the HTTP transport. Optional.
	Health driving.HealthService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Ask == nil {
		return ErrMissingAskService
	}
	return nil
}
