// Package tui provides an interactive terminal user interface for asking
// questions about ingested manuals.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/ALEX8642/LLM-chatbot/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
type Ports struct {
	// Ask answers questions against a manual.
	Ask driving.AskService

	// Catalog lists manuals for the picker. Optional; without it the app
	// starts on the ask view and needs a manual id up front.
	Catalog driving.CatalogService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Ask == nil {
		return ErrMissingAskService
	}
	return nil
}
