// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
)

// ManualsLoaded carries the catalog back to the picker.
type ManualsLoaded struct {
	Manuals []domain.Manual
	Err     error
}

// ManualSelected is sent when a manual is picked.
type ManualSelected struct {
	Manual domain.Manual
}

// AskCompleted carries an answer back to the ask view.
type AskCompleted struct {
	Query  string
	Answer *domain.Answer
	Err    error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewManuals is the manual picker.
	ViewManuals ViewType = iota
	// ViewAsk is the question and answer view.
	ViewAsk
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewManuals:
		return "manuals"
	case ViewAsk:
		return "ask"
	default:
		return "unknown"
	}
}
