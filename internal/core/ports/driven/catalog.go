package driven

import (
	"context"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
)

// CatalogStore persists the manual catalog.
type CatalogStore interface {
	// Load returns all manuals. A missing catalog yields an empty list.
	Load(ctx context.Context) ([]domain.Manual, error)

	// Save replaces the catalog.
	Save(ctx context.Context, manuals []domain.Manual) error

	// Path returns the catalog location.
	Path() string
}
