package driven

import (
	"context"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
)

// PageExtractor reads a document file into per-page text.
type PageExtractor interface {
	// Supports returns true if the extractor handles the file's type.
	Supports(path string) bool

	// Extract returns the document's pages in order, numbered from 1.
	// Pages with no extractable text are returned with empty Text.
	Extract(ctx context.Context, path string) ([]domain.Page, error)
}
