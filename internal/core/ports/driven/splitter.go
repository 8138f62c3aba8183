package driven

import "github.com/ALEX8642/LLM-chatbot/internal/core/domain"

// Splitter turns the pages of one manual into chunks.
type Splitter interface {
	// Split chunks pages in order. Pages without text produce no chunks.
	Split(pages []domain.Page, meta domain.ManualMetadata) []domain.Chunk
}
