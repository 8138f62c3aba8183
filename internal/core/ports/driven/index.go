package driven

import (
	"context"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
)

// DenseIndex stores chunk vectors with metadata and answers
// nearest-neighbour queries restricted to one manual.
type DenseIndex interface {
	// Reset discards the current index generation and recreates an empty
	// index for vectors of the given dimension.
	Reset(ctx context.Context, dimensions int) error

	// Upsert writes chunks keyed by chunk ID. vectors is index-aligned with chunks.
	// Returns the number of chunks written.
	Upsert(ctx context.Context, chunks []domain.Chunk, vectors [][]float32) (int, error)

	// Search returns up to k chunks of manualID ranked by similarity.
	Search(ctx context.Context, vector []float32, k int, manualID string) ([]domain.RetrievedDocument, error)

	// Count returns the number of indexed chunks.
	Count(ctx context.Context) (int, error)

	// Ping validates the index is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// SparseIndex stores chunk text with metadata and answers
// lexical relevance queries restricted to one manual.
type SparseIndex interface {
	// Reset discards the current index generation and recreates an empty index.
	Reset(ctx context.Context) error

	// Upsert writes chunks keyed by chunk ID.
	// Returns the number of chunks written.
	Upsert(ctx context.Context, chunks []domain.Chunk) (int, error)

	// Search returns up to k chunks of manualID ranked by lexical score.
	Search(ctx context.Context, query string, k int, manualID string) ([]domain.RetrievedDocument, error)

	// Count returns the number of indexed chunks.
	Count(ctx context.Context) (int, error)

	// Ping validates the index is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
