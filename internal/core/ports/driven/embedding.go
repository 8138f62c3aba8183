package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// Output is deterministic for identical input and has a fixed dimension.
//
// Adapters: Ollama (all-minilm, nomic-embed-text) with retries while the
// model loads, and OpenAI-compatible APIs, which split large batches.
// Either can be wrapped by the ratelimit decorator.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts.
	// The result is index-aligned with texts.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the vector size. Query and chunk vectors must come
	// from the same model for dense similarity to mean anything.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
