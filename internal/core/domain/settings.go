package domain

import (
	"fmt"
	"time"
)

// AIProvider identifies an embedding or model service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is any OpenAI-compatible API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	return p == AIProviderOllama || p == AIProviderOpenAI
}

// DenseBackend identifies the vector index implementation.
type DenseBackend string

// Available dense backends.
const (
	DenseBackendQdrant DenseBackend = "qdrant"
	DenseBackendMemory DenseBackend = "memory"
)

// IsValid returns true if the dense backend is recognised.
func (b DenseBackend) IsValid() bool {
	return b == DenseBackendQdrant || b == DenseBackendMemory
}

// SparseBackend identifies the lexical index implementation.
type SparseBackend string

// Available sparse backends.
const (
	SparseBackendOpenSearch SparseBackend = "opensearch"
	SparseBackendSQLite     SparseBackend = "sqlite"
)

// IsValid returns true if the sparse backend is recognised.
func (b SparseBackend) IsValid() bool {
	return b == SparseBackendOpenSearch || b == SparseBackendSQLite
}

// Default settings values.
const (
	DefaultOllamaURL          = "http://localhost:11434"
	DefaultEmbeddingModel     = "all-minilm"
	DefaultEmbeddingDims      = 384
	DefaultLLMModel           = "command-r7b:latest"
	DefaultQdrantAddr         = "localhost:6334"
	DefaultOpenSearchURL      = "http://localhost:9200"
	DefaultIndexName          = "manuals"
	DefaultTopK               = 5
	DefaultEvidenceWindow     = 3
	DefaultSnippetChars       = 280
	DefaultChunkWords         = 250
	DefaultChunkOverlap       = 50
	DefaultBatchSize          = 64
	DefaultEmbedConcurrency   = 4
	DefaultManualsDir         = "manuals"
	DefaultServerAddr         = "127.0.0.1:8765"
	DefaultEmbeddingTimeout   = 30 * time.Second
	DefaultLLMTimeout         = 180 * time.Second
	DefaultIndexSearchTimeout = 10 * time.Second
)

// EmbeddingSettings configures the embedding client.
type EmbeddingSettings struct {
	Provider          AIProvider
	Model             string
	BaseURL           string
	APIKey            string
	Dimensions        int
	Timeout           time.Duration
	RequestsPerSecond float64
	Concurrency       int
}

// LLMSettings configures the streaming model client.
type LLMSettings struct {
	Provider AIProvider
	Model    string
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
}

// DenseSettings configures the vector index.
type DenseSettings struct {
	Backend    DenseBackend
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// SparseSettings configures the lexical index.
type SparseSettings struct {
	Backend  SparseBackend
	URL      string
	Username string
	Password string
	Index    string
	DataDir  string
	Timeout  time.Duration
}

// RetrievalSettings configures fusion.
type RetrievalSettings struct {
	// TopK is the per-source result cap.
	TopK int

	// EvidenceWindow is how many fused results reach the prompt.
	EvidenceWindow int

	// Priority is the source whose results come first in the merge.
	Priority RetrievalSource
}

// AnswerSettings configures the answer assembler.
type AnswerSettings struct {
	SnippetChars int
}

// ChunkerSettings configures the word-window chunker.
type ChunkerSettings struct {
	Words   int
	Overlap int
}

// IngestSettings configures directory ingestion.
type IngestSettings struct {
	ManualsDir  string
	CatalogPath string
	BatchSize   int
}

// ServerSettings configures the serve command.
type ServerSettings struct {
	Addr string
}

// Settings is the full runtime configuration of the pipeline.
type Settings struct {
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Dense     DenseSettings
	Sparse    SparseSettings
	Retrieval RetrievalSettings
	Answer    AnswerSettings
	Chunker   ChunkerSettings
	Ingest    IngestSettings
	Server    ServerSettings
}

// DefaultSettings returns settings for a local Ollama, Qdrant, and OpenSearch stack.
func DefaultSettings() Settings {
	return Settings{
		Embedding: EmbeddingSettings{
			Provider:    AIProviderOllama,
			Model:       DefaultEmbeddingModel,
			BaseURL:     DefaultOllamaURL,
			Dimensions:  DefaultEmbeddingDims,
			Timeout:     DefaultEmbeddingTimeout,
			Concurrency: DefaultEmbedConcurrency,
		},
		LLM: LLMSettings{
			Provider: AIProviderOllama,
			Model:    DefaultLLMModel,
			BaseURL:  DefaultOllamaURL,
			Timeout:  DefaultLLMTimeout,
		},
		Dense: DenseSettings{
			Backend:    DenseBackendQdrant,
			URL:        DefaultQdrantAddr,
			Collection: DefaultIndexName,
			Timeout:    DefaultIndexSearchTimeout,
		},
		Sparse: SparseSettings{
			Backend:  SparseBackendOpenSearch,
			URL:      DefaultOpenSearchURL,
			Username: "admin",
			Password: "admin",
			Index:    DefaultIndexName,
			Timeout:  DefaultIndexSearchTimeout,
		},
		Retrieval: RetrievalSettings{
			TopK:           DefaultTopK,
			EvidenceWindow: DefaultEvidenceWindow,
			Priority:       SourceDense,
		},
		Answer:  AnswerSettings{SnippetChars: DefaultSnippetChars},
		Chunker: ChunkerSettings{Words: DefaultChunkWords, Overlap: DefaultChunkOverlap},
		Ingest: IngestSettings{
			ManualsDir: DefaultManualsDir,
			BatchSize:  DefaultBatchSize,
		},
		Server: ServerSettings{Addr: DefaultServerAddr},
	}
}

// Validate reports the first invalid value, wrapped with ErrInvalidInput
// or ErrUnsupportedType.
func (s Settings) Validate() error {
	switch {
	case !s.Embedding.Provider.IsValid():
		return fmt.Errorf("%w: embedding provider %q", ErrUnsupportedType, s.Embedding.Provider)
	case !s.LLM.Provider.IsValid():
		return fmt.Errorf("%w: llm provider %q", ErrUnsupportedType, s.LLM.Provider)
	case !s.Dense.Backend.IsValid():
		return fmt.Errorf("%w: dense backend %q", ErrUnsupportedType, s.Dense.Backend)
	case !s.Sparse.Backend.IsValid():
		return fmt.Errorf("%w: sparse backend %q", ErrUnsupportedType, s.Sparse.Backend)
	case !s.Retrieval.Priority.IsValid():
		return fmt.Errorf("%w: retrieval priority %q", ErrInvalidInput, s.Retrieval.Priority)
	case s.Embedding.Model == "" || s.LLM.Model == "":
		return fmt.Errorf("%w: model names must not be empty", ErrInvalidInput)
	case s.Embedding.Dimensions <= 0:
		return fmt.Errorf("%w: embedding dimensions must be positive", ErrInvalidInput)
	case s.Retrieval.TopK <= 0 || s.Retrieval.EvidenceWindow <= 0:
		return fmt.Errorf("%w: top_k and evidence_window must be positive", ErrInvalidInput)
	case s.Answer.SnippetChars <= 0:
		return fmt.Errorf("%w: snippet_chars must be positive", ErrInvalidInput)
	case s.Chunker.Words <= 0 || s.Chunker.Overlap < 0 || s.Chunker.Overlap >= s.Chunker.Words:
		return fmt.Errorf("%w: chunker needs words > overlap >= 0", ErrInvalidInput)
	case s.Ingest.BatchSize <= 0:
		return fmt.Errorf("%w: batch_size must be positive", ErrInvalidInput)
	}
	return nil
}
