// Package ai provides factory functions for creating the pipeline's backend adapters.
package ai

import (
	"fmt"

	"github.com/ALEX8642/LLM-chatbot/internal/adapters/driven/dense/memory"
	"github.com/ALEX8642/LLM-chatbot/internal/adapters/driven/dense/qdrant"
	ollamaembed "github.com/ALEX8642/LLM-chatbot/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/ALEX8642/LLM-chatbot/internal/adapters/driven/embedding/openai"
	"github.com/ALEX8642/LLM-chatbot/internal/adapters/driven/embedding/ratelimit"
	ollamallm "github.com/ALEX8642/LLM-chatbot/internal/adapters/driven/llm/ollama"
	openaillm "github.com/ALEX8642/LLM-chatbot/internal/adapters/driven/llm/openai"
	"github.com/ALEX8642/LLM-chatbot/internal/adapters/driven/sparse/opensearch"
	"github.com/ALEX8642/LLM-chatbot/internal/adapters/driven/sparse/sqlite"
	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
	"github.com/ALEX8642/LLM-chatbot/internal/core/ports/driven"
)

// CreateEmbeddingService creates the embedding service for the configured provider,
// throttled when a request rate is set.
func CreateEmbeddingService(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	var (
		svc driven.EmbeddingService
		err error
	)

	switch settings.Provider {
	case domain.AIProviderOllama:
		svc = ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:     settings.BaseURL,
			Model:       settings.Model,
			Timeout:     settings.Timeout,
			Dimensions:  settings.Dimensions,
			Concurrency: settings.Concurrency,
		})

	case domain.AIProviderOpenAI:
		cfg := openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    openAIBaseURL(settings.BaseURL),
			Model:      settings.Model,
			Timeout:    settings.Timeout,
			Dimensions: settings.Dimensions,
		}
		// The local defaults name an Ollama model; fall back to the provider's own.
		if cfg.Model == domain.DefaultEmbeddingModel {
			cfg.Model = ""
			cfg.Dimensions = 0
		}
		svc, err = openaiembed.NewEmbeddingService(cfg)
		if err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("%w: embedding provider %q", domain.ErrUnsupportedType, settings.Provider)
	}

	return ratelimit.Wrap(svc, settings.RequestsPerSecond, settings.Concurrency), nil
}

// CreateChatStreamer creates the streaming model client for the configured provider.
func CreateChatStreamer(settings domain.LLMSettings) (driven.ChatStreamer, error) {
	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewChatService(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		}), nil

	case domain.AIProviderOpenAI:
		model := settings.Model
		if model == domain.DefaultLLMModel {
			model = ""
		}
		return openaillm.NewChatService(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: openAIBaseURL(settings.BaseURL),
			Model:   model,
			Timeout: settings.Timeout,
		})

	default:
		return nil, fmt.Errorf("%w: llm provider %q", domain.ErrUnsupportedType, settings.Provider)
	}
}

// CreateDenseIndex creates the vector index for the configured backend.
func CreateDenseIndex(settings domain.DenseSettings) (driven.DenseIndex, error) {
	switch settings.Backend {
	case domain.DenseBackendQdrant:
		return qdrant.New(qdrant.Config{
			Addr:       settings.URL,
			APIKey:     settings.APIKey,
			Collection: settings.Collection,
		})

	case domain.DenseBackendMemory:
		return memory.New(), nil

	default:
		return nil, fmt.Errorf("%w: dense backend %q", domain.ErrUnsupportedType, settings.Backend)
	}
}

// CreateSparseIndex creates the keyword index for the configured backend.
func CreateSparseIndex(settings domain.SparseSettings) (driven.SparseIndex, error) {
	switch settings.Backend {
	case domain.SparseBackendOpenSearch:
		return opensearch.New(opensearch.Config{
			URL:      settings.URL,
			Username: settings.Username,
			Password: settings.Password,
			Index:    settings.Index,
			Timeout:  settings.Timeout,
		})

	case domain.SparseBackendSQLite:
		return sqlite.New(settings.DataDir)

	default:
		return nil, fmt.Errorf("%w: sparse backend %q", domain.ErrUnsupportedType, settings.Backend)
	}
}

// openAIBaseURL drops the local Ollama default so go-openai uses its own endpoint.
func openAIBaseURL(baseURL string) string {
	if baseURL == domain.DefaultOllamaURL {
		return ""
	}
	return baseURL
}
