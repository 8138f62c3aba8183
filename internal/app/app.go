// Package app is the composition root. It builds the immutable pipeline
// from Settings once per process and hands it to the driving adapters.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ALEX8642/LLM-chatbot/internal/adapters/driven/ai"
	catalogfile "github.com/ALEX8642/LLM-chatbot/internal/adapters/driven/catalog/file"
	configfile "github.com/ALEX8642/LLM-chatbot/internal/adapters/driven/config/file"
	"github.com/ALEX8642/LLM-chatbot/internal/adapters/driven/extractor/pdf"
	"github.com/ALEX8642/LLM-chatbot/internal/adapters/driven/extractor/text"
	"github.com/ALEX8642/LLM-chatbot/internal/adapters/driven/metrics/prometheus"
	"github.com/ALEX8642/LLM-chatbot/internal/adapters/driving/cli"
	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
	"github.com/ALEX8642/LLM-chatbot/internal/core/ports/driving"
	"github.com/ALEX8642/LLM-chatbot/internal/core/services"
	"github.com/ALEX8642/LLM-chatbot/internal/logger"
	"github.com/ALEX8642/LLM-chatbot/internal/postprocessors/chunker"
)

// healthTimeout bounds each backend ping in doctor.
const healthTimeout = 5 * time.Second

// Pipeline holds the wired services and the adapters they own.
type Pipeline struct {
	Ask     *services.AskService
	Ingest  *services.IngestService
	Catalog *services.CatalogService
	Health  *services.HealthService
	Metrics *prometheus.Recorder

	closers []func() error
}

// New builds every adapter named by settings and wires the services.
func New(settings domain.Settings) (*Pipeline, error) {
	logger.Section("Startup")
	p := &Pipeline{}

	embedder, err := ai.CreateEmbeddingService(settings.Embedding)
	if err != nil {
		return nil, fmt.Errorf("embedding: %w", err)
	}
	p.closers = append(p.closers, embedder.Close)

	chat, err := ai.CreateChatStreamer(settings.LLM)
	if err != nil {
		return nil, p.fail(fmt.Errorf("llm: %w", err))
	}
	p.closers = append(p.closers, chat.Close)

	dense, err := ai.CreateDenseIndex(settings.Dense)
	if err != nil {
		return nil, p.fail(fmt.Errorf("dense index: %w", err))
	}
	p.closers = append(p.closers, dense.Close)

	sparse, err := ai.CreateSparseIndex(settings.Sparse)
	if err != nil {
		return nil, p.fail(fmt.Errorf("sparse index: %w", err))
	}
	p.closers = append(p.closers, sparse.Close)

	logger.Info("Embedding: %s %s (%d dims)", settings.Embedding.Provider, embedder.ModelName(), embedder.Dimensions())
	logger.Info("Model: %s %s", settings.LLM.Provider, chat.ModelName())
	logger.Info("Dense: %s, sparse: %s", settings.Dense.Backend, settings.Sparse.Backend)

	p.Metrics = prometheus.New()

	fuser := services.NewRetrievalFuser(embedder, dense, sparse, services.RetrievalConfig{
		TopK:           settings.Retrieval.TopK,
		EvidenceWindow: settings.Retrieval.EvidenceWindow,
		Priority:       settings.Retrieval.Priority,
		EmbedTimeout:   settings.Embedding.Timeout,
		DenseTimeout:   settings.Dense.Timeout,
		SparseTimeout:  settings.Sparse.Timeout,
	})
	fuser.SetMetrics(p.Metrics)

	p.Ask = services.NewAskService(
		fuser,
		chat,
		services.NewAnswerAssembler(settings.Answer.SnippetChars),
		chat.ModelName(),
		settings.LLM.Timeout,
	)
	p.Ask.SetMetrics(p.Metrics)

	writer := services.NewIndexWriter(embedder, dense, sparse, settings.Ingest.BatchSize)
	writer.SetMetrics(p.Metrics)

	catalog := catalogfile.New(settings.Ingest.CatalogPath)
	splitter := chunker.New(
		chunker.WithWords(settings.Chunker.Words),
		chunker.WithOverlap(settings.Chunker.Overlap),
	)
	p.Ingest = services.NewIngestService(splitter, writer, catalog, pdf.New(), text.New())
	p.Catalog = services.NewCatalogService(catalog)

	p.Health = services.NewHealthService(healthTimeout)
	p.Health.AddEmbedding(string(settings.Embedding.Provider), embedder)
	p.Health.AddModel(string(settings.LLM.Provider), chat)
	p.Health.AddDense(string(settings.Dense.Backend), dense)
	p.Health.AddSparse(string(settings.Sparse.Backend), sparse)

	return p, nil
}

// fail closes what was built so far and returns err.
func (p *Pipeline) fail(err error) error {
	if closeErr := p.Close(); closeErr != nil {
		return errors.Join(err, closeErr)
	}
	return err
}

// Close releases adapters in reverse order of creation.
func (p *Pipeline) Close() error {
	var errs []error
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	p.closers = nil
	return errors.Join(errs...)
}

// Builder implements cli.Builder over the file config store and New.
type Builder struct{}

var _ cli.Builder = Builder{}

// OpenSettings implements cli.Builder.
func (Builder) OpenSettings(path string) (driving.SettingsService, string, error) {
	store, err := configfile.NewConfigStore(path)
	if err != nil {
		return nil, "", err
	}
	return services.NewSettingsService(store), store.Path(), nil
}

// Build implements cli.Builder.
func (Builder) Build(_ context.Context, settings domain.Settings) (*cli.Services, error) {
	p, err := New(settings)
	if err != nil {
		return nil, err
	}
	return &cli.Services{
		Ask:     p.Ask,
		Ingest:  p.Ingest,
		Catalog: p.Catalog,
		Health:  p.Health,
		Metrics: p.Metrics.Handler(),
		Close:   p.Close,
	}, nil
}
