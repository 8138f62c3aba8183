package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
	"github.com/ALEX8642/LLM-chatbot/internal/core/ports/driven"
	"github.com/ALEX8642/LLM-chatbot/internal/logger"
)

// RetrievalConfig bounds retrieval for one request.
type RetrievalConfig struct {
	// TopK is the per-source result cap.
	TopK int

	// EvidenceWindow is the fused result cap.
	EvidenceWindow int

	// Priority is the source merged first; its results win on duplicates.
	Priority domain.RetrievalSource

	// EmbedTimeout, DenseTimeout and SparseTimeout bound each external call.
	EmbedTimeout  time.Duration
	DenseTimeout  time.Duration
	SparseTimeout time.Duration
}

// RetrievalFuser runs dense and sparse retrieval concurrently and fuses
// the results by chunk identity.
type RetrievalFuser struct {
	embedder driven.EmbeddingService
	dense    driven.DenseIndex
	sparse   driven.SparseIndex
	metrics  driven.MetricsRecorder
	cfg      RetrievalConfig
}

// NewRetrievalFuser creates a fuser. Any backend may be nil; a nil backend
// counts as a failed source.
func NewRetrievalFuser(
	embedder driven.EmbeddingService,
	dense driven.DenseIndex,
	sparse driven.SparseIndex,
	cfg RetrievalConfig,
) *RetrievalFuser {
	if cfg.TopK <= 0 {
		cfg.TopK = domain.DefaultTopK
	}
	if cfg.EvidenceWindow <= 0 {
		cfg.EvidenceWindow = domain.DefaultEvidenceWindow
	}
	if !cfg.Priority.IsValid() {
		cfg.Priority = domain.SourceDense
	}
	return &RetrievalFuser{
		embedder: embedder,
		dense:    dense,
		sparse:   sparse,
		metrics:  noopMetrics{},
		cfg:      cfg,
	}
}

// SetMetrics sets the metrics recorder.
func (f *RetrievalFuser) SetMetrics(m driven.MetricsRecorder) {
	f.metrics = metricsOrNoop(m)
}

// Retrieve returns the evidence window for query within manualID.
// One failing source degrades to the other; both failing returns
// domain.ErrRetrievalUnavailable.
func (f *RetrievalFuser) Retrieve(ctx context.Context, query, manualID string) (domain.EvidenceSet, error) {
	logger.Debug("Retrieval: query=%q, manual=%q, top_k=%d", query, manualID, f.cfg.TopK)

	var denseDocs, sparseDocs []domain.RetrievedDocument
	var denseErr, sparseErr error

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		start := time.Now()
		denseDocs, denseErr = f.denseSearch(ctx, query, manualID)
		f.metrics.ObserveRetrieval(domain.SourceDense, time.Since(start), len(denseDocs), denseErr)
	}()

	go func() {
		defer wg.Done()
		start := time.Now()
		sparseDocs, sparseErr = f.sparseSearch(ctx, query, manualID)
		f.metrics.ObserveRetrieval(domain.SourceSparse, time.Since(start), len(sparseDocs), sparseErr)
	}()

	wg.Wait()

	stats := domain.RetrievalStats{DenseHits: len(denseDocs), SparseHits: len(sparseDocs)}

	switch {
	case denseErr != nil && sparseErr != nil:
		logger.Warn("Retrieval: both dense and sparse searches failed")
		return domain.EvidenceSet{}, fmt.Errorf("%w: dense=%w, sparse=%w",
			domain.ErrRetrievalUnavailable, denseErr, sparseErr)
	case denseErr != nil:
		logger.Warn("Retrieval: dense search failed, using sparse results only: %v", denseErr)
		stats.Degraded = domain.SourceDense
		denseDocs = nil
	case sparseErr != nil:
		logger.Warn("Retrieval: sparse search failed, using dense results only: %v", sparseErr)
		stats.Degraded = domain.SourceSparse
		sparseDocs = nil
	}

	docs := Fuse(f.cfg.Priority, denseDocs, sparseDocs, f.cfg.EvidenceWindow)
	logger.Debug("Retrieval: fused %d dense + %d sparse into %d", len(denseDocs), len(sparseDocs), len(docs))

	return domain.EvidenceSet{Documents: docs, Stats: stats}, nil
}

func (f *RetrievalFuser) denseSearch(ctx context.Context, query, manualID string) ([]domain.RetrievedDocument, error) {
	if f.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if f.dense == nil {
		return nil, domain.ErrDenseUnavailable
	}

	embedCtx, cancel := withTimeout(ctx, f.cfg.EmbedTimeout)
	vector, err := f.embedder.Embed(embedCtx, query)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("generate query embedding: %w", err)
	}
	logger.Debug("Query embedding: %d dimensions", len(vector))

	searchCtx, cancel := withTimeout(ctx, f.cfg.DenseTimeout)
	defer cancel()
	docs, err := f.dense.Search(searchCtx, vector, f.cfg.TopK, manualID)
	if err != nil {
		return nil, fmt.Errorf("dense search: %w", err)
	}
	logger.Debug("Dense search: %d hits", len(docs))
	return tagSource(docs, domain.SourceDense), nil
}

func (f *RetrievalFuser) sparseSearch(ctx context.Context, query, manualID string) ([]domain.RetrievedDocument, error) {
	if f.sparse == nil {
		return nil, domain.ErrSparseUnavailable
	}

	searchCtx, cancel := withTimeout(ctx, f.cfg.SparseTimeout)
	defer cancel()
	docs, err := f.sparse.Search(searchCtx, query, f.cfg.TopK, manualID)
	if err != nil {
		return nil, fmt.Errorf("sparse search: %w", err)
	}
	logger.Debug("Sparse search: %d hits", len(docs))
	return tagSource(docs, domain.SourceSparse), nil
}

func tagSource(docs []domain.RetrievedDocument, source domain.RetrievalSource) []domain.RetrievedDocument {
	for i := range docs {
		docs[i].Source = source
	}
	return docs
}

// Fuse concatenates the priority source's list with the other's, keeps the
// first occurrence of each chunk, and truncates to window. Scores are not
// compared across sources.
func Fuse(priority domain.RetrievalSource, dense, sparse []domain.RetrievedDocument, window int) []domain.RetrievedDocument {
	if window <= 0 {
		return []domain.RetrievedDocument{}
	}

	first, second := dense, sparse
	if priority == domain.SourceSparse {
		first, second = sparse, dense
	}

	seen := make(map[string]struct{}, len(first)+len(second))
	fused := make([]domain.RetrievedDocument, 0, min(window, len(first)+len(second)))

	for _, list := range [][]domain.RetrievedDocument{first, second} {
		for _, doc := range list {
			if len(fused) == window {
				return fused
			}
			key := identity(doc.Chunk)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			fused = append(fused, doc)
		}
	}

	return fused
}

// identity is the dedup key: the chunk ID, or its provenance and content
// when a backend returned no ID.
func identity(c domain.Chunk) string {
	if c.ID != "" {
		return c.ID
	}
	return fmt.Sprintf("%s\x00%d\x00%s", c.Metadata.ManualID, c.Metadata.Page, c.Content)
}
