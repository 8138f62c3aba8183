package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
	"github.com/ALEX8642/LLM-chatbot/internal/core/ports/driven"
	"github.com/ALEX8642/LLM-chatbot/internal/logger"
)

// IndexWriter writes chunks to the dense and sparse stores.
// Each store succeeds or fails on its own; nothing is rolled back.
// It assumes a single writer.
type IndexWriter struct {
	embedder  driven.EmbeddingService
	dense     driven.DenseIndex
	sparse    driven.SparseIndex
	metrics   driven.MetricsRecorder
	batchSize int
}

// NewIndexWriter creates an index writer.
func NewIndexWriter(
	embedder driven.EmbeddingService,
	dense driven.DenseIndex,
	sparse driven.SparseIndex,
	batchSize int,
) *IndexWriter {
	if batchSize <= 0 {
		batchSize = domain.DefaultBatchSize
	}
	return &IndexWriter{
		embedder:  embedder,
		dense:     dense,
		sparse:    sparse,
		metrics:   noopMetrics{},
		batchSize: batchSize,
	}
}

// SetMetrics sets the metrics recorder.
func (w *IndexWriter) SetMetrics(m driven.MetricsRecorder) {
	w.metrics = metricsOrNoop(m)
}

// Reset discards both stores' current generation.
func (w *IndexWriter) Reset(ctx context.Context) error {
	logger.Info("Resetting dense and sparse indexes")

	var denseErr, sparseErr error
	if w.dense == nil || w.embedder == nil {
		denseErr = domain.ErrDenseUnavailable
	} else if err := w.dense.Reset(ctx, w.embedder.Dimensions()); err != nil {
		denseErr = fmt.Errorf("reset dense index: %w", err)
	}
	if w.sparse == nil {
		sparseErr = domain.ErrSparseUnavailable
	} else if err := w.sparse.Reset(ctx); err != nil {
		sparseErr = fmt.Errorf("reset sparse index: %w", err)
	}

	return errors.Join(denseErr, sparseErr)
}

// Write upserts chunks in batches. Counts only include batches that landed;
// the first error per store is reported and later batches are still attempted.
func (w *IndexWriter) Write(ctx context.Context, chunks []domain.Chunk) domain.WriteResult {
	var total domain.WriteResult

	for start := 0; start < len(chunks); start += w.batchSize {
		end := min(start+w.batchSize, len(chunks))
		batch := chunks[start:end]

		res := w.writeBatch(ctx, batch)
		logger.Debug("Batch %d-%d: dense=%d sparse=%d", start, end, res.DenseWritten, res.SparseWritten)
		total.Add(res)
	}

	w.metrics.AddIngested(domain.SourceDense, total.DenseWritten)
	w.metrics.AddIngested(domain.SourceSparse, total.SparseWritten)

	return total
}

func (w *IndexWriter) writeBatch(ctx context.Context, batch []domain.Chunk) domain.WriteResult {
	var res domain.WriteResult
	var denseErr, sparseErr error

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		res.DenseWritten, denseErr = w.writeDense(ctx, batch)
	}()

	go func() {
		defer wg.Done()
		res.SparseWritten, sparseErr = w.writeSparse(ctx, batch)
	}()

	wg.Wait()

	if denseErr != nil {
		logger.Warn("Dense write failed: %v", denseErr)
		res.DenseWritten = 0
		res.DenseError = denseErr.Error()
	}
	if sparseErr != nil {
		logger.Warn("Sparse write failed: %v", sparseErr)
		res.SparseWritten = 0
		res.SparseError = sparseErr.Error()
	}

	return res
}

func (w *IndexWriter) writeDense(ctx context.Context, batch []domain.Chunk) (int, error) {
	if w.embedder == nil {
		return 0, domain.ErrEmbeddingUnavailable
	}
	if w.dense == nil {
		return 0, domain.ErrDenseUnavailable
	}

	texts := make([]string, len(batch))
	for i, c := range batch {
		texts[i] = c.Content
	}

	vectors, err := w.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed batch: %w", err)
	}
	if len(vectors) != len(batch) {
		return 0, fmt.Errorf("embed batch: got %d vectors for %d chunks", len(vectors), len(batch))
	}

	n, err := w.dense.Upsert(ctx, batch, vectors)
	if err != nil {
		return 0, fmt.Errorf("dense upsert: %w", err)
	}
	return n, nil
}

func (w *IndexWriter) writeSparse(ctx context.Context, batch []domain.Chunk) (int, error) {
	if w.sparse == nil {
		return 0, domain.ErrSparseUnavailable
	}

	n, err := w.sparse.Upsert(ctx, batch)
	if err != nil {
		return 0, fmt.Errorf("sparse upsert: %w", err)
	}
	return n, nil
}
