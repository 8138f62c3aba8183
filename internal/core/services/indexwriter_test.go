package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
)

func sampleChunks(n int) []domain.Chunk {
	chunks := make([]domain.Chunk, n)
	for i := range chunks {
		chunks[i] = chunk(fmt.Sprintf("c%d", i), i+1, fmt.Sprintf("content %d", i))
	}
	return chunks
}

func TestIndexWriter_WritesBothStores(t *testing.T) {
	dense, sparse := &mockDense{}, &mockSparse{}
	w := NewIndexWriter(&mockEmbedder{}, dense, sparse, 4)

	res := w.Write(context.Background(), sampleChunks(10))

	assert.Equal(t, domain.WriteResult{DenseWritten: 10, SparseWritten: 10}, res)
	assert.Len(t, dense.stored, 10)
	assert.Len(t, sparse.stored, 10)
}

func TestIndexWriter_Idempotent(t *testing.T) {
	dense, sparse := &mockDense{}, &mockSparse{}
	w := NewIndexWriter(&mockEmbedder{}, dense, sparse, 3)
	batch := sampleChunks(7)

	w.Write(context.Background(), batch)
	once, _ := dense.Count(context.Background())
	w.Write(context.Background(), batch)
	twice, _ := dense.Count(context.Background())

	assert.Equal(t, once, twice)
	n, _ := sparse.Count(context.Background())
	assert.Equal(t, 7, n)
}

func TestIndexWriter_SparseFailureDoesNotRollBackDense(t *testing.T) {
	dense := &mockDense{}
	sparse := &mockSparse{upsertErr: errBackendDown}
	w := NewIndexWriter(&mockEmbedder{}, dense, sparse, 4)

	res := w.Write(context.Background(), sampleChunks(6))

	assert.Equal(t, 6, res.DenseWritten)
	assert.Equal(t, 0, res.SparseWritten)
	assert.Contains(t, res.SparseError, "connection refused")
	assert.True(t, res.Partial())
	assert.Len(t, dense.stored, 6)
}

func TestIndexWriter_EmbeddingFailure(t *testing.T) {
	w := NewIndexWriter(&mockEmbedder{batchErr: errBackendDown}, &mockDense{}, &mockSparse{}, 4)

	res := w.Write(context.Background(), sampleChunks(3))

	assert.Equal(t, 0, res.DenseWritten)
	assert.Equal(t, 3, res.SparseWritten)
	assert.Contains(t, res.DenseError, "embed batch")
}

func TestIndexWriter_BothFail(t *testing.T) {
	w := NewIndexWriter(&mockEmbedder{}, &mockDense{upsertErr: errBackendDown}, &mockSparse{upsertErr: errBackendDown}, 4)

	res := w.Write(context.Background(), sampleChunks(3))

	assert.True(t, res.Failed())
}

func TestIndexWriter_Reset(t *testing.T) {
	dense, sparse := &mockDense{}, &mockSparse{}
	w := NewIndexWriter(&mockEmbedder{}, dense, sparse, 4)
	w.Write(context.Background(), sampleChunks(3))

	require.NoError(t, w.Reset(context.Background()))

	assert.Equal(t, 1, dense.resets)
	assert.Equal(t, 1, sparse.resets)
	assert.Empty(t, dense.stored)
	assert.Empty(t, sparse.stored)
}

func TestIndexWriter_ResetError(t *testing.T) {
	w := NewIndexWriter(&mockEmbedder{}, &mockDense{}, &mockSparse{resetErr: errBackendDown}, 4)

	err := w.Reset(context.Background())

	assert.True(t, errors.Is(err, errBackendDown))
}

func TestIndexWriter_RecordsMetrics(t *testing.T) {
	m := newRecordingMetrics()
	w := NewIndexWriter(&mockEmbedder{}, &mockDense{}, &mockSparse{upsertErr: errBackendDown}, 2)
	w.SetMetrics(m)

	w.Write(context.Background(), sampleChunks(5))

	assert.Equal(t, 5, m.ingested[domain.SourceDense])
	assert.Equal(t, 0, m.ingested[domain.SourceSparse])
}
