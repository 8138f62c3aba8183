package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
)

func chunkFor(id, manual string, page int) domain.Chunk {
	return domain.Chunk{
		ID:       id,
		Content:  "content " + id,
		Metadata: domain.ChunkMetadata{Page: page, ManualID: manual},
	}
}

func TestStore_SearchRanksAndFilters(t *testing.T) {
	store := New()
	ctx := context.Background()
	require.NoError(t, store.Reset(ctx, 2))

	n, err := store.Upsert(ctx,
		[]domain.Chunk{chunkFor("a", "m1", 1), chunkFor("b", "m1", 2), chunkFor("c", "m2", 3)},
		[][]float32{{1, 0}, {0.7, 0.7}, {1, 0}},
	)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	hits, err := store.Search(ctx, []float32{1, 0}, 5, "m1")
	require.NoError(t, err)

	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].Chunk.ID)
	assert.Equal(t, "b", hits[1].Chunk.ID)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-9)
	assert.Equal(t, domain.SourceDense, hits[0].Source)
}

func TestStore_SearchLimit(t *testing.T) {
	store := New()
	ctx := context.Background()
	_, err := store.Upsert(ctx,
		[]domain.Chunk{chunkFor("a", "m", 1), chunkFor("b", "m", 1), chunkFor("c", "m", 1)},
		[][]float32{{1, 0}, {1, 0}, {1, 0}},
	)
	require.NoError(t, err)

	hits, err := store.Search(ctx, []float32{1, 0}, 2, "m")
	require.NoError(t, err)

	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].Chunk.ID)
	assert.Equal(t, "b", hits[1].Chunk.ID)
}

func TestStore_UpsertReplacesByID(t *testing.T) {
	store := New()
	ctx := context.Background()
	_, err := store.Upsert(ctx, []domain.Chunk{chunkFor("a", "m", 1)}, [][]float32{{1, 0}})
	require.NoError(t, err)
	_, err = store.Upsert(ctx, []domain.Chunk{chunkFor("a", "m", 9)}, [][]float32{{0, 1}})
	require.NoError(t, err)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	hits, err := store.Search(ctx, []float32{0, 1}, 1, "m")
	require.NoError(t, err)
	assert.Equal(t, 9, hits[0].Chunk.Metadata.Page)
}

func TestStore_DimensionMismatch(t *testing.T) {
	store := New()
	ctx := context.Background()
	require.NoError(t, store.Reset(ctx, 3))

	_, err := store.Upsert(ctx, []domain.Chunk{chunkFor("a", "m", 1)}, [][]float32{{1, 0}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = store.Search(ctx, []float32{1}, 1, "m")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_ResetClears(t *testing.T) {
	store := New()
	ctx := context.Background()
	_, err := store.Upsert(ctx, []domain.Chunk{chunkFor("a", "m", 1)}, [][]float32{{1, 0}})
	require.NoError(t, err)

	require.NoError(t, store.Reset(ctx, 2))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Error(t, store.Reset(ctx, 0))
}

func TestStore_MismatchedLengths(t *testing.T) {
	_, err := New().Upsert(context.Background(), []domain.Chunk{chunkFor("a", "m", 1)}, nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
