// Package memory provides an in-process dense index using exact cosine search.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
	"github.com/ALEX8642/LLM-chatbot/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DenseIndex = (*Store)(nil)

type entry struct {
	chunk  domain.Chunk
	vector []float32
	norm   float64
}

// Store is an in-memory implementation of driven.DenseIndex.
// It answers queries by brute force and is meant for tests and small corpora.
type Store struct {
	mu         sync.RWMutex
	dimensions int
	entries    map[string]entry
}

// New creates an empty store. The dimension is fixed by the first Reset or Upsert.
func New() *Store {
	return &Store{entries: make(map[string]entry)}
}

// Reset drops all vectors and fixes the dimension.
func (s *Store) Reset(_ context.Context, dimensions int) error {
	if dimensions <= 0 {
		return fmt.Errorf("%w: memory: dimensions must be positive", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimensions = dimensions
	s.entries = make(map[string]entry)
	return nil
}

// Upsert stores or replaces vectors by chunk ID.
func (s *Store) Upsert(_ context.Context, chunks []domain.Chunk, vectors [][]float32) (int, error) {
	if len(chunks) != len(vectors) {
		return 0, fmt.Errorf("%w: memory: %d chunks but %d vectors", domain.ErrInvalidInput, len(chunks), len(vectors))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, v := range vectors {
		if s.dimensions == 0 {
			s.dimensions = len(v)
		}
		if len(v) != s.dimensions {
			return i, fmt.Errorf("%w: memory: vector %d has %d dimensions, want %d",
				domain.ErrInvalidInput, i, len(v), s.dimensions)
		}
		vec := make([]float32, len(v))
		copy(vec, v)
		s.entries[chunks[i].ID] = entry{chunk: chunks[i], vector: vec, norm: norm(vec)}
	}
	return len(chunks), nil
}

// Search returns the k most similar chunks of manualID.
func (s *Store) Search(_ context.Context, vector []float32, k int, manualID string) ([]domain.RetrievedDocument, error) {
	if k <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.dimensions != 0 && len(vector) != s.dimensions {
		return nil, fmt.Errorf("%w: memory: query has %d dimensions, want %d",
			domain.ErrInvalidInput, len(vector), s.dimensions)
	}

	qn := norm(vector)
	var hits []domain.RetrievedDocument
	for _, e := range s.entries {
		if e.chunk.Metadata.ManualID != manualID {
			continue
		}
		hits = append(hits, domain.RetrievedDocument{
			Chunk:  e.chunk,
			Score:  cosine(vector, qn, e.vector, e.norm),
			Source: domain.SourceDense,
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Chunk.ID < hits[j].Chunk.ID
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Count returns the number of stored vectors.
func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func cosine(a []float32, an float64, b []float32, bn float64) float64 {
	if an == 0 || bn == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (an * bn)
}
