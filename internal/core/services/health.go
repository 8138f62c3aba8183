package services

import (
	"context"
	"sync"
	"time"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
	"github.com/ALEX8642/LLM-chatbot/internal/core/ports/driven"
	"github.com/ALEX8642/LLM-chatbot/internal/core/ports/driving"
)

// Ensure HealthService implements the interface.
var _ driving.HealthService = (*HealthService)(nil)

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthService pings the backing services concurrently.
type HealthService struct {
	components []component
	timeout    time.Duration
}

type component struct {
	name    string
	backend string
	target  pinger
}

// NewHealthService creates a health service with a per-ping timeout.
func NewHealthService(timeout time.Duration) *HealthService {
	return &HealthService{timeout: timeout}
}

// AddEmbedding registers the embedding service.
func (s *HealthService) AddEmbedding(backend string, e driven.EmbeddingService) {
	s.add("embedding", backend, e)
}

// AddModel registers the chat model.
func (s *HealthService) AddModel(backend string, c driven.ChatStreamer) {
	s.add("model", backend, c)
}

// AddDense registers the dense index.
func (s *HealthService) AddDense(backend string, d driven.DenseIndex) {
	s.add("dense", backend, d)
}

// AddSparse registers the sparse index.
func (s *HealthService) AddSparse(backend string, sp driven.SparseIndex) {
	s.add("sparse", backend, sp)
}

func (s *HealthService) add(name, backend string, p pinger) {
	s.components = append(s.components, component{name: name, backend: backend, target: p})
}

// Check implements driving.HealthService. Results keep registration order.
func (s *HealthService) Check(ctx context.Context) []domain.ComponentHealth {
	results := make([]domain.ComponentHealth, len(s.components))

	var wg sync.WaitGroup
	for i, c := range s.components {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = domain.ComponentHealth{Component: c.name, Backend: c.backend}

			pingCtx, cancel := withTimeout(ctx, s.timeout)
			defer cancel()
			if err := c.target.Ping(pingCtx); err != nil {
				results[i].Error = err.Error()
			}
		}()
	}
	wg.Wait()

	return results
}
