package driving

import (
	"context"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
)

// CatalogService lists ingested manuals.
type CatalogService interface {
	// List returns all manuals in catalog order.
	List(ctx context.Context) ([]domain.Manual, error)

	// Get returns one manual or domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.Manual, error)
}

// HealthService reports reachability of backing services.
type HealthService interface {
	// Check pings every configured backend.
	Check(ctx context.Context) []domain.ComponentHealth
}
