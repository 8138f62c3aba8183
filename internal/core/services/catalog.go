package services

import (
	"context"
	"fmt"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
	"github.com/ALEX8642/LLM-chatbot/internal/core/ports/driven"
	"github.com/ALEX8642/LLM-chatbot/internal/core/ports/driving"
)

// Ensure CatalogService implements the interface.
var _ driving.CatalogService = (*CatalogService)(nil)

// CatalogService reads the manual catalog.
type CatalogService struct {
	store driven.CatalogStore
}

// NewCatalogService creates a catalog service.
func NewCatalogService(store driven.CatalogStore) *CatalogService {
	return &CatalogService{store: store}
}

// List implements driving.CatalogService.
func (s *CatalogService) List(ctx context.Context) ([]domain.Manual, error) {
	manuals, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return manuals, nil
}

// Get implements driving.CatalogService.
func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Manual, error) {
	manuals, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range manuals {
		if manuals[i].ID == id {
			return &manuals[i], nil
		}
	}
	return nil, fmt.Errorf("manual %q: %w", id, domain.ErrNotFound)
}
