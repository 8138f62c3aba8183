package mcp

import (
	"context"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
)

// mockAskService is a mock implementation of driving.AskService.
type mockAskService struct {
	answer *domain.Answer
	err    error
	last   domain.AskRequest
}

func (m *mockAskService) Ask(_ context.Context, req domain.AskRequest) (*domain.Answer, error) {
	m.last = req
	if m.err != nil {
		return nil, m.err
	}
	return m.answer, nil
}

// mockCatalogService is a mock implementation of driving.CatalogService.
type mockCatalogService struct {
	manuals []domain.Manual
	err     error
}

func (m *mockCatalogService) List(_ context.Context) ([]domain.Manual, error) {
	return m.manuals, m.err
}

func (m *mockCatalogService) Get(_ context.Context, id string) (*domain.Manual, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.manuals {
		if m.manuals[i].ID == id {
			return &m.manuals[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	report *domain.IngestReport
	err    error
	path   string
	opts   domain.IngestOptions
}

func (m *mockIngestService) Ingest(_ context.Context, path string, opts domain.IngestOptions) (*domain.IngestReport, error) {
	m.path, m.opts = path, opts
	return m.report, m.err
}

func (m *mockIngestService) IngestFile(ctx context.Context, path string, opts domain.IngestOptions) (*domain.IngestReport, error) {
	return m.Ingest(ctx, path, opts)
}

func (m *mockIngestService) IngestDirectory(ctx context.Context, dir string, opts domain.IngestOptions) (*domain.IngestReport, error) {
	return m.Ingest(ctx, dir, opts)
}

// mockHealthService is a mock implementation of driving.HealthService.
type mockHealthService struct {
	report []domain.ComponentHealth
}

func (m *mockHealthService) Check(context.Context) []domain.ComponentHealth {
	return m.report
}
