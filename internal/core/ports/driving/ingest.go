package driving

import (
	"context"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
)

// IngestService turns documents into indexed chunks.
type IngestService interface {
	// Ingest ingests a directory with IngestDirectory and anything else
	// with IngestFile. A missing path is domain.ErrNotFound.
	Ingest(ctx context.Context, path string, opts domain.IngestOptions) (*domain.IngestReport, error)

	// IngestFile chunks one document and writes it to both stores.
	IngestFile(ctx context.Context, path string, opts domain.IngestOptions) (*domain.IngestReport, error)

	// IngestDirectory ingests every supported document in dir and
	// rewrites the manual catalog.
	IngestDirectory(ctx context.Context, dir string, opts domain.IngestOptions) (*domain.IngestReport, error)
}
