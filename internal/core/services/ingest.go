package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
	"github.com/ALEX8642/LLM-chatbot/internal/core/ports/driven"
	"github.com/ALEX8642/LLM-chatbot/internal/core/ports/driving"
	"github.com/ALEX8642/LLM-chatbot/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// ManualsURLPrefix is the public path under which manual files are served.
const ManualsURLPrefix = "/manuals/"

// IngestService extracts, chunks, and indexes documents, then records
// them in the manual catalog.
type IngestService struct {
	extractors []driven.PageExtractor
	splitter   driven.Splitter
	writer     *IndexWriter
	catalog    driven.CatalogStore
}

// NewIngestService creates an ingest service. catalog may be nil.
func NewIngestService(
	splitter driven.Splitter,
	writer *IndexWriter,
	catalog driven.CatalogStore,
	extractors ...driven.PageExtractor,
) *IngestService {
	return &IngestService{
		extractors: extractors,
		splitter:   splitter,
		writer:     writer,
		catalog:    catalog,
	}
}

// Supports returns true if some extractor handles path.
func (s *IngestService) Supports(path string) bool {
	return s.extractorFor(path) != nil
}

// Ingest implements driving.IngestService by dispatching on whether path
// is a directory.
func (s *IngestService) Ingest(ctx context.Context, path string, opts domain.IngestOptions) (*domain.IngestReport, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return nil, err
	}
	if info.IsDir() {
		return s.IngestDirectory(ctx, path, opts)
	}
	return s.IngestFile(ctx, path, opts)
}

// IngestFile implements driving.IngestService. The manual is merged into
// the catalog, replacing any entry with the same ID.
func (s *IngestService) IngestFile(ctx context.Context, path string, opts domain.IngestOptions) (*domain.IngestReport, error) {
	logger.Section("Ingest")

	if s.extractorFor(path) == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, filepath.Ext(path))
	}

	if opts.Reset {
		if err := s.writer.Reset(ctx); err != nil {
			return nil, fmt.Errorf("reset indexes: %w", err)
		}
	}

	mr, err := s.ingestOne(ctx, path)
	if err != nil {
		return nil, err
	}

	report := &domain.IngestReport{Manuals: []domain.ManualReport{*mr}, Totals: mr.WriteResult}
	if err := s.updateCatalog(ctx, []domain.Manual{mr.Manual}, opts.Reset); err != nil {
		return report, err
	}

	return report, checkTotals(report)
}

// IngestDirectory implements driving.IngestService. Files are processed in
// name order; unreadable files are skipped and listed in the report.
func (s *IngestService) IngestDirectory(ctx context.Context, dir string, opts domain.IngestOptions) (*domain.IngestReport, error) {
	logger.Section("Ingest Directory")

	files, err := s.scan(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no supported documents in %s", domain.ErrNotFound, dir)
	}
	logger.Info("Found %d documents in %s", len(files), dir)

	if opts.Reset {
		if err := s.writer.Reset(ctx); err != nil {
			return nil, fmt.Errorf("reset indexes: %w", err)
		}
	}

	report := &domain.IngestReport{}
	var manuals []domain.Manual

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		mr, err := s.ingestOne(ctx, path)
		if err != nil {
			logger.Warn("Skipping %s: %v", filepath.Base(path), err)
			report.Skipped = append(report.Skipped, filepath.Base(path))
			continue
		}

		report.Manuals = append(report.Manuals, *mr)
		report.Totals.Add(mr.WriteResult)
		manuals = append(manuals, mr.Manual)
	}

	if err := s.updateCatalog(ctx, manuals, opts.Reset); err != nil {
		return report, err
	}

	return report, checkTotals(report)
}

func (s *IngestService) ingestOne(ctx context.Context, path string) (*domain.ManualReport, error) {
	extractor := s.extractorFor(path)
	if extractor == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, filepath.Ext(path))
	}

	file := filepath.Base(path)
	meta := domain.ExtractManualMetadata(file)
	logger.Info("Ingesting %s as %q", file, meta.ID)

	pages, err := extractor.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", file, err)
	}

	chunks := s.splitter.Split(pages, meta)
	logger.Debug("%s: %d pages, %d chunks", file, len(pages), len(chunks))

	result := s.writer.Write(ctx, chunks)
	logger.Info("%s: %d -> dense, %d -> sparse", file, result.DenseWritten, result.SparseWritten)

	return &domain.ManualReport{
		Manual: domain.Manual{
			ID:     meta.ID,
			Label:  meta.Label,
			PDFURL: ManualsURLPrefix + file,
		},
		File:        file,
		Pages:       len(pages),
		Chunks:      len(chunks),
		WriteResult: result,
	}, nil
}

func (s *IngestService) scan(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read manuals directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if s.Supports(path) {
			files = append(files, path)
		}
	}

	sort.Strings(files)
	return files, nil
}

func (s *IngestService) extractorFor(path string) driven.PageExtractor {
	for _, e := range s.extractors {
		if e.Supports(path) {
			return e
		}
	}
	return nil
}

// updateCatalog replaces the catalog when replace is set, otherwise merges
// manuals into it by ID.
func (s *IngestService) updateCatalog(ctx context.Context, manuals []domain.Manual, replace bool) error {
	if s.catalog == nil || len(manuals) == 0 {
		return nil
	}

	var merged []domain.Manual
	if !replace {
		existing, err := s.catalog.Load(ctx)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		merged = existing
	}

	for _, m := range manuals {
		merged = upsertManual(merged, m)
	}

	if err := s.catalog.Save(ctx, merged); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	logger.Info("Catalog written to %s (%d manuals)", s.catalog.Path(), len(merged))
	return nil
}

func upsertManual(list []domain.Manual, m domain.Manual) []domain.Manual {
	for i := range list {
		if list[i].ID == m.ID {
			list[i] = m
			return list
		}
	}
	return append(list, m)
}

func checkTotals(report *domain.IngestReport) error {
	if report.Totals.Failed() {
		return fmt.Errorf("%w: dense: %s; sparse: %s",
			domain.ErrIngestionFailed, report.Totals.DenseError, report.Totals.SparseError)
	}
	if report.Totals.Partial() {
		logger.Warn("Ingestion partially failed: dense=%q sparse=%q",
			report.Totals.DenseError, report.Totals.SparseError)
	}
	return nil
}
