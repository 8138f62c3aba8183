// Package pdf extracts per-page plain text from PDF files.
package pdf

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
	"github.com/ALEX8642/LLM-chatbot/internal/core/ports/driven"
	"github.com/ALEX8642/LLM-chatbot/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.PageExtractor = (*Extractor)(nil)

// Extractor reads PDF text layers. Scanned pages without text yield empty pages.
type Extractor struct{}

// New creates a PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// Supports returns true for .pdf files.
func (e *Extractor) Supports(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// Extract returns one page per PDF page, numbered from 1.
// Pages that fail to decode are logged and returned empty.
func (e *Extractor) Extract(ctx context.Context, path string) ([]domain.Page, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pdf: open %s: %w", path, err)
	}
	defer f.Close()

	count := r.NumPage()
	pages := make([]domain.Page, 0, count)
	for i := 1; i <= count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := domain.Page{Number: i}
		p := r.Page(i)
		if !p.V.IsNull() {
			text, err := p.GetPlainText(nil)
			if err != nil {
				logger.Warn("pdf: %s page %d: %v", filepath.Base(path), i, err)
			} else {
				page.Text = text
			}
		}
		pages = append(pages, page)
	}

	return pages, nil
}
