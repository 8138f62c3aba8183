// Package text extracts pages from plain-text files.
package text

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
	"github.com/ALEX8642/LLM-chatbot/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.PageExtractor = (*Extractor)(nil)

// PageSeparator splits a text file into pages.
const PageSeparator = "\f"

// Extractor reads .txt and .md files. Form feeds separate pages.
type Extractor struct{}

// New creates a text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Supports returns true for .txt and .md files.
func (e *Extractor) Supports(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		return true
	default:
		return false
	}
}

// Extract splits the file on form feeds.
func (e *Extractor) Extract(_ context.Context, path string) ([]domain.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("text: read %s: %w", path, err)
	}

	parts := strings.Split(string(data), PageSeparator)
	pages := make([]domain.Page, len(parts))
	for i, part := range parts {
		pages[i] = domain.Page{Number: i + 1, Text: part}
	}
	return pages, nil
}
