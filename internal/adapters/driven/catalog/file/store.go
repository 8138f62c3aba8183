// Package file persists the manual catalog as a JSON file.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
	"github.com/ALEX8642/LLM-chatbot/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.CatalogStore = (*Store)(nil)

// DefaultFile is the catalog filename written next to the manuals.
const DefaultFile = "manuals.json"

// Store reads and writes a JSON array of manuals.
type Store struct {
	path string
}

// New creates a catalog store at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the catalog file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the catalog. A missing file yields an empty list.
func (s *Store) Load(_ context.Context) ([]domain.Manual, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	var manuals []domain.Manual
	if err := json.Unmarshal(data, &manuals); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", s.path, err)
	}
	return manuals, nil
}

// Save writes the catalog atomically via a temp file and rename.
func (s *Store) Save(_ context.Context, manuals []domain.Manual) error {
	if manuals == nil {
		manuals = []domain.Manual{}
	}

	data, err := json.MarshalIndent(manuals, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating catalog directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".manuals-*.json")
	if err != nil {
		return fmt.Errorf("creating temp catalog: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("writing catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing catalog: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing catalog: %w", err)
	}
	return nil
}
