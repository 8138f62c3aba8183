package domain

// DefaultPage is reported for chunks whose page number is missing.
const DefaultPage = 1

// ChunkMetadata is the provenance stamped on every chunk at ingestion.
// These are the only fields retrieval ever reads back.
type ChunkMetadata struct {
	// Page is the 1-based page number the chunk came from.
	Page int `json:"page"`

	// ManualID is the parent manual's identifier and the retrieval filter key.
	ManualID string `json:"manual_id"`

	// ProductID is the product family, nil when unknown.
	ProductID *string `json:"product_id,omitempty"`
}

// PageOrDefault returns the page number, or DefaultPage when unset.
func (m ChunkMetadata) PageOrDefault() int {
	if m.Page < 1 {
		return DefaultPage
	}
	return m.Page
}

// Chunk is the atomic indexed unit. A chunk never spans pages.
type Chunk struct {
	// ID is stable across re-ingestion of the same source.
	ID string `json:"id"`

	// Content is the chunk text, never empty or whitespace-only.
	Content string `json:"content"`

	// Position is the chunk's index among the chunks of its page.
	Position int `json:"position"`

	// Metadata carries page, manual, and product provenance.
	Metadata ChunkMetadata `json:"metadata"`
}

// Page is the raw extracted text of one document page.
type Page struct {
	// Number is 1-based.
	Number int

	// Text may be empty for pages with no extractable text.
	Text string
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
