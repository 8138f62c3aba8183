// Package chunker splits page text into overlapping word windows.
package chunker

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
)

// DefaultWords is the default number of words per chunk.
const DefaultWords = domain.DefaultChunkWords

// DefaultOverlap is the default number of words shared by consecutive chunks.
const DefaultOverlap = domain.DefaultChunkOverlap

// chunkNamespace scopes chunk IDs so they never collide with other SHA-1 UUIDs.
var chunkNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("manualqa/chunk"))

// Chunker splits pages into word-window chunks.
// A chunk never spans pages.
type Chunker struct {
	words   int
	overlap int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithWords sets the window length in words.
func WithWords(n int) Option {
	return func(c *Chunker) {
		if n > 0 {
			c.words = n
		}
	}
}

// WithOverlap sets the overlap between consecutive windows in words.
func WithOverlap(n int) Option {
	return func(c *Chunker) {
		if n >= 0 {
			c.overlap = n
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		words:   DefaultWords,
		overlap: DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't reach the window length
	if c.overlap >= c.words {
		c.overlap = c.words / 4
	}

	return c
}

// Words returns the window length.
func (c *Chunker) Words() int { return c.words }

// Overlap returns the window overlap.
func (c *Chunker) Overlap() int { return c.overlap }

// Split chunks every page of one manual. Pages with no words produce no chunks.
func (c *Chunker) Split(pages []domain.Page, meta domain.ManualMetadata) []domain.Chunk {
	var chunks []domain.Chunk
	for _, page := range pages {
		chunks = append(chunks, c.SplitPage(page, meta)...)
	}
	return chunks
}

// SplitPage chunks one page. Every chunk carries the page's number.
func (c *Chunker) SplitPage(page domain.Page, meta domain.ManualMetadata) []domain.Chunk {
	words := strings.Fields(page.Text)
	if len(words) == 0 {
		return nil
	}

	step := c.words - c.overlap
	chunks := make([]domain.Chunk, 0, len(words)/step+1)

	for start, position := 0, 0; ; start, position = start+step, position+1 {
		end := start + c.words
		if end > len(words) {
			end = len(words)
		}

		content := strings.Join(words[start:end], " ")
		chunks = append(chunks, domain.Chunk{
			ID:       ChunkID(meta.ID, page.Number, position, content),
			Content:  content,
			Position: position,
			Metadata: domain.ChunkMetadata{
				Page:      page.Number,
				ManualID:  meta.ID,
				ProductID: domain.StringPtr(meta.ProductID),
			},
		})

		if end == len(words) {
			break
		}
	}

	return chunks
}

// ChunkID derives a stable UUID from a chunk's manual, page, position, and content.
func ChunkID(manualID string, page, position int, content string) string {
	var b strings.Builder
	b.WriteString(manualID)
	b.WriteByte(0)
	b.WriteString(strconv.Itoa(page))
	b.WriteByte(0)
	b.WriteString(strconv.Itoa(position))
	b.WriteByte(0)
	b.WriteString(content)
	return uuid.NewSHA1(chunkNamespace, []byte(b.String())).String()
}
