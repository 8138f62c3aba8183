package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
)

var testMeta = domain.ManualMetadata{ID: "synth-pro", Label: "Synth Pro", ProductID: "Synth"}

func numberedWords(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(words, " ")
}

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := New()
		assert.Equal(t, 250, c.Words())
		assert.Equal(t, 50, c.Overlap())
	})

	t.Run("custom values", func(t *testing.T) {
		c := New(WithWords(100), WithOverlap(10))
		assert.Equal(t, 100, c.Words())
		assert.Equal(t, 10, c.Overlap())
	})

	t.Run("overlap exceeds window", func(t *testing.T) {
		c := New(WithWords(100), WithOverlap(150))
		assert.Less(t, c.Overlap(), c.Words())
	})

	t.Run("invalid values ignored", func(t *testing.T) {
		c := New(WithWords(0), WithOverlap(-1))
		assert.Equal(t, DefaultWords, c.Words())
		assert.Equal(t, DefaultOverlap, c.Overlap())
	})
}

func TestSplitPage_Overlap(t *testing.T) {
	c := New(WithWords(250), WithOverlap(50))

	chunks := c.SplitPage(domain.Page{Number: 4, Text: numberedWords(300)}, testMeta)

	require.Len(t, chunks, 2)
	first := strings.Fields(chunks[0].Content)
	second := strings.Fields(chunks[1].Content)
	assert.Len(t, first, 250)
	assert.Len(t, second, 100)
	assert.Equal(t, first[200:], second[:50])
}

func TestSplitPage_Provenance(t *testing.T) {
	c := New(WithWords(10), WithOverlap(2))

	chunks := c.SplitPage(domain.Page{Number: 7, Text: numberedWords(35)}, testMeta)

	require.Len(t, chunks, 5)
	for i, ch := range chunks {
		assert.Equal(t, i, ch.Position)
		assert.Equal(t, 7, ch.Metadata.Page)
		assert.Equal(t, "synth-pro", ch.Metadata.ManualID)
		require.NotNil(t, ch.Metadata.ProductID)
		assert.Equal(t, "Synth", *ch.Metadata.ProductID)
	}
}

func TestSplitPage_ShortText(t *testing.T) {
	chunks := New().SplitPage(domain.Page{Number: 1, Text: "Press the power button."}, testMeta)

	require.Len(t, chunks, 1)
	assert.Equal(t, "Press the power button.", chunks[0].Content)
}

func TestSplitPage_ExactWindow(t *testing.T) {
	chunks := New(WithWords(10), WithOverlap(2)).SplitPage(domain.Page{Number: 1, Text: numberedWords(10)}, testMeta)

	assert.Len(t, chunks, 1)
}

func TestSplit_SkipsEmptyPages(t *testing.T) {
	pages := []domain.Page{
		{Number: 1, Text: "intro text"},
		{Number: 2, Text: "   \n\t "},
		{Number: 3, Text: ""},
		{Number: 4, Text: "last page"},
	}

	chunks := New().Split(pages, testMeta)

	require.Len(t, chunks, 2)
	assert.Equal(t, 1, chunks[0].Metadata.Page)
	assert.Equal(t, 4, chunks[1].Metadata.Page)
}

func TestSplit_NoProduct(t *testing.T) {
	chunks := New().Split([]domain.Page{{Number: 1, Text: "text"}}, domain.ManualMetadata{ID: "m"})

	require.Len(t, chunks, 1)
	assert.Nil(t, chunks[0].Metadata.ProductID)
}

func TestChunkID_Stable(t *testing.T) {
	a := ChunkID("m", 1, 0, "hello")
	b := ChunkID("m", 1, 0, "hello")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, ChunkID("m", 1, 1, "hello"))
	assert.NotEqual(t, a, ChunkID("m", 2, 0, "hello"))
	assert.NotEqual(t, a, ChunkID("n", 1, 0, "hello"))

	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}

func TestSplit_Deterministic(t *testing.T) {
	pages := []domain.Page{{Number: 1, Text: numberedWords(600)}}

	first := New().Split(pages, testMeta)
	second := New().Split(pages, testMeta)

	assert.Equal(t, first, second)
}
