package qdrant

import (
	"testing"

	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
)

func TestParseAddr(t *testing.T) {
	tests := []struct {
		addr string
		host string
		port int
		tls  bool
	}{
		{"localhost:6334", "localhost", 6334, false},
		{"qdrant", "qdrant", 6334, false},
		{"http://10.0.0.5:7000", "10.0.0.5", 7000, false},
		{"https://cloud.example.com:6334", "cloud.example.com", 6334, true},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			host, port, useTLS, err := parseAddr(tt.addr)

			require.NoError(t, err)
			assert.Equal(t, tt.host, host)
			assert.Equal(t, tt.port, port)
			assert.Equal(t, tt.tls, useTLS)
		})
	}
}

func TestParseAddr_BadPort(t *testing.T) {
	_, _, _, err := parseAddr("localhost:abc")

	assert.Error(t, err)
}

func TestPointRoundTrip(t *testing.T) {
	c := domain.Chunk{
		ID:       "0b7e1a53-55ab-5a3c-9d0b-2a8f3f7e2f11",
		Content:  "Press the power button.",
		Position: 2,
		Metadata: domain.ChunkMetadata{Page: 4, ManualID: "x200-owners", ProductID: domain.StringPtr("X200")},
	}

	point := pointFromChunk(c, []float32{0.1, 0.2})
	doc := documentFromPoint(point.Id, point.Payload, 0.9)

	assert.Equal(t, c, doc.Chunk)
	assert.Equal(t, domain.SourceDense, doc.Source)
	assert.InDelta(t, 0.9, doc.Score, 1e-6)
}

func TestDocumentFromPoint_NullProduct(t *testing.T) {
	c := domain.Chunk{
		ID:       "0b7e1a53-55ab-5a3c-9d0b-2a8f3f7e2f11",
		Content:  "text",
		Metadata: domain.ChunkMetadata{ManualID: "m"},
	}

	point := pointFromChunk(c, []float32{1})
	doc := documentFromPoint(point.Id, point.Payload, 1)

	assert.Nil(t, doc.Chunk.Metadata.ProductID)
	assert.Equal(t, domain.DefaultPage, doc.Chunk.Metadata.Page)
}

func TestDocumentFromPoint_FallsBackToPointID(t *testing.T) {
	id := qdrant.NewID("0b7e1a53-55ab-5a3c-9d0b-2a8f3f7e2f11")

	doc := documentFromPoint(id, map[string]*qdrant.Value{
		fieldContent: qdrant.NewValueString("text"),
	}, 0.5)

	assert.Equal(t, "0b7e1a53-55ab-5a3c-9d0b-2a8f3f7e2f11", doc.Chunk.ID)
	assert.Equal(t, 0, doc.Chunk.Metadata.Page)
}
