// Package qdrant provides a dense index adapter backed by a Qdrant collection.
package qdrant

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/qdrant/go-client/qdrant"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
	"github.com/ALEX8642/LLM-chatbot/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DenseIndex = (*Store)(nil)

// Default configuration values.
const (
	DefaultAddr       = "localhost:6334"
	DefaultCollection = "manuals"
	defaultPort       = 6334
)

// Payload field names.
const (
	fieldContent   = "content"
	fieldPage      = "page"
	fieldManualID  = "manual_id"
	fieldProductID = "product_id"
	fieldPosition  = "position"
	fieldChunkID   = "chunk_id"
)

// Config holds configuration for the Qdrant store.
type Config struct {
	// Addr is the gRPC address as host:port or a URL (default: localhost:6334).
	Addr string

	// APIKey is sent when set.
	APIKey string

	// Collection is the collection name (default: manuals).
	Collection string
}

// Store is a DenseIndex over one Qdrant collection using cosine distance.
type Store struct {
	client     *qdrant.Client
	collection string
}

// New connects to Qdrant. The collection is created by Reset.
func New(cfg Config) (*Store, error) {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}

	host, port, useTLS, err := parseAddr(cfg.Addr)
	if err != nil {
		return nil, err
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: cfg.APIKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: create client: %w", err)
	}

	return &Store{client: client, collection: cfg.Collection}, nil
}

// parseAddr accepts host, host:port, or an http(s) URL.
func parseAddr(addr string) (host string, port int, useTLS bool, err error) {
	if strings.Contains(addr, "://") {
		u, perr := url.Parse(addr)
		if perr != nil {
			return "", 0, false, fmt.Errorf("qdrant: invalid address %q: %w", addr, perr)
		}
		useTLS = u.Scheme == "https"
		addr = u.Host
	}

	h, p, splitErr := net.SplitHostPort(addr)
	if splitErr != nil {
		// No port given.
		return addr, defaultPort, useTLS, nil
	}
	port, err = strconv.Atoi(p)
	if err != nil {
		return "", 0, false, fmt.Errorf("qdrant: invalid port in %q: %w", addr, err)
	}
	return h, port, useTLS, nil
}

// Reset drops the collection and recreates it for vectors of the given size.
func (s *Store) Reset(ctx context.Context, dimensions int) error {
	if dimensions <= 0 {
		return fmt.Errorf("%w: qdrant: dimensions must be positive", domain.ErrInvalidInput)
	}

	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("qdrant: check collection: %w", err)
	}
	if exists {
		if err := s.client.DeleteCollection(ctx, s.collection); err != nil {
			return fmt.Errorf("qdrant: delete collection: %w", err)
		}
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dimensions),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("qdrant: create collection: %w", err)
	}

	_, err = s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: s.collection,
		FieldName:      fieldManualID,
		FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant: index manual_id: %w", err)
	}
	return nil
}

// Upsert writes one point per chunk.
func (s *Store) Upsert(ctx context.Context, chunks []domain.Chunk, vectors [][]float32) (int, error) {
	if len(chunks) != len(vectors) {
		return 0, fmt.Errorf("%w: qdrant: %d chunks but %d vectors", domain.ErrInvalidInput, len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	points := make([]*qdrant.PointStruct, len(chunks))
	for i := range chunks {
		points[i] = pointFromChunk(chunks[i], vectors[i])
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("qdrant: upsert: %w", err)
	}
	return len(points), nil
}

// Search runs a cosine nearest-neighbour query filtered to manualID.
func (s *Store) Search(ctx context.Context, vector []float32, k int, manualID string) ([]domain.RetrievedDocument, error) {
	if k <= 0 {
		return nil, nil
	}

	results, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vector...),
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch(fieldManualID, manualID)},
		},
		Limit:       qdrant.PtrOf(uint64(k)),
		WithPayload: qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: query: %w", err)
	}

	docs := make([]domain.RetrievedDocument, 0, len(results))
	for _, point := range results {
		docs = append(docs, documentFromPoint(point.GetId(), point.GetPayload(), point.GetScore()))
	}
	return docs, nil
}

// Count returns the exact number of points in the collection.
func (s *Store) Count(ctx context.Context) (int, error) {
	n, err := s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: s.collection,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("qdrant: count: %w", err)
	}
	return int(n), nil
}

// Ping checks the server health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.client.HealthCheck(ctx); err != nil {
		return fmt.Errorf("qdrant: health check: %w", err)
	}
	return nil
}

// Close closes the gRPC connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// pointFromChunk builds a point keyed by the chunk's UUID.
func pointFromChunk(c domain.Chunk, vector []float32) *qdrant.PointStruct {
	payload := map[string]*qdrant.Value{
		fieldChunkID:  qdrant.NewValueString(c.ID),
		fieldContent:  qdrant.NewValueString(c.Content),
		fieldPage:     qdrant.NewValueInt(int64(c.Metadata.PageOrDefault())),
		fieldManualID: qdrant.NewValueString(c.Metadata.ManualID),
		fieldPosition: qdrant.NewValueInt(int64(c.Position)),
	}
	if c.Metadata.ProductID != nil {
		payload[fieldProductID] = qdrant.NewValueString(*c.Metadata.ProductID)
	} else {
		payload[fieldProductID] = qdrant.NewValueNull()
	}

	return &qdrant.PointStruct{
		Id:      qdrant.NewID(c.ID),
		Vectors: qdrant.NewVectors(vector...),
		Payload: payload,
	}
}

// documentFromPoint maps a scored point back to a dense hit.
func documentFromPoint(id *qdrant.PointId, payload map[string]*qdrant.Value, score float32) domain.RetrievedDocument {
	chunk := domain.Chunk{
		ID:       payload[fieldChunkID].GetStringValue(),
		Content:  payload[fieldContent].GetStringValue(),
		Position: int(payload[fieldPosition].GetIntegerValue()),
		Metadata: domain.ChunkMetadata{
			Page:      int(payload[fieldPage].GetIntegerValue()),
			ManualID:  payload[fieldManualID].GetStringValue(),
			ProductID: domain.StringPtr(payload[fieldProductID].GetStringValue()),
		},
	}
	if chunk.ID == "" {
		chunk.ID = id.GetUuid()
	}

	return domain.RetrievedDocument{
		Chunk:  chunk,
		Score:  float64(score),
		Source: domain.SourceDense,
	}
}
