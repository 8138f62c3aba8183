// Package opensearch provides a keyword index adapter backed by an OpenSearch index.
package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	opensearch "github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
	"github.com/ALEX8642/LLM-chatbot/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.SparseIndex = (*Store)(nil)

// Default configuration values.
const (
	DefaultURL     = "http://localhost:9200"
	DefaultIndex   = "manuals"
	DefaultTimeout = 10 * time.Second
)

// indexMapping keeps manual_id as an exact-match keyword for filtering.
const indexMapping = `{
  "settings": {"index": {"number_of_shards": 1, "number_of_replicas": 0}},
  "mappings": {
    "properties": {
      "content":    {"type": "text"},
      "manual_id":  {"type": "keyword"},
      "product_id": {"type": "keyword"},
      "page":       {"type": "integer"},
      "position":   {"type": "integer"}
    }
  }
}`

// Config holds configuration for the OpenSearch store.
type Config struct {
	// URL is the cluster endpoint (default: http://localhost:9200).
	URL string

	// Username and Password enable basic auth when set.
	Username string
	Password string

	// Index is the index name (default: manuals).
	Index string

	// Timeout bounds each HTTP request (default: 10s).
	Timeout time.Duration
}

// Store is a BM25 keyword index over one OpenSearch index.
type Store struct {
	client *opensearch.Client
	index  string
}

// source is the stored document body.
type source struct {
	Content   string  `json:"content"`
	ManualID  string  `json:"manual_id"`
	ProductID *string `json:"product_id"`
	Page      int     `json:"page"`
	Position  int     `json:"position"`
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string  `json:"_id"`
			Score  float64 `json:"_score"`
			Source source  `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		ID     string `json:"_id"`
		Status int    `json:"status"`
		Error  *struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	} `json:"items"`
}

type countResponse struct {
	Count int `json:"count"`
}

// New creates a client. The index is created by Reset.
func New(cfg Config) (*Store, error) {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Index == "" {
		cfg.Index = DefaultIndex
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = cfg.Timeout

	client, err := opensearch.NewClient(opensearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("opensearch: create client: %w", err)
	}

	return &Store{client: client, index: cfg.Index}, nil
}

// Reset deletes the index if present and recreates it with the chunk mapping.
func (s *Store) Reset(ctx context.Context) error {
	ignore := true
	res, err := opensearchapi.IndicesDeleteRequest{
		Index:             []string{s.index},
		IgnoreUnavailable: &ignore,
	}.Do(ctx, s.client)
	if err := check(res, err, "delete index"); err != nil {
		return err
	}
	res.Body.Close()

	res, err = opensearchapi.IndicesCreateRequest{
		Index: s.index,
		Body:  strings.NewReader(indexMapping),
	}.Do(ctx, s.client)
	if err := check(res, err, "create index"); err != nil {
		return err
	}
	res.Body.Close()
	return nil
}

// Upsert bulk-indexes chunks by ID and refreshes so they are searchable at once.
// On partial failure it returns the number indexed and the first item error.
func (s *Store) Upsert(ctx context.Context, chunks []domain.Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	body, err := bulkBody(s.index, chunks)
	if err != nil {
		return 0, err
	}

	res, err := opensearchapi.BulkRequest{
		Body:    bytes.NewReader(body),
		Refresh: "true",
	}.Do(ctx, s.client)
	if err := check(res, err, "bulk index"); err != nil {
		return 0, err
	}
	defer res.Body.Close()

	var br bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&br); err != nil {
		return 0, fmt.Errorf("opensearch: decode bulk response: %w", err)
	}
	if !br.Errors {
		return len(chunks), nil
	}

	written := 0
	var firstErr error
	for _, item := range br.Items {
		for _, result := range item {
			if result.Error == nil && result.Status < 300 {
				written++
				continue
			}
			if firstErr == nil && result.Error != nil {
				firstErr = fmt.Errorf("opensearch: index %s: %s: %s", result.ID, result.Error.Type, result.Error.Reason)
			}
		}
	}
	if firstErr == nil {
		firstErr = fmt.Errorf("opensearch: bulk index reported errors")
	}
	return written, firstErr
}

// bulkBody renders the NDJSON bulk payload.
func bulkBody(index string, chunks []domain.Chunk) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, c := range chunks {
		action := map[string]map[string]string{"index": {"_index": index, "_id": c.ID}}
		if err := enc.Encode(action); err != nil {
			return nil, fmt.Errorf("opensearch: encode action: %w", err)
		}
		doc := source{
			Content:   c.Content,
			ManualID:  c.Metadata.ManualID,
			ProductID: c.Metadata.ProductID,
			Page:      c.Metadata.PageOrDefault(),
			Position:  c.Position,
		}
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("opensearch: encode chunk %s: %w", c.ID, err)
		}
	}
	return buf.Bytes(), nil
}

// searchBody is a match query on content filtered by manual_id.
func searchBody(query string, k int, manualID string) ([]byte, error) {
	return json.Marshal(map[string]any{
		"size": k,
		"query": map[string]any{
			"bool": map[string]any{
				"must": []any{
					map[string]any{"match": map[string]any{"content": map[string]any{"query": query}}},
				},
				"filter": []any{
					map[string]any{"term": map[string]any{"manual_id": manualID}},
				},
			},
		},
	})
}

// Search returns up to k chunks of manualID ranked by BM25.
func (s *Store) Search(ctx context.Context, query string, k int, manualID string) ([]domain.RetrievedDocument, error) {
	if k <= 0 || strings.TrimSpace(query) == "" {
		return nil, nil
	}

	body, err := searchBody(query, k, manualID)
	if err != nil {
		return nil, fmt.Errorf("opensearch: encode query: %w", err)
	}

	res, err := opensearchapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
	}.Do(ctx, s.client)
	if err := check(res, err, "search"); err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("opensearch: decode search response: %w", err)
	}

	docs := make([]domain.RetrievedDocument, 0, len(sr.Hits.Hits))
	for _, h := range sr.Hits.Hits {
		docs = append(docs, domain.RetrievedDocument{
			Chunk: domain.Chunk{
				ID:       h.ID,
				Content:  h.Source.Content,
				Position: h.Source.Position,
				Metadata: domain.ChunkMetadata{
					Page:      h.Source.Page,
					ManualID:  h.Source.ManualID,
					ProductID: h.Source.ProductID,
				},
			},
			Score:  h.Score,
			Source: domain.SourceSparse,
		})
	}
	return docs, nil
}

// Count returns the number of documents in the index.
func (s *Store) Count(ctx context.Context) (int, error) {
	res, err := opensearchapi.CountRequest{Index: []string{s.index}}.Do(ctx, s.client)
	if err := check(res, err, "count"); err != nil {
		return 0, err
	}
	defer res.Body.Close()

	var cr countResponse
	if err := json.NewDecoder(res.Body).Decode(&cr); err != nil {
		return 0, fmt.Errorf("opensearch: decode count response: %w", err)
	}
	return cr.Count, nil
}

// Ping checks the cluster is reachable.
func (s *Store) Ping(ctx context.Context) error {
	res, err := opensearchapi.PingRequest{}.Do(ctx, s.client)
	if err := check(res, err, "ping"); err != nil {
		return err
	}
	res.Body.Close()
	return nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

// check turns a transport error or error status into an error.
// On error the response body is consumed and closed.
func check(res *opensearchapi.Response, err error, op string) error {
	if err != nil {
		return fmt.Errorf("opensearch: %s: %w", op, err)
	}
	if res.IsError() {
		defer res.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return fmt.Errorf("opensearch: %s: status %d: %s", op, res.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}
