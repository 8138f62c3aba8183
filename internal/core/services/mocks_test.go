package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
)

var errBackendDown = errors.New("connection refused")

// mockEmbedder implements driven.EmbeddingService for testing.
type mockEmbedder struct {
	embedErr error
	batchErr error
	dims     int
	calls    int
	mu       sync.Mutex
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return []float32{float32(len(text)), 1}, nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t)), 1}
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return 2
}

func (m *mockEmbedder) ModelName() string            { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

// mockDense implements driven.DenseIndex for testing.
type mockDense struct {
	hits      []domain.RetrievedDocument
	searchErr error
	upsertErr error
	resetErr  error
	pingErr   error

	// block makes Search wait for ctx to end.
	block bool

	// started is closed when Search begins, if set.
	started chan struct{}
	// waitFor blocks Search until closed, if set.
	waitFor chan struct{}

	mu       sync.Mutex
	stored   map[string]domain.Chunk
	resets   int
	lastK    int
	lastFilt string
}

func (m *mockDense) Reset(_ context.Context, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets++
	if m.resetErr != nil {
		return m.resetErr
	}
	m.stored = map[string]domain.Chunk{}
	return nil
}

func (m *mockDense) Upsert(_ context.Context, chunks []domain.Chunk, _ [][]float32) (int, error) {
	if m.upsertErr != nil {
		return 0, m.upsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stored == nil {
		m.stored = map[string]domain.Chunk{}
	}
	for _, c := range chunks {
		m.stored[c.ID] = c
	}
	return len(chunks), nil
}

func (m *mockDense) Search(ctx context.Context, _ []float32, k int, manualID string) ([]domain.RetrievedDocument, error) {
	m.mu.Lock()
	m.lastK, m.lastFilt = k, manualID
	m.mu.Unlock()
	if m.started != nil {
		close(m.started)
	}
	if m.waitFor != nil {
		select {
		case <-m.waitFor:
		case <-time.After(2 * time.Second):
			return nil, errors.New("sparse search never started")
		}
	}
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return append([]domain.RetrievedDocument(nil), m.hits...), nil
}

func (m *mockDense) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stored), nil
}

func (m *mockDense) Ping(_ context.Context) error { return m.pingErr }
func (m *mockDense) Close() error                 { return nil }

// mockSparse implements driven.SparseIndex for testing.
type mockSparse struct {
	hits      []domain.RetrievedDocument
	searchErr error
	upsertErr error
	resetErr  error
	pingErr   error
	block     bool

	started chan struct{}
	waitFor chan struct{}

	mu     sync.Mutex
	stored map[string]domain.Chunk
	resets int
}

func (m *mockSparse) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets++
	if m.resetErr != nil {
		return m.resetErr
	}
	m.stored = map[string]domain.Chunk{}
	return nil
}

func (m *mockSparse) Upsert(_ context.Context, chunks []domain.Chunk) (int, error) {
	if m.upsertErr != nil {
		return 0, m.upsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stored == nil {
		m.stored = map[string]domain.Chunk{}
	}
	for _, c := range chunks {
		m.stored[c.ID] = c
	}
	return len(chunks), nil
}

func (m *mockSparse) Search(ctx context.Context, _ string, _ int, _ string) ([]domain.RetrievedDocument, error) {
	if m.started != nil {
		close(m.started)
	}
	if m.waitFor != nil {
		select {
		case <-m.waitFor:
		case <-time.After(2 * time.Second):
			return nil, errors.New("dense search never started")
		}
	}
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return append([]domain.RetrievedDocument(nil), m.hits...), nil
}

func (m *mockSparse) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stored), nil
}

func (m *mockSparse) Ping(_ context.Context) error { return m.pingErr }
func (m *mockSparse) Close() error                 { return nil }

// mockStreamer implements driven.ChatStreamer for testing.
type mockStreamer struct {
	events    []domain.StreamEvent
	streamErr error

	// hang keeps the channel open after the events until ctx ends.
	hang bool

	mu         sync.Mutex
	lastPrompt string
	lastModel  string
}

func (m *mockStreamer) ChatStream(ctx context.Context, prompt, model string) (<-chan domain.StreamEvent, error) {
	m.mu.Lock()
	m.lastPrompt, m.lastModel = prompt, model
	m.mu.Unlock()
	if m.streamErr != nil {
		return nil, m.streamErr
	}

	ch := make(chan domain.StreamEvent)
	go func() {
		defer close(ch)
		for _, ev := range m.events {
			select {
			case ch <- ev:
			case <-ctx.Done():
				return
			}
		}
		if m.hang {
			<-ctx.Done()
		}
	}()
	return ch, nil
}

func (m *mockStreamer) ModelName() string            { return "mock-model" }
func (m *mockStreamer) Ping(_ context.Context) error { return nil }
func (m *mockStreamer) Close() error                 { return nil }

func fragments(parts ...string) []domain.StreamEvent {
	events := make([]domain.StreamEvent, len(parts))
	for i, p := range parts {
		events[i] = domain.StreamEvent{Kind: domain.StreamFragment, Content: p}
	}
	return events
}

// mockExtractor implements driven.PageExtractor for testing.
type mockExtractor struct {
	ext   string
	pages map[string][]domain.Page
	err   map[string]error
}

func (m *mockExtractor) Supports(path string) bool {
	return len(path) > len(m.ext) && path[len(path)-len(m.ext):] == m.ext
}

func (m *mockExtractor) Extract(_ context.Context, path string) ([]domain.Page, error) {
	if err := m.err[path]; err != nil {
		return nil, err
	}
	return m.pages[path], nil
}

// mockCatalog implements driven.CatalogStore for testing.
type mockCatalog struct {
	manuals []domain.Manual
	loadErr error
	saveErr error
	saves   int
}

func (m *mockCatalog) Load(_ context.Context) ([]domain.Manual, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]domain.Manual(nil), m.manuals...), nil
}

func (m *mockCatalog) Save(_ context.Context, manuals []domain.Manual) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.manuals = append([]domain.Manual(nil), manuals...)
	return nil
}

func (m *mockCatalog) Path() string { return "mock/manuals.json" }

// mockConfigStore implements driven.ConfigStore for testing.
type mockConfigStore struct {
	values  map[string]any
	saved   map[string]any
	saves   int
	saveErr error
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{values: map[string]any{}, saved: map[string]any{}}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	s, _ := m.values[key].(string)
	return s
}

func (m *mockConfigStore) GetInt(key string) int {
	switch v := m.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func (m *mockConfigStore) GetFloat(key string) float64 {
	switch v := m.values[key].(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case float64:
		return v
	}
	return 0
}

func (m *mockConfigStore) Delete(key string) error {
	delete(m.values, key)
	return nil
}

func (m *mockConfigStore) Set(key string, value any) error {
	m.values[key] = value
	return nil
}

func (m *mockConfigStore) Save() error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = make(map[string]any, len(m.values))
	for k, v := range m.values {
		m.saved[k] = v
	}
	return nil
}

func (m *mockConfigStore) Load() error {
	m.values = make(map[string]any, len(m.saved))
	for k, v := range m.saved {
		m.values[k] = v
	}
	return nil
}

func (m *mockConfigStore) Path() string { return "mock/config.toml" }

// recordingMetrics implements driven.MetricsRecorder for testing.
type recordingMetrics struct {
	mu        sync.Mutex
	retrieval map[domain.RetrievalSource]int
	failures  map[domain.RetrievalSource]int
	answers   int
	partials  int
	ingested  map[domain.RetrievalSource]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		retrieval: map[domain.RetrievalSource]int{},
		failures:  map[domain.RetrievalSource]int{},
		ingested:  map[domain.RetrievalSource]int{},
	}
}

func (r *recordingMetrics) ObserveRetrieval(source domain.RetrievalSource, _ time.Duration, _ int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.retrieval[source]++
	if err != nil {
		r.failures[source]++
	}
}

func (r *recordingMetrics) ObserveAnswer(_ time.Duration, partial bool, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.answers++
	if partial {
		r.partials++
	}
}

func (r *recordingMetrics) AddIngested(source domain.RetrievalSource, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ingested[source] += n
}

func doc(id string, page int, content string) domain.RetrievedDocument {
	return domain.RetrievedDocument{
		Chunk: domain.Chunk{
			ID:      id,
			Content: content,
			Metadata: domain.ChunkMetadata{
				Page:      page,
				ManualID:  "synth-pro",
				ProductID: domain.StringPtr("Synth"),
			},
		},
		Score: 1,
	}
}

func chunk(id string, page int, content string) domain.Chunk {
	return doc(id, page, content).Chunk
}

func ids(docs []domain.RetrievedDocument) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Chunk.ID
	}
	return out
}
