package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
)

const testDims = 8

// fakeOllama serves embeddings, a two-line chat stream, and the tag list.
func fakeOllama(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/embeddings", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Prompt string `json:"prompt"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		// Letter histogram: similar texts get similar vectors.
		vec := make([]float64, testDims)
		for _, c := range strings.ToLower(req.Prompt) {
			if c >= 'a' && c <= 'z' {
				vec[int(c-'a')%testDims]++
			}
		}
		vec[0]++
		_ = json.NewEncoder(w).Encode(map[string]any{"embedding": vec})
	})
	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/x-ndjson")
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"Press the power button"},"done":false}` + "\n"))
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":" [Page 1]."},"done":true}` + "\n"))
	})
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"models":[]}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func localSettings(t *testing.T, ollamaURL string) domain.Settings {
	t.Helper()
	dir := t.TempDir()

	s := domain.DefaultSettings()
	s.Embedding.BaseURL = ollamaURL
	s.Embedding.Dimensions = testDims
	s.LLM.BaseURL = ollamaURL
	s.Dense.Backend = domain.DenseBackendMemory
	s.Sparse.Backend = domain.SparseBackendSQLite
	s.Sparse.DataDir = filepath.Join(dir, "data")
	s.Ingest.ManualsDir = filepath.Join(dir, "manuals")
	s.Ingest.CatalogPath = filepath.Join(s.Ingest.ManualsDir, "manuals.json")
	require.NoError(t, os.MkdirAll(s.Ingest.ManualsDir, 0o755))
	return s
}

func TestPipeline_IngestThenAsk(t *testing.T) {
	srv := fakeOllama(t)
	settings := localSettings(t, srv.URL)

	doc := filepath.Join(settings.Ingest.ManualsDir, "Widget_Guide.txt")
	require.NoError(t, os.WriteFile(doc, []byte("Press the power button.\fReplace the filter monthly."), 0o600))

	p, err := New(settings)
	require.NoError(t, err)
	defer p.Close()
	ctx := context.Background()

	report, err := p.Ingest.Ingest(ctx, settings.Ingest.ManualsDir, domain.IngestOptions{Reset: true})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Totals.DenseWritten)
	assert.Equal(t, 2, report.Totals.SparseWritten)

	manuals, err := p.Catalog.List(ctx)
	require.NoError(t, err)
	require.Len(t, manuals, 1)
	assert.Equal(t, domain.Manual{ID: "widget-guide", Label: "Widget Guide", PDFURL: "/manuals/Widget_Guide.txt"}, manuals[0])

	answer, err := p.Ask.Ask(ctx, domain.AskRequest{Query: "How do I press the power button?", ManualID: "widget-guide"})
	require.NoError(t, err)
	assert.Equal(t, "Press the power button [Page 1].", answer.Answer)
	assert.False(t, answer.Partial)
	assert.Contains(t, answer.TopPages, 1)
	assert.Equal(t, domain.DefaultLLMModel, answer.UsedModel)
	require.NotEmpty(t, answer.ManualSections)
	assert.Equal(t, "Widget", *answer.ManualSections[0].Product)

	for _, h := range p.Health.Check(ctx) {
		assert.Empty(t, h.Error, h.Component)
	}
}

func TestPipeline_UnknownBackend(t *testing.T) {
	settings := localSettings(t, "http://127.0.0.1:1")
	settings.Sparse.Backend = "solr"

	_, err := New(settings)

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestBuilder_OpenSettingsAndBuild(t *testing.T) {
	srv := fakeOllama(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	settingsSvc, resolved, err := Builder{}.OpenSettings(path)
	require.NoError(t, err)
	assert.Equal(t, path, resolved)

	require.NoError(t, settingsSvc.Set("dense.backend", "memory"))
	require.NoError(t, settingsSvc.Set("sparse.backend", "sqlite"))

	settings, err := settingsSvc.Get()
	require.NoError(t, err)
	settings.Embedding.BaseURL = srv.URL
	settings.Sparse.DataDir = t.TempDir()

	svc, err := Builder{}.Build(context.Background(), settings)
	require.NoError(t, err)
	require.NotNil(t, svc.Close)
	defer svc.Close()

	assert.NotNil(t, svc.Ask)
	assert.NotNil(t, svc.Ingest)
	assert.NotNil(t, svc.Catalog)
	assert.NotNil(t, svc.Health)

	rec := httptest.NewRecorder()
	svc.Metrics.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
