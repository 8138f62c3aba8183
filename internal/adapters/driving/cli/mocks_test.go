package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
)

type mockAskService struct {
	answer *domain.Answer
	err    error
	last   domain.AskRequest
}

func (m *mockAskService) Ask(_ context.Context, req domain.AskRequest) (*domain.Answer, error) {
	m.last = req
	if m.err != nil {
		return nil, m.err
	}
	if m.answer != nil {
		return m.answer, nil
	}
	product := "X200"
	return &domain.Answer{
		Answer:    "Hold the reset button for ten seconds [Page 3].",
		Citations: []domain.Citation{{Page: 3, Product: &product}},
		ManualSections: []domain.ManualSection{
			{Page: 3, Product: &product, Snippet: "Hold the reset button…"},
		},
		UsedModel: "command-r7b:latest",
		TopPages:  []int{3},
		ManualID:  req.ManualID,
	}, nil
}

type mockIngestService struct {
	report *domain.IngestReport
	err    error
	path   string
	opts   domain.IngestOptions
}

func (m *mockIngestService) Ingest(_ context.Context, path string, opts domain.IngestOptions) (*domain.IngestReport, error) {
	m.path, m.opts = path, opts
	if m.report == nil && m.err == nil {
		return &domain.IngestReport{
			Manuals: []domain.ManualReport{{
				Manual:      domain.Manual{ID: "x200", Label: "X200"},
				File:        "X200.pdf",
				Pages:       12,
				Chunks:      40,
				WriteResult: domain.WriteResult{DenseWritten: 40, SparseWritten: 40},
			}},
			Totals: domain.WriteResult{DenseWritten: 40, SparseWritten: 40},
		}, nil
	}
	return m.report, m.err
}

func (m *mockIngestService) IngestFile(ctx context.Context, path string, opts domain.IngestOptions) (*domain.IngestReport, error) {
	return m.Ingest(ctx, path, opts)
}

func (m *mockIngestService) IngestDirectory(ctx context.Context, dir string, opts domain.IngestOptions) (*domain.IngestReport, error) {
	return m.Ingest(ctx, dir, opts)
}

type mockCatalogService struct {
	manuals []domain.Manual
	err     error
}

func (m *mockCatalogService) List(context.Context) ([]domain.Manual, error) {
	return m.manuals, m.err
}

func (m *mockCatalogService) Get(_ context.Context, id string) (*domain.Manual, error) {
	for i := range m.manuals {
		if m.manuals[i].ID == id {
			return &m.manuals[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

type mockHealthService struct {
	results []domain.ComponentHealth
}

func (m *mockHealthService) Check(context.Context) []domain.ComponentHealth {
	return m.results
}

type mockSettingsService struct {
	values map[string]any
	getErr error
}

func (m *mockSettingsService) Keys() []string {
	keys := []string{"llm.api_key", "llm.model", "retrieval.top_k"}
	sort.Strings(keys)
	return keys
}

func (m *mockSettingsService) Get() (domain.Settings, error) {
	return domain.DefaultSettings(), m.getErr
}

func (m *mockSettingsService) Set(key, value string) error {
	if !strings.Contains(key, ".") {
		return errors.New("invalid input: unknown key")
	}
	m.values[key] = value
	return nil
}

func (m *mockSettingsService) Unset(key string) error {
	if !strings.Contains(key, ".") {
		return errors.New("invalid input: unknown key")
	}
	delete(m.values, key)
	return nil
}

func (m *mockSettingsService) Value(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// setupTestServices installs mocks and returns a cleanup that restores the
// previous services and resets flag variables.
func setupTestServices() func() {
	oldAsk, oldIngest, oldCatalog := askService, ingestService, catalogService
	oldHealth, oldSettings, oldMetrics := healthService, settingsService, metricsHandler
	oldBuilder, oldConfigPath := builder, configPath

	builder = nil
	askService = &mockAskService{}
	ingestService = &mockIngestService{}
	catalogService = &mockCatalogService{manuals: []domain.Manual{
		{ID: "x200-owners", Label: "X200 Owners", PDFURL: "/manuals/X200_Owners.pdf"},
	}}
	healthService = &mockHealthService{results: []domain.ComponentHealth{
		{Component: "embedding", Backend: "ollama"},
		{Component: "model", Backend: "ollama"},
	}}
	settingsService = &mockSettingsService{values: map[string]any{"llm.model": "llama3.2"}}
	metricsHandler = http.NotFoundHandler()
	configPath = "/tmp/manualqa/config.toml"

	return func() {
		askService, ingestService, catalogService = oldAsk, oldIngest, oldCatalog
		healthService, settingsService, metricsHandler = oldHealth, oldSettings, oldMetrics
		builder, configPath = oldBuilder, oldConfigPath
		resetFlags()
	}
}

func resetFlags() {
	askManual, askModel, askTheme, askJSON = "", "", "auto", false
	ingestReset, ingestWatch, ingestJSON = false, false, false
	manualsJSON, doctorJSON, versionJSON = false, false, false
	serveHTTP, serveAddr = false, ""
	verbose, cfgFile, logLevel = false, "", ""
}

// execute runs rootCmd with args and returns its combined output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
