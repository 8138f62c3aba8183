package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
	"github.com/ALEX8642/LLM-chatbot/internal/core/ports/driven"
)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider    = "embedding.provider"
	keyEmbedModel       = "embedding.model"
	keyEmbedBaseURL     = "embedding.base_url"
	keyEmbedAPIKey      = "embedding.api_key"
	keyEmbedDims        = "embedding.dimensions"
	keyEmbedTimeout     = "embedding.timeout"
	keyEmbedRPS         = "embedding.requests_per_second"
	keyEmbedConcurrency = "embedding.concurrency"
	keyLLMProvider      = "llm.provider"
	keyLLMModel         = "llm.model"
	keyLLMBaseURL       = "llm.base_url"
	keyLLMAPIKey        = "llm.api_key"
	keyLLMTimeout       = "llm.timeout"
	keyDenseBackend     = "dense.backend"
	keyDenseURL         = "dense.url"
	keyDenseAPIKey      = "dense.api_key"
	keyDenseCollection  = "dense.collection"
	keyDenseTimeout     = "dense.timeout"
	keySparseBackend    = "sparse.backend"
	keySparseURL        = "sparse.url"
	keySparseUsername   = "sparse.username"
	keySparsePassword   = "sparse.password"
	keySparseIndex      = "sparse.index"
	keySparseDataDir    = "sparse.data_dir"
	keySparseTimeout    = "sparse.timeout"
	keyTopK             = "retrieval.top_k"
	keyEvidenceWindow   = "retrieval.evidence_window"
	keyPriority         = "retrieval.priority"
	keySnippetChars     = "answer.snippet_chars"
	keyChunkWords       = "chunker.words"
	keyChunkOverlap     = "chunker.overlap"
	keyManualsDir       = "ingest.manuals_dir"
	keyCatalogPath      = "ingest.catalog_path"
	keyBatchSize        = "ingest.batch_size"
	keyServerAddr       = "server.addr"
)

// envOpenAIKey is read when an OpenAI provider has no configured key.
const envOpenAIKey = "OPENAI_API_KEY"

// keyKinds lists every settable key and its value kind.
var keyKinds = map[string]string{
	keyEmbedProvider: "string", keyEmbedModel: "string", keyEmbedBaseURL: "string",
	keyEmbedAPIKey: "string", keyEmbedDims: "int", keyEmbedTimeout: "duration",
	keyEmbedRPS: "float", keyEmbedConcurrency: "int",
	keyLLMProvider: "string", keyLLMModel: "string", keyLLMBaseURL: "string",
	keyLLMAPIKey: "string", keyLLMTimeout: "duration",
	keyDenseBackend: "string", keyDenseURL: "string", keyDenseAPIKey: "string",
	keyDenseCollection: "string", keyDenseTimeout: "duration",
	keySparseBackend: "string", keySparseURL: "string", keySparseUsername: "string",
	keySparsePassword: "string", keySparseIndex: "string", keySparseDataDir: "string",
	keySparseTimeout: "duration",
	keyTopK: "int", keyEvidenceWindow: "int", keyPriority: "string",
	keySnippetChars: "int", keyChunkWords: "int", keyChunkOverlap: "int",
	keyManualsDir: "string", keyCatalogPath: "string", keyBatchSize: "int",
	keyServerAddr: "string",
}

// SettingsService maps configuration keys onto domain.Settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Keys returns every recognised config key, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(keyKinds))
	for k := range keyKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the validated settings, with defaults for missing keys.
func (s *SettingsService) Get() (domain.Settings, error) {
	d := domain.DefaultSettings()
	var errs []error
	dur := func(key string, def time.Duration) time.Duration {
		v, err := s.getDuration(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}

	settings := domain.Settings{
		Embedding: domain.EmbeddingSettings{
			Provider:          domain.AIProvider(s.getString(keyEmbedProvider, string(d.Embedding.Provider))),
			Model:             s.getString(keyEmbedModel, d.Embedding.Model),
			BaseURL:           s.getString(keyEmbedBaseURL, d.Embedding.BaseURL),
			APIKey:            s.configStore.GetString(keyEmbedAPIKey),
			Dimensions:        s.getInt(keyEmbedDims, d.Embedding.Dimensions),
			Timeout:           dur(keyEmbedTimeout, d.Embedding.Timeout),
			RequestsPerSecond: s.configStore.GetFloat(keyEmbedRPS),
			Concurrency:       s.getInt(keyEmbedConcurrency, d.Embedding.Concurrency),
		},
		LLM: domain.LLMSettings{
			Provider: domain.AIProvider(s.getString(keyLLMProvider, string(d.LLM.Provider))),
			Model:    s.getString(keyLLMModel, d.LLM.Model),
			BaseURL:  s.getString(keyLLMBaseURL, d.LLM.BaseURL),
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
			Timeout:  dur(keyLLMTimeout, d.LLM.Timeout),
		},
		Dense: domain.DenseSettings{
			Backend:    domain.DenseBackend(s.getString(keyDenseBackend, string(d.Dense.Backend))),
			URL:        s.getString(keyDenseURL, d.Dense.URL),
			APIKey:     s.configStore.GetString(keyDenseAPIKey),
			Collection: s.getString(keyDenseCollection, d.Dense.Collection),
			Timeout:    dur(keyDenseTimeout, d.Dense.Timeout),
		},
		Sparse: domain.SparseSettings{
			Backend:  domain.SparseBackend(s.getString(keySparseBackend, string(d.Sparse.Backend))),
			URL:      s.getString(keySparseURL, d.Sparse.URL),
			Username: s.getString(keySparseUsername, d.Sparse.Username),
			Password: s.getString(keySparsePassword, d.Sparse.Password),
			Index:    s.getString(keySparseIndex, d.Sparse.Index),
			DataDir:  s.getString(keySparseDataDir, defaultDataDir()),
			Timeout:  dur(keySparseTimeout, d.Sparse.Timeout),
		},
		Retrieval: domain.RetrievalSettings{
			TopK:           s.getInt(keyTopK, d.Retrieval.TopK),
			EvidenceWindow: s.getInt(keyEvidenceWindow, d.Retrieval.EvidenceWindow),
			Priority:       domain.RetrievalSource(s.getString(keyPriority, string(d.Retrieval.Priority))),
		},
		Answer: domain.AnswerSettings{
			SnippetChars: s.getInt(keySnippetChars, d.Answer.SnippetChars),
		},
		Chunker: domain.ChunkerSettings{
			Words:   s.getInt(keyChunkWords, d.Chunker.Words),
			Overlap: s.getInt(keyChunkOverlap, d.Chunker.Overlap),
		},
		Ingest: domain.IngestSettings{
			ManualsDir: s.getString(keyManualsDir, d.Ingest.ManualsDir),
			BatchSize:  s.getInt(keyBatchSize, d.Ingest.BatchSize),
		},
		Server: domain.ServerSettings{
			Addr: s.getString(keyServerAddr, d.Server.Addr),
		},
	}

	settings.Ingest.CatalogPath = s.getString(keyCatalogPath,
		filepath.Join(settings.Ingest.ManualsDir, "manuals.json"))

	if settings.Embedding.Provider == domain.AIProviderOpenAI && settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = os.Getenv(envOpenAIKey)
	}
	if settings.LLM.Provider == domain.AIProviderOpenAI && settings.LLM.APIKey == "" {
		settings.LLM.APIKey = os.Getenv(envOpenAIKey)
	}

	if len(errs) > 0 {
		return settings, errs[0]
	}
	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

// Set parses value according to the key's kind, stores it, and saves.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := keyKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown key %q", domain.ErrInvalidInput, key)
	}

	var parsed any
	switch kind {
	case "int":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		parsed = n
	case "float":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
		}
		parsed = f
	case "duration":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%w: %s must be a duration like 30s", domain.ErrInvalidInput, key)
		}
		parsed = value
	default:
		parsed = value
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	if _, err := s.Get(); err != nil {
		// Drop the rejected value.
		if loadErr := s.configStore.Load(); loadErr != nil {
			return errors.Join(err, loadErr)
		}
		return err
	}
	if err := s.configStore.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// Unset removes a stored key so its default applies again, and saves.
func (s *SettingsService) Unset(key string) error {
	if _, ok := keyKinds[key]; !ok {
		return fmt.Errorf("%w: unknown key %q", domain.ErrInvalidInput, key)
	}
	if err := s.configStore.Delete(key); err != nil {
		return fmt.Errorf("unset %s: %w", key, err)
	}
	if err := s.configStore.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// Value returns the stored value of key, if any.
func (s *SettingsService) Value(key string) (any, bool) {
	return s.configStore.Get(key)
}

func (s *SettingsService) getString(key, def string) string {
	if v := strings.TrimSpace(s.configStore.GetString(key)); v != "" {
		return v
	}
	return def
}

func (s *SettingsService) getInt(key string, def int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return def
	}
	return s.configStore.GetInt(key)
}

// getDuration accepts a Go duration string or a number of seconds.
func (s *SettingsService) getDuration(key string, def time.Duration) (time.Duration, error) {
	v, ok := s.configStore.Get(key)
	if !ok {
		return def, nil
	}
	switch val := v.(type) {
	case string:
		d, err := time.ParseDuration(val)
		if err != nil {
			return def, fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
		}
		return d, nil
	case int, int64, float64:
		return time.Duration(s.configStore.GetFloat(key) * float64(time.Second)), nil
	default:
		return def, fmt.Errorf("%w: %s must be a duration", domain.ErrInvalidInput, key)
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".manualqa", "data")
	}
	return filepath.Join(home, ".manualqa", "data")
}
