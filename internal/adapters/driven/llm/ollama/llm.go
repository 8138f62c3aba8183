// Package ollama provides a streaming chat adapter using Ollama.
package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	ollamaembed "github.com/ALEX8642/LLM-chatbot/internal/adapters/driven/embedding/ollama"
	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
	"github.com/ALEX8642/LLM-chatbot/internal/core/ports/driven"
)

// Ensure ChatService implements the interface.
var _ driven.ChatStreamer = (*ChatService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "command-r7b:latest"
	DefaultTimeout = 180 * time.Second
)

// maxLineSize bounds a single NDJSON line.
const maxLineSize = 1024 * 1024

// Config holds configuration for the Ollama chat service.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the default chat model (default: command-r7b:latest).
	Model string

	// Timeout bounds the whole streamed response (default: 180s).
	Timeout time.Duration
}

// ChatService streams chat completions from Ollama's /api/chat endpoint.
type ChatService struct {
	client  *http.Client
	baseURL string
	model   string
}

// chatRequest is the Ollama /api/chat request format.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// chatMessage is the Ollama chat message format.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is one line of the Ollama /api/chat stream.
type chatResponse struct {
	Message *chatMessage `json:"message"`
	Done    bool         `json:"done"`
	Error   string       `json:"error"`
}

// NewChatService creates a new Ollama chat service.
func NewChatService(cfg Config) *ChatService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &ChatService{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
	}
}

// ChatStream sends prompt as a single user message and streams the reply.
func (s *ChatService) ChatStream(ctx context.Context, prompt, model string) (<-chan domain.StreamEvent, error) {
	if model == "" {
		model = s.model
	}

	body, err := json.Marshal(chatRequest{
		Model:    model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
		Stream:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("ollama: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ollama: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: ollama: %w", domain.ErrModelUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: ollama: API returned status %d: %s",
			domain.ErrModelUnavailable, resp.StatusCode, bytes.TrimSpace(msg))
	}

	events := make(chan domain.StreamEvent)
	go s.readStream(ctx, resp.Body, events)
	return events, nil
}

// readStream decodes NDJSON lines into events until done, EOF, or ctx ends.
func (s *ChatService) readStream(ctx context.Context, body io.ReadCloser, events chan<- domain.StreamEvent) {
	defer close(events)
	defer body.Close()

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		ev := decodeChatLine(line)
		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
		if ev.Kind == domain.StreamDone {
			return
		}
	}
}

// decodeChatLine turns one stream line into an event.
func decodeChatLine(line []byte) domain.StreamEvent {
	var resp chatResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		return domain.StreamEvent{Kind: domain.StreamMalformed, Err: err}
	}
	if resp.Error != "" {
		return domain.StreamEvent{Kind: domain.StreamMalformed, Err: fmt.Errorf("ollama: %s", resp.Error)}
	}

	var content string
	if resp.Message != nil {
		content = resp.Message.Content
	}
	if resp.Done {
		return domain.StreamEvent{Kind: domain.StreamDone, Content: content}
	}
	if resp.Message == nil {
		return domain.StreamEvent{Kind: domain.StreamMalformed, Err: fmt.Errorf("ollama: line has no message")}
	}
	return domain.StreamEvent{Kind: domain.StreamFragment, Content: content}
}

// ModelName returns the default chat model.
func (s *ChatService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable by checking the /api/tags endpoint.
func (s *ChatService) Ping(ctx context.Context) error {
	return ollamaembed.PingTags(ctx, s.client, s.baseURL)
}

// Close releases resources.
func (s *ChatService) Close() error {
	return nil
}
