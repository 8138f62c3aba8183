// Package openai provides a streaming chat adapter for OpenAI-compatible APIs.
package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
	"github.com/ALEX8642/LLM-chatbot/internal/core/ports/driven"
)

// Ensure ChatService implements the interface.
var _ driven.ChatStreamer = (*ChatService)(nil)

// Default configuration values.
const (
	DefaultModel   = openai.GPT4oMini
	DefaultTimeout = 180 * time.Second
)

// Config holds configuration for the OpenAI chat service.
type Config struct {
	// APIKey is the API key (required).
	APIKey string

	// BaseURL overrides the API base URL for Azure or compatible servers.
	BaseURL string

	// Model is the default chat model (default: gpt-4o-mini).
	Model string

	// Timeout bounds the whole streamed response (default: 180s).
	Timeout time.Duration
}

// ChatService streams chat completions through go-openai.
type ChatService struct {
	client *openai.Client
	model  string
}

// NewChatService creates a new OpenAI chat service.
func NewChatService(cfg Config) (*ChatService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &ChatService{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
	}, nil
}

// ChatStream sends prompt as a single user message and streams the reply.
// The done event is sent when a choice reports a finish reason.
func (s *ChatService) ChatStream(ctx context.Context, prompt, model string) (<-chan domain.StreamEvent, error) {
	if model == "" {
		model = s.model
	}

	stream, err := s.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Stream: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: openai: %w", domain.ErrModelUnavailable, err)
	}

	events := make(chan domain.StreamEvent)
	go func() {
		defer close(events)
		defer stream.Close()

		send := func(ev domain.StreamEvent) bool {
			select {
			case events <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for {
			response, err := stream.Recv()
			if err != nil {
				if !errors.Is(err, io.EOF) && ctx.Err() == nil {
					send(domain.StreamEvent{Kind: domain.StreamMalformed, Err: fmt.Errorf("openai: %w", err)})
				}
				return
			}

			for _, choice := range response.Choices {
				if choice.FinishReason != "" {
					send(domain.StreamEvent{Kind: domain.StreamDone, Content: choice.Delta.Content})
					return
				}
				if choice.Delta.Content == "" {
					continue
				}
				if !send(domain.StreamEvent{Kind: domain.StreamFragment, Content: choice.Delta.Content}) {
					return
				}
			}
		}
	}()

	return events, nil
}

// ModelName returns the default chat model.
func (s *ChatService) ModelName() string {
	return s.model
}

// Ping validates the API key and endpoint by listing models.
func (s *ChatService) Ping(ctx context.Context) error {
	if _, err := s.client.ListModels(ctx); err != nil {
		return fmt.Errorf("openai: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *ChatService) Close() error {
	return nil
}
