package driven

import (
	"context"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
)

// ChatStreamer sends a prompt to a language model and streams the reply.
//
// A connection failure or non-success status is returned from ChatStream
// wrapped in domain.ErrModelUnavailable, before any event is sent.
// Once streaming, the channel yields decoded events in arrival order and
// is closed when the stream ends. A closed channel without a StreamDone
// event means the stream was cut short; cancelling ctx closes the channel.
type ChatStreamer interface {
	// ChatStream starts a streaming chat completion for a single user message.
	ChatStream(ctx context.Context, prompt, model string) (<-chan domain.StreamEvent, error)

	// ModelName returns the default model identifier.
	ModelName() string

	// Ping validates the service is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
