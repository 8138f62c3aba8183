package services

import (
	"context"
	"strings"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
	"github.com/ALEX8642/LLM-chatbot/internal/logger"
)

// CollectStream accumulates fragment text in arrival order until the done
// signal, the channel closing, or ctx ending. Malformed events are counted
// and skipped. Text gathered before an early end is kept.
func CollectStream(ctx context.Context, events <-chan domain.StreamEvent) domain.StreamResult {
	var b strings.Builder
	var result domain.StreamResult

	finish := func() domain.StreamResult {
		result.Text = strings.TrimSpace(b.String())
		return result
	}

	for {
		select {
		case <-ctx.Done():
			logger.Warn("Model stream: %v, keeping %d bytes", ctx.Err(), b.Len())
			return finish()

		case ev, ok := <-events:
			if !ok {
				logger.Warn("Model stream: closed before done signal, keeping %d bytes", b.Len())
				return finish()
			}

			switch ev.Kind {
			case domain.StreamFragment:
				b.WriteString(ev.Content)
			case domain.StreamMalformed:
				result.Malformed++
				logger.Debug("Model stream: skipping malformed fragment: %v", ev.Err)
			case domain.StreamDone:
				b.WriteString(ev.Content)
				result.Complete = true
				return finish()
			}
		}
	}
}
