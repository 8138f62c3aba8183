package driving

import (
	"context"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
)

// AskService answers questions against one manual.
type AskService interface {
	// Ask retrieves evidence for req.ManualID, prompts the model, and returns
	// a cited answer. Fails with domain.ErrRetrievalUnavailable or
	// domain.ErrModelUnavailable; empty evidence is not an error.
	Ask(ctx context.Context, req domain.AskRequest) (*domain.Answer, error)
}
