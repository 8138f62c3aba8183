package driven

import (
	"time"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
)

// MetricsRecorder receives pipeline measurements.
type MetricsRecorder interface {
	// ObserveRetrieval records one source's search latency and outcome.
	ObserveRetrieval(source domain.RetrievalSource, elapsed time.Duration, hits int, err error)

	// ObserveAnswer records an ask outcome.
	ObserveAnswer(elapsed time.Duration, partial bool, err error)

	// AddIngested records chunks written to one store.
	AddIngested(source domain.RetrievalSource, chunks int)
}
