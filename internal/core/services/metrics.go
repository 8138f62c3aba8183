package services

import (
	"context"
	"time"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
	"github.com/ALEX8642/LLM-chatbot/internal/core/ports/driven"
)

// noopMetrics discards all measurements.
type noopMetrics struct{}

func (noopMetrics) ObserveRetrieval(domain.RetrievalSource, time.Duration, int, error) {}
func (noopMetrics) ObserveAnswer(time.Duration, bool, error)                          {}
func (noopMetrics) AddIngested(domain.RetrievalSource, int)                           {}

func metricsOrNoop(m driven.MetricsRecorder) driven.MetricsRecorder {
	if m == nil {
		return noopMetrics{}
	}
	return m
}

// withTimeout bounds ctx when d is positive.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
