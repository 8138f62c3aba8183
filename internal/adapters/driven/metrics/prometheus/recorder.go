// Package prometheus records pipeline metrics with the Prometheus client.
package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
	"github.com/ALEX8642/LLM-chatbot/internal/core/ports/driven"
)

// Ensure Recorder implements the interface.
var _ driven.MetricsRecorder = (*Recorder)(nil)

const namespace = "manualqa"

// Answer outcome label values.
const (
	outcomeComplete = "complete"
	outcomePartial  = "partial"
	outcomeError    = "error"
)

// Recorder owns a private registry so tests and multiple servers don't collide.
type Recorder struct {
	registry *prometheus.Registry

	retrievalLatency  *prometheus.HistogramVec
	retrievalHits     *prometheus.HistogramVec
	retrievalFailures *prometheus.CounterVec
	answerLatency     prometheus.Histogram
	answers           *prometheus.CounterVec
	ingested          *prometheus.CounterVec
}

// New creates a recorder with Go runtime and process collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		retrievalLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "retrieval_duration_seconds",
			Help:      "Latency of a single retrieval source, including query embedding for dense.",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}),
		retrievalHits: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "retrieval_hits",
			Help:      "Number of hits returned by a retrieval source.",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 20},
		}, []string{"source"}),
		retrievalFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retrieval_failures_total",
			Help:      "Retrieval source failures absorbed by degradation.",
		}, []string{"source"}),
		answerLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "answer_duration_seconds",
			Help:      "End-to-end ask latency.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 180},
		}),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_total",
			Help:      "Ask outcomes by kind.",
		}, []string{"outcome"}),
		ingested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingested_chunks_total",
			Help:      "Chunks written per store.",
		}, []string{"store"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.retrievalLatency,
		r.retrievalHits,
		r.retrievalFailures,
		r.answerLatency,
		r.answers,
		r.ingested,
	)
	return r
}

// ObserveRetrieval records one source's latency, hit count, and failure.
func (r *Recorder) ObserveRetrieval(source domain.RetrievalSource, elapsed time.Duration, hits int, err error) {
	label := string(source)
	r.retrievalLatency.WithLabelValues(label).Observe(elapsed.Seconds())
	if err != nil {
		r.retrievalFailures.WithLabelValues(label).Inc()
		return
	}
	r.retrievalHits.WithLabelValues(label).Observe(float64(hits))
}

// ObserveAnswer records an ask's latency and outcome.
func (r *Recorder) ObserveAnswer(elapsed time.Duration, partial bool, err error) {
	r.answerLatency.Observe(elapsed.Seconds())
	switch {
	case err != nil:
		r.answers.WithLabelValues(outcomeError).Inc()
	case partial:
		r.answers.WithLabelValues(outcomePartial).Inc()
	default:
		r.answers.WithLabelValues(outcomeComplete).Inc()
	}
}

// AddIngested adds written chunks for one store.
func (r *Recorder) AddIngested(source domain.RetrievalSource, chunks int) {
	if chunks <= 0 {
		return
	}
	r.ingested.WithLabelValues(string(source)).Add(float64(chunks))
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
