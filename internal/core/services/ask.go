package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
	"github.com/ALEX8642/LLM-chatbot/internal/core/ports/driven"
	"github.com/ALEX8642/LLM-chatbot/internal/core/ports/driving"
	"github.com/ALEX8642/LLM-chatbot/internal/logger"
)

// Ensure AskService implements the interface.
var _ driving.AskService = (*AskService)(nil)

// AskService answers questions: retrieve, prompt, stream, assemble.
type AskService struct {
	fuser     *RetrievalFuser
	llm       driven.ChatStreamer
	assembler *AnswerAssembler
	metrics   driven.MetricsRecorder

	model         string
	streamTimeout time.Duration
}

// NewAskService creates an ask service. An empty model uses the streamer's default.
func NewAskService(
	fuser *RetrievalFuser,
	llm driven.ChatStreamer,
	assembler *AnswerAssembler,
	model string,
	streamTimeout time.Duration,
) *AskService {
	return &AskService{
		fuser:         fuser,
		llm:           llm,
		assembler:     assembler,
		metrics:       noopMetrics{},
		model:         model,
		streamTimeout: streamTimeout,
	}
}

// SetMetrics sets the metrics recorder.
func (s *AskService) SetMetrics(m driven.MetricsRecorder) {
	s.metrics = metricsOrNoop(m)
}

// Ask implements driving.AskService.
func (s *AskService) Ask(ctx context.Context, req domain.AskRequest) (*domain.Answer, error) {
	start := time.Now()
	answer, err := s.ask(ctx, req)
	s.metrics.ObserveAnswer(time.Since(start), answer != nil && answer.Partial, err)
	return answer, err
}

func (s *AskService) ask(ctx context.Context, req domain.AskRequest) (*domain.Answer, error) {
	logger.Section("Ask")

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is empty", domain.ErrInvalidInput)
	}
	if s.llm == nil {
		return nil, domain.ErrModelUnavailable
	}
	logger.Debug("Query: %q, manual: %q", query, req.ManualID)

	evidence, err := s.fuser.Retrieve(ctx, query, req.ManualID)
	if err != nil {
		logger.Error("Retrieval failed: %v", err)
		return nil, err
	}
	if evidence.Len() == 0 {
		logger.Info("No evidence for manual %q", req.ManualID)
	}

	prompt := BuildPrompt(query, evidence.Documents)
	logger.Debug("Prompt:\n%s", prompt)

	model := s.resolveModel(req.Model)
	logger.Info("Streaming answer from %s", model)

	streamCtx, cancel := withTimeout(ctx, s.streamTimeout)
	defer cancel()

	events, err := s.llm.ChatStream(streamCtx, prompt, model)
	if err != nil {
		if !errors.Is(err, domain.ErrModelUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrModelUnavailable, err)
		}
		logger.Error("Model stream failed: %v", err)
		return nil, err
	}

	result := CollectStream(streamCtx, events)
	if !result.Complete {
		logger.Warn("Model stream ended early, returning partial answer")
	}
	if result.Malformed > 0 {
		logger.Debug("Model stream: %d malformed fragments skipped", result.Malformed)
	}

	return s.assembler.Assemble(AnswerInput{
		Text:     result.Text,
		Model:    model,
		ManualID: req.ManualID,
		Partial:  !result.Complete,
		Evidence: evidence,
	}), nil
}

func (s *AskService) resolveModel(override string) string {
	if override != "" {
		return override
	}
	if s.model != "" {
		return s.model
	}
	return s.llm.ModelName()
}
