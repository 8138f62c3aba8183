package ask

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ALEX8642/LLM-chatbot/internal/adapters/driving/tui/components/status"
	"github.com/ALEX8642/LLM-chatbot/internal/adapters/driving/tui/messages"
	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
)

type stubAsk struct {
	answer *domain.Answer
	err    error
	last   domain.AskRequest
}

func (s *stubAsk) Ask(_ context.Context, req domain.AskRequest) (*domain.Answer, error) {
	s.last = req
	return s.answer, s.err
}

func newView(svc *stubAsk) *View {
	v := NewView(nil, nil, svc, "llama3.2")
	v.SetManual(domain.Manual{ID: "x200", Label: "X200 Owners Manual"})
	return v
}

func typeText(v *View, text string) *View {
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return v
}

func TestPerformAsk_SendsRequest(t *testing.T) {
	svc := &stubAsk{answer: &domain.Answer{Answer: "ok"}}
	v := newView(svc)

	msg := v.performAsk("how do I reset?")()

	completed, ok := msg.(messages.AskCompleted)
	require.True(t, ok)
	assert.Equal(t, "ok", completed.Answer.Answer)
	assert.Equal(t, domain.AskRequest{Query: "how do I reset?", ManualID: "x200", Model: "llama3.2"}, svc.last)
}

func TestView_EnterStartsThinking(t *testing.T) {
	v := newView(&stubAsk{})
	v = typeText(v, "reset?")

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.NotNil(t, cmd)
	assert.True(t, v.Busy())
	assert.Equal(t, status.StateThinking, v.statusbar.State())
	assert.Empty(t, v.input.Value())
}

func TestView_EmptyQuestionIgnored(t *testing.T) {
	v := newView(&stubAsk{})

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.False(t, v.Busy())
}

func TestView_AnswerRendered(t *testing.T) {
	product := "X200"
	v := newView(&stubAsk{})

	v, _ = v.Update(messages.AskCompleted{Query: "reset?", Answer: &domain.Answer{
		Answer:         "Hold reset for ten seconds [Page 3].",
		ManualSections: []domain.ManualSection{{Page: 3, Product: &product, Snippet: "Hold the reset…"}},
		TopPages:       []int{3},
	}})

	assert.Equal(t, status.StateAnswered, v.statusbar.State())
	assert.Equal(t, "Pages 3", v.statusbar.Message())
	out := v.View()
	assert.Contains(t, out, "Q: reset?")
	assert.Contains(t, out, "[Page 3] X200")
}

func TestView_PartialAnswer(t *testing.T) {
	v := newView(&stubAsk{})

	v, _ = v.Update(messages.AskCompleted{Query: "q", Answer: &domain.Answer{Answer: "Hold", Partial: true}})

	assert.Equal(t, status.StatePartial, v.statusbar.State())
	assert.Equal(t, "No pages cited", v.statusbar.Message())
}

func TestView_AskError(t *testing.T) {
	v := newView(&stubAsk{})

	v, _ = v.Update(messages.AskCompleted{Query: "q", Err: errors.New("model unavailable")})

	assert.Equal(t, status.StateError, v.statusbar.State())
	assert.False(t, v.Busy())
}

func TestView_EscGoesBack(t *testing.T) {
	v := newView(&stubAsk{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewManuals}, cmd())
}

func TestView_TabTogglesFocus(t *testing.T) {
	v := newView(&stubAsk{})

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.False(t, v.input.Focused())

	// Typing while the transcript has focus does not reach the input.
	v = typeText(v, "x")
	assert.Empty(t, v.input.Value())

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, v.input.Focused())
}

func TestSetManual_ClearsTranscript(t *testing.T) {
	v := newView(&stubAsk{})
	v, _ = v.Update(messages.AskCompleted{Query: "q", Answer: &domain.Answer{Answer: "a"}})

	v.SetManual(domain.Manual{ID: "z9", Label: "Z9"})

	assert.Equal(t, "z9", v.Manual().ID)
	assert.Zero(t, v.history.Len())
	assert.Equal(t, status.StateReady, v.statusbar.State())
}

func TestView_CtrlPRecallsQuestion(t *testing.T) {
	v := newView(&stubAsk{})
	v = typeText(v, "how do I reset?")
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	v, _ = v.Update(messages.AskCompleted{Query: "how do I reset?", Answer: &domain.Answer{Answer: "a"}})

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyCtrlP})
	assert.Equal(t, "how do I reset?", v.input.Value())

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	assert.Empty(t, v.input.Value())
}

func TestView_CtrlLClearsTranscript(t *testing.T) {
	v := newView(&stubAsk{})
	v, _ = v.Update(messages.AskCompleted{Query: "q", Answer: &domain.Answer{Answer: "a"}})
	require.NotZero(t, v.history.Len())

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyCtrlL})

	assert.Zero(t, v.history.Len())
	assert.Equal(t, status.StateReady, v.statusbar.State())
	assert.Equal(t, "x200", v.Manual().ID)
}
