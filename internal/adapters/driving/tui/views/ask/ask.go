// Package ask provides the question and answer view for the TUI.
package ask

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ALEX8642/LLM-chatbot/internal/adapters/driving/tui/components/input"
	"github.com/ALEX8642/LLM-chatbot/internal/adapters/driving/tui/components/status"
	"github.com/ALEX8642/LLM-chatbot/internal/adapters/driving/tui/keymap"
	"github.com/ALEX8642/LLM-chatbot/internal/adapters/driving/tui/messages"
	"github.com/ALEX8642/LLM-chatbot/internal/adapters/driving/tui/styles"
	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
	"github.com/ALEX8642/LLM-chatbot/internal/core/ports/driving"
)

// chromeHeight is the rows taken by the header, input box, and status bar.
const chromeHeight = 8

// View is the question input, a scrolling transcript, and a status bar.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	input      *input.QuestionInput
	transcript viewport.Model
	statusbar  *status.Bar

	askService driving.AskService
	ctx        context.Context

	manual  domain.Manual
	model   string
	history strings.Builder
	busy    bool
	width   int
	height  int
}

// NewView creates a new ask view. model overrides the configured model when set.
func NewView(s *styles.Styles, km *keymap.KeyMap, askService driving.AskService, model string) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQuestionInput(s),
		transcript: viewport.New(80, 24-chromeHeight),
		statusbar:  status.NewBar(s, km.AskHelp()),
		askService: askService,
		ctx:        context.Background(),
		model:      model,
	}
	v.SetDimensions(80, 24)
	return v
}

// WithContext sets the context for ask requests.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetManual selects the manual questions are asked against and clears the transcript.
func (v *View) SetManual(m domain.Manual) {
	v.manual = m
	v.history.Reset()
	v.transcript.SetContent("")
	v.statusbar.Clear()
	v.input.Reset()
	v.input.Focus()
}

// Manual returns the selected manual.
func (v *View) Manual() domain.Manual {
	return v.manual
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AskCompleted:
		v.handleAskCompleted(msg)
		return v, nil
	}

	var cmd tea.Cmd
	v.statusbar, cmd = v.statusbar.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	switch {
	case keymap.Matches(key, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewManuals}
		}

	case keymap.Matches(key, v.keymap.Focus):
		if v.input.Focused() {
			v.input.Blur()
			return v, nil
		}
		return v, v.input.Focus()

	case keymap.Matches(key, v.keymap.Clear):
		v.history.Reset()
		v.transcript.SetContent("")
		v.statusbar.Clear()
		return v, nil
	}

	if !v.input.Focused() {
		var cmd tea.Cmd
		v.transcript, cmd = v.transcript.Update(msg)
		return v, cmd
	}

	switch {
	case keymap.Matches(key, v.keymap.HistoryPrev):
		v.input.Previous()
		return v, nil
	case keymap.Matches(key, v.keymap.HistoryNext):
		v.input.Next()
		return v, nil
	}

	if keymap.Matches(key, v.keymap.Ask) {
		query := strings.TrimSpace(v.input.Value())
		if query == "" || v.busy {
			return v, nil
		}
		v.busy = true
		v.input.Remember(query)
		v.input.Reset()
		return v, tea.Batch(v.statusbar.StartThinking(), v.performAsk(query))
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) performAsk(query string) tea.Cmd {
	svc, ctx := v.askService, v.ctx
	req := domain.AskRequest{Query: query, ManualID: v.manual.ID, Model: v.model}
	return func() tea.Msg {
		if svc == nil {
			return messages.AskCompleted{Query: query, Err: fmt.Errorf("ask service not configured")}
		}
		answer, err := svc.Ask(ctx, req)
		return messages.AskCompleted{Query: query, Answer: answer, Err: err}
	}
}

func (v *View) handleAskCompleted(msg messages.AskCompleted) {
	v.busy = false

	if v.history.Len() > 0 {
		v.history.WriteString("\n")
	}
	v.history.WriteString(v.styles.Question.Render("Q: " + msg.Query))
	v.history.WriteString("\n")

	if msg.Err != nil {
		v.history.WriteString(v.styles.Error.Render(msg.Err.Error()))
		v.history.WriteString("\n")
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
	} else {
		v.history.WriteString(v.renderAnswer(msg.Answer))
		v.statusbar.SetState(status.StateAnswered)
		if msg.Answer.Partial {
			v.statusbar.SetState(status.StatePartial)
		}
		v.statusbar.SetMessage(pagesLabel(msg.Answer.TopPages))
	}

	v.transcript.SetContent(lipgloss.NewStyle().Width(v.transcript.Width).Render(v.history.String()))
	v.transcript.GotoBottom()
}

func (v *View) renderAnswer(a *domain.Answer) string {
	var b strings.Builder
	b.WriteString(v.styles.Normal.Render(a.Answer))
	b.WriteString("\n")

	if len(a.ManualSections) > 0 {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("Sources:"))
		b.WriteString("\n")
	}
	for _, sec := range a.ManualSections {
		ref := fmt.Sprintf("[Page %d]", sec.Page)
		if sec.Product != nil {
			ref += " " + *sec.Product
		}
		b.WriteString("  " + v.styles.Citation.Render(ref) + " " + v.styles.Muted.Render(sec.Snippet))
		b.WriteString("\n")
	}
	return b.String()
}

func pagesLabel(pages []int) string {
	if len(pages) == 0 {
		return "No pages cited"
	}
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = fmt.Sprint(p)
	}
	return "Pages " + strings.Join(parts, ", ")
}

// View renders the ask view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("manualqa"))
	if v.manual.Label != "" {
		b.WriteString("  " + v.styles.Subtitle.Render(v.manual.Label))
	}
	b.WriteString("\n\n")
	b.WriteString(v.input.View())
	b.WriteString("\n")
	b.WriteString(v.styles.AnswerPane.Render(v.transcript.View()))
	b.WriteString("\n")
	b.WriteString(v.statusbar.View())

	return b.String()
}

// SetDimensions resizes the input, transcript, and status bar.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height

	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)

	paneHeight := height - chromeHeight
	if paneHeight < 3 {
		paneHeight = 3
	}
	v.transcript.Width = max(width-4, 20)
	v.transcript.Height = paneHeight
}

// Busy reports whether a question is in flight.
func (v *View) Busy() bool {
	return v.busy
}
