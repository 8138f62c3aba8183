// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ALEX8642/LLM-chatbot/internal/adapters/driving/tui/styles"
)

// maxHistory bounds the remembered questions.
const maxHistory = 50

// QuestionInput wraps a bubbles textinput for typing questions and keeps a
// shell-style history of submitted ones.
type QuestionInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int

	history []string
	// cursor indexes history while browsing; len(history) means the draft.
	cursor int
	draft  string
}

// NewQuestionInput creates a new, focused question input.
func NewQuestionInput(s *styles.Styles) *QuestionInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Ask a question about this manual..."
	ti.Focus()
	ti.CharLimit = 512
	ti.Width = 60

	return &QuestionInput{
		textinput: ti,
		styles:    s,
		width:     60,
	}
}

// Init starts the cursor blink.
func (q *QuestionInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (q *QuestionInput) Update(msg tea.Msg) (*QuestionInput, tea.Cmd) {
	var cmd tea.Cmd
	q.textinput, cmd = q.textinput.Update(msg)
	return q, cmd
}

// View renders the question input.
func (q *QuestionInput) View() string {
	label := q.styles.Title.Render("Ask: ")
	field := q.styles.InputField.Render(q.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Value returns the current input value.
func (q *QuestionInput) Value() string {
	return q.textinput.Value()
}

// SetValue sets the input value.
func (q *QuestionInput) SetValue(value string) {
	q.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (q *QuestionInput) Focus() tea.Cmd {
	return q.textinput.Focus()
}

// Blur removes focus from the input.
func (q *QuestionInput) Blur() {
	q.textinput.Blur()
}

// Focused returns whether the input is focused.
func (q *QuestionInput) Focused() bool {
	return q.textinput.Focused()
}

// SetWidth sets the width of the input.
func (q *QuestionInput) SetWidth(width int) {
	q.width = width
	// Label and border padding.
	inputWidth := width - 10
	if inputWidth < 20 {
		inputWidth = 20
	}
	q.textinput.Width = inputWidth
}

// Reset clears the input and stops browsing history.
func (q *QuestionInput) Reset() {
	q.textinput.Reset()
	q.cursor = len(q.history)
	q.draft = ""
}

// Remember appends a submitted question to the history. Repeating the last
// question does not add a duplicate.
func (q *QuestionInput) Remember(question string) {
	if question == "" {
		return
	}
	if n := len(q.history); n == 0 || q.history[n-1] != question {
		q.history = append(q.history, question)
		if len(q.history) > maxHistory {
			q.history = q.history[len(q.history)-maxHistory:]
		}
	}
	q.cursor = len(q.history)
	q.draft = ""
}

// Previous replaces the input with the previous question. The text being
// typed is kept and comes back after Next walks past the newest entry.
func (q *QuestionInput) Previous() {
	if q.cursor == 0 {
		return
	}
	if q.cursor == len(q.history) {
		q.draft = q.textinput.Value()
	}
	q.cursor--
	q.show(q.history[q.cursor])
}

// Next moves toward newer questions and finally back to the draft.
func (q *QuestionInput) Next() {
	if q.cursor >= len(q.history) {
		return
	}
	q.cursor++
	if q.cursor == len(q.history) {
		q.show(q.draft)
		return
	}
	q.show(q.history[q.cursor])
}

// History returns the remembered questions, oldest first.
func (q *QuestionInput) History() []string {
	return append([]string(nil), q.history...)
}

func (q *QuestionInput) show(value string) {
	q.textinput.SetValue(value)
	q.textinput.CursorEnd()
}
