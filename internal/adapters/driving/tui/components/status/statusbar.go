// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ALEX8642/LLM-chatbot/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateReady    State = "ready"
	StateThinking State = "thinking"
	StateAnswered State = "answered"
	StatePartial  State = "partial"
	StateError    State = "error"
)

const hintSeparator = " | "

var now = time.Now

// Bar displays request status, a spinner while thinking, and key hints.
// Hints that do not fit the width are dropped from the end.
type Bar struct {
	styles  *styles.Styles
	spinner spinner.Model
	hints   []key.Binding
	state   State
	message string
	width   int

	started time.Time
	elapsed time.Duration
}

// NewBar creates a new status bar that shows the given key hints.
func NewBar(s *styles.Styles, hints []key.Binding) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(s.Theme().Primary)

	return &Bar{
		styles:  s,
		spinner: sp,
		hints:   hints,
		state:   StateReady,
		width:   80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update advances the spinner while thinking.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); !ok || s.state != StateThinking {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// StartThinking switches to the thinking state and starts the spinner.
func (s *Bar) StartThinking() tea.Cmd {
	s.state = StateThinking
	s.message = ""
	s.started = now()
	s.elapsed = 0
	return s.spinner.Tick
}

// View renders the status bar.
func (s *Bar) View() string {
	inner := s.width - s.styles.StatusBar.GetHorizontalFrameSize()
	left := s.renderLeft()
	right := s.renderRight(inner - lipgloss.Width(left) - 1)

	padding := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	switch s.state {
	case StateThinking:
		text := " Thinking..."
		if d := now().Sub(s.started); d >= time.Second {
			text += " " + d.Truncate(time.Second).String()
		}
		return s.spinner.View() + s.styles.Muted.Render(text)
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StatePartial:
		return s.styles.Warning.Render("Answer interrupted " + s.message + s.took())
	case StateAnswered:
		return s.styles.Normal.Render(s.message + s.took())
	case StateReady:
	}
	return s.styles.Muted.Render("Ready")
}

func (s *Bar) took() string {
	if s.elapsed <= 0 {
		return ""
	}
	return fmt.Sprintf(" (%.1fs)", s.elapsed.Seconds())
}

// renderRight joins as many hints as fit in budget columns.
func (s *Bar) renderRight(budget int) string {
	var b strings.Builder
	for _, binding := range s.hints {
		h := binding.Help()
		hint := fmt.Sprintf("%s: %s", h.Key, h.Desc)
		if b.Len() > 0 {
			hint = hintSeparator + hint
		}
		if lipgloss.Width(b.String()+hint) > budget {
			break
		}
		b.WriteString(hint)
	}
	return s.styles.Muted.Render(b.String())
}

// SetState sets the current state. Leaving the thinking state records how
// long the request took.
func (s *Bar) SetState(state State) {
	if s.state == StateThinking && state != StateThinking {
		s.elapsed = now().Sub(s.started)
	}
	s.state = state
}

// Elapsed returns the duration of the last completed request.
func (s *Bar) Elapsed() time.Duration {
	return s.elapsed
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets the text shown next to the state.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.elapsed = 0
}
