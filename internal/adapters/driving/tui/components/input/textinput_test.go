package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestNewQuestionInput(t *testing.T) {
	q := NewQuestionInput(nil)

	assert.True(t, q.Focused())
	assert.Empty(t, q.Value())
	assert.Contains(t, q.View(), "Ask:")
}

func TestQuestionInput_Typing(t *testing.T) {
	q := NewQuestionInput(nil)

	q, _ = q.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("reset?")})

	assert.Equal(t, "reset?", q.Value())

	q.Reset()
	assert.Empty(t, q.Value())
}

func TestQuestionInput_FocusAndWidth(t *testing.T) {
	q := NewQuestionInput(nil)

	q.Blur()
	assert.False(t, q.Focused())
	q.Focus()
	assert.True(t, q.Focused())

	q.SetWidth(10)
	assert.Equal(t, 20, q.textinput.Width)
	q.SetWidth(100)
	assert.Equal(t, 90, q.textinput.Width)
}

func TestQuestionInput_History(t *testing.T) {
	q := NewQuestionInput(nil)
	q.Remember("first")
	q.Remember("second")
	q.Remember("second")
	q.Remember("")
	assert.Equal(t, []string{"first", "second"}, q.History())

	q.SetValue("draft")
	q.Previous()
	assert.Equal(t, "second", q.Value())
	q.Previous()
	assert.Equal(t, "first", q.Value())
	q.Previous()
	assert.Equal(t, "first", q.Value())

	q.Next()
	assert.Equal(t, "second", q.Value())
	q.Next()
	assert.Equal(t, "draft", q.Value())
	q.Next()
	assert.Equal(t, "draft", q.Value())
}

func TestQuestionInput_HistoryIsBounded(t *testing.T) {
	q := NewQuestionInput(nil)
	for i := 0; i < maxHistory+5; i++ {
		q.Remember(string(rune('a'+i%26)) + string(rune('0'+i/26)))
	}

	assert.Len(t, q.History(), maxHistory)
}

func TestQuestionInput_NoHistory(t *testing.T) {
	q := NewQuestionInput(nil)
	q.SetValue("typing")

	q.Previous()
	q.Next()

	assert.Equal(t, "typing", q.Value())
}
