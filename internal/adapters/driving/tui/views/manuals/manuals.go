// Package manuals provides the manual picker view for the TUI.
package manuals

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ALEX8642/LLM-chatbot/internal/adapters/driving/tui/keymap"
	"github.com/ALEX8642/LLM-chatbot/internal/adapters/driving/tui/messages"
	"github.com/ALEX8642/LLM-chatbot/internal/adapters/driving/tui/styles"
	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
	"github.com/ALEX8642/LLM-chatbot/internal/core/ports/driving"
)

// emptyMessage is shown when the catalog has no entries.
const emptyMessage = "No manuals found. Run ingestion first."

// View lists catalog entries and emits ManualSelected on enter.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	catalog driving.CatalogService
	ctx     context.Context

	manuals  []domain.Manual
	selected int
	loaded   bool
	err      error
	width    int
	height   int
}

// NewView creates a new manual picker.
func NewView(s *styles.Styles, km *keymap.KeyMap, catalog driving.CatalogService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:  s,
		keymap:  km,
		catalog: catalog,
		ctx:     context.Background(),
		width:   80,
		height:  24,
	}
}

// WithContext sets the context for catalog reads.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the catalog.
func (v *View) Init() tea.Cmd {
	return v.load()
}

func (v *View) load() tea.Cmd {
	catalog, ctx := v.catalog, v.ctx
	return func() tea.Msg {
		if catalog == nil {
			return messages.ManualsLoaded{}
		}
		list, err := catalog.List(ctx)
		return messages.ManualsLoaded{Manuals: list, Err: err}
	}
}

// Update handles messages for the picker.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.ManualsLoaded:
		v.loaded = true
		v.manuals = msg.Manuals
		v.err = msg.Err
		v.selected = 0
		return v, nil

	case tea.KeyMsg:
		key := msg.String()
		switch {
		case keymap.Matches(key, v.keymap.Quit), key == "q":
			return v, tea.Quit
		case keymap.Matches(key, v.keymap.Up):
			if v.selected > 0 {
				v.selected--
			}
		case keymap.Matches(key, v.keymap.Down):
			if v.selected < len(v.manuals)-1 {
				v.selected++
			}
		case keymap.Matches(key, v.keymap.Select):
			if len(v.manuals) == 0 {
				return v, nil
			}
			manual := v.manuals[v.selected]
			return v, func() tea.Msg {
				return messages.ManualSelected{Manual: manual}
			}
		}
	}

	return v, nil
}

// View renders the picker.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Manuals"))
	b.WriteString("\n\n")

	switch {
	case !v.loaded:
		b.WriteString(v.styles.Muted.Render("Loading catalog..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case len(v.manuals) == 0:
		b.WriteString(v.styles.Muted.Render(emptyMessage))
	default:
		for i, m := range v.manuals {
			line := "  " + v.styles.Normal.Render(m.Label)
			if i == v.selected {
				line = "> " + v.styles.Selected.Render(m.Label)
			}
			b.WriteString(line)
			b.WriteString(v.styles.Muted.Render("  " + m.ID))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("[j/k] Navigate  [Enter] Select  [q] Quit"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}
