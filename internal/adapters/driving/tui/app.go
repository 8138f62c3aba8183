package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ALEX8642/LLM-chatbot/internal/adapters/driving/tui/keymap"
	"github.com/ALEX8642/LLM-chatbot/internal/adapters/driving/tui/messages"
	"github.com/ALEX8642/LLM-chatbot/internal/adapters/driving/tui/styles"
	"github.com/ALEX8642/LLM-chatbot/internal/adapters/driving/tui/views/ask"
	"github.com/ALEX8642/LLM-chatbot/internal/adapters/driving/tui/views/manuals"
	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
)

// Options preselects what the app asks against.
type Options struct {
	// ManualID skips the picker when set.
	ManualID string

	// Model overrides the configured model for every question.
	Model string

	// Theme is auto, dark, or light. Empty means auto.
	Theme string
}

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles

	manualsView *manuals.View
	askView     *ask.View

	currentView messages.ViewType

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports, opts Options) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	theme, err := styles.ThemeByName(opts.Theme)
	if err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	s := styles.NewStyles(theme)
	km := keymap.DefaultKeyMap()

	a := &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		manualsView: manuals.NewView(s, km, ports.Catalog),
		askView:     ask.NewView(s, km, ports.Ask, opts.Model),
		currentView: messages.ViewManuals,
	}

	if opts.ManualID != "" {
		a.askView.SetManual(domain.Manual{ID: opts.ManualID, Label: opts.ManualID})
		a.currentView = messages.ViewAsk
	}
	return a, nil
}

// WithContext sets the context for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.manualsView.WithContext(ctx)
	a.askView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.SetWindowTitle("manualqa")}
	if a.currentView == messages.ViewAsk {
		cmds = append(cmds, a.askView.Init())
	} else {
		cmds = append(cmds, a.manualsView.Init())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.manualsView.SetDimensions(msg.Width, msg.Height)
		a.askView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

	case messages.ManualsLoaded:
		a.manualsView, cmd = a.manualsView.Update(msg)
		return a, cmd

	case messages.ManualSelected:
		a.askView.SetManual(msg.Manual)
		a.currentView = messages.ViewAsk
		return a, a.askView.Init()

	case messages.AskCompleted:
		a.askView, cmd = a.askView.Update(msg)
		return a, cmd

	case messages.ViewChanged:
		// Without a catalog there is nothing to pick from.
		if msg.View == messages.ViewManuals && a.ports.Catalog == nil {
			return a, tea.Quit
		}
		a.currentView = msg.View
		if msg.View == messages.ViewManuals {
			return a, a.manualsView.Init()
		}
		return a, nil
	}

	switch a.currentView {
	case messages.ViewManuals:
		a.manualsView, cmd = a.manualsView.Update(msg)
	case messages.ViewAsk:
		a.askView, cmd = a.askView.Update(msg)
	}
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	if a.currentView == messages.ViewAsk {
		return a.askView.View()
	}
	return a.manualsView.View()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.Update(tea.WindowSizeMsg{Width: width, Height: height})
}
