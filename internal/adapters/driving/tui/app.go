package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/paterkleomenis/archstore/internal/adapters/driving/tui/keymap"
	"github.com/paterkleomenis/archstore/internal/adapters/driving/tui/messages"
	"github.com/paterkleomenis/archstore/internal/adapters/driving/tui/styles"
	"github.com/paterkleomenis/archstore/internal/adapters/driving/tui/views/history"
	"github.com/paterkleomenis/archstore/internal/adapters/driving/tui/views/menu"
	"github.com/paterkleomenis/archstore/internal/adapters/driving/tui/views/search"
	"github.com/paterkleomenis/archstore/internal/adapters/driving/tui/views/settings"
	"github.com/paterkleomenis/archstore/internal/core/domain"
)

// App routes messages between the menu, search, history, settings and
// help screens. Only one screen is shown, but search snapshots are always
// delivered to the search view.
type App struct {
	ports *Ports
	ctx   context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap
	help   help.Model

	menuView     *menu.View
	searchView   *search.View
	historyView  *history.View
	settingsView *settings.View

	currentView messages.ViewType
	err         error

	width, height int
	ready         bool
}

var _ tea.Model = (*App)(nil)

// NewApp validates ports and builds every view up front.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	h := help.New()
	h.ShowAll = true

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		help:         h,
		menuView:     menu.NewView(s, km),
		searchView:   search.NewView(s, km, ports.Search, ports.Settings).WithPackages(ports.Packages),
		historyView:  history.NewView(s, ports.History),
		settingsView: settings.NewView(s, ports.Settings),
		currentView:  messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app. Search sessions derive
// from it.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	return a
}

// Init sets the window title and starts the search view's snapshot
// listener, which runs for the lifetime of the program.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("archstore - Arch package search"),
		a.searchView.Init(),
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.updateCurrent(msg)

	// Search messages arrive from background goroutines and must reach
	// the search view even when it is not shown, or the listener stops.
	case messages.SnapshotReceived, messages.SearchStarted, messages.DetailsLoaded:
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = a.searchView.Err()
		return a, cmd

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.HistorySelected:
		a.currentView = messages.ViewSearch
		a.searchView.Reset()
		return a, a.searchView.Run(msg.Query)

	case messages.HistoryLoaded, messages.HistoryCleared:
		a.historyView, cmd = a.historyView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded, messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		if a.currentView == messages.ViewSearch {
			a.searchView, cmd = a.searchView.Update(msg)
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	return a, a.updateCurrent(msg)
}

// updateCurrent forwards msg to the active view.
func (a *App) updateCurrent(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = a.searchView.Err()
	case messages.ViewHistory:
		a.historyView, cmd = a.historyView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		if k, ok := msg.(tea.KeyMsg); ok && (key.Matches(k, a.keymap.Back) || key.Matches(k, a.keymap.Quit)) {
			a.currentView = messages.ViewMenu
		}
	}
	return cmd
}

// switchTo activates view and runs its initialisation.
func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	a.currentView = view
	a.err = nil

	switch view {
	case messages.ViewSearch:
		return a.searchView.Activate()
	case messages.ViewHistory:
		return a.historyView.Init()
	case messages.ViewSettings:
		a.settingsView.Reset()
		return a.settingsView.Init()
	case messages.ViewMenu:
		// Leaving search stops any in-flight session.
		a.searchView.Close()
	case messages.ViewHelp:
	}
	return nil
}

func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	switch a.currentView {
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewHistory:
		return a.historyView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.helpScreen()
	}
	return a.menuView.View()
}

func (a *App) helpScreen() string {
	badges := make([]string, 0, len(domain.AllSourceKinds()))
	for _, kind := range domain.AllSourceKinds() {
		badges = append(badges, "  "+a.styles.Badge(kind).Render(kind.DisplayName()))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		a.styles.Title.Render("Help"),
		"",
		a.styles.Subtitle.Render("Search"),
		"Type to search. Results stream in as each source responds.",
		"",
		a.help.View(a.keymap),
		"",
		a.styles.Subtitle.Render("Sources"),
		strings.Join(badges, "\n"),
		"",
		a.styles.Help.Render("[esc] back to menu"),
	)
}

// Run starts the TUI application and blocks until it exits.
func (a *App) Run() error {
	defer a.searchView.Close()

	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

func (a *App) CurrentView() messages.ViewType { return a.currentView }

// Query is the text in the search input.
func (a *App) Query() string { return a.searchView.Query() }

// Entries are the search results as currently displayed.
func (a *App) Entries() []domain.AggregateEntry { return a.searchView.Entries() }

// Err is the last error reported by any view.
func (a *App) Err() error { return a.err }

// Ready reports whether the first window size has arrived.
func (a *App) Ready() bool { return a.ready }

// SetDimensions resizes every view, shown or not.
func (a *App) SetDimensions(width, height int) {
	a.width, a.height = width, height
	a.ready = true
	a.help.Width = width

	a.menuView.SetDimensions(width, height)
	a.searchView.SetDimensions(width, height)
	a.historyView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
