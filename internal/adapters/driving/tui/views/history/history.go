// Package history provides the recent searches view for the TUI.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/paterkleomenis/archstore/internal/adapters/driving/tui/messages"
	"github.com/paterkleomenis/archstore/internal/adapters/driving/tui/styles"
	"github.com/paterkleomenis/archstore/internal/core/domain"
	"github.com/paterkleomenis/archstore/internal/core/ports/driving"
)

// recentLimit is how many past searches the view lists.
const recentLimit = 50

// View lists recent searches. Enter re-runs the selected query.
type View struct {
	styles         *styles.Styles
	historyService driving.HistoryService

	entries  []domain.HistoryEntry
	selected int
	width    int
	height   int
	ready    bool
	err      error
	loading  bool
}

// NewView creates a new history view. historyService may be nil when
// history is not persisted.
func NewView(s *styles.Styles, historyService driving.HistoryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:         s,
		historyService: historyService,
	}
}

// Init loads recent searches.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.load()
}

func (v *View) load() tea.Cmd {
	return func() tea.Msg {
		if v.historyService == nil {
			return messages.HistoryLoaded{Err: ErrNoHistoryService}
		}
		entries, err := v.historyService.Recent(context.Background(), recentLimit)
		return messages.HistoryLoaded{Entries: entries, Err: err}
	}
}

func (v *View) clear() tea.Cmd {
	return func() tea.Msg {
		if v.historyService == nil {
			return messages.HistoryCleared{Err: ErrNoHistoryService}
		}
		return messages.HistoryCleared{Err: v.historyService.Clear(context.Background())}
	}
}

// Update handles messages for the history view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.HistoryLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.entries = msg.Entries
		if v.selected >= len(v.entries) {
			v.selected = 0
		}
		return v, nil

	case messages.HistoryCleared:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.entries = nil
		v.selected = 0
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.entries)-1 {
			v.selected++
		}
	case "enter":
		if v.selected < len(v.entries) {
			query := v.entries[v.selected].Query
			return v, func() tea.Msg {
				return messages.HistorySelected{Query: query}
			}
		}
	case "c":
		return v, v.clear()
	case "r":
		v.loading = true
		return v, v.load()
	case "q":
		return v, tea.Quit
	}
	return v, nil
}

// View renders the history view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Recent searches"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading history..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.entries) == 0:
		b.WriteString(v.styles.Muted.Render("No searches yet."))
	default:
		for i := range v.entries {
			b.WriteString(v.renderEntry(i, &v.entries[i]))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[enter] search again  [c] clear  [r] reload  [esc] back  [q] quit"))
	return b.String()
}

func (v *View) renderEntry(index int, e *domain.HistoryEntry) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	when := e.SearchedAt.Local().Format("2006-01-02 15:04")
	count := fmt.Sprintf("%d results", e.ResultCount)

	maxQueryLen := v.width - len(when) - len(count) - 10
	if maxQueryLen < 10 {
		maxQueryLen = 10
	}
	query := e.Query
	if len([]rune(query)) > maxQueryLen {
		query = string([]rune(query)[:maxQueryLen-3]) + "..."
	}

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s  %s", indicator, maxQueryLen, query, count, when))
	}
	return v.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxQueryLen, query)) +
		v.styles.Subtitle.Render(count) + "  " +
		v.styles.Muted.Render(when)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Entries returns the listed searches.
func (v *View) Entries() []domain.HistoryEntry {
	return v.entries
}

// SelectedIndex returns the currently selected entry index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
