// Package status renders the one-line bar under the search results.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/paterkleomenis/archstore/internal/adapters/driving/tui/keymap"
	"github.com/paterkleomenis/archstore/internal/adapters/driving/tui/styles"
	"github.com/paterkleomenis/archstore/internal/core/domain"
)

type State string

const (
	StateReady     State = "ready"
	StateSearching State = "searching"
	StateError     State = "error"
	StateResults   State = "results"
)

// Bar shows session progress and failures on the left, the active
// filter, sort and key hints on the right.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	spinner spinner.Model

	state   State
	message string
	snap    domain.Snapshot
	shown   int
	view    domain.ViewSettings
	width   int
}

func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(s.Subtitle))
	return &Bar{
		styles:  s,
		keymap:  km,
		spinner: sp,
		state:   StateReady,
		view:    domain.DefaultViewSettings(),
		width:   80,
	}
}

func (s *Bar) Init() tea.Cmd { return nil }

// Update animates the spinner. Ticks arriving once the session has
// settled are swallowed, which ends the tick loop.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	tick, ok := msg.(spinner.TickMsg)
	if !ok || s.state != StateSearching {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(tick)
	return s, cmd
}

func (s *Bar) Tick() tea.Cmd { return s.spinner.Tick }

func (s *Bar) View() string {
	left, right := s.status(), s.hints()
	gap := max(s.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return s.styles.StatusBar.Width(s.width).Render(left + strings.Repeat(" ", gap) + right)
}

// Progress is "N of M sources responded" for the current session.
func (s *Bar) Progress() string {
	return fmt.Sprintf("%d of %d sources responded", s.snap.Completed, s.snap.Pending)
}

func (s *Bar) status() string {
	st := s.styles
	switch s.state {
	case StateSearching:
		text := s.spinner.View() + " Searching... " + s.Progress()
		if s.shown > 0 {
			text += fmt.Sprintf(" · %d results", s.shown)
		}
		return st.Normal.Render(text) + s.failed()
	case StateResults:
		if s.snap.AllFailed {
			return st.Error.Render("All sources failed") + s.failed()
		}
		return st.Normal.Render(fmt.Sprintf("%d results · %s", s.shown, s.Progress())) + s.failed()
	case StateError:
		if s.message == "" {
			return st.Error.Render("Error")
		}
		return st.Error.Render("Error: " + s.message)
	}
	if s.message == "" {
		return st.Muted.Render("Ready")
	}
	return st.Muted.Render(s.message)
}

func (s *Bar) failed() string {
	if len(s.snap.Failures) == 0 {
		return ""
	}
	names := make([]string, 0, len(s.snap.Failures))
	for _, f := range s.snap.Failures {
		names = append(names, f.Source.DisplayName())
	}
	return s.styles.Warning.Render(" · failed: " + strings.Join(names, ", "))
}

func (s *Bar) hints() string {
	source := "All"
	if s.view.Source != "" {
		source = s.view.Source.DisplayName()
	}
	summary := strings.Join([]string{source, string(s.view.Install), s.view.Sort.Description()}, " · ")

	bindings := s.keymap.ShortHelp()
	if s.shown > 0 {
		bindings = s.keymap.ResultsHelp()
	}
	keys := make([]string, len(bindings))
	for i, b := range bindings {
		keys[i] = b.Help().Key + ": " + b.Help().Desc
	}
	return s.styles.Subtitle.Render(summary) + "  " + s.styles.Muted.Render(strings.Join(keys, " | "))
}

// SetSnapshot records session progress. shown is how many entries are
// visible after filtering, which may be fewer than the snapshot holds.
func (s *Bar) SetSnapshot(snap domain.Snapshot, shown int) {
	s.snap, s.shown = snap, shown
	s.message = ""
	s.state = StateResults
	if snap.StillSearching {
		s.state = StateSearching
	}
}

func (s *Bar) SetView(view domain.ViewSettings) { s.view = view }
func (s *Bar) SetState(state State)             { s.state = state }
func (s *Bar) SetMessage(message string)        { s.message = message }
func (s *Bar) SetWidth(width int)               { s.width = width }

func (s *Bar) State() State { return s.state }

// Shown is the visible result count last passed to SetSnapshot.
func (s *Bar) Shown() int { return s.shown }

// Clear returns to Ready, keeping the view settings.
func (s *Bar) Clear() {
	s.state, s.message = StateReady, ""
	s.snap, s.shown = domain.Snapshot{}, 0
}
