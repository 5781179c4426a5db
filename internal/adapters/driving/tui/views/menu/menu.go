// Package menu is the start screen of the TUI.
package menu

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/paterkleomenis/archstore/internal/adapters/driving/tui/keymap"
	"github.com/paterkleomenis/archstore/internal/adapters/driving/tui/messages"
	"github.com/paterkleomenis/archstore/internal/adapters/driving/tui/styles"
)

// Item is one menu entry. Items with Quit set end the program instead of
// switching view.
type Item struct {
	Label string
	Hint  string
	View  messages.ViewType
	Quit  bool
}

var defaultItems = []Item{
	{Label: "Search", Hint: "search official, AUR and Flatpak", View: messages.ViewSearch},
	{Label: "History", Hint: "re-run a recent search", View: messages.ViewHistory},
	{Label: "Settings", Hint: "sources and search behaviour", View: messages.ViewSettings},
	{Label: "Help", Hint: "keybindings", View: messages.ViewHelp},
	{Label: "Quit", Quit: true},
}

type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	items    []Item
	selected int
	width    int
	height   int
	ready    bool
}

// NewView builds the menu. Nil arguments fall back to the defaults.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles: s,
		keymap: km,
		items:  append([]Item(nil), defaultItems...),
		width:  80,
		height: 24,
	}
}

func (v *View) Init() tea.Cmd { return nil }

func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case tea.KeyMsg:
		return v, v.handleKey(msg)
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keymap.MenuUp):
		v.selected = max(v.selected-1, 0)
	case key.Matches(msg, v.keymap.MenuDown):
		v.selected = min(v.selected+1, len(v.items)-1)
	case key.Matches(msg, v.keymap.Jump):
		return goTo(messages.ViewSearch)
	case key.Matches(msg, v.keymap.Select):
		if item := v.items[v.selected]; !item.Quit {
			return goTo(item.View)
		}
		return tea.Quit
	case key.Matches(msg, v.keymap.Quit):
		return tea.Quit
	}
	return nil
}

func goTo(view messages.ViewType) tea.Cmd {
	return func() tea.Msg { return messages.ViewChanged{View: view} }
}

func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n%s\n\n",
		v.styles.Title.Render("archstore"),
		v.styles.Muted.Render("Arch package search"))

	for i, item := range v.items {
		if i != v.selected {
			b.WriteString(v.styles.Normal.Render("  "+item.Label) + "\n")
			continue
		}
		line := v.styles.Subtitle.Render("> " + item.Label)
		if item.Hint != "" {
			line += "  " + v.styles.Muted.Render(item.Hint)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + v.styles.Help.Render("[j/k] Navigate  [Enter] Select  [/] Search  [q] Quit"))
	return b.String()
}

func (v *View) SetDimensions(width, height int) {
	v.width, v.height = width, height
	v.ready = true
}

func (v *View) Selected() int { return v.selected }

func (v *View) Items() []Item { return v.items }
