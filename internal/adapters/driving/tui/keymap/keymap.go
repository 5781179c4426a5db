// Package keymap holds the TUI keybindings. The search view keeps its
// input focused while results stream in, so search bindings use control
// keys only; the menu has no input and takes plain letters.
package keymap

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

var _ help.KeyMap = (*KeyMap)(nil)

// KeyMap groups the bindings of every view.
type KeyMap struct {
	Quit key.Binding
	Help key.Binding
	Back key.Binding

	// Search view.
	Search        key.Binding // run now, skipping the debounce
	Refresh       key.Binding // run again bypassing the result cache
	Up            key.Binding
	Down          key.Binding
	Select        key.Binding
	SourceFilter  key.Binding
	InstallFilter key.Binding
	SortMode      key.Binding
	ClearQuery    key.Binding

	// Menu view.
	MenuUp   key.Binding
	MenuDown key.Binding
	Jump     key.Binding // straight to search
}

func bind(label, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, desc))
}

// DefaultKeyMap returns the stock bindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: bind("q", "quit", "q", "ctrl+c"),
		Help: bind("?", "help", "?"),
		Back: bind("esc", "back", "esc"),

		Search:        bind("enter", "search now", "enter"),
		Refresh:       bind("ctrl+r", "refresh", "ctrl+r"),
		Up:            bind("↑", "up", "up", "ctrl+p"),
		Down:          bind("↓", "down", "down", "ctrl+n"),
		Select:        bind("enter", "select", "enter"),
		SourceFilter:  bind("tab", "source", "tab"),
		InstallFilter: bind("ctrl+f", "installed", "ctrl+f"),
		SortMode:      bind("ctrl+s", "sort", "ctrl+s"),
		ClearQuery:    bind("ctrl+u", "clear", "ctrl+u"),

		MenuUp:   bind("k/↑", "up", "up", "k"),
		MenuDown: bind("j/↓", "down", "down", "j"),
		Jump:     bind("/", "search", "/", "s"),
	}
}

func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Help}
}

// ResultsHelp is shown in the status bar while results are listed.
func (k *KeyMap) ResultsHelp() []key.Binding {
	return []key.Binding{k.SourceFilter, k.InstallFilter, k.SortMode, k.Back}
}

func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Search, k.Refresh, k.ClearQuery},
		{k.SourceFilter, k.InstallFilter, k.SortMode},
		{k.Back, k.Help, k.Quit},
	}
}
