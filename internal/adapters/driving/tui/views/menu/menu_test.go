package menu

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paterkleomenis/archstore/internal/adapters/driving/tui/keymap"
	"github.com/paterkleomenis/archstore/internal/adapters/driving/tui/messages"
	"github.com/paterkleomenis/archstore/internal/adapters/driving/tui/styles"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNewView(t *testing.T) {
	view := NewView(styles.DefaultStyles(), nil)

	require.NotNil(t, view)
	assert.NotNil(t, view.styles)
	assert.Len(t, view.Items(), 5)
	assert.Equal(t, 0, view.Selected())
	assert.Equal(t, 80, view.width)
	assert.Equal(t, 24, view.height)
}

func TestNewView_NilStyles(t *testing.T) {
	view := NewView(nil, nil)

	require.NotNil(t, view)
	assert.NotNil(t, view.styles)
}

func TestView_Init(t *testing.T) {
	assert.Nil(t, NewView(nil, nil).Init())
}

func TestView_Items(t *testing.T) {
	items := NewView(nil, nil).Items()

	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.Label
	}
	assert.Equal(t, []string{"Search", "History", "Settings", "Help", "Quit"}, labels)
	assert.True(t, items[4].Quit)
}

func TestView_Update_WindowSize(t *testing.T) {
	view := NewView(nil, nil)

	updated, cmd := view.Update(tea.WindowSizeMsg{Width: 100, Height: 50})

	assert.Equal(t, view, updated)
	assert.Nil(t, cmd)
	assert.True(t, view.ready)
	assert.Equal(t, 100, view.width)
	assert.Equal(t, 50, view.height)
}

func TestView_Update_Navigate(t *testing.T) {
	view := NewView(nil, nil)

	view.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, view.Selected())

	for i := 0; i < 10; i++ {
		view.Update(runeKey('j'))
	}
	assert.Equal(t, 4, view.Selected(), "stops at the last item")

	view.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 3, view.Selected())

	for i := 0; i < 10; i++ {
		view.Update(runeKey('k'))
	}
	assert.Equal(t, 0, view.Selected(), "stops at the first item")
}

func TestView_Update_EnterChangesView(t *testing.T) {
	tests := []struct {
		name  string
		index int
		want  messages.ViewType
	}{
		{"search", 0, messages.ViewSearch},
		{"history", 1, messages.ViewHistory},
		{"settings", 2, messages.ViewSettings},
		{"help", 3, messages.ViewHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := NewView(nil, nil)
			view.selected = tt.index

			_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
			require.NotNil(t, cmd)
			assert.Equal(t, messages.ViewChanged{View: tt.want}, cmd())
		})
	}
}

func TestView_Update_EnterQuit(t *testing.T) {
	view := NewView(nil, nil)
	view.selected = 4

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView_Update_Shortcuts(t *testing.T) {
	view := NewView(nil, nil)

	_, cmd := view.Update(runeKey('/'))
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewSearch}, cmd())

	_, cmd = view.Update(runeKey('q'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView_Update_IgnoresOtherMessages(t *testing.T) {
	view := NewView(nil, nil)

	_, cmd := view.Update(messages.Quit{})
	assert.Nil(t, cmd)

	_, cmd = view.Update(runeKey('x'))
	assert.Nil(t, cmd)
	assert.Equal(t, 0, view.Selected())
}

func TestView_View(t *testing.T) {
	view := NewView(nil, nil)
	assert.Equal(t, "Initialising...", view.View())

	view.SetDimensions(80, 24)
	out := view.View()

	assert.Contains(t, out, "archstore")
	assert.Contains(t, out, "Arch package search")
	assert.Contains(t, out, "> Search")
	assert.Contains(t, out, "History")
	assert.Contains(t, out, "search official, AUR and Flatpak")
	assert.NotContains(t, out, "re-run a recent search", "hints show for the selected item only")
	assert.Contains(t, out, "[q] Quit")
}

func TestView_Update_CustomKeyMap(t *testing.T) {
	km := keymap.DefaultKeyMap()
	km.Jump = key.NewBinding(key.WithKeys("x"))
	view := NewView(nil, km)

	_, cmd := view.Update(runeKey('x'))
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewSearch}, cmd())

	_, cmd = view.Update(runeKey('/'))
	assert.Nil(t, cmd)
}
