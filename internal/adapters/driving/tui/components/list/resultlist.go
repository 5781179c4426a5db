// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/paterkleomenis/archstore/internal/adapters/driving/tui/styles"
	"github.com/paterkleomenis/archstore/internal/core/domain"
)

// linesPerEntry is the rendered height of one entry: name line plus
// description line.
const linesPerEntry = 2

// ResultList displays aggregated package entries in a navigable list.
// Replacing the entries keeps the cursor on the same package when it is
// still present, so streaming snapshots do not make the selection jump.
type ResultList struct {
	entries  []domain.AggregateEntry
	total    int
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyUp, tea.KeyCtrlP:
			r.MoveUp()
		case tea.KeyDown, tea.KeyCtrlN:
			r.MoveDown()
		case tea.KeyPgUp:
			r.move(-r.visibleCount())
		case tea.KeyPgDown:
			r.move(r.visibleCount())
		}
	}
	return r, nil
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.entries) == 0 {
		return r.styles.Muted.Render("No results")
	}

	lines := make([]string, 0, len(r.entries)*linesPerEntry+2)

	header := fmt.Sprintf("Results (%d)", len(r.entries))
	if r.total > len(r.entries) {
		header = fmt.Sprintf("Results (%d of %d)", len(r.entries), r.total)
	}
	lines = append(lines, r.styles.Subtitle.Render(header), "")

	visible := r.visibleCount()
	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := start + visible
	if end > len(r.entries) {
		end = len(r.entries)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderEntry(i, &r.entries[i]))
	}

	return strings.Join(lines, "\n")
}

func (r *ResultList) visibleCount() int {
	n := (r.height - 2) / linesPerEntry
	if n < 1 {
		n = 1
	}
	return n
}

// renderEntry formats one entry as a name line and a description line.
func (r *ResultList) renderEntry(index int, e *domain.AggregateEntry) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	badge := "[" + e.SourceLabel() + "]"
	version := strings.Join(e.Versions(), ", ")
	installed := ""
	if e.InstalledAny {
		installed = " ✓ installed"
	}

	maxNameLen := r.width - len([]rune(badge)) - len([]rune(version)) - len([]rune(installed)) - 6
	if maxNameLen < 10 {
		maxNameLen = 10
	}
	name := truncate(e.DisplayName, maxNameLen)

	var nameLine string
	if index == r.selected {
		nameLine = r.styles.Selected.Render(fmt.Sprintf("%s%s %s %s%s", indicator, name, badge, version, installed))
	} else {
		nameLine = r.styles.Normal.Render(indicator+name+" ") +
			r.styles.Badge(e.PrimarySource()).Render(badge) + " " +
			r.styles.Muted.Render(version) +
			r.styles.Installed.Render(installed)
	}

	desc := truncate(e.Description, r.width-6)
	return nameLine + "\n" + r.styles.Muted.Render("    "+desc)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	runes := []rune(s)
	if n < 4 {
		n = 4
	}
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// SetEntries replaces the entries. total is the count before display
// truncation; pass len(entries) when nothing was cut.
func (r *ResultList) SetEntries(entries []domain.AggregateEntry, total int) {
	var key domain.NormalizedKey
	if cur := r.SelectedEntry(); cur != nil {
		key = cur.Key
	}

	r.entries = entries
	r.total = total
	r.selected = 0
	if key == "" {
		return
	}
	for i := range entries {
		if entries[i].Key == key {
			r.selected = i
			return
		}
	}
}

// Clear removes all entries and resets the cursor.
func (r *ResultList) Clear() {
	r.entries = nil
	r.total = 0
	r.selected = 0
}

// Entries returns the current entries.
func (r *ResultList) Entries() []domain.AggregateEntry {
	return r.entries
}

// Total returns the count before display truncation.
func (r *ResultList) Total() int {
	return r.total
}

// Selected returns the index of the selected entry.
func (r *ResultList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *ResultList) SetSelected(index int) {
	if index >= 0 && index < len(r.entries) {
		r.selected = index
	}
}

// SelectedEntry returns the currently selected entry, or nil if none.
func (r *ResultList) SelectedEntry() *domain.AggregateEntry {
	if len(r.entries) == 0 || r.selected < 0 || r.selected >= len(r.entries) {
		return nil
	}
	return &r.entries[r.selected]
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	r.move(-1)
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	r.move(1)
}

func (r *ResultList) move(delta int) {
	if len(r.entries) == 0 {
		return
	}
	r.selected += delta
	if r.selected < 0 {
		r.selected = 0
	}
	if r.selected > len(r.entries)-1 {
		r.selected = len(r.entries) - 1
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Width returns the current width.
func (r *ResultList) Width() int {
	return r.width
}

// Height returns the current height.
func (r *ResultList) Height() int {
	return r.height
}

// Count returns the number of entries.
func (r *ResultList) Count() int {
	return len(r.entries)
}

// IsEmpty returns whether the list is empty.
func (r *ResultList) IsEmpty() bool {
	return len(r.entries) == 0
}
