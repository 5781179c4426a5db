// Package input provides the query field of the search view.
package input

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/paterkleomenis/archstore/internal/adapters/driving/tui/styles"
)

const (
	// maxQueryLength bounds what the user can type.
	maxQueryLength = 128

	// chrome is the width taken by the label, prompt and border.
	chrome        = 14
	minFieldWidth = 20
)

// SearchInput is the query field. It reports each distinct value once so
// the caller can hand it to the debounce window, and hints when the query
// is too short to search.
type SearchInput struct {
	field     textinput.Model
	styles    *styles.Styles
	width     int
	minLength int
	reported  string
}

// NewSearchInput creates a focused query field.
func NewSearchInput(s *styles.Styles) *SearchInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	field := textinput.New()
	field.Placeholder = "Type a package name..."
	field.Prompt = "› "
	field.CharLimit = maxQueryLength
	field.Width = 50
	field.Focus()

	return &SearchInput{field: field, styles: s, width: 50}
}

// Init starts the cursor blink.
func (s *SearchInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update forwards msg to the field.
func (s *SearchInput) Update(msg tea.Msg) (*SearchInput, tea.Cmd) {
	var cmd tea.Cmd
	s.field, cmd = s.field.Update(msg)
	return s, cmd
}

// Changed returns true once per distinct value since the last call.
func (s *SearchInput) Changed() bool {
	v := s.field.Value()
	if v == s.reported {
		return false
	}
	s.reported = v
	return true
}

// SetMinLength sets the length below which View shows a hint. Zero hides it.
func (s *SearchInput) SetMinLength(n int) {
	s.minLength = n
}

// TooShort reports whether a non-empty query is below the minimum length.
func (s *SearchInput) TooShort() bool {
	n := utf8.RuneCountInString(s.Query())
	return n > 0 && n < s.minLength
}

// View renders the label, the field and, for short queries, a hint.
func (s *SearchInput) View() string {
	parts := []string{
		s.styles.Title.Render("Search "),
		s.styles.InputField.Render(s.field.View()),
	}
	if s.TooShort() {
		parts = append(parts, s.styles.Muted.Render(fmt.Sprintf(" %d+ chars", s.minLength)))
	}
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

// Value returns the raw field text.
func (s *SearchInput) Value() string {
	return s.field.Value()
}

// Query returns the field text without surrounding whitespace.
func (s *SearchInput) Query() string {
	return strings.TrimSpace(s.field.Value())
}

// SetValue replaces the text without marking it changed.
func (s *SearchInput) SetValue(value string) {
	s.field.SetValue(value)
	s.field.CursorEnd()
	s.reported = s.field.Value()
}

// Focus gives the field keyboard focus.
func (s *SearchInput) Focus() tea.Cmd {
	return s.field.Focus()
}

// SetWidth fits the field into width columns.
func (s *SearchInput) SetWidth(width int) {
	s.width = width
	s.field.Width = max(width-chrome, minFieldWidth)
}

// Reset clears the text.
func (s *SearchInput) Reset() {
	s.field.Reset()
	s.reported = ""
}
