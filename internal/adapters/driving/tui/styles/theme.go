// Package styles holds the TUI palette and the lipgloss styles built from it.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/paterkleomenis/archstore/internal/core/domain"
)

// Theme is a colour palette. Sources colours the badge of each package
// source; kinds without an entry render muted.
type Theme struct {
	Primary, Secondary     lipgloss.Color
	Foreground, Background lipgloss.Color
	Muted, Border, Bar     lipgloss.Color
	Success, Warning       lipgloss.Color
	Error                  lipgloss.Color

	Sources map[domain.SourceKind]lipgloss.Color
}

// DefaultTheme is Arch blue on a Catppuccin Mocha base.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    "#1793D1",
		Secondary:  "#06B6D4",
		Foreground: "#CDD6F4",
		Background: "#1E1E2E",
		Muted:      "#6C7086",
		Border:     "#45475A",
		Bar:        "#181825",
		Success:    "#A6E3A1",
		Warning:    "#F9E2AF",
		Error:      "#F38BA8",
		Sources: map[domain.SourceKind]lipgloss.Color{
			domain.SourceOfficial:  "#89B4FA",
			domain.SourceCommunity: "#FAB387",
			domain.SourceSandboxed: "#94E2D5",
			domain.SourceMultiple:  "#CBA6F7",
		},
	}
}

type Styles struct {
	theme *Theme

	Title, Subtitle         lipgloss.Style
	Normal, Muted, Selected lipgloss.Style
	Error, Success, Warning lipgloss.Style
	InputField, Border      lipgloss.Style
	StatusBar, Help         lipgloss.Style
	Installed               lipgloss.Style

	badges map[domain.SourceKind]lipgloss.Style
}

func fg(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

// NewStyles derives every style from theme, or from DefaultTheme when nil.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	rounded := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)

	s := &Styles{
		theme:      theme,
		Title:      fg(theme.Primary).Bold(true),
		Subtitle:   fg(theme.Secondary).Bold(true),
		Normal:     fg(theme.Foreground),
		Muted:      fg(theme.Muted),
		Selected:   fg(theme.Foreground).Background(theme.Primary).Bold(true),
		Error:      fg(theme.Error),
		Success:    fg(theme.Success),
		Warning:    fg(theme.Warning),
		InputField: rounded.Padding(0, 1),
		Border:     rounded,
		StatusBar:  fg(theme.Muted).Background(theme.Bar).Padding(0, 1),
		Help:       fg(theme.Muted),
		Installed:  fg(theme.Success),
		badges:     make(map[domain.SourceKind]lipgloss.Style, len(theme.Sources)),
	}
	for kind, c := range theme.Sources {
		s.badges[kind] = fg(c).Bold(true)
	}
	return s
}

func DefaultStyles() *Styles { return NewStyles(DefaultTheme()) }

func (s *Styles) Theme() *Theme { return s.theme }

// Badge styles the source label of a result row.
func (s *Styles) Badge(kind domain.SourceKind) lipgloss.Style {
	if style, ok := s.badges[kind]; ok {
		return style
	}
	return s.Muted
}
