package search

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/paterkleomenis/archstore/internal/adapters/driving/tui/messages"
	"github.com/paterkleomenis/archstore/internal/adapters/driving/tui/styles"
	"github.com/paterkleomenis/archstore/internal/core/domain"
)

// detailPane shows one result's details, one contributing source at a time.
type detailPane struct {
	entry   domain.AggregateEntry
	kinds   []domain.SourceKind
	at      int
	details domain.PackageDetails
	loading bool
	err     error
}

func newDetailPane(entry domain.AggregateEntry) *detailPane {
	return &detailPane{entry: entry, kinds: entry.Kinds(), loading: true}
}

func (p *detailPane) source() domain.SourceKind { return p.kinds[p.at] }
func (p *detailPane) name() string              { return p.entry.Sources[p.source()].Name }

// next moves to the following source. It reports false for single-source
// entries.
func (p *detailPane) next() bool {
	if len(p.kinds) < 2 {
		return false
	}
	p.at = (p.at + 1) % len(p.kinds)
	p.details = domain.PackageDetails{}
	p.err = nil
	p.loading = true
	return true
}

// apply takes msg if it answers the source currently shown.
func (p *detailPane) apply(msg messages.DetailsLoaded) {
	if msg.Source != p.source() || msg.Name != p.name() {
		return
	}
	p.loading = false
	p.details = msg.Details
	p.err = msg.Err
}

// openDetails shows the pane for the selected entry. Enter only opens it
// once the results on screen belong to the typed query.
func (v *View) openDetails() (tea.Cmd, bool) {
	if v.packageService == nil || !v.hasSnapshot {
		return nil, false
	}
	if strings.TrimSpace(v.input.Value()) != strings.TrimSpace(v.snapshot.Query) {
		return nil, false
	}
	selected := v.list.SelectedEntry()
	if selected == nil || len(selected.Sources) == 0 {
		return nil, false
	}
	v.detail = newDetailPane(*selected)
	return v.loadDetails(), true
}

func (v *View) loadDetails() tea.Cmd {
	svc, ctx := v.packageService, v.ctx
	source, name := v.detail.source(), v.detail.name()
	return func() tea.Msg {
		d, err := svc.Details(ctx, source, name)
		return messages.DetailsLoaded{Source: source, Name: name, Details: d, Err: err}
	}
}

func (v *View) handleDetailKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Back):
		v.detail = nil
	case key.Matches(msg, v.keymap.SourceFilter):
		if v.detail.next() {
			return v, v.loadDetails()
		}
	case key.Matches(msg, v.keymap.Up), key.Matches(msg, v.keymap.Down):
		v.list, _ = v.list.Update(msg)
		if e := v.list.SelectedEntry(); e != nil && e.Key != v.detail.entry.Key {
			v.detail = newDetailPane(*e)
			return v, v.loadDetails()
		}
	}
	return v, nil
}

func renderDetails(s *styles.Styles, p *detailPane, width int) string {
	header := s.Title.Render(p.entry.DisplayName) + "  " +
		s.Badge(p.source()).Render(p.source().DisplayName())
	if len(p.kinds) > 1 {
		header += s.Muted.Render(fmt.Sprintf("  (%d of %d sources, tab to switch)", p.at+1, len(p.kinds)))
	}

	lines := []string{header, ""}
	switch {
	case p.loading:
		lines = append(lines, s.Muted.Render("Loading details for "+p.name()+"..."))
	case p.err != nil:
		lines = append(lines, s.Error.Render("Error: "+p.err.Error()))
	default:
		lines = append(lines, detailLines(s, p.details, width)...)
	}
	lines = append(lines, "", s.Help.Render("esc back • ↑/↓ other result"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func detailLines(s *styles.Styles, d domain.PackageDetails, width int) []string {
	installed := "no"
	if d.Installed {
		installed = s.Installed.Render("yes")
	}
	rows := [][2]string{
		{"Name", d.Name},
		{"Version", d.Version},
		{"Installed", installed},
		{"Description", d.Description},
		{"URL", d.URL},
		{"License", d.License},
		{"Size", d.Size},
		{"Maintainer", d.Maintainer},
		{"Updated", d.LastUpdated},
	}

	value := lipgloss.NewStyle().Width(max(width-16, 20))
	var lines []string
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		label := s.Muted.Render(fmt.Sprintf("%-14s", r[0]))
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, label, value.Render(r[1])))
	}
	return lines
}
