// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/paterkleomenis/archstore/internal/adapters/driving/tui/messages"
	"github.com/paterkleomenis/archstore/internal/adapters/driving/tui/styles"
	"github.com/paterkleomenis/archstore/internal/core/domain"
	"github.com/paterkleomenis/archstore/internal/core/ports/driving"
)

// Section tracks which settings section is active.
type Section int

const (
	SectionOverview Section = iota
	SectionDebounce
	SectionAURHelper
)

// Key constants for key handling.
const (
	keyUp    = "up"
	keyDown  = "down"
	keyEnter = "enter"
	keySpace = " "
)

// Config keys edited by this view.
const (
	configDebounce  = "search.debounce"
	configAURHelper = "providers.aur_helper"
)

// Overview rows after the per-source toggles.
const (
	rowDebounce = iota
	rowAURHelper
)

// debounceChoices spans the permitted debounce window.
var debounceChoices = []time.Duration{
	250 * time.Millisecond,
	300 * time.Millisecond,
	400 * time.Millisecond,
	500 * time.Millisecond,
}

// autoHelper labels the empty helper setting.
const autoHelper = "auto-detect"

// View is the settings configuration view: source switches, debounce
// window and AUR helper.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	settings *domain.AppSettings
	err      error

	section  Section
	selected int

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:          s,
		settingsService: settingsService,
		section:         SectionOverview,
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

func (v *View) loadSettings() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsLoaded{Err: ErrNoSettingsService}
		}
		settings, err := v.settingsService.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// save runs fn against the settings service and reports the outcome.
func (v *View) save(fn func(driving.SettingsService) error) tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsSaved{Err: ErrNoSettingsService}
		}
		return messages.SettingsSaved{Err: fn(v.settingsService)}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.settings = msg.Settings
			v.err = nil
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		return v, v.loadSettings()

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == "esc" {
		if v.section != SectionOverview {
			v.section = SectionOverview
			v.selected = 0
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if v.settings == nil {
		return v, nil
	}

	switch v.section {
	case SectionDebounce:
		return v.handleChoiceKeys(msg, len(debounceChoices), func(i int) tea.Cmd {
			value := debounceChoices[i].String()
			return v.save(func(s driving.SettingsService) error {
				return s.SetValue(configDebounce, value)
			})
		})
	case SectionAURHelper:
		return v.handleChoiceKeys(msg, len(helperChoices()), func(i int) tea.Cmd {
			value := helperChoices()[i]
			if value == autoHelper {
				value = ""
			}
			return v.save(func(s driving.SettingsService) error {
				return s.SetValue(configAURHelper, value)
			})
		})
	case SectionOverview:
	}
	return v.handleOverviewKeys(msg)
}

func (v *View) handleOverviewKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	kinds := domain.AllSourceKinds()
	rows := len(kinds) + 2

	switch msg.String() {
	case keyUp, "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < rows-1 {
			v.selected++
		}
	case keyEnter, keySpace, "space":
		if v.selected < len(kinds) {
			kind := kinds[v.selected]
			enabled := !v.settings.Sources.IsEnabled(kind)
			return v, v.save(func(s driving.SettingsService) error {
				return s.SetSourceEnabled(kind, enabled)
			})
		}
		switch v.selected - len(kinds) {
		case rowDebounce:
			v.section = SectionDebounce
			v.selected = v.debounceIndex()
		case rowAURHelper:
			v.section = SectionAURHelper
			v.selected = v.helperIndex()
		}
	}
	return v, nil
}

// handleChoiceKeys moves within a list of n choices and applies the
// selected one on enter, returning to the overview.
func (v *View) handleChoiceKeys(msg tea.KeyMsg, n int, apply func(int) tea.Cmd) (*View, tea.Cmd) {
	switch msg.String() {
	case keyUp, "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < n-1 {
			v.selected++
		}
	case keyEnter:
		cmd := apply(v.selected)
		v.section = SectionOverview
		v.selected = 0
		return v, cmd
	}
	return v, nil
}

func helperChoices() []string {
	return append([]string{autoHelper}, domain.SupportedAURHelpers()...)
}

func (v *View) debounceIndex() int {
	current := v.settings.Search.ClampedDebounce()
	for i, d := range debounceChoices {
		if d == current {
			return i
		}
	}
	return len(debounceChoices) - 1
}

func (v *View) helperIndex() int {
	for i, h := range helperChoices() {
		if h == v.settings.Providers.AURHelper {
			return i
		}
	}
	return 0
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n\n")
	}

	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	switch v.section {
	case SectionDebounce:
		labels := make([]string, len(debounceChoices))
		for i, d := range debounceChoices {
			labels[i] = d.String()
		}
		b.WriteString(v.renderChoices("Search debounce", labels))
	case SectionAURHelper:
		b.WriteString(v.renderChoices("AUR helper", helperChoices()))
	case SectionOverview:
		b.WriteString(v.renderOverview())
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderOverview() string {
	var b strings.Builder
	kinds := domain.AllSourceKinds()

	b.WriteString(v.styles.Subtitle.Render("Sources"))
	b.WriteString("\n")
	for i, kind := range kinds {
		state := v.styles.Error.Render("off")
		if v.settings.Sources.IsEnabled(kind) {
			state = v.styles.Success.Render("on")
		}
		b.WriteString(v.renderRow(i, fmt.Sprintf("%-12s", kind.DisplayName()), state))
	}

	helper := v.settings.Providers.AURHelper
	if helper == "" {
		helper = autoHelper
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render("Search"))
	b.WriteString("\n")
	b.WriteString(v.renderRow(len(kinds)+rowDebounce, fmt.Sprintf("%-12s", "Debounce"),
		v.settings.Search.ClampedDebounce().String()))
	b.WriteString(v.renderRow(len(kinds)+rowAURHelper, fmt.Sprintf("%-12s", "AUR helper"), helper))

	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf(
		"Cache TTL %s · display limit %d · min query length %d",
		v.settings.Cache.TTL, v.settings.Search.DisplayLimit, v.settings.Search.MinQueryLength,
	)))
	b.WriteString("\n")
	return b.String()
}

func (v *View) renderRow(index int, label, value string) string {
	if index == v.selected {
		return v.styles.Selected.Render("> "+label) + "  " + value + "\n"
	}
	return v.styles.Normal.Render("  "+label) + "  " + value + "\n"
}

func (v *View) renderChoices(title string, labels []string) string {
	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render(title))
	b.WriteString("\n")
	for i, label := range labels {
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + label))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + label))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (v *View) renderHelp() string {
	if v.section == SectionOverview {
		return v.styles.Help.Render("[j/k] navigate  [space] toggle  [enter] change  [esc] back")
	}
	return v.styles.Help.Render("[j/k] navigate  [enter] apply  [esc] cancel")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Reset returns to the overview.
func (v *View) Reset() {
	v.section = SectionOverview
	v.selected = 0
	v.err = nil
}

// Section returns the active section.
func (v *View) Section() Section {
	return v.section
}

// Settings returns the loaded settings.
func (v *View) Settings() *domain.AppSettings {
	return v.settings
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
