// Package search provides the live search view for the TUI.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/paterkleomenis/archstore/internal/adapters/driving/tui/components/input"
	"github.com/paterkleomenis/archstore/internal/adapters/driving/tui/components/list"
	"github.com/paterkleomenis/archstore/internal/adapters/driving/tui/components/status"
	"github.com/paterkleomenis/archstore/internal/adapters/driving/tui/keymap"
	"github.com/paterkleomenis/archstore/internal/adapters/driving/tui/messages"
	"github.com/paterkleomenis/archstore/internal/adapters/driving/tui/styles"
	"github.com/paterkleomenis/archstore/internal/core/domain"
	"github.com/paterkleomenis/archstore/internal/core/ports/driven"
	"github.com/paterkleomenis/archstore/internal/core/ports/driving"
	"github.com/paterkleomenis/archstore/internal/core/ranking"
)

// View is the live search view: typing submits the query to a
// coordinator, whose snapshots stream back through a feed and are
// filtered, sorted and truncated for display.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SearchInput
	list      *list.ResultList
	statusbar *status.Bar

	searchService   driving.SearchService
	settingsService driving.SettingsService
	packageService  driving.PackageService
	coordinator     driving.Coordinator
	feed            *feed
	ctx             context.Context

	snapshot    domain.Snapshot
	hasSnapshot bool
	view        domain.ViewSettings
	detail      *detailPane

	width  int
	height int
	ready  bool
	err    error
}

// NewView creates a new search view. settingsService may be nil, in which
// case default display limits apply.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	searchService driving.SearchService,
	settingsService driving.SettingsService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:          s,
		keymap:          km,
		input:           input.NewSearchInput(s),
		list:            list.NewResultList(s),
		statusbar:       status.NewBar(s, km),
		searchService:   searchService,
		settingsService: settingsService,
		feed:            newFeed(),
		ctx:             context.Background(),
		view:            domain.DefaultViewSettings(),
		width:           80,
		height:          24,
	}
}

// WithContext sets the context for the view. Sessions started by the
// view derive from it.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// WithPackages enables the detail pane. Nil leaves it disabled.
func (v *View) WithPackages(svc driving.PackageService) *View {
	v.packageService = svc
	return v
}

// Init starts the cursor blink and the snapshot listener.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Init(), v.feed.wait(v.ctx))
}

// Activate prepares the view for display after navigating to it. Unlike
// Init it does not start another snapshot listener.
func (v *View) Activate() tea.Cmd {
	v.Reset()
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SnapshotReceived:
		cmd := v.handleSnapshot(msg.Snapshot)
		return v, tea.Batch(cmd, v.feed.wait(v.ctx))

	case messages.SearchStarted:
		return v, v.handleStarted(msg)

	case messages.DetailsLoaded:
		if v.detail != nil {
			v.detail.apply(msg)
		}
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	v.statusbar, cmd = v.statusbar.Update(msg)
	cmds = append(cmds, cmd)
	v.input, cmd = v.input.Update(msg)
	cmds = append(cmds, cmd)
	return v, tea.Batch(cmds...)
}

// handleKeyMsg processes keyboard input. The input keeps focus, so only
// non-printable keys drive the list and view settings.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.detail != nil {
		return v.handleDetailKey(msg)
	}

	if key.Matches(msg, v.keymap.Select) {
		if cmd, ok := v.openDetails(); ok {
			return v, cmd
		}
	}

	switch {
	case key.Matches(msg, v.keymap.Back):
		v.cancel()
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}

	case key.Matches(msg, v.keymap.Search):
		return v, v.startNow(v.ctx, v.input.Value())

	case key.Matches(msg, v.keymap.Refresh):
		return v, v.startNow(driven.WithoutCache(v.ctx), v.input.Value())

	case key.Matches(msg, v.keymap.SourceFilter):
		v.view.Source = domain.NextSourceFilter(v.view.Source)
		v.refresh()
		return v, nil

	case key.Matches(msg, v.keymap.InstallFilter):
		v.view.Install = v.view.Install.Next()
		v.refresh()
		return v, nil

	case key.Matches(msg, v.keymap.SortMode):
		v.view.Sort = v.view.Sort.Next()
		v.refresh()
		return v, nil

	case key.Matches(msg, v.keymap.ClearQuery):
		v.input.Reset()
		v.cancel()
		v.clearResults()
		return v, nil

	case key.Matches(msg, v.keymap.Up), key.Matches(msg, v.keymap.Down):
		v.list, _ = v.list.Update(msg)
		return v, nil
	}

	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyPgUp, tea.KeyPgDown:
		v.list, _ = v.list.Update(msg)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	if v.input.Changed() {
		v.submit(v.input.Value())
	}
	return v, cmd
}

// submit hands the query to the debounce window. Short queries clear the
// results; the coordinator cancels the live session for them.
func (v *View) submit(query string) {
	coord, err := v.ensureCoordinator()
	if err != nil {
		v.setError(err)
		return
	}
	coord.Submit(query)

	minLen := v.settings().Search.MinQueryLength
	v.input.SetMinLength(minLen)
	if utf8.RuneCountInString(strings.TrimSpace(query)) < minLen {
		v.clearResults()
		if query != "" {
			v.statusbar.SetMessage(fmt.Sprintf("Type at least %d characters", minLen))
		}
	}
}

// startNow skips the debounce and starts query immediately.
func (v *View) startNow(ctx context.Context, query string) tea.Cmd {
	coord, err := v.ensureCoordinator()
	if err != nil {
		return func() tea.Msg { return messages.ErrorOccurred{Err: err} }
	}
	return func() tea.Msg {
		session, err := coord.Start(ctx, query)
		if err != nil {
			return messages.SearchStarted{Query: query, Err: err}
		}
		return messages.SearchStarted{Query: query, Snapshot: session.Snapshot()}
	}
}

// Run sets the input to query and starts it immediately.
func (v *View) Run(query string) tea.Cmd {
	v.input.SetValue(query)
	return v.startNow(v.ctx, query)
}

func (v *View) handleStarted(msg messages.SearchStarted) tea.Cmd {
	switch {
	case msg.Err == nil:
		return v.handleSnapshot(msg.Snapshot)
	case errors.Is(msg.Err, domain.ErrQueryTooShort):
		v.clearResults()
		v.statusbar.SetMessage(fmt.Sprintf("Type at least %d characters", v.settings().Search.MinQueryLength))
	default:
		v.setError(msg.Err)
	}
	return nil
}

// handleSnapshot shows snap if it belongs to the live session and is not
// older than the one shown. It returns a spinner tick when a search has
// just begun.
func (v *View) handleSnapshot(snap domain.Snapshot) tea.Cmd {
	if v.coordinator == nil {
		return nil
	}
	live := v.coordinator.Current()
	if live == nil || live.ID() != snap.SessionID {
		return nil
	}
	if v.hasSnapshot && v.snapshot.SessionID == snap.SessionID && snap.Completed < v.snapshot.Completed {
		return nil
	}

	wasSearching := v.statusbar.State() == status.StateSearching
	v.snapshot = snap
	v.hasSnapshot = true
	v.err = nil
	v.refresh()

	if snap.StillSearching && !wasSearching {
		return v.statusbar.Tick()
	}
	return nil
}

// refresh re-derives the displayed list from the latest snapshot and the
// current view settings. The snapshot itself is never modified.
func (v *View) refresh() {
	v.statusbar.SetView(v.view)
	if !v.hasSnapshot {
		return
	}

	filtered := ranking.ApplyView(v.snapshot.Entries, v.view)
	shown := ranking.Truncate(filtered, v.settings().Search.DisplayLimit)
	v.list.SetEntries(shown, len(filtered))
	v.statusbar.SetSnapshot(v.snapshot, len(filtered))
}

func (v *View) clearResults() {
	v.detail = nil
	v.snapshot = domain.Snapshot{}
	v.hasSnapshot = false
	v.err = nil
	v.list.Clear()
	v.statusbar.Clear()
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// ensureCoordinator creates the coordinator on first use so it picks up
// the context given to WithContext.
func (v *View) ensureCoordinator() (driving.Coordinator, error) {
	if v.coordinator != nil {
		return v.coordinator, nil
	}
	if v.searchService == nil {
		return nil, ErrNoSearchService
	}
	v.coordinator = v.searchService.NewCoordinator(v.ctx, v.feed.push)
	return v.coordinator, nil
}

func (v *View) cancel() {
	if v.coordinator != nil {
		v.coordinator.Cancel()
	}
}

// settings returns the current settings, or defaults if unavailable.
func (v *View) settings() *domain.AppSettings {
	if v.settingsService != nil {
		if s, err := v.settingsService.Get(); err == nil && s != nil {
			return s
		}
	}
	defaults := domain.DefaultAppSettings()
	return &defaults
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections,
		v.styles.Title.Render("archstore"),
		"",
		v.input.View(),
		"",
	)

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	if v.detail != nil {
		sections = append(sections, renderDetails(v.styles, v.detail, v.width), "", v.statusbar.View())
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	sections = append(sections, v.list.View(), "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-9) // header, input box, status
	v.statusbar.SetWidth(width)
}

// Close cancels any pending or live session.
func (v *View) Close() {
	v.cancel()
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the current search query.
func (v *View) Query() string {
	return v.input.Value()
}

// Entries returns the displayed entries.
func (v *View) Entries() []domain.AggregateEntry {
	return v.list.Entries()
}

// Snapshot returns the latest snapshot of the live session.
func (v *View) Snapshot() domain.Snapshot {
	return v.snapshot
}

// ViewSettings returns the current filter and sort selection.
func (v *View) ViewSettings() domain.ViewSettings {
	return v.view
}

// SelectedIndex returns the index of the selected entry.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// SelectedEntry returns the currently selected entry.
func (v *View) SelectedEntry() *domain.AggregateEntry {
	return v.list.SelectedEntry()
}

// StatusState returns the status bar state.
func (v *View) StatusState() status.State {
	return v.statusbar.State()
}

// Details returns the details shown in the detail pane and whether the
// pane is open.
func (v *View) Details() (domain.PackageDetails, bool) {
	if v.detail == nil {
		return domain.PackageDetails{}, false
	}
	return v.detail.details, true
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Reset clears the query and results but keeps the view settings.
func (v *View) Reset() {
	v.cancel()
	v.input.Reset()
	v.input.Focus()
	v.clearResults()
}
