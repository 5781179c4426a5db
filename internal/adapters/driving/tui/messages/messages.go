// Package messages holds the tea.Msg types passed between the TUI app
// and its views.
package messages

import (
	"github.com/paterkleomenis/archstore/internal/core/domain"
)

// ViewType names a screen of the app.
type ViewType int

const (
	ViewMenu ViewType = iota
	ViewSearch
	ViewHistory
	ViewSettings
	ViewHelp
)

var viewNames = [...]string{
	ViewMenu:     "menu",
	ViewSearch:   "search",
	ViewHistory:  "history",
	ViewSettings: "settings",
	ViewHelp:     "help",
}

func (v ViewType) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return "unknown"
	}
	return viewNames[v]
}

// ViewChanged asks the app to switch screens.
type ViewChanged struct{ View ViewType }

// Quit ends the program.
type Quit struct{}

// ErrorOccurred carries an error for the app to display.
type ErrorOccurred struct{ Err error }

// SnapshotReceived carries the latest state of the live search session.
type SnapshotReceived struct{ Snapshot domain.Snapshot }

// SearchStarted reports a query started without waiting for the debounce.
// Snapshot is the session's first state.
type SearchStarted struct {
	Query    string
	Snapshot domain.Snapshot
	Err      error
}

type (
	HistoryLoaded struct {
		Entries []domain.HistoryEntry
		Err     error
	}
	HistoryCleared struct{ Err error }

	// HistorySelected re-runs a past query in the search view.
	HistorySelected struct{ Query string }
)

type (
	SettingsLoaded struct {
		Settings *domain.AppSettings
		Err      error
	}
	SettingsSaved struct{ Err error }
)

// DetailsLoaded answers the search view's request for one package's details.
type DetailsLoaded struct {
	Source  domain.SourceKind
	Name    string
	Details domain.PackageDetails
	Err     error
}
