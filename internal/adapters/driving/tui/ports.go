// Package tui provides an interactive terminal user interface for archstore.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/paterkleomenis/archstore/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
type Ports struct {
	// Search runs package searches.
	Search driving.SearchService

	// Settings manages application settings.
	Settings driving.SettingsService

	// History records and recalls past searches. Optional.
	History driving.HistoryService

	// Packages loads the detail pane. Optional; without it Enter only
	// searches.
	Packages driving.PackageService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	search driving.SearchService,
	settings driving.SettingsService,
	history driving.HistoryService,
) *Ports {
	return &Ports{
		Search:   search,
		Settings: settings,
		History:  history,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Settings == nil {
		return ErrMissingSettingsService
	}
	return nil
}
