package mcp

import (
	"github.com/paterkleomenis/archstore/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server uses.
type Ports struct {
	// Search runs package searches.
	Search driving.SearchService

	// Settings exposes which sources are enabled. Optional.
	Settings driving.SettingsService

	// History exposes past queries. Optional.
	History driving.HistoryService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
