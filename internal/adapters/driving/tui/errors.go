package tui

import "errors"

// Errors returned by Ports.Validate.
var (
	ErrInvalidPorts           = errors.New("tui: invalid ports, nil value")
	ErrMissingSearchService   = errors.New("tui: no search service wired")
	ErrMissingSettingsService = errors.New("tui: no settings service wired")
)
