package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrQueryTooShort indicates the query is below the minimum length.
	ErrQueryTooShort = errors.New("query too short")

	// ErrSessionCancelled indicates a search session was superseded or cancelled.
	ErrSessionCancelled = errors.New("search session cancelled")

	// ErrNoSourcesEnabled indicates every package source is disabled in settings.
	ErrNoSourcesEnabled = errors.New("no package sources enabled")

	// ErrUnsupportedSource indicates an unknown source kind.
	ErrUnsupportedSource = errors.New("unsupported source")

	// Provider Errors.

	// ErrProviderUnavailable indicates a source could not be queried.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrToolMissing indicates the package tool backing a source is not installed.
	ErrToolMissing = errors.New("package tool not installed")

	// ErrRateLimited indicates the provider's request budget was exhausted.
	ErrRateLimited = errors.New("rate limited")

	// ErrAllSourcesFailed indicates every source in a session failed.
	ErrAllSourcesFailed = errors.New("all sources failed")
)

// ProviderError records the failure of a single source within a session.
type ProviderError struct {
	Source SourceKind
	Err    error
}

// NewProviderError wraps err with the source that produced it.
func NewProviderError(source SourceKind, err error) *ProviderError {
	return &ProviderError{Source: source, Err: err}
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
