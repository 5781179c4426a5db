package driving

import (
	"context"

	"github.com/paterkleomenis/archstore/internal/core/domain"
)

// SearchSession is one query's aggregation over all enabled sources.
type SearchSession interface {
	// ID is the session's unique identity token.
	ID() string

	// Query returns the query the session was started with.
	Query() string

	// State returns the current lifecycle state.
	State() domain.SessionState

	// Snapshot returns the most recently emitted snapshot.
	Snapshot() domain.Snapshot

	// Done is closed when the session completes or is cancelled.
	Done() <-chan struct{}

	// Cancel stops the session. Later batches are ignored.
	Cancel()
}

// Coordinator owns the single live search session for one consumer,
// such as a TUI screen or an HTTP stream.
type Coordinator interface {
	// Submit schedules query after the debounce window. Each call resets
	// the window. A query shorter than the minimum length cancels the
	// live session instead.
	Submit(query string)

	// Start cancels the live session and starts query immediately.
	Start(ctx context.Context, query string) (SearchSession, error)

	// Current returns the live session, or nil.
	Current() SearchSession

	// Cancel stops any pending or live session.
	Cancel()
}

// SearchService provides package search to external actors.
type SearchService interface {
	// NewCoordinator returns a coordinator that delivers every snapshot
	// of its sessions to onSnapshot. onSnapshot may be nil and must not
	// call back into the coordinator synchronously.
	NewCoordinator(ctx context.Context, onSnapshot domain.SnapshotFunc) Coordinator

	// Search runs query to completion and returns the final snapshot.
	// If ctx ends first the session is cancelled and the latest
	// snapshot is returned with the context error.
	Search(ctx context.Context, query string, onSnapshot domain.SnapshotFunc) (domain.Snapshot, error)

	// Close releases shared resources such as the worker pool.
	Close() error
}
