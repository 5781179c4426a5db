package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/paterkleomenis/archstore/internal/core/domain"
	"github.com/paterkleomenis/archstore/internal/core/ports/driving"
	"github.com/paterkleomenis/archstore/internal/core/ranking"
	"github.com/paterkleomenis/archstore/internal/logger"
)

// Ensure Session implements the interface.
var _ driving.SearchSession = (*Session)(nil)

// Session accumulates batches from every enabled source for one query and
// re-ranks the cumulative record set after each batch.
//
// Batches are serialized by the session mutex. Snapshots are emitted while
// the mutex is held so a consumer observes them in production order.
type Session struct {
	id         string
	query      string
	onSnapshot domain.SnapshotFunc

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	state     domain.SessionState
	enabled   map[domain.SourceKind]bool
	reported  map[domain.SourceKind]bool
	records   []domain.PackageRecord
	failures  []domain.SourceFailure
	pending   int
	completed int
	latest    domain.Snapshot

	done     chan struct{}
	doneOnce sync.Once
}

// NewSession creates a session expecting one batch from each of kinds.
// The session context derives from parent and ends when the session is
// cancelled. onSnapshot may be nil.
func NewSession(
	parent context.Context,
	query string,
	kinds []domain.SourceKind,
	onSnapshot domain.SnapshotFunc,
) *Session {
	ctx, cancel := context.WithCancel(parent)

	enabled := make(map[domain.SourceKind]bool, len(kinds))
	for _, k := range kinds {
		enabled[k] = true
	}

	s := &Session{
		id:         uuid.New().String(),
		query:      query,
		onSnapshot: onSnapshot,
		ctx:        ctx,
		cancel:     cancel,
		state:      domain.SessionCreated,
		enabled:    enabled,
		reported:   make(map[domain.SourceKind]bool, len(enabled)),
		pending:    len(enabled),
		done:       make(chan struct{}),
	}
	s.latest = domain.Snapshot{
		SessionID:      s.id,
		Query:          query,
		Entries:        []domain.AggregateEntry{},
		StillSearching: s.pending > 0,
		Pending:        s.pending,
	}

	logger.Debug("session %s: created for %q with %d sources", s.id, query, s.pending)
	return s
}

// ID returns the session identity token.
func (s *Session) ID() string { return s.id }

// Query returns the query the session was created with.
func (s *Session) Query() string { return s.query }

// Context returns the session context. It is cancelled with the session.
func (s *Session) Context() context.Context { return s.ctx }

// Done is closed once the session is completed or cancelled.
func (s *Session) Done() <-chan struct{} { return s.done }

// State returns the current lifecycle state.
func (s *Session) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot returns the most recently emitted snapshot.
func (s *Session) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// SubmitBatch adds one source's records and emits a new snapshot.
// It is a no-op once the session is cancelled or completed, and for a
// source that is not enabled or has already reported.
func (s *Session) SubmitBatch(kind domain.SourceKind, records []domain.PackageRecord) {
	_ = s.submit(kind, records, nil)
}

// SubmitFailure marks a source as completed with no records and keeps
// the error for status display.
func (s *Session) SubmitFailure(kind domain.SourceKind, err error) {
	_ = s.submit(kind, nil, err)
}

// submit reports whether this batch completed the session.
func (s *Session) submit(kind domain.SourceKind, records []domain.PackageRecord, failure error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.IsTerminal() {
		logger.Debug("session %s: dropped late batch from %s", s.id, kind)
		return false
	}
	if !s.enabled[kind] || s.reported[kind] {
		logger.Debug("session %s: ignored unexpected batch from %s", s.id, kind)
		return false
	}
	s.reported[kind] = true
	s.state = domain.SessionAccumulating

	if failure != nil {
		s.failures = append(s.failures, domain.SourceFailure{Source: kind, Message: failure.Error()})
		logger.Warn("search failed for %s: %v", kind.DisplayName(), failure)
	}

	kept := ranking.FilterRelevant(s.query, records)
	s.records = append(s.records, kept...)
	logger.Debug("session %s: %s returned %d records, kept %d", s.id, kind, len(records), len(kept))

	entries := ranking.Aggregate(s.query, s.records)

	s.completed++
	finished := s.completed >= s.pending
	if finished {
		s.state = domain.SessionCompleted
	}

	s.latest = domain.Snapshot{
		SessionID:      s.id,
		Query:          s.query,
		Entries:        entries,
		StillSearching: !finished,
		Contributor:    kind,
		Completed:      s.completed,
		Pending:        s.pending,
		Failures:       append([]domain.SourceFailure(nil), s.failures...),
		AllFailed:      finished && len(s.failures) == s.pending,
	}
	if s.onSnapshot != nil {
		s.onSnapshot(s.latest)
	}

	if finished {
		logger.Debug("session %s: completed with %d entries", s.id, len(entries))
		s.cancel()
		s.closeDone()
	}
	return finished
}

// Cancel stops the session. Outstanding provider calls see their context
// cancelled and any batch they still deliver is ignored.
func (s *Session) Cancel() {
	s.mu.Lock()
	if s.state.IsTerminal() {
		s.mu.Unlock()
		return
	}
	s.state = domain.SessionCancelled
	s.mu.Unlock()

	logger.Debug("session %s: cancelled", s.id)
	s.cancel()
	s.closeDone()
}

func (s *Session) closeDone() {
	s.doneOnce.Do(func() { close(s.done) })
}
