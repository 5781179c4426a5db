package domain

import "time"

// SessionState is the lifecycle state of a search session.
type SessionState string

// Session states. Completed and Cancelled are terminal.
const (
	SessionCreated      SessionState = "created"
	SessionAccumulating SessionState = "accumulating"
	SessionCompleted    SessionState = "completed"
	SessionCancelled    SessionState = "cancelled"
)

// IsTerminal returns true once the session accepts no more batches.
func (s SessionState) IsTerminal() bool {
	return s == SessionCompleted || s == SessionCancelled
}

// SourceFailure describes a source that failed during a session.
type SourceFailure struct {
	Source  SourceKind `json:"source"`
	Message string     `json:"message"`
}

// Snapshot is the ranked result list emitted after each batch.
type Snapshot struct {
	// SessionID identifies the session that produced the snapshot.
	SessionID string `json:"session_id"`

	// Query is the session query as typed.
	Query string `json:"query"`

	// Entries is the full ranked list so far.
	Entries []AggregateEntry `json:"entries"`

	// StillSearching is true while sources are outstanding.
	StillSearching bool `json:"still_searching"`

	// Contributor is the source whose batch produced this snapshot.
	// Empty for the initial snapshot.
	Contributor SourceKind `json:"contributor,omitempty"`

	// Completed and Pending count responded and expected sources.
	Completed int `json:"completed"`
	Pending   int `json:"pending"`

	// Failures lists sources that failed so far.
	Failures []SourceFailure `json:"failures,omitempty"`

	// AllFailed is true when the session completed and every source failed.
	AllFailed bool `json:"all_failed"`
}

// SnapshotFunc receives snapshots as they are produced.
type SnapshotFunc func(Snapshot)

// Outstanding returns how many sources have not responded yet.
func (s Snapshot) Outstanding() int {
	return s.Pending - s.Completed
}

// HistoryEntry records a completed search.
type HistoryEntry struct {
	ID          int64     `json:"id"`
	Query       string    `json:"query"`
	ResultCount int       `json:"result_count"`
	SearchedAt  time.Time `json:"searched_at"`
}
