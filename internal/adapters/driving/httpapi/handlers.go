package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/paterkleomenis/archstore/internal/core/domain"
	"github.com/paterkleomenis/archstore/internal/core/ports/driven"
	"github.com/paterkleomenis/archstore/internal/core/ranking"
	"github.com/paterkleomenis/archstore/internal/logger"
)

const defaultHistoryLimit = 20

// snapshotEvent is the JSON payload of one search event. Entries are the
// filtered, sorted and truncated view; Total counts the filtered entries
// before truncation.
type snapshotEvent struct {
	SessionID      string                  `json:"session_id"`
	Query          string                  `json:"query"`
	Entries        []domain.AggregateEntry `json:"entries"`
	Total          int                     `json:"total"`
	StillSearching bool                    `json:"still_searching"`
	Contributor    domain.SourceKind       `json:"contributor,omitempty"`
	Completed      int                     `json:"completed"`
	Pending        int                     `json:"pending"`
	Failures       []domain.SourceFailure  `json:"failures,omitempty"`
	AllFailed      bool                    `json:"all_failed"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSearch streams every snapshot of one session as an SSE data event
// and finishes with a "done" event. A client disconnect cancels the session.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	view, err := domain.ParseViewSettings(q.Get("installed"), q.Get("source"), q.Get("sort"))
	if err != nil {
		writeError(w, err)
		return
	}
	limit, err := parseLimit(q.Get("limit"), 0)
	if err != nil {
		writeError(w, err)
		return
	}

	stream, err := newSSEWriter(w)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	ctx := r.Context()
	if q.Get("refresh") == "true" {
		ctx = driven.WithoutCache(ctx)
	}

	mailbox := newSnapshotMailbox()
	type result struct {
		snapshot domain.Snapshot
		err      error
	}
	done := make(chan result, 1)
	go func() {
		snapshot, err := s.ports.Search.Search(ctx, q.Get("q"), mailbox.put)
		done <- result{snapshot: snapshot, err: err}
	}()

	emit := func(snapshot domain.Snapshot) bool {
		if err := stream.send("", toEvent(snapshot, view, limit)); err != nil {
			logger.Debug("search stream write failed: %v", err)
			return false
		}
		return true
	}

	for {
		select {
		case <-mailbox.ready:
			if snapshot, ok := mailbox.take(); ok && !emit(snapshot) {
				<-done
				return
			}

		case res := <-done:
			if res.err != nil {
				if ctx.Err() != nil {
					logger.Debug("search stream for %q closed by client", q.Get("q"))
					return
				}
				if !stream.started {
					writeError(w, res.err)
					return
				}
				stream.send("error", errorResponse{Error: res.err.Error()}) //nolint:errcheck
				return
			}
			if snapshot, ok := mailbox.take(); ok {
				emit(snapshot)
			}
			stream.send("done", map[string]int{"total": len(res.snapshot.Entries)}) //nolint:errcheck
			return
		}
	}
}

func (s *Server) handleSources(w http.ResponseWriter, _ *http.Request) {
	type sourceInfo struct {
		Source  domain.SourceKind `json:"source"`
		Name    string            `json:"name"`
		Enabled bool              `json:"enabled"`
	}

	enabled := domain.DefaultAppSettings().Sources
	if s.ports.Settings != nil {
		settings, err := s.ports.Settings.Get()
		if err != nil {
			writeError(w, err)
			return
		}
		enabled = settings.Sources
	}

	infos := make([]sourceInfo, 0, 3)
	for _, kind := range domain.AllSourceKinds() {
		infos = append(infos, sourceInfo{Source: kind, Name: kind.DisplayName(), Enabled: enabled.IsEnabled(kind)})
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.ports.History == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "history is not available"})
		return
	}

	limit, err := parseLimit(r.URL.Query().Get("limit"), defaultHistoryLimit)
	if err != nil {
		writeError(w, err)
		return
	}

	entries, err := s.ports.History.Recall(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if s.ports.History == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "history is not available"})
		return
	}
	if err := s.ports.History.Clear(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toEvent(snapshot domain.Snapshot, view domain.ViewSettings, limit int) snapshotEvent {
	visible := ranking.ApplyView(snapshot.Entries, view)
	return snapshotEvent{
		SessionID:      snapshot.SessionID,
		Query:          snapshot.Query,
		Entries:        ranking.Truncate(visible, limit),
		Total:          len(visible),
		StillSearching: snapshot.StillSearching,
		Contributor:    snapshot.Contributor,
		Completed:      snapshot.Completed,
		Pending:        snapshot.Pending,
		Failures:       snapshot.Failures,
		AllFailed:      snapshot.AllFailed,
	}
}

func parseLimit(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domain.ErrInvalidInput
	}
	return n, nil
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrUnsupportedSource),
		errors.Is(err, domain.ErrQueryTooShort):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoSourcesEnabled):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("writing response failed: %v", err)
	}
}

// snapshotMailbox holds the latest snapshot for a slower writer. put is
// called under the session lock and never blocks. Intermediate snapshots
// may be superseded.
type snapshotMailbox struct {
	mu     sync.Mutex
	latest domain.Snapshot
	fresh  bool
	ready  chan struct{}
}

func newSnapshotMailbox() *snapshotMailbox {
	return &snapshotMailbox{ready: make(chan struct{}, 1)}
}

func (m *snapshotMailbox) put(snapshot domain.Snapshot) {
	m.mu.Lock()
	m.latest = snapshot
	m.fresh = true
	m.mu.Unlock()

	select {
	case m.ready <- struct{}{}:
	default:
	}
}

func (m *snapshotMailbox) take() (domain.Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.fresh {
		return domain.Snapshot{}, false
	}
	m.fresh = false
	return m.latest, true
}
