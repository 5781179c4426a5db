package httpapi

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paterkleomenis/archstore/internal/core/domain"
	"github.com/paterkleomenis/archstore/internal/core/ports/driven"
	"github.com/paterkleomenis/archstore/internal/core/ports/driving"
)

// mockSearchService replays canned snapshots through onSnapshot.
type mockSearchService struct {
	snapshots []domain.Snapshot
	err       error
	query     string
	bypassed  bool
}

func (m *mockSearchService) NewCoordinator(context.Context, domain.SnapshotFunc) driving.Coordinator {
	return nil
}

func (m *mockSearchService) Search(ctx context.Context, query string, onSnapshot domain.SnapshotFunc) (domain.Snapshot, error) {
	m.query = query
	m.bypassed = driven.CacheBypassed(ctx)
	if m.err != nil {
		return domain.Snapshot{}, m.err
	}
	var last domain.Snapshot
	for _, s := range m.snapshots {
		onSnapshot(s)
		last = s
	}
	return last, nil
}

func (m *mockSearchService) Close() error { return nil }

type mockHistoryService struct {
	entries []domain.HistoryEntry
	cleared bool
	pattern string
}

func (m *mockHistoryService) Record(context.Context, string, int) error { return nil }

func (m *mockHistoryService) Recent(context.Context, int) ([]domain.HistoryEntry, error) {
	return m.entries, nil
}

func (m *mockHistoryService) Recall(_ context.Context, pattern string, _ int) ([]domain.HistoryEntry, error) {
	m.pattern = pattern
	return m.entries, nil
}

func (m *mockHistoryService) Clear(context.Context) error {
	m.cleared = true
	return nil
}

func record(name string, source domain.SourceKind, installed bool) domain.PackageRecord {
	return domain.PackageRecord{Name: name, Source: source, Installed: installed}
}

func entryOf(r domain.PackageRecord, score int) domain.AggregateEntry {
	return domain.AggregateEntry{
		Key:          domain.NormalizedKey(r.Name),
		DisplayName:  r.Name,
		Sources:      map[domain.SourceKind]domain.PackageRecord{r.Source: r},
		InstalledAny: r.Installed,
		Score:        score,
	}
}

func firefoxSnapshots() []domain.Snapshot {
	official := entryOf(record("firefox", domain.SourceOfficial, true), 1000)
	nightly := entryOf(record("firefox-nightly", domain.SourceCommunity, false), 800)
	return []domain.Snapshot{
		{SessionID: "s1", Query: "firefox", StillSearching: true, Pending: 2},
		{SessionID: "s1", Query: "firefox", StillSearching: true, Pending: 2, Completed: 1,
			Contributor: domain.SourceOfficial, Entries: []domain.AggregateEntry{official}},
		{SessionID: "s1", Query: "firefox", Pending: 2, Completed: 2,
			Contributor: domain.SourceCommunity, Entries: []domain.AggregateEntry{official, nightly}},
	}
}

type sseEvent struct {
	name string
	data string
}

func readEvents(t *testing.T, body string) []sseEvent {
	t.Helper()
	var events []sseEvent
	var current sseEvent
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			current.name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			current.data = strings.TrimPrefix(line, "data: ")
		case line == "":
			events = append(events, current)
			current = sseEvent{}
		}
	}
	return events
}

func newTestServer(t *testing.T, ports Ports) *Server {
	t.Helper()
	s, err := NewServer(Config{}, ports)
	require.NoError(t, err)
	return s
}

func serve(s *Server, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestNewServer_RequiresSearch(t *testing.T) {
	_, err := NewServer(Config{}, Ports{})
	assert.ErrorIs(t, err, ErrMissingSearchService)

	s := newTestServer(t, Ports{Search: &mockSearchService{}})
	assert.Equal(t, DefaultAddr, s.Addr())
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, Ports{Search: &mockSearchService{}})

	rec := serve(s, http.MethodGet, "/api/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSearch_StreamsSnapshots(t *testing.T) {
	search := &mockSearchService{snapshots: firefoxSnapshots()}
	s := newTestServer(t, Ports{Search: search})

	rec := serve(s, http.MethodGet, "/api/search?q=firefox")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "firefox", search.query)
	assert.False(t, search.bypassed)

	events := readEvents(t, rec.Body.String())
	require.NotEmpty(t, events)

	last := events[len(events)-1]
	assert.Equal(t, "done", last.name)
	assert.JSONEq(t, `{"total":2}`, last.data)

	var final snapshotEvent
	require.NoError(t, json.Unmarshal([]byte(events[len(events)-2].data), &final))
	assert.False(t, final.StillSearching)
	assert.Equal(t, 2, final.Completed)
	assert.Len(t, final.Entries, 2)
	assert.Equal(t, domain.SourceCommunity, final.Contributor)
}

func TestSearch_AppliesView(t *testing.T) {
	search := &mockSearchService{snapshots: firefoxSnapshots(), bypassed: false}
	s := newTestServer(t, Ports{Search: search})

	rec := serve(s, http.MethodGet, "/api/search?q=firefox&installed=not-installed&sort=name-desc&refresh=true")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, search.bypassed)

	events := readEvents(t, rec.Body.String())
	require.GreaterOrEqual(t, len(events), 2)
	var final snapshotEvent
	require.NoError(t, json.Unmarshal([]byte(events[len(events)-2].data), &final))
	require.Len(t, final.Entries, 1)
	assert.Equal(t, "firefox-nightly", final.Entries[0].DisplayName)
	assert.Equal(t, 1, final.Total)
}

func TestSearch_Limit(t *testing.T) {
	s := newTestServer(t, Ports{Search: &mockSearchService{snapshots: firefoxSnapshots()}})

	rec := serve(s, http.MethodGet, "/api/search?q=firefox&limit=1")

	events := readEvents(t, rec.Body.String())
	var final snapshotEvent
	require.NoError(t, json.Unmarshal([]byte(events[len(events)-2].data), &final))
	assert.Len(t, final.Entries, 1)
	assert.Equal(t, 2, final.Total)
}

func TestSearch_BadRequests(t *testing.T) {
	tests := []struct {
		name   string
		target string
		search *mockSearchService
		status int
	}{
		{"bad source", "/api/search?q=firefox&source=snap", &mockSearchService{}, http.StatusBadRequest},
		{"bad sort", "/api/search?q=firefox&sort=random", &mockSearchService{}, http.StatusBadRequest},
		{"bad limit", "/api/search?q=firefox&limit=-3", &mockSearchService{}, http.StatusBadRequest},
		{"query too short", "/api/search?q=f", &mockSearchService{err: domain.ErrQueryTooShort}, http.StatusBadRequest},
		{"no sources", "/api/search?q=firefox", &mockSearchService{err: domain.ErrNoSourcesEnabled}, http.StatusConflict},
		{"internal", "/api/search?q=firefox", &mockSearchService{err: errors.New("boom")}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, Ports{Search: tt.search})
			rec := serve(s, http.MethodGet, tt.target)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
		})
	}
}

func TestSources(t *testing.T) {
	s := newTestServer(t, Ports{Search: &mockSearchService{}})

	rec := serve(s, http.MethodGet, "/api/sources")

	require.Equal(t, http.StatusOK, rec.Code)
	var infos []struct {
		Source  string `json:"source"`
		Enabled bool   `json:"enabled"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &infos))
	require.Len(t, infos, 3)
	assert.Equal(t, "official", infos[0].Source)
	assert.True(t, infos[0].Enabled)
}

func TestHistory(t *testing.T) {
	t.Run("unavailable", func(t *testing.T) {
		s := newTestServer(t, Ports{Search: &mockSearchService{}})
		assert.Equal(t, http.StatusNotFound, serve(s, http.MethodGet, "/api/history").Code)
	})

	t.Run("recall and clear", func(t *testing.T) {
		history := &mockHistoryService{entries: []domain.HistoryEntry{{Query: "firefox", ResultCount: 2}}}
		s := newTestServer(t, Ports{Search: &mockSearchService{}, History: history})

		rec := serve(s, http.MethodGet, "/api/history?q=fire")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "fire", history.pattern)
		assert.Contains(t, rec.Body.String(), `"query":"firefox"`)

		rec = serve(s, http.MethodDelete, "/api/history")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.True(t, history.cleared)
	})
}

func TestSnapshotMailbox_KeepsLatest(t *testing.T) {
	m := newSnapshotMailbox()

	_, ok := m.take()
	assert.False(t, ok)

	m.put(domain.Snapshot{Completed: 1})
	m.put(domain.Snapshot{Completed: 2})

	<-m.ready
	got, ok := m.take()
	require.True(t, ok)
	assert.Equal(t, 2, got.Completed)

	_, ok = m.take()
	assert.False(t, ok)
}
