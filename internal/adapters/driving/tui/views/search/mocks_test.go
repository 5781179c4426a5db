package search

import (
	"context"
	"sync"

	"github.com/paterkleomenis/archstore/internal/core/domain"
	"github.com/paterkleomenis/archstore/internal/core/ports/driven"
	"github.com/paterkleomenis/archstore/internal/core/ports/driving"
)

// mockSession implements driving.SearchSession.
type mockSession struct {
	id    string
	query string
}

func (s *mockSession) ID() string                 { return s.id }
func (s *mockSession) Query() string              { return s.query }
func (s *mockSession) State() domain.SessionState { return domain.SessionAccumulating }
func (s *mockSession) Done() <-chan struct{}      { return nil }
func (s *mockSession) Cancel()                    {}

func (s *mockSession) Snapshot() domain.Snapshot {
	return domain.Snapshot{SessionID: s.id, Query: s.query, StillSearching: true, Pending: 3}
}

// mockCoordinator implements driving.Coordinator and records calls.
type mockCoordinator struct {
	mu         sync.Mutex
	submitted  []string
	started    []string
	bypassed   []bool
	cancelled  int
	current    *mockSession
	StartErr   error
	onSnapshot domain.SnapshotFunc
}

func (c *mockCoordinator) Submit(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitted = append(c.submitted, query)
}

func (c *mockCoordinator) Start(ctx context.Context, query string) (driving.SearchSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started = append(c.started, query)
	c.bypassed = append(c.bypassed, driven.CacheBypassed(ctx))
	if c.StartErr != nil {
		return nil, c.StartErr
	}
	c.current = &mockSession{id: "session-" + query, query: query}
	return c.current, nil
}

func (c *mockCoordinator) Current() driving.SearchSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	return c.current
}

func (c *mockCoordinator) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelled++
	c.current = nil
}

// setLive makes id the live session without going through Start.
func (c *mockCoordinator) setLive(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = &mockSession{id: id}
}

// MockSearchService implements driving.SearchService for testing.
type MockSearchService struct {
	coordinator    *mockCoordinator
	coordinators   int
	coordinatorCtx context.Context
}

func newMockSearchService() *MockSearchService {
	return &MockSearchService{coordinator: &mockCoordinator{}}
}

func (m *MockSearchService) NewCoordinator(ctx context.Context, onSnapshot domain.SnapshotFunc) driving.Coordinator {
	m.coordinators++
	m.coordinatorCtx = ctx
	m.coordinator.onSnapshot = onSnapshot
	return m.coordinator
}

func (m *MockSearchService) Search(
	context.Context, string, domain.SnapshotFunc,
) (domain.Snapshot, error) {
	return domain.Snapshot{}, nil
}

func (m *MockSearchService) Close() error { return nil }

// MockSettingsService implements driving.SettingsService for testing.
type MockSettingsService struct {
	Settings domain.AppSettings
	GetErr   error
}

func newMockSettings(mutate func(*domain.AppSettings)) *MockSettingsService {
	s := domain.DefaultAppSettings()
	if mutate != nil {
		mutate(&s)
	}
	return &MockSettingsService{Settings: s}
}

func (m *MockSettingsService) Get() (*domain.AppSettings, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	s := m.Settings
	return &s, nil
}

func (m *MockSettingsService) Save(*domain.AppSettings) error                 { return nil }
func (m *MockSettingsService) SetSourceEnabled(domain.SourceKind, bool) error { return nil }
func (m *MockSettingsService) SetValue(string, string) error                  { return nil }
func (m *MockSettingsService) Validate() error                                { return nil }
func (m *MockSettingsService) GetDefaults() domain.AppSettings                { return domain.DefaultAppSettings() }
func (m *MockSettingsService) Reload() error                                  { return nil }

// MockPackageService implements driving.PackageService for testing.
type MockPackageService struct {
	mu    sync.Mutex
	asked []string
	Err   error
}

func (m *MockPackageService) Details(_ context.Context, source domain.SourceKind, name string) (domain.PackageDetails, error) {
	m.mu.Lock()
	m.asked = append(m.asked, string(source)+"/"+name)
	m.mu.Unlock()
	if m.Err != nil {
		return domain.PackageDetails{}, m.Err
	}
	return domain.PackageDetails{
		Name: name, Version: "1.0", Description: name + " details",
		Source: source, Installed: source == domain.SourceOfficial, Size: "12 MiB",
	}, nil
}

func (m *MockPackageService) Installed(context.Context, ...domain.SourceKind) ([]domain.PackageRecord, error) {
	return nil, nil
}
