package mcp

import (
	"context"

	"github.com/paterkleomenis/archstore/internal/core/domain"
	"github.com/paterkleomenis/archstore/internal/core/ports/driving"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	snapshot  domain.Snapshot
	err       error
	lastQuery string
}

func (m *mockSearchService) NewCoordinator(context.Context, domain.SnapshotFunc) driving.Coordinator {
	return nil
}

func (m *mockSearchService) Search(_ context.Context, query string, _ domain.SnapshotFunc) (domain.Snapshot, error) {
	m.lastQuery = query
	return m.snapshot, m.err
}

func (m *mockSearchService) Close() error { return nil }

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings domain.AppSettings
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(*domain.AppSettings) error { return m.err }

func (m *mockSettingsService) SetSourceEnabled(domain.SourceKind, bool) error { return m.err }

func (m *mockSettingsService) SetValue(string, string) error { return m.err }

func (m *mockSettingsService) Validate() error { return m.err }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) Reload() error { return m.err }

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	entries     []domain.HistoryEntry
	err         error
	lastPattern string
}

func (m *mockHistoryService) Record(context.Context, string, int) error { return m.err }

func (m *mockHistoryService) Recent(context.Context, int) ([]domain.HistoryEntry, error) {
	return m.entries, m.err
}

func (m *mockHistoryService) Recall(_ context.Context, pattern string, _ int) ([]domain.HistoryEntry, error) {
	m.lastPattern = pattern
	return m.entries, m.err
}

func (m *mockHistoryService) Clear(context.Context) error { return m.err }

func entry(name string, score int, sources ...domain.PackageRecord) domain.AggregateEntry {
	e := domain.AggregateEntry{
		Key:         domain.NormalizedKey(name),
		DisplayName: name,
		Score:       score,
		Sources:     make(map[domain.SourceKind]domain.PackageRecord),
	}
	for _, r := range sources {
		e.Sources[r.Source] = r
		e.InstalledAny = e.InstalledAny || r.Installed
		if e.Description == "" {
			e.Description = r.Description
		}
	}
	return e
}
