package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/paterkleomenis/archstore/internal/core/domain"
	"github.com/paterkleomenis/archstore/internal/core/ports/driving"
)

// MockSearchService implements driving.SearchService for testing.
type MockSearchService struct {
	SearchFunc func(ctx context.Context, query string, onSnapshot domain.SnapshotFunc) (domain.Snapshot, error)
	queries    []string
}

func (m *MockSearchService) NewCoordinator(context.Context, domain.SnapshotFunc) driving.Coordinator {
	return nil
}

func (m *MockSearchService) Search(
	ctx context.Context, query string, onSnapshot domain.SnapshotFunc,
) (domain.Snapshot, error) {
	m.queries = append(m.queries, query)
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, onSnapshot)
	}
	return testSnapshot(query), nil
}

func (m *MockSearchService) Close() error { return nil }

func record(name, version string, source domain.SourceKind, installed bool) domain.PackageRecord {
	return domain.PackageRecord{Name: name, Version: version, Source: source, Installed: installed, Description: name + " package"}
}

func entry(name string, records ...domain.PackageRecord) domain.AggregateEntry {
	e := domain.AggregateEntry{
		Key:         domain.NormalizedKey(name),
		DisplayName: name,
		Description: name + " package",
		Sources:     make(map[domain.SourceKind]domain.PackageRecord),
	}
	for _, r := range records {
		e.Sources[r.Source] = r
		e.InstalledAny = e.InstalledAny || r.Installed
	}
	return e
}

// testSnapshot is a completed three-source result for query.
func testSnapshot(query string) domain.Snapshot {
	return domain.Snapshot{
		SessionID: "session-1",
		Query:     query,
		Completed: 3,
		Pending:   3,
		Entries: []domain.AggregateEntry{
			entry("firefox",
				record("firefox", "130.0-1", domain.SourceOfficial, true),
				record("org.mozilla.firefox", "130.0", domain.SourceSandboxed, false)),
			entry("firefox-nightly", record("firefox-nightly", "132.0a1", domain.SourceCommunity, false)),
			entry("librewolf", record("librewolf", "129.0", domain.SourceCommunity, true)),
		},
	}
}

// MockSettingsService keeps settings in memory.
type MockSettingsService struct {
	mu          sync.Mutex
	settings    domain.AppSettings
	ValidateErr error
	values      map[string]string
}

func newMockSettingsService() *MockSettingsService {
	return &MockSettingsService{settings: domain.DefaultAppSettings(), values: make(map[string]string)}
}

func (m *MockSettingsService) Get() (*domain.AppSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.settings
	return &s, nil
}

func (m *MockSettingsService) Save(settings *domain.AppSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = *settings
	return nil
}

func (m *MockSettingsService) SetSourceEnabled(kind domain.SourceKind, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	enabledMap := make(map[domain.SourceKind]bool, len(m.settings.Sources.Enabled)+1)
	for k, v := range m.settings.Sources.Enabled {
		enabledMap[k] = v
	}
	enabledMap[kind] = enabled
	m.settings.Sources.Enabled = enabledMap
	return nil
}

func (m *MockSettingsService) SetValue(key, value string) error {
	if !strings.Contains(key, ".") {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MockSettingsService) Validate() error                 { return m.ValidateErr }
func (m *MockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }
func (m *MockSettingsService) Reload() error                   { return nil }

// MockHistoryService implements driving.HistoryService for testing.
type MockHistoryService struct {
	Entries  []domain.HistoryEntry
	cleared  bool
	patterns []string
}

func (m *MockHistoryService) Record(context.Context, string, int) error { return nil }

func (m *MockHistoryService) Recent(_ context.Context, limit int) ([]domain.HistoryEntry, error) {
	if limit > 0 && limit < len(m.Entries) {
		return m.Entries[:limit], nil
	}
	return m.Entries, nil
}

func (m *MockHistoryService) Recall(_ context.Context, pattern string, _ int) ([]domain.HistoryEntry, error) {
	m.patterns = append(m.patterns, pattern)
	var out []domain.HistoryEntry
	for _, e := range m.Entries {
		if strings.Contains(e.Query, pattern) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockHistoryService) Clear(context.Context) error {
	m.cleared = true
	m.Entries = nil
	return nil
}

// MockPackageService implements driving.PackageService for testing.
type MockPackageService struct {
	Known        map[string]domain.PackageDetails
	Records      []domain.PackageRecord
	InstalledErr error
	sources      []domain.SourceKind
}

func (m *MockPackageService) Details(_ context.Context, source domain.SourceKind, name string) (domain.PackageDetails, error) {
	d, ok := m.Known[string(source)+"/"+name]
	if !ok {
		return domain.PackageDetails{}, domain.NewProviderError(source, domain.ErrNotFound)
	}
	return d, nil
}

func (m *MockPackageService) Installed(_ context.Context, sources ...domain.SourceKind) ([]domain.PackageRecord, error) {
	m.sources = sources
	return m.Records, m.InstalledErr
}

// MockScheduler implements driving.Scheduler for testing.
type MockScheduler struct {
	mu      sync.Mutex
	started bool
	stopped bool

	Statuses []domain.TaskStatus
	Result   *domain.TaskResult
	RunErr   error
	ran      []string
	recent   int
}

func (m *MockScheduler) Start(ctx context.Context) error {
	m.mu.Lock()
	m.started = true
	m.mu.Unlock()
	<-ctx.Done()
	return nil
}

func (m *MockScheduler) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	return nil
}

func (m *MockScheduler) RunNow(_ context.Context, taskID string) (*domain.TaskResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ran = append(m.ran, taskID)
	return m.Result, m.RunErr
}

func (m *MockScheduler) Status(_ context.Context, recent int) ([]domain.TaskStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recent = recent
	return m.Statuses, nil
}

func (m *MockScheduler) Started() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	search   *MockSearchService
	settings *MockSettingsService
	history  *MockHistoryService
	packages *MockPackageService
}

// setupTestServices installs mock services and returns a restore function.
func setupTestServices() (*testServices, func()) {
	old := Services{
		Search:          searchService,
		Settings:        settingsService,
		History:         historyService,
		Packages:        packageService,
		Scheduler:       scheduler,
		SchedulerConfig: schedulerConfig,
	}

	ts := &testServices{
		search:   &MockSearchService{},
		settings: newMockSettingsService(),
		history: &MockHistoryService{Entries: []domain.HistoryEntry{
			{ID: 2, Query: "firefox", ResultCount: 3},
			{ID: 1, Query: "neovim", ResultCount: 5},
		}},
		packages: &MockPackageService{},
	}
	SetServices(Services{Search: ts.search, Settings: ts.settings, History: ts.history, Packages: ts.packages})

	return ts, func() { SetServices(old) }
}

// resetFlags restores every flag of cmd and its children to its default.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil) //nolint:errcheck
		} else {
			f.Value.Set(f.DefValue) //nolint:errcheck
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags(rootCmd)
	}()

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}
