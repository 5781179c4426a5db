package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/panjf2000/ants/v2"

	"github.com/paterkleomenis/archstore/internal/core/domain"
	"github.com/paterkleomenis/archstore/internal/core/ports/driven"
	"github.com/paterkleomenis/archstore/internal/core/ports/driving"
	"github.com/paterkleomenis/archstore/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// DefaultPoolSize bounds concurrent provider calls across all sessions.
const DefaultPoolSize = 16

// SearchService fans a query out to the enabled source providers and
// aggregates their batches into a Session.
type SearchService struct {
	providers map[domain.SourceKind]driven.SourceProvider
	settings  driving.SettingsService
	history   driving.HistoryService

	pool     *ants.Pool
	poolSize int
	ownsPool bool
}

// SearchOption configures a SearchService.
type SearchOption func(*SearchService)

// WithPool makes the service dispatch provider calls on pool. The caller
// keeps ownership and must release it.
func WithPool(pool *ants.Pool) SearchOption {
	return func(s *SearchService) { s.pool = pool }
}

// WithPoolSize sets the size of the pool created by the service.
func WithPoolSize(n int) SearchOption {
	return func(s *SearchService) { s.poolSize = n }
}

// WithHistory records every completed session in history.
func WithHistory(history driving.HistoryService) SearchOption {
	return func(s *SearchService) { s.history = history }
}

// NewSearchService creates a search service over providers. A later
// provider for the same kind replaces an earlier one.
func NewSearchService(
	providers []driven.SourceProvider,
	settings driving.SettingsService,
	opts ...SearchOption,
) (*SearchService, error) {
	s := &SearchService{
		providers: make(map[domain.SourceKind]driven.SourceProvider, len(providers)),
		settings:  settings,
		poolSize:  DefaultPoolSize,
	}
	for _, p := range providers {
		s.providers[p.Kind()] = p
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.pool == nil {
		pool, err := ants.NewPool(s.poolSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create worker pool: %w", err)
		}
		s.pool = pool
		s.ownsPool = true
	}

	return s, nil
}

// NewCoordinator returns a coordinator whose sessions derive from ctx.
func (s *SearchService) NewCoordinator(ctx context.Context, onSnapshot domain.SnapshotFunc) driving.Coordinator {
	return s.newCoordinator(ctx, onSnapshot)
}

func (s *SearchService) newCoordinator(ctx context.Context, onSnapshot domain.SnapshotFunc) *Coordinator {
	return &Coordinator{svc: s, ctx: ctx, onSnapshot: onSnapshot}
}

// Search runs one session to completion without debouncing.
func (s *SearchService) Search(
	ctx context.Context, query string, onSnapshot domain.SnapshotFunc,
) (domain.Snapshot, error) {
	logger.Section("Search Execution")
	defer logger.Timed("search")()

	c := s.newCoordinator(ctx, onSnapshot)
	session, err := c.Start(ctx, query)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("search %q: %w", query, err)
	}

	select {
	case <-session.Done():
	case <-ctx.Done():
	}

	if ctx.Err() != nil && session.State() != domain.SessionCompleted {
		session.Cancel()
		return session.Snapshot(), fmt.Errorf("search %q: %w", query, ctx.Err())
	}

	return session.Snapshot(), nil
}

// Close releases the worker pool if the service created it.
func (s *SearchService) Close() error {
	if s.ownsPool {
		s.pool.Release()
	}
	return nil
}

// enabledKinds returns the kinds that are switched on and have a provider.
func (s *SearchService) enabledKinds(settings *domain.AppSettings) []domain.SourceKind {
	var kinds []domain.SourceKind
	for _, k := range settings.Sources.EnabledKinds() {
		if _, ok := s.providers[k]; !ok {
			logger.Debug("source %s enabled but no provider registered", k)
			continue
		}
		kinds = append(kinds, k)
	}
	return kinds
}

func (s *SearchService) recordHistory(ctx context.Context, snap domain.Snapshot) {
	if s.history == nil {
		return
	}
	if err := s.history.Record(ctx, snap.Query, len(snap.Entries)); err != nil {
		logger.Warn("failed to record search history: %v", err)
	}
}

// Coordinator owns the live session for one consumer. Starting a session
// cancels the previous one before any provider is called.
type Coordinator struct {
	svc        *SearchService
	ctx        context.Context
	onSnapshot domain.SnapshotFunc

	mu         sync.Mutex
	current    *Session
	timer      *time.Timer
	generation uint64
}

// Ensure Coordinator implements the interface.
var _ driving.Coordinator = (*Coordinator)(nil)

// launch holds what dispatch needs once the coordinator lock is released.
type launch struct {
	session        *Session
	kinds          []domain.SourceKind
	communityLimit int
}

// Submit schedules query after the debounce window. A query below the
// minimum length cancels the live session and schedules nothing.
func (c *Coordinator) Submit(query string) {
	settings, err := c.svc.settings.Get()
	if err != nil {
		logger.Warn("failed to read settings: %v", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.stopTimerLocked()

	if tooShort(query, settings.Search.MinQueryLength) {
		c.cancelCurrentLocked()
		return
	}

	gen := c.generation
	c.timer = time.AfterFunc(settings.Search.ClampedDebounce(), func() {
		c.mu.Lock()
		if gen != c.generation {
			c.mu.Unlock()
			return
		}
		l, err := c.beginLocked(c.ctx, query)
		c.mu.Unlock()

		if err != nil {
			logger.Debug("debounced search %q not started: %v", query, err)
			return
		}
		c.dispatch(l)
	})
}

// Start cancels the live session and starts query immediately.
func (c *Coordinator) Start(ctx context.Context, query string) (driving.SearchSession, error) {
	session, err := c.start(ctx, query)
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (c *Coordinator) start(ctx context.Context, query string) (*Session, error) {
	c.mu.Lock()
	c.generation++
	c.stopTimerLocked()
	l, err := c.beginLocked(ctx, query)
	c.mu.Unlock()

	if err != nil {
		return nil, err
	}
	c.dispatch(l)
	return l.session, nil
}

// Current returns the live session, or nil.
func (c *Coordinator) Current() driving.SearchSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	return c.current
}

// Cancel stops any pending or live session.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.stopTimerLocked()
	c.cancelCurrentLocked()
}

// beginLocked cancels the live session and installs a new one. Settings
// are read here and not again for the life of the session.
func (c *Coordinator) beginLocked(ctx context.Context, query string) (launch, error) {
	c.cancelCurrentLocked()

	settings, err := c.svc.settings.Get()
	if err != nil {
		return launch{}, fmt.Errorf("failed to read settings: %w", err)
	}

	query = strings.TrimSpace(query)
	if tooShort(query, settings.Search.MinQueryLength) {
		return launch{}, domain.ErrQueryTooShort
	}

	kinds := c.svc.enabledKinds(settings)
	if len(kinds) == 0 {
		return launch{}, domain.ErrNoSourcesEnabled
	}

	session := NewSession(ctx, query, kinds, c.onSnapshot)
	c.current = session
	logger.Info("searching %d sources for %q", len(kinds), query)

	return launch{
		session:        session,
		kinds:          kinds,
		communityLimit: settings.Search.CommunityLimit,
	}, nil
}

// dispatch submits one provider call per kind to the worker pool. It must
// be called without holding the coordinator lock.
func (c *Coordinator) dispatch(l launch) {
	for _, kind := range l.kinds {
		provider := c.svc.providers[kind]
		task := func() {
			records, err := provider.Search(l.session.Context(), l.session.Query())
			c.deliver(l, kind, records, err)
		}
		if err := c.svc.pool.Submit(task); err != nil {
			c.deliver(l, kind, nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err))
		}
	}
}

// deliver hands a provider result to its session if that session is
// still the live one.
func (c *Coordinator) deliver(l launch, kind domain.SourceKind, records []domain.PackageRecord, err error) {
	c.mu.Lock()
	live := c.current != nil && c.current.ID() == l.session.ID()
	c.mu.Unlock()
	if !live {
		logger.Debug("discarding %s result for superseded session %s", kind, l.session.ID())
		return
	}

	var finished bool
	if err != nil {
		if errors.Is(err, context.Canceled) && l.session.Context().Err() != nil {
			logger.Debug("%s search aborted by cancellation", kind)
		}
		finished = l.session.submit(kind, nil, domain.NewProviderError(kind, err))
	} else {
		batch := make([]domain.PackageRecord, len(records))
		for i, r := range records {
			r.Source = kind
			batch[i] = r
		}
		if kind == domain.SourceCommunity && l.communityLimit > 0 && len(batch) > l.communityLimit {
			batch = batch[:l.communityLimit]
		}
		finished = l.session.submit(kind, batch, nil)
	}

	if finished {
		c.svc.recordHistory(context.WithoutCancel(c.ctx), l.session.Snapshot())
	}
}

func (c *Coordinator) cancelCurrentLocked() {
	if c.current != nil {
		c.current.Cancel()
		c.current = nil
	}
}

func (c *Coordinator) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func tooShort(query string, minLength int) bool {
	return utf8.RuneCountInString(strings.TrimSpace(query)) < minLength
}
