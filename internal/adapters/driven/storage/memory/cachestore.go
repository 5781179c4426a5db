package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/paterkleomenis/archstore/internal/core/domain"
	"github.com/paterkleomenis/archstore/internal/core/ports/driven"
)

// Ensure CacheStore implements the interface.
var _ driven.CacheStore = (*CacheStore)(nil)

type cacheKey struct {
	source domain.SourceKind
	query  string
}

type cacheEntry struct {
	records  []domain.PackageRecord
	storedAt time.Time
}

// CacheStore is an in-memory implementation of driven.CacheStore.
type CacheStore struct {
	mu      sync.RWMutex
	entries map[cacheKey]cacheEntry
	now     func() time.Time
}

// NewCacheStore creates a new in-memory cache store.
func NewCacheStore() *CacheStore {
	return &CacheStore{
		entries: make(map[cacheKey]cacheEntry),
		now:     time.Now,
	}
}

func keyFor(source domain.SourceKind, query string) cacheKey {
	return cacheKey{source: source, query: strings.ToLower(strings.TrimSpace(query))}
}

// Get returns records stored after notBefore.
func (s *CacheStore) Get(
	_ context.Context, source domain.SourceKind, query string, notBefore time.Time,
) ([]domain.PackageRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[keyFor(source, query)]
	if !ok || e.storedAt.Before(notBefore) {
		return nil, false, nil
	}
	out := make([]domain.PackageRecord, len(e.records))
	copy(out, e.records)
	return out, true, nil
}

// Put stores records.
func (s *CacheStore) Put(_ context.Context, source domain.SourceKind, query string, records []domain.PackageRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]domain.PackageRecord, len(records))
	copy(stored, records)
	s.entries[keyFor(source, query)] = cacheEntry{records: stored, storedAt: s.now()}
	return nil
}

// Prune removes entries stored before cutoff.
func (s *CacheStore) Prune(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for k, e := range s.entries {
		if e.storedAt.Before(cutoff) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed, nil
}
