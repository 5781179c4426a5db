package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"

	"github.com/paterkleomenis/archstore/internal/core/domain"
	"github.com/paterkleomenis/archstore/internal/core/ports/driven"
	"github.com/paterkleomenis/archstore/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// recallWindow is how many recent entries Recall searches.
const recallWindow = 200

// HistoryService records completed searches and recalls them.
type HistoryService struct {
	store driven.HistoryStore
	now   func() time.Time
}

// NewHistoryService creates a history service backed by store.
func NewHistoryService(store driven.HistoryStore) *HistoryService {
	return &HistoryService{store: store, now: time.Now}
}

// Record stores a completed search. Blank queries are ignored.
func (s *HistoryService) Record(ctx context.Context, query string, resultCount int) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	entry := domain.HistoryEntry{
		Query:       query,
		ResultCount: resultCount,
		SearchedAt:  s.now(),
	}
	if err := s.store.Add(ctx, entry); err != nil {
		return fmt.Errorf("failed to record history: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, most recent first.
func (s *HistoryService) Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	entries, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return entries, nil
}

// Recall fuzzy-matches pattern against distinct recent queries. Each
// query appears once, represented by its latest search. An empty pattern
// returns the distinct queries newest first.
func (s *HistoryService) Recall(ctx context.Context, pattern string, limit int) ([]domain.HistoryEntry, error) {
	entries, err := s.store.List(ctx, recallWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	entries = distinctQueries(entries)

	pattern = strings.TrimSpace(pattern)
	var out []domain.HistoryEntry
	if pattern == "" {
		out = entries
	} else {
		matches := fuzzy.FindFrom(pattern, historySource(entries))
		out = make([]domain.HistoryEntry, 0, len(matches))
		for _, m := range matches {
			out = append(out, entries[m.Index])
		}
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Clear removes all history.
func (s *HistoryService) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// distinctQueries keeps the first occurrence of each query,
// case-insensitively. entries are newest first.
func distinctQueries(entries []domain.HistoryEntry) []domain.HistoryEntry {
	seen := make(map[string]bool, len(entries))
	out := make([]domain.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		k := strings.ToLower(e.Query)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, e)
	}
	return out
}

// historySource adapts history entries to fuzzy.Source.
type historySource []domain.HistoryEntry

func (h historySource) String(i int) string { return h[i].Query }
func (h historySource) Len() int            { return len(h) }
