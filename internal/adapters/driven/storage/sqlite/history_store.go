package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/paterkleomenis/archstore/internal/core/domain"
	"github.com/paterkleomenis/archstore/internal/core/ports/driven"
)

// historyStore implements driven.HistoryStore over the search_history table.
type historyStore struct {
	store *Store
}

var _ driven.HistoryStore = (*historyStore)(nil)

// Add appends an entry.
func (s *historyStore) Add(ctx context.Context, entry domain.HistoryEntry) error {
	if entry.SearchedAt.IsZero() {
		entry.SearchedAt = time.Now()
	}
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO search_history (query, result_count, searched_at) VALUES (?, ?, ?)
	`, entry.Query, entry.ResultCount, entry.SearchedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("saving history entry: %w", err)
	}
	return nil
}

func scanHistory(row rowScanner) (domain.HistoryEntry, error) {
	var e domain.HistoryEntry
	var at unixTime
	err := row.Scan(&e.ID, &e.Query, &e.ResultCount, &at)
	e.SearchedAt = time.Time(at).Local()
	return e, err
}

// List returns up to limit entries, most recent first. A non-positive
// limit returns everything.
func (s *historyStore) List(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	entries, err := queryAll(ctx, s.store.db, scanHistory, `
		SELECT id, query, result_count, searched_at
		FROM search_history
		ORDER BY searched_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	return entries, nil
}

// Trim keeps the newest keep entries and reports how many were deleted.
func (s *historyStore) Trim(ctx context.Context, keep int) (int, error) {
	n, err := execCount(ctx, s.store.db, `
		DELETE FROM search_history
		WHERE id NOT IN (
			SELECT id FROM search_history ORDER BY searched_at DESC, id DESC LIMIT ?
		)`, max(keep, 0))
	if err != nil {
		return 0, fmt.Errorf("trimming history: %w", err)
	}
	return n, nil
}

// Clear removes all entries.
func (s *historyStore) Clear(ctx context.Context) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM search_history"); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}
