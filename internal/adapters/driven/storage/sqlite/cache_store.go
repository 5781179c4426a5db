package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/paterkleomenis/archstore/internal/core/domain"
	"github.com/paterkleomenis/archstore/internal/core/ports/driven"
)

// cacheStore implements driven.CacheStore over the result_cache table.
// Records are stored as a JSON array.
type cacheStore struct {
	store *Store
	now   func() time.Time
}

var _ driven.CacheStore = (*cacheStore)(nil)

func cacheQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Get returns the cached records if they were stored at or after notBefore.
func (s *cacheStore) Get(
	ctx context.Context, source domain.SourceKind, query string, notBefore time.Time,
) ([]domain.PackageRecord, bool, error) {
	var payload string
	var storedAt int64
	err := s.store.db.QueryRowContext(ctx, `
		SELECT records, stored_at FROM result_cache WHERE source = ? AND query = ?
	`, string(source), cacheQuery(query)).Scan(&payload, &storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("querying result cache: %w", err)
	}

	if time.Unix(0, storedAt).Before(notBefore) {
		return nil, false, nil
	}

	var records []domain.PackageRecord
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return nil, false, fmt.Errorf("unmarshalling cached records: %w", err)
	}
	return records, true, nil
}

// Put replaces the entry for source and query.
func (s *cacheStore) Put(
	ctx context.Context, source domain.SourceKind, query string, records []domain.PackageRecord,
) error {
	if records == nil {
		records = []domain.PackageRecord{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshalling records: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO result_cache (source, query, records, stored_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(source, query) DO UPDATE SET
			records = excluded.records,
			stored_at = excluded.stored_at
	`, string(source), cacheQuery(query), string(payload), s.now().UnixNano())
	if err != nil {
		return fmt.Errorf("saving cached records: %w", err)
	}
	return nil
}

// Prune deletes entries stored before cutoff.
func (s *cacheStore) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	n, err := execCount(ctx, s.store.db, `DELETE FROM result_cache WHERE stored_at < ?`, cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("pruning result cache: %w", err)
	}
	return n, nil
}
