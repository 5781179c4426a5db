package driving

import (
	"context"

	"github.com/paterkleomenis/archstore/internal/core/domain"
)

// HistoryService records and recalls past searches.
type HistoryService interface {
	// Record stores a completed search.
	Record(ctx context.Context, query string, resultCount int) error

	// Recent returns up to limit entries, most recent first.
	Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error)

	// Recall fuzzy-matches pattern against past queries, best match first.
	Recall(ctx context.Context, pattern string, limit int) ([]domain.HistoryEntry, error)

	// Clear removes all history.
	Clear(ctx context.Context) error
}
