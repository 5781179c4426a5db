package driven

import (
	"context"

	"github.com/paterkleomenis/archstore/internal/core/domain"
)

// HistoryStore persists completed searches.
type HistoryStore interface {
	// Add appends an entry. ID is assigned by the store.
	Add(ctx context.Context, entry domain.HistoryEntry) error

	// List returns up to limit entries, most recent first.
	// A non-positive limit returns all entries.
	List(ctx context.Context, limit int) ([]domain.HistoryEntry, error)

	// Trim keeps the newest keep entries and returns how many were removed.
	Trim(ctx context.Context, keep int) (int, error)

	// Clear removes all entries.
	Clear(ctx context.Context) error
}
