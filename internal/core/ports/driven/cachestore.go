package driven

import (
	"context"
	"time"

	"github.com/paterkleomenis/archstore/internal/core/domain"
)

// CacheStore keeps recent provider results keyed by source and query.
type CacheStore interface {
	// Get returns the cached records if they were stored after notBefore.
	// The boolean reports whether a usable entry was found.
	Get(ctx context.Context, source domain.SourceKind, query string, notBefore time.Time) ([]domain.PackageRecord, bool, error)

	// Put stores records for source and query, replacing any previous entry.
	Put(ctx context.Context, source domain.SourceKind, query string, records []domain.PackageRecord) error

	// Prune deletes entries stored before cutoff and returns how many were removed.
	Prune(ctx context.Context, cutoff time.Time) (int, error)
}

type bypassCacheKey struct{}

// WithoutCache marks ctx so cache-backed providers call through to the
// underlying source.
func WithoutCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, bypassCacheKey{}, true)
}

// CacheBypassed reports whether ctx was marked by WithoutCache.
func CacheBypassed(ctx context.Context) bool {
	v, _ := ctx.Value(bypassCacheKey{}).(bool)
	return v
}
