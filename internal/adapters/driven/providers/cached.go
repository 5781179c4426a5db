package providers

import (
	"context"
	"strings"
	"time"

	"github.com/paterkleomenis/archstore/internal/core/domain"
	"github.com/paterkleomenis/archstore/internal/core/ports/driven"
	"github.com/paterkleomenis/archstore/internal/logger"
)

// Ensure Cached implements the interface.
var _ driven.SourceProvider = (*Cached)(nil)

// Cached serves repeated queries from a CacheStore. Only successful
// results are stored. Cache read and write failures degrade to a direct
// call and are logged.
type Cached struct {
	inner driven.SourceProvider
	store driven.CacheStore
	ttl   time.Duration
	now   func() time.Time
}

// NewCached wraps inner. A non-positive ttl disables caching.
func NewCached(inner driven.SourceProvider, store driven.CacheStore, ttl time.Duration) *Cached {
	return &Cached{inner: inner, store: store, ttl: ttl, now: time.Now}
}

// Kind returns the wrapped provider's kind.
func (c *Cached) Kind() domain.SourceKind {
	return c.inner.Kind()
}

// Search returns a fresh cache entry when one exists, otherwise queries
// the wrapped provider. driven.WithoutCache skips the lookup but still
// refreshes the entry.
func (c *Cached) Search(ctx context.Context, query string) ([]domain.PackageRecord, error) {
	if c.store == nil || c.ttl <= 0 {
		return c.inner.Search(ctx, query)
	}

	kind := c.inner.Kind()
	key := cacheKey(query)

	if !driven.CacheBypassed(ctx) {
		records, ok, err := c.store.Get(ctx, kind, key, c.now().Add(-c.ttl))
		switch {
		case err != nil:
			logger.Warn("cache lookup for %s %q failed: %v", kind, key, err)
		case ok:
			logger.Debug("cache hit for %s %q (%d records)", kind, key, len(records))
			return records, nil
		}
	}

	records, err := c.inner.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	if err := c.store.Put(ctx, kind, key, records); err != nil {
		logger.Warn("cache store for %s %q failed: %v", kind, key, err)
	}
	return records, nil
}

// Details is never cached since it carries install state.
func (c *Cached) Details(ctx context.Context, name string) (domain.PackageDetails, error) {
	return c.inner.Details(ctx, name)
}

// Installed is never cached.
func (c *Cached) Installed(ctx context.Context) ([]domain.PackageRecord, error) {
	return c.inner.Installed(ctx)
}

func cacheKey(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}
