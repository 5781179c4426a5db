package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paterkleomenis/archstore/internal/core/domain"
)

func TestCacheStore_GetPutPrune(t *testing.T) {
	ctx := context.Background()
	store := NewCacheStore()
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }

	records := []domain.PackageRecord{{Name: "firefox", Source: domain.SourceOfficial}}
	require.NoError(t, store.Put(ctx, domain.SourceOfficial, "FireFox ", records))

	got, ok, err := store.Get(ctx, domain.SourceOfficial, "firefox", base.Add(-time.Minute))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, records, got)

	_, ok, err = store.Get(ctx, domain.SourceOfficial, "firefox", base.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, ok, "entry older than notBefore")

	_, ok, err = store.Get(ctx, domain.SourceCommunity, "firefox", time.Time{})
	require.NoError(t, err)
	assert.False(t, ok, "different source")

	removed, err := store.Prune(ctx, base.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, ok, err = store.Get(ctx, domain.SourceOfficial, "firefox", time.Time{})
	require.NoError(t, err)
	assert.False(t, ok)
}
