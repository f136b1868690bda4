package boltdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := Open(filepath.Join(t.TempDir(), "codes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestCacheSetGet(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "email_verification_token:a@example.com", "CODE", time.Minute))

	value, ok, err := cache.Get(ctx, "email_verification_token:a@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "CODE", value)

	_, ok, err = cache.Get(ctx, "absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheExpiredEntryIsDeletedOnRead(t *testing.T) {
	now := time.Now()
	cache := openTestCache(t)
	cache.Now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", "v", time.Minute))

	now = now.Add(2 * time.Minute)
	_, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	// The entry is gone for good: winding the clock back does not revive it.
	now = now.Add(-2 * time.Minute)
	_, ok, err = cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codes.db")
	ctx := context.Background()

	cache, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, cache.Set(ctx, "k", "v", time.Hour))
	require.NoError(t, cache.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, ok, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", value)
}

func TestCacheOverwrite(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", "old", time.Minute))
	require.NoError(t, cache.Set(ctx, "k", "new", time.Minute))

	value, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "new", value)
}
