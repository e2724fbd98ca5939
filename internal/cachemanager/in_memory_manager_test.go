package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type previewKey string

func TestInMemoryCacheManager_SetGet(t *testing.T) {
	cache := NewInMemoryCacheManager[previewKey, string]("previews", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "a.png", "rendered", 0)

	got, ok := cache.Get(context.Background(), "a.png")
	require.True(t, ok)
	require.Equal(t, "rendered", got)
	require.Equal(t, 1, cache.Len())
}

func TestInMemoryCacheManager_Miss(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("previews", DefaultExpiration, DefaultCleanupInterval)

	got, ok := cache.Get(context.Background(), "missing")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_WrongType(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("previews", DefaultExpiration, DefaultCleanupInterval)
	cache.cache.Set("a.png", 123, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "a.png")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_Expiry(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("previews", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "a.png", "rendered", time.Millisecond)

	require.Eventually(t, func() bool {
		_, ok := cache.Get(context.Background(), "a.png")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestInMemoryCacheManager_DeleteAndFlush(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[string, int]("previews", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(ctx, "a", 1, 0)
	cache.Set(ctx, "b", 2, 0)
	cache.Set(ctx, "c", 3, 0)

	require.NoError(t, cache.Delete(ctx, "a"))
	_, ok := cache.Get(ctx, "a")
	require.False(t, ok)
	require.Equal(t, 2, cache.Len())

	require.NoError(t, cache.Flush(ctx))
	require.Equal(t, 0, cache.Len())
}

func TestReadThroughCache_LoadsOnce(t *testing.T) {
	ctx := context.Background()
	calls := 0
	rt := NewReadThroughCache[string, int, string](
		NewInMemoryCacheManager[string, int]("lengths", DefaultExpiration, DefaultCleanupInterval),
		func(_ context.Context, in string) (int, error) {
			calls++
			return len(in), nil
		},
	)

	for range 3 {
		got, err := rt.Get(ctx, "k", "hello", 0)
		require.NoError(t, err)
		require.Equal(t, 5, got)
	}
	require.Equal(t, 1, calls)
}

func TestReadThroughCache_ErrorsNotCached(t *testing.T) {
	ctx := context.Background()
	calls := 0
	rt := NewReadThroughCache[string, int, string](
		NewInMemoryCacheManager[string, int]("lengths", DefaultExpiration, DefaultCleanupInterval),
		func(_ context.Context, _ string) (int, error) {
			calls++
			return 0, errors.New("boom")
		},
	)

	_, err := rt.Get(ctx, "k", "x", 0)
	require.Error(t, err)
	_, err = rt.Get(ctx, "k", "x", 0)
	require.Error(t, err)
	require.Equal(t, 2, calls)
}

func TestReadThroughCache_NilCacheCallsThrough(t *testing.T) {
	calls := 0
	rt := NewReadThroughCache[string, int, string](nil, func(_ context.Context, _ string) (int, error) {
		calls++
		return 1, nil
	})

	_, _ = rt.Get(context.Background(), "k", "x", 0)
	_, _ = rt.Get(context.Background(), "k", "x", 0)
	require.Equal(t, 2, calls)
}
