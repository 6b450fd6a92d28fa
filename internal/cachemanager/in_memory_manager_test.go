package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/signup/internal/registry/domain"
)

func TestNewInMemoryCacheManager(t *testing.T) {
	require.NotPanics(t, func() {
		NewInMemoryCacheManager[string, string]("test", DefaultExpiration, DefaultCleanupInterval)
	})
}

func TestNewInMemoryCacheManager_GetExistingValue_SliceType(t *testing.T) {
	cache := NewInMemoryCacheManager[string, []domain.Registrant]("registry", DefaultExpiration, DefaultCleanupInterval)
	rows := []domain.Registrant{{Name: "bob", Data: "x"}}
	cache.Set(context.Background(), "my_first_table()", rows, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "my_first_table()")
	require.True(t, ok)
	require.Equal(t, rows, got)
}

func TestNewInMemoryCacheManager_GetExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("names", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "first", "alice", DefaultExpiration)

	got, ok := cache.Get(context.Background(), "first")
	require.True(t, ok)
	require.Equal(t, "alice", got)
}

func TestNewInMemoryCacheManager_GetWithNoExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("names", DefaultExpiration, DefaultCleanupInterval)

	got, ok := cache.Get(context.Background(), "first")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestNewInMemoryCacheManager_GetWithExistingInvalidValueType(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("names", DefaultExpiration, DefaultCleanupInterval)

	cache.cache.Set("first", 123, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "first")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestNewInMemoryCacheManager_NamedKeyType(t *testing.T) {
	type tableKey string
	cache := NewInMemoryCacheManager[tableKey, int]("counts", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), tableKey("t"), 3, DefaultExpiration)

	got, ok := cache.Get(context.Background(), tableKey("t"))
	require.True(t, ok)
	require.Equal(t, 3, got)
}

func TestNewInMemoryCacheManager_GetMultipleWithNoKeysDoesNothing(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("names", DefaultExpiration, DefaultCleanupInterval)

	got, ok := cache.GetMultiple(context.Background(), []string{})
	require.False(t, ok)
	require.Nil(t, got)
}

func TestNewInMemoryCacheManager_GetMultipleCacheHit(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("names", DefaultExpiration, DefaultCleanupInterval)

	cache.cache.Set("first", "alice", DefaultExpiration)
	cache.cache.Set("second", "bob", DefaultExpiration)

	got, ok := cache.GetMultiple(context.Background(), []string{"first", "second", "missing"})
	require.True(t, ok)
	require.Equal(t, map[string]string{"first": "alice", "second": "bob"}, got)
}

func TestNewInMemoryCacheManager_GetMultipleCacheMiss(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("names", DefaultExpiration, DefaultCleanupInterval)

	got, ok := cache.GetMultiple(context.Background(), []string{"first", "second", "missing"})
	require.False(t, ok)
	require.Nil(t, got)
}

func TestNewInMemoryCacheManager_GetMultipleWithExistingInvalidValueType(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("names", DefaultExpiration, DefaultCleanupInterval)

	cache.cache.Set("first", "alice", DefaultExpiration)
	cache.cache.Set("second", 123, DefaultExpiration)

	got, ok := cache.GetMultiple(context.Background(), []string{"first", "second"})
	require.True(t, ok)
	require.Equal(t, map[string]string{"first": "alice"}, got)
}

func TestNewInMemoryCacheManager_GetWithRefresh_WithNoExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("names", DefaultExpiration, DefaultCleanupInterval)

	got, ok := cache.GetWithRefresh(context.Background(), "first", time.Minute*60)
	require.False(t, ok)
	require.Equal(t, "", got)
}

func TestNewInMemoryCacheManager_GetWithRefresh_WithExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("names", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "first", "alice", DefaultExpiration)

	got, ok := cache.GetWithRefresh(context.Background(), "first", time.Minute*60)
	require.True(t, ok)
	require.Equal(t, "alice", got)
}

func TestNewInMemoryCacheManager_ExpiredValueIsMiss(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("names", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "first", "alice", time.Millisecond)

	require.Eventually(t, func() bool {
		_, ok := cache.Get(context.Background(), "first")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestNewInMemoryCacheManager_NoExpirationSurvives(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("names", NoExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "first", "alice", NoExpiration)

	got, ok := cache.Get(context.Background(), "first")
	require.True(t, ok)
	require.Equal(t, "alice", got)
}

func TestNewInMemoryCacheManager_DeleteWithNoKeysDoesNothing(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("names", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "first", "alice", DefaultExpiration)

	err := cache.Delete(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, cache.ItemCount())
}

func TestNewInMemoryCacheManager_DeleteExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("names", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "first", "alice", DefaultExpiration)

	got, ok := cache.Get(context.Background(), "first")
	require.True(t, ok)
	require.Equal(t, "alice", got)

	err := cache.Delete(context.Background(), "first")
	require.NoError(t, err)

	got, ok = cache.Get(context.Background(), "first")
	require.False(t, ok)
	require.Equal(t, "", got)
}

func TestNewInMemoryCacheManager_Flush(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("names", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "first", "alice", DefaultExpiration)
	cache.Set(context.Background(), "second", "bob", DefaultExpiration)

	err := cache.Flush(context.Background())
	require.NoError(t, err)

	_, ok := cache.Get(context.Background(), "first")
	require.False(t, ok)
	require.Equal(t, 0, cache.ItemCount())
}
