package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/signup/internal/mocks"
	"github.com/zjrosen/signup/internal/registry/domain"
)

type tableInput struct {
	Table string
}

func loaderReturning(rows []domain.Registrant, calls *int) func(context.Context, tableInput) ([]domain.Registrant, error) {
	return func(ctx context.Context, input tableInput) ([]domain.Registrant, error) {
		*calls++
		return rows, nil
	}
}

func TestReadThroughCache_Get_WithCacheDisabled(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[string, []domain.Registrant](t)
	calls := 0

	readThroughCache := NewReadThroughCache[string, []domain.Registrant, tableInput](
		managerMock,
		loaderReturning([]domain.Registrant{{Name: "bob", Data: "x"}}, &calls),
		true,
	)

	rows, err := readThroughCache.Get(context.Background(), "key", tableInput{Table: "t"}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, []domain.Registrant{{Name: "bob", Data: "x"}}, rows)

	_, err = readThroughCache.Get(context.Background(), "key", tableInput{Table: "t"}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestReadThroughCache_GetWithRefresh_WithCacheDisabled(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[string, []domain.Registrant](t)
	calls := 0

	readThroughCache := NewReadThroughCache[string, []domain.Registrant, tableInput](
		managerMock,
		loaderReturning([]domain.Registrant{{Name: "bob"}}, &calls),
		true,
	)

	rows, err := readThroughCache.GetWithRefresh(context.Background(), "key", tableInput{}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, []domain.Registrant{{Name: "bob"}}, rows)
	require.Equal(t, 1, calls)
}

func TestReadThroughCache_Get_WithValueInCache(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[string, []domain.Registrant](t)
	managerMock.EXPECT().Get(mock.Anything, "key").Return([]domain.Registrant{{Name: "cached"}}, true)
	calls := 0

	readThroughCache := NewReadThroughCache[string, []domain.Registrant, tableInput](
		managerMock,
		loaderReturning([]domain.Registrant{{Name: "fresh"}}, &calls),
		false,
	)

	rows, err := readThroughCache.Get(context.Background(), "key", tableInput{}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, []domain.Registrant{{Name: "cached"}}, rows)
	require.Zero(t, calls)
}

func TestReadThroughCache_Get_EmptyCache(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[string, []domain.Registrant](t)
	managerMock.EXPECT().Get(mock.Anything, "key").Return(nil, false)
	managerMock.EXPECT().Set(mock.Anything, "key", []domain.Registrant{{Name: "fresh"}}, time.Minute).Return()
	calls := 0

	readThroughCache := NewReadThroughCache[string, []domain.Registrant, tableInput](
		managerMock,
		loaderReturning([]domain.Registrant{{Name: "fresh"}}, &calls),
		false,
	)

	rows, err := readThroughCache.Get(context.Background(), "key", tableInput{}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, []domain.Registrant{{Name: "fresh"}}, rows)
	require.Equal(t, 1, calls)
}

func TestReadThroughCache_Get_LoaderError(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[string, []domain.Registrant](t)
	managerMock.EXPECT().Get(mock.Anything, "key").Return(nil, false)

	readThroughCache := NewReadThroughCache[string, []domain.Registrant, tableInput](
		managerMock,
		func(ctx context.Context, input tableInput) ([]domain.Registrant, error) {
			return nil, errors.New("failed to get data")
		},
		false,
	)

	_, err := readThroughCache.Get(context.Background(), "key", tableInput{}, time.Minute)
	require.Error(t, err)
}

func TestReadThroughCache_GetWithRefresh_WithValueInCache(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[string, []domain.Registrant](t)
	managerMock.EXPECT().GetWithRefresh(mock.Anything, "key", time.Minute).Return([]domain.Registrant{{Name: "cached"}}, true)
	calls := 0

	readThroughCache := NewReadThroughCache[string, []domain.Registrant, tableInput](
		managerMock,
		loaderReturning(nil, &calls),
		false,
	)

	rows, err := readThroughCache.GetWithRefresh(context.Background(), "key", tableInput{}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, []domain.Registrant{{Name: "cached"}}, rows)
	require.Zero(t, calls)
}

func TestReadThroughCache_GetWithRefresh_EmptyCache(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[string, []domain.Registrant](t)
	managerMock.EXPECT().GetWithRefresh(mock.Anything, "key", mock.Anything).Return(nil, false)
	managerMock.EXPECT().Set(mock.Anything, "key", []domain.Registrant{{Name: "fresh"}}, mock.Anything).Return()
	calls := 0

	readThroughCache := NewReadThroughCache[string, []domain.Registrant, tableInput](
		managerMock,
		loaderReturning([]domain.Registrant{{Name: "fresh"}}, &calls),
		false,
	)

	rows, err := readThroughCache.GetWithRefresh(context.Background(), "key", tableInput{}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, []domain.Registrant{{Name: "fresh"}}, rows)
}

func TestReadThroughCache_GetWithRefresh_LoaderError(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[string, []domain.Registrant](t)
	managerMock.EXPECT().GetWithRefresh(mock.Anything, "key", mock.Anything).Return(nil, false)

	readThroughCache := NewReadThroughCache[string, []domain.Registrant, tableInput](
		managerMock,
		func(ctx context.Context, input tableInput) ([]domain.Registrant, error) {
			return nil, errors.New("failed to get data")
		},
		false,
	)

	_, err := readThroughCache.GetWithRefresh(context.Background(), "key", tableInput{}, time.Minute)
	require.Error(t, err)
}

func TestReadThroughCache_Invalidate(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[string, []domain.Registrant](t)
	managerMock.EXPECT().Delete(mock.Anything, "key").Return(nil)

	readThroughCache := NewReadThroughCache[string, []domain.Registrant, tableInput](managerMock, nil, false)

	require.NoError(t, readThroughCache.Invalidate(context.Background(), "key"))
}

func TestReadThroughCache_Invalidate_WithCacheDisabled(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[string, []domain.Registrant](t)

	readThroughCache := NewReadThroughCache[string, []domain.Registrant, tableInput](managerMock, nil, true)

	require.NoError(t, readThroughCache.Invalidate(context.Background(), "key"))
}

func TestReadThroughCache_InvalidateForcesReload(t *testing.T) {
	cache := NewInMemoryCacheManager[string, []domain.Registrant]("registry", NoExpiration, DefaultCleanupInterval)
	rows := []domain.Registrant{{Name: "bob"}}
	calls := 0

	readThroughCache := NewReadThroughCache[string, []domain.Registrant, tableInput](
		cache,
		func(ctx context.Context, input tableInput) ([]domain.Registrant, error) {
			calls++
			return rows, nil
		},
		false,
	)

	ctx := context.Background()
	_, err := readThroughCache.Get(ctx, "key", tableInput{}, NoExpiration)
	require.NoError(t, err)
	_, err = readThroughCache.Get(ctx, "key", tableInput{}, NoExpiration)
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	rows = append(rows, domain.Registrant{Name: "carol"})
	require.NoError(t, readThroughCache.Invalidate(ctx, "key"))

	got, err := readThroughCache.Get(ctx, "key", tableInput{}, NoExpiration)
	require.NoError(t, err)
	require.Equal(t, 2, calls)
	require.Len(t, got, 2)
}

func TestReadThroughCache_LoadOverlappingInvalidateIsNotStored(t *testing.T) {
	manager := NewInMemoryCacheManager[string, []domain.Registrant]("registry", NoExpiration, DefaultCleanupInterval)
	started := make(chan struct{})
	release := make(chan struct{})
	stale := []domain.Registrant{{Name: "bob", Data: "x"}}

	readThroughCache := NewReadThroughCache[string, []domain.Registrant, tableInput](
		manager,
		func(ctx context.Context, input tableInput) ([]domain.Registrant, error) {
			close(started)
			<-release
			return stale, nil
		},
		false,
	)

	done := make(chan []domain.Registrant)
	go func() {
		rows, _ := readThroughCache.Get(context.Background(), "key", tableInput{Table: "t"}, time.Minute)
		done <- rows
	}()

	<-started
	// a writer inserts and invalidates while the slow read is in flight
	require.NoError(t, readThroughCache.Invalidate(context.Background(), "key"))
	close(release)

	require.Equal(t, stale, <-done, "the caller still gets what it loaded")
	_, ok := manager.Get(context.Background(), "key")
	require.False(t, ok, "stale load must not repopulate the cache")
}

func TestReadThroughCache_LoadAfterInvalidateIsStored(t *testing.T) {
	manager := NewInMemoryCacheManager[string, []domain.Registrant]("registry", NoExpiration, DefaultCleanupInterval)
	calls := 0
	readThroughCache := NewReadThroughCache[string, []domain.Registrant, tableInput](
		manager,
		loaderReturning([]domain.Registrant{{Name: "carol", Data: "x"}}, &calls),
		false,
	)
	ctx := context.Background()

	require.NoError(t, readThroughCache.Invalidate(ctx, "key"))
	_, err := readThroughCache.Get(ctx, "key", tableInput{Table: "t"}, time.Minute)
	require.NoError(t, err)
	_, err = readThroughCache.Get(ctx, "key", tableInput{Table: "t"}, time.Minute)
	require.NoError(t, err)

	require.Equal(t, 1, calls)
}
