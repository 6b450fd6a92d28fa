package cachemanager

import (
	"context"
	"sync"
	"time"
)

// ReadThroughCache loads a value through fn on a miss and stores it under key.
// Nothing invalidates entries implicitly; writers call Invalidate after a change.
// A load that overlaps an Invalidate is returned to its caller but not stored.
type ReadThroughCache[K comparable, V any, I any] struct {
	cache           CacheManager[K, V]
	fn              func(ctx context.Context, input I) (V, error)
	shouldSkipCache bool

	mu  sync.Mutex
	gen uint64
}

func NewReadThroughCache[K comparable, V any, I any](
	cache CacheManager[K, V],
	fn func(ctx context.Context, input I) (V, error),
	shouldSkipCache bool,
) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{
		cache:           cache,
		fn:              fn,
		shouldSkipCache: shouldSkipCache,
	}
}

func (r *ReadThroughCache[K, V, I]) Get(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	if r.shouldSkipCache {
		return r.fn(ctx, input)
	}

	if value, ok := r.cache.Get(ctx, key); ok {
		return value, nil
	}

	return r.load(ctx, key, input, ttl)
}

func (r *ReadThroughCache[K, V, I]) GetWithRefresh(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	if r.shouldSkipCache {
		return r.fn(ctx, input)
	}

	if value, ok := r.cache.GetWithRefresh(ctx, key, ttl); ok {
		return value, nil
	}

	return r.load(ctx, key, input, ttl)
}

func (r *ReadThroughCache[K, V, I]) load(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	r.mu.Lock()
	gen := r.gen
	r.mu.Unlock()

	value, err := r.fn(ctx, input)
	if err != nil {
		return value, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		// invalidated while loading; value may predate the write
		return value, nil
	}
	r.cache.Set(ctx, key, value, ttl)

	return value, nil
}

// Invalidate drops the cached values for keys so the next Get reloads them.
func (r *ReadThroughCache[K, V, I]) Invalidate(ctx context.Context, keys ...K) error {
	if r.shouldSkipCache {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	return r.cache.Delete(ctx, keys...)
}
