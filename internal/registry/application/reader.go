// Package application implements the name-registration workflow on top of a
// domain.Table: a cached Reader, a check-then-insert Writer and the Workflow that
// ties them together.
package application

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/zjrosen/signup/internal/cachemanager"
	"github.com/zjrosen/signup/internal/log"
	"github.com/zjrosen/signup/internal/registry/domain"
)

// ReaderConfig configures a Reader.
type ReaderConfig struct {
	// Table names the remote table; it scopes the cache key.
	Table string
	// TTL bounds how long a fetched result is served from cache.
	// cachemanager.NoExpiration keeps it until Invalidate.
	TTL time.Duration
	// SkipCache sends every FetchAll to the table.
	SkipCache bool
}

// Reader fetches the whole registry, serving repeated reads from a cache until it is
// invalidated.
type Reader struct {
	table domain.Table
	cache *cachemanager.ReadThroughCache[string, []domain.Registrant, struct{}]
	key   string
	ttl   time.Duration
}

// NewReader wires a Reader to table, caching results in cache.
func NewReader(table domain.Table, cache cachemanager.CacheManager[string, []domain.Registrant], cfg ReaderConfig) (*Reader, error) {
	if table == nil {
		return nil, domain.ErrNilTable
	}
	r := &Reader{
		table: table,
		key:   fetchAllKey(cfg.Table),
		ttl:   cfg.TTL,
	}
	r.cache = cachemanager.NewReadThroughCache(cache, r.load, cfg.SkipCache || cache == nil)
	return r, nil
}

// fetchAllKey identifies the zero-argument full scan of table.
func fetchAllKey(table string) string {
	return table + "()"
}

func (r *Reader) load(ctx context.Context, _ struct{}) ([]domain.Registrant, error) {
	rows, err := r.table.SelectAll(ctx)
	if err != nil {
		log.ErrorErr(log.CatRegistry, "fetch failed", err, "key", r.key)
		return nil, fmt.Errorf("fetching registrants: %w", err)
	}
	if rows == nil {
		rows = []domain.Registrant{}
	}
	log.Debug(log.CatRegistry, "fetched registrants", "key", r.key, "rows", len(rows))
	return rows, nil
}

// FetchAll returns every row in the table. An empty table yields an empty, non-nil
// slice. The returned slice is the caller's to modify.
func (r *Reader) FetchAll(ctx context.Context) ([]domain.Registrant, error) {
	rows, err := r.cache.Get(ctx, r.key, struct{}{}, r.ttl)
	if err != nil {
		return nil, err
	}
	return slices.Clone(rows), nil
}

// Invalidate forces the next FetchAll to reach the table.
func (r *Reader) Invalidate(ctx context.Context) error {
	if err := r.cache.Invalidate(ctx, r.key); err != nil {
		return fmt.Errorf("invalidating %s: %w", r.key, err)
	}
	return nil
}
