package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/zjrosen/signup/internal/cachemanager"
	"github.com/zjrosen/signup/internal/config"
	"github.com/zjrosen/signup/internal/infrastructure/postgrest"
	"github.com/zjrosen/signup/internal/infrastructure/sqlite"
	"github.com/zjrosen/signup/internal/log"
	"github.com/zjrosen/signup/internal/pubsub"
	"github.com/zjrosen/signup/internal/registry/application"
	"github.com/zjrosen/signup/internal/registry/domain"
	"github.com/zjrosen/signup/internal/tracing"
)

// app holds everything a command needs to talk to the registry.
type app struct {
	workflow *application.Workflow
	events   *pubsub.Broker[domain.Registrant]
	db       *sqlite.DB
	closers  []func() error
}

// newApp builds the table for cfg.Backend, wraps it in tracing and assembles the
// Reader, Writer and Workflow. Close releases everything it opened.
func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	a := &app{events: pubsub.NewBroker[domain.Registrant]()}
	a.closers = append(a.closers, func() error { a.events.Close(); return nil })

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("starting tracing: %w", err)
	}
	a.closers = append(a.closers, func() error { return provider.Shutdown(context.WithoutCancel(ctx)) })

	table, err := a.openTable(cfg)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	if provider.Enabled() {
		table = tracing.NewTracedTable(table, provider.Tracer(), tableSystem(cfg.Backend), cfg.Table)
	}

	ttl := cfg.Cache.TTL
	if ttl == 0 {
		ttl = cachemanager.NoExpiration
	}
	cache := cachemanager.NewInMemoryCacheManager[string, []domain.Registrant]("registry", ttl, cachemanager.DefaultCleanupInterval)

	reader, err := application.NewReader(table, cache, application.ReaderConfig{
		Table:     cfg.Table,
		TTL:       ttl,
		SkipCache: cfg.Cache.Disabled,
	})
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	writer, err := application.NewWriter(table, cfg.PlaceholderData)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.workflow = application.NewWorkflow(reader, writer, application.WithEvents(a.events))
	log.Debug(log.CatRegistry, "registry ready", "backend", cfg.Backend, "table", cfg.Table, "tracing", provider.Enabled())
	return a, nil
}

// tableSystem names the store behind backend for span attributes.
func tableSystem(backend string) string {
	if backend == config.BackendRemote {
		return "postgrest"
	}
	return backend
}

func (a *app) openTable(cfg config.Config) (domain.Table, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		db, err := sqlite.NewDB(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("opening registry database: %w", err)
		}
		a.db = db
		a.closers = append(a.closers, db.Close)
		table, err := db.Registrants(cfg.Table)
		if err != nil {
			return nil, err
		}
		return table, nil

	case config.BackendRemote:
		client, err := postgrest.NewClient(postgrest.ClientConfig{
			URL:     cfg.Remote.URL,
			Key:     cfg.Remote.Key,
			Schema:  cfg.Remote.Schema,
			Timeout: cfg.Remote.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("creating registry client: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		return client.Table(cfg.Table), nil

	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
