package main

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/diydelight/customizer-api/internal/config"
	"github.com/diydelight/customizer-api/internal/domain"
	"github.com/diydelight/customizer-api/internal/platform/cache"
	"github.com/diydelight/customizer-api/internal/platform/postgres"
	"github.com/diydelight/customizer-api/internal/store"
)

// application holds the initialized dependencies of the running server.
// The catalog and ruleset are constructed once here and injected into
// every component that needs them, so the boundary check and the store's
// commit-time check always enforce the identical registry.
type application struct {
	config    *config.Config
	logger    *slog.Logger
	db        *sql.DB
	redis     *redis.Client
	catalog   *domain.Catalog
	rules     domain.Ruleset
	itemStore store.ItemStore
}

// newApplication wires the application's dependencies: the process-wide
// catalog and forbidden-combination registry, the Postgres item store,
// and (when configured) the Redis read-through cache decorating it.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		db:      db,
		catalog: domain.DefaultCatalog(),
		rules:   domain.DefaultRuleset(),
	}

	app.itemStore = postgres.NewPostgresItemStore(db, app.catalog, app.rules, logger)

	if cfg.Cache.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.Cache.RedisURL)
		if err != nil {
			return nil, err
		}
		app.redis = redis.NewClient(opts)

		ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
		app.itemStore = cache.NewCachedItemStore(app.itemStore, app.redis, ttl, logger)
		logger.Info("Redis cache enabled", "ttl", ttl.String())
	}

	return app, nil
}

// cleanup releases the application's long-lived resources. Called after
// the HTTP server has drained.
func (app *application) cleanup() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("Failed to close redis client", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Failed to close database connection", "error", err)
		}
	}
}
