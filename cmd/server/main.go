// Package main implements the entry point for the customizer API server,
// which lets users configure a custom item, previews the live price, and
// persists the resulting configurations.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	"github.com/diydelight/customizer-api/internal/config"
	"github.com/diydelight/customizer-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"run a migration command (up, down, status) and exit")
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

// run loads configuration, sets up logging and the database, applies
// migrations, wires the application, and starts the HTTP server. When
// migrateCmd is non-empty only that migration command is executed.
func run(migrateCmd string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	if migrateCmd != "" {
		defer func() {
			if err := db.Close(); err != nil {
				appLogger.Error("Failed to close database connection", "error", err)
			}
		}()
		return runMigrations(db, migrateCmd)
	}

	// Normal startup applies pending migrations before serving.
	if err := runMigrations(db, "up"); err != nil {
		return err
	}

	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	router := app.setupRouter()
	return app.startHTTPServer(context.Background(), router)
}
