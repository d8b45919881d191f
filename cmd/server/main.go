// Package main runs the TenXCards API server: it generates flashcards from
// user-supplied text through a language model and stores them per user.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tenxcards/tenxcards-api/internal/config"
	"github.com/tenxcards/tenxcards-api/internal/platform/logger"
	"github.com/tenxcards/tenxcards-api/internal/platform/postgres"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, status, reset) and exit")
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		fmt.Fprintf(os.Stderr, "tenxcards-api: %v\n", err)
		os.Exit(1)
	}
}

// run loads configuration, prepares the database and serves until SIGINT or
// SIGTERM. A non-empty migrateCmd runs that migration command instead.
func run(migrateCmd string) error {
	// Load configuration from .env, environment and config.yaml
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Set up structured logging
	log, err := logger.Setup(logger.LoggerConfig{Level: cfg.Server.LogLevel})
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("ai_provider", cfg.AI.Provider))

	// Cancel on SIGINT/SIGTERM for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := setupAppDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}

	// Run the requested migration command and exit
	if migrateCmd != "" {
		err := postgres.RunMigrationCommand(ctx, db, migrateCmd, log)
		if closeErr := db.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("failed to close database: %w", closeErr)
		}
		return err
	}

	// Bring the schema up to date before serving
	if err := postgres.Migrate(ctx, db, log); err != nil {
		_ = db.Close()
		return err
	}

	app, err := newApplication(ctx, cfg, log, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
