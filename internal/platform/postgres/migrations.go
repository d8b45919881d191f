package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
)

// MigrationTableName is the table goose uses to track applied migrations.
const MigrationTableName = "schema_migrations"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migration commands accepted by RunMigrationCommand.
const (
	MigrateUp     = "up"
	MigrateDown   = "down"
	MigrateStatus = "status"
	MigrateReset  = "reset"
)

// ErrUnknownMigrationCommand is returned for a command outside the Migrate* set.
var ErrUnknownMigrationCommand = errors.New("unknown migration command")

// Migrate applies all pending embedded migrations to db.
func Migrate(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	log, err := prepareGoose(logger)
	if err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		log.Error("migrations failed", slog.String("error", err.Error()))
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	log.Info("database schema is up to date", slog.Int64("version", version))
	return nil
}

// RunMigrationCommand runs one goose command against the embedded migrations.
func RunMigrationCommand(ctx context.Context, db *sql.DB, command string, logger *slog.Logger) error {
	switch command {
	case MigrateUp:
		return Migrate(ctx, db, logger)
	case MigrateDown, MigrateStatus, MigrateReset:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMigrationCommand, command)
	}

	log, err := prepareGoose(logger)
	if err != nil {
		return err
	}
	if err := goose.RunContext(ctx, command, db, "migrations"); err != nil {
		return fmt.Errorf("migration command %s failed: %w", command, err)
	}
	log.Info("migration command completed", slog.String("command", command))
	return nil
}

func prepareGoose(logger *slog.Logger) (*slog.Logger, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(slog.String("component", "migrations"))

	goose.SetBaseFS(migrationsFS)
	goose.SetTableName(MigrationTableName)
	goose.SetLogger(&slogGooseLogger{logger: log})
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("failed to set migration dialect: %w", err)
	}
	return log, nil
}

// slogGooseLogger adapts slog to goose.Logger.
type slogGooseLogger struct {
	logger *slog.Logger
}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf logs at error level. It does not exit; goose reports the failure
// through its returned error.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}
