package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tenxcards/tenxcards-api/internal/domain"
	"github.com/tenxcards/tenxcards-api/internal/platform/logger"
	"github.com/tenxcards/tenxcards-api/internal/store"
)

// PostgresErrorLogStore implements store.ErrorLogStore.
type PostgresErrorLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresErrorLogStore panics if db is nil.
func NewPostgresErrorLogStore(db store.DBTX, logger *slog.Logger) *PostgresErrorLogStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresErrorLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "error_log_store")),
	}
}

var _ store.ErrorLogStore = (*PostgresErrorLogStore)(nil)

// WithTx implements store.ErrorLogStore.
func (s *PostgresErrorLogStore) WithTx(tx *sql.Tx) store.ErrorLogStore {
	return &PostgresErrorLogStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.ErrorLogStore.
func (s *PostgresErrorLogStore) Create(ctx context.Context, entry *domain.ErrorLog) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO error_logs (id, card_id, error_details, logged_at) VALUES ($1, $2, $3, $4)`,
		entry.ID, entry.CardID, entry.ErrorDetails, entry.LoggedAt)
	if err != nil {
		return MapError(err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("error log created",
		slog.String("error_log_id", entry.ID.String()),
		slog.String("card_id", entry.CardID.String()))
	return nil
}

// ListByCard implements store.ErrorLogStore.
func (s *PostgresErrorLogStore) ListByCard(ctx context.Context, cardID uuid.UUID) ([]*domain.ErrorLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, card_id, error_details, logged_at
		FROM error_logs
		WHERE card_id = $1
		ORDER BY logged_at DESC, id DESC
	`, cardID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*domain.ErrorLog
	for rows.Next() {
		var e domain.ErrorLog
		if err := rows.Scan(&e.ID, &e.CardID, &e.ErrorDetails, &e.LoggedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
