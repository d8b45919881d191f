package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tenxcards/tenxcards-api/internal/domain"
	"github.com/tenxcards/tenxcards-api/internal/platform/logger"
	"github.com/tenxcards/tenxcards-api/internal/store"
)

// PostgresOriginalContentStore implements store.OriginalContentStore.
type PostgresOriginalContentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresOriginalContentStore panics if db is nil.
func NewPostgresOriginalContentStore(db store.DBTX, logger *slog.Logger) *PostgresOriginalContentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresOriginalContentStore{
		db:     db,
		logger: logger.With(slog.String("component", "original_content_store")),
	}
}

var _ store.OriginalContentStore = (*PostgresOriginalContentStore)(nil)

// WithTx implements store.OriginalContentStore.
func (s *PostgresOriginalContentStore) WithTx(tx *sql.Tx) store.OriginalContentStore {
	return &PostgresOriginalContentStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.OriginalContentStore. A missing owner is reported
// as store.ErrReferenceViolation.
func (s *PostgresOriginalContentStore) Create(ctx context.Context, content *domain.OriginalContent) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := content.Validate(); err != nil {
		log.Warn("original content validation failed during create",
			slog.String("error", err.Error()),
			slog.String("original_content_id", content.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO original_contents (id, user_id, content, created_at) VALUES ($1, $2, $3, $4)`,
		content.ID, content.UserID, content.Content, content.CreatedAt)
	if err != nil {
		log.Error("failed to create original content",
			slog.String("error", err.Error()),
			slog.String("original_content_id", content.ID.String()),
			slog.String("user_id", content.UserID.String()))
		return MapError(err)
	}

	log.Info("original content created",
		slog.String("original_content_id", content.ID.String()),
		slog.String("user_id", content.UserID.String()),
		slog.Int("length", len(content.Content)))
	return nil
}

// GetByID implements store.OriginalContentStore.
func (s *PostgresOriginalContentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.OriginalContent, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var oc domain.OriginalContent
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, content, created_at FROM original_contents WHERE id = $1`, id,
	).Scan(&oc.ID, &oc.UserID, &oc.Content, &oc.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("original content not found", slog.String("original_content_id", id.String()))
			return nil, store.ErrOriginalContentNotFound
		}
		log.Error("failed to get original content",
			slog.String("error", err.Error()),
			slog.String("original_content_id", id.String()))
		return nil, MapError(err)
	}
	return &oc, nil
}

// ListByUser implements store.OriginalContentStore.
func (s *PostgresOriginalContentStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.OriginalContent, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM original_contents WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		log.Error("failed to count original contents",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, 0, MapError(err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, content, created_at
		FROM original_contents
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		log.Error("failed to list original contents",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, 0, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var contents []*domain.OriginalContent
	for rows.Next() {
		var oc domain.OriginalContent
		if err := rows.Scan(&oc.ID, &oc.UserID, &oc.Content, &oc.CreatedAt); err != nil {
			log.Error("failed to scan original content row", slog.String("error", err.Error()))
			return nil, 0, err
		}
		contents = append(contents, &oc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return contents, total, nil
}

// Delete implements store.OriginalContentStore.
func (s *PostgresOriginalContentStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM original_contents WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete original content",
			slog.String("error", err.Error()),
			slog.String("original_content_id", id.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrOriginalContentNotFound); err != nil {
		return err
	}

	log.Info("original content deleted", slog.String("original_content_id", id.String()))
	return nil
}
