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

const cardColumns = `id, user_id, original_content_id, front, back, generated_by, created_at, updated_at`

// PostgresCardStore implements store.CardStore on PostgreSQL.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a card store on db, which may be a *sql.DB or
// a *sql.Tx. It panics if db is nil.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

var _ store.CardStore = (*PostgresCardStore)(nil)

// WithTx implements store.CardStore.
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.CardStore.
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during create",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO cards (` + cardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		card.ID,
		card.UserID,
		nullUUID(card.OriginalContentID),
		card.Front,
		card.Back,
		string(card.GeneratedBy),
		card.CreatedAt,
		card.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()),
			slog.String("user_id", card.UserID.String()))
		return MapError(err)
	}

	log.Debug("card created",
		slog.String("card_id", card.ID.String()),
		slog.String("generated_by", string(card.GeneratedBy)))
	return nil
}

// CreateMultiple implements store.CardStore. The caller provides atomicity
// by running it on a transaction-bound store.
func (s *PostgresCardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for i, card := range cards {
		if err := s.Create(ctx, card); err != nil {
			return fmt.Errorf("card %d: %w", i, err)
		}
	}

	log.Info("cards created", slog.Int("count", len(cards)))
	return nil
}

// GetByID implements store.CardStore.
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1`

	card, err := scanCard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("card not found", slog.String("card_id", id.String()))
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card by ID",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return nil, MapError(err)
	}
	return card, nil
}

// List implements store.CardStore.
func (s *PostgresCardStore) List(ctx context.Context, filter store.CardFilter) ([]*domain.Card, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where := "WHERE user_id = $1"
	args := []any{filter.UserID}
	if filter.GeneratedBy != "" {
		args = append(args, string(filter.GeneratedBy))
		where += fmt.Sprintf(" AND generated_by = $%d", len(args))
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cards "+where, args...).Scan(&total); err != nil {
		log.Error("failed to count cards",
			slog.String("error", err.Error()),
			slog.String("user_id", filter.UserID.String()))
		return nil, 0, MapError(err)
	}

	order := "created_at DESC, id DESC"
	if filter.Sort == store.CardSortCreatedAsc {
		order = "created_at ASC, id ASC"
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM cards %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		cardColumns, where, order, len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list cards",
			slog.String("error", err.Error()),
			slog.String("user_id", filter.UserID.String()))
		return nil, 0, MapError(err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Debug("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	cards := make([]*domain.Card, 0, limit)
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			log.Error("failed to scan card row", slog.String("error", err.Error()))
			return nil, 0, err
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating card rows", slog.String("error", err.Error()))
		return nil, 0, err
	}

	log.Debug("cards listed",
		slog.String("user_id", filter.UserID.String()),
		slog.Int("count", len(cards)),
		slog.Int("total", total))
	return cards, total, nil
}

// Update implements store.CardStore.
func (s *PostgresCardStore) Update(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidateCardText(card.Front, card.Back); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE cards SET front = $1, back = $2, updated_at = $3 WHERE id = $4`,
		card.Front, card.Back, card.UpdatedAt, card.ID)
	if err != nil {
		log.Error("failed to update card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrCardNotFound); err != nil {
		return err
	}

	log.Debug("card updated", slog.String("card_id", card.ID.String()))
	return nil
}

// Delete implements store.CardStore.
func (s *PostgresCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrCardNotFound); err != nil {
		return err
	}

	log.Debug("card deleted", slog.String("card_id", id.String()))
	return nil
}

// DeleteByOriginalContentID implements store.CardStore.
func (s *PostgresCardStore) DeleteByOriginalContentID(ctx context.Context, contentID uuid.UUID) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE original_content_id = $1`, contentID)
	if err != nil {
		log.Error("failed to delete cards of original content",
			slog.String("error", err.Error()),
			slog.String("original_content_id", contentID.String()))
		return 0, MapError(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	log.Debug("cards of original content deleted",
		slog.String("original_content_id", contentID.String()),
		slog.Int64("count", n))
	return n, nil
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var (
		card        domain.Card
		contentID   uuid.NullUUID
		generatedBy string
	)
	if err := row.Scan(
		&card.ID,
		&card.UserID,
		&contentID,
		&card.Front,
		&card.Back,
		&generatedBy,
		&card.CreatedAt,
		&card.UpdatedAt,
	); err != nil {
		return nil, err
	}

	card.GeneratedBy = domain.GeneratedBy(generatedBy)
	if contentID.Valid {
		id := contentID.UUID
		card.OriginalContentID = &id
	}
	return &card, nil
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
