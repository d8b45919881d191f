package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/tenxcards/tenxcards-api/internal/domain"
)

// ErrorLogStore persists generation failure records. Records are never
// updated and disappear only with their card.
type ErrorLogStore interface {
	Create(ctx context.Context, entry *domain.ErrorLog) error

	// ListByCard returns the card's records, newest first.
	ListByCard(ctx context.Context, cardID uuid.UUID) ([]*domain.ErrorLog, error)

	WithTx(tx *sql.Tx) ErrorLogStore
}
