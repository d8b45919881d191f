package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/tenxcards/tenxcards-api/internal/domain"
)

// OriginalContentStore defines the interface for original content persistence.
type OriginalContentStore interface {
	Create(ctx context.Context, content *domain.OriginalContent) error

	// GetByID returns ErrOriginalContentNotFound if the content does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.OriginalContent, error)

	// ListByUser returns one page of the user's contents, newest first, and
	// the user's total content count.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.OriginalContent, int, error)

	// Delete returns ErrOriginalContentNotFound if the content does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	WithTx(tx *sql.Tx) OriginalContentStore
}
