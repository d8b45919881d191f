package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/tenxcards/tenxcards-api/internal/domain"
)

// CardSort is the ordering of a card listing.
type CardSort string

const (
	CardSortCreatedDesc CardSort = "created_at_desc"
	CardSortCreatedAsc  CardSort = "created_at_asc"
)

// IsValid reports whether s is a supported ordering.
func (s CardSort) IsValid() bool {
	return s == CardSortCreatedDesc || s == CardSortCreatedAsc
}

// CardFilter selects one page of a user's cards.
type CardFilter struct {
	UserID uuid.UUID
	// GeneratedBy restricts the listing to one generation source when set.
	GeneratedBy domain.GeneratedBy
	Sort        CardSort
	Limit       int
	Offset      int
}

// CardStore defines the interface for card data persistence.
type CardStore interface {
	// Create saves a single card.
	Create(ctx context.Context, card *domain.Card) error

	// CreateMultiple saves several cards. It must run inside a transaction
	// (see WithTx and RunInTransaction) to be atomic.
	CreateMultiple(ctx context.Context, cards []*domain.Card) error

	// GetByID returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// List returns the requested page and the total number of cards matching
	// the filter regardless of paging.
	List(ctx context.Context, filter CardFilter) ([]*domain.Card, int, error)

	// Update persists Front, Back and UpdatedAt of an existing card.
	// Returns ErrCardNotFound if the card does not exist.
	Update(ctx context.Context, card *domain.Card) error

	// Delete returns ErrCardNotFound if the card does not exist. Error logs of
	// the card are removed by the cascading foreign key.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByOriginalContentID removes every card derived from the content
	// and returns the number of removed rows.
	DeleteByOriginalContentID(ctx context.Context, contentID uuid.UUID) (int64, error)

	// WithTx returns a CardStore bound to tx.
	WithTx(tx *sql.Tx) CardStore
}
