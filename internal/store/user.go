package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/tenxcards/tenxcards-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user. It validates the user and hashes the
	// plaintext password. Returns ErrEmailExists if the email is taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID returns ErrUserNotFound if the user does not exist. The
	// plaintext password is never populated.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail returns ErrUserNotFound if no user has the email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Delete returns ErrUserNotFound if the user does not exist. Cards and
	// original contents of the user cascade.
	Delete(ctx context.Context, id uuid.UUID) error

	WithTx(tx *sql.Tx) UserStore
}
