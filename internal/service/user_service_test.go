package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenxcards/tenxcards-api/internal/domain"
	"github.com/tenxcards/tenxcards-api/internal/store"
)

func newTestUserService() (UserService, *fakeUserStore, *fakeTransactor) {
	users := newFakeUserStore()
	tx := &fakeTransactor{}
	return NewUserService(tx, users, prefixVerifier{}, nil), users, tx
}

func TestRegister(t *testing.T) {
	t.Parallel()

	svc, _, tx := newTestUserService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "Reader@Example.com", "correct-horse-battery", "Ada", "Lovelace")
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", user.Email)
	assert.Empty(t, user.Password)
	assert.Equal(t, 1, tx.calls)

	_, err = svc.Register(ctx, "reader@example.com", "another-long-password", "", "")
	assert.ErrorIs(t, err, store.ErrEmailExists)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	svc, _, tx := newTestUserService()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "bad email", email: "not-an-email", password: "correct-horse-battery"},
		{name: "short password", email: "a@example.com", password: "short"},
		{name: "empty password", email: "a@example.com", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.email, tt.password, "", "")
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
	assert.Zero(t, tx.calls)
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	svc, users, _ := newTestUserService()
	ctx := context.Background()
	registered, err := svc.Register(ctx, "reader@example.com", "correct-horse-battery", "", "")
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "READER@example.com", "correct-horse-battery")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = svc.Authenticate(ctx, "reader@example.com", "wrong-password-entirely")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "correct-horse-battery")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	users.getErr = errors.New("connection refused")
	_, err = svc.Authenticate(ctx, "reader@example.com", "correct-horse-battery")
	var se *ServiceError
	assert.ErrorAs(t, err, &se)
}

func TestGetUser(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestUserService()
	ctx := context.Background()
	registered, err := svc.Register(ctx, "reader@example.com", "correct-horse-battery", "", "")
	require.NoError(t, err)

	user, err := svc.GetUser(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, registered.Email, user.Email)

	_, err = svc.GetUser(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}
