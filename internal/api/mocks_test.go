package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tenxcards/tenxcards-api/internal/api/shared"
	"github.com/tenxcards/tenxcards-api/internal/domain"
	"github.com/tenxcards/tenxcards-api/internal/service"
	"github.com/tenxcards/tenxcards-api/internal/service/auth"
)

type mockCardService struct {
	mock.Mock
}

var _ service.CardService = (*mockCardService)(nil)

func (m *mockCardService) GenerateCards(ctx context.Context, userID uuid.UUID, content string) ([]*domain.Card, error) {
	args := m.Called(ctx, userID, content)
	cards, _ := args.Get(0).([]*domain.Card)
	return cards, args.Error(1)
}

func (m *mockCardService) GenerateAndSaveCards(ctx context.Context, userID uuid.UUID, content string) ([]*domain.Card, error) {
	args := m.Called(ctx, userID, content)
	cards, _ := args.Get(0).([]*domain.Card)
	return cards, args.Error(1)
}

func (m *mockCardService) RegenerateCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	args := m.Called(ctx, userID, cardID)
	card, _ := args.Get(0).(*domain.Card)
	return card, args.Error(1)
}

func (m *mockCardService) CreateCard(ctx context.Context, userID uuid.UUID, cmd service.SaveCardCommand) (*domain.Card, error) {
	args := m.Called(ctx, userID, cmd)
	card, _ := args.Get(0).(*domain.Card)
	return card, args.Error(1)
}

func (m *mockCardService) GetCards(ctx context.Context, userID uuid.UUID, q service.ListCardsQuery) (*service.CardPage, error) {
	args := m.Called(ctx, userID, q)
	page, _ := args.Get(0).(*service.CardPage)
	return page, args.Error(1)
}

func (m *mockCardService) GetCardByID(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	args := m.Called(ctx, userID, cardID)
	card, _ := args.Get(0).(*domain.Card)
	return card, args.Error(1)
}

func (m *mockCardService) UpdateCard(
	ctx context.Context,
	userID, cardID uuid.UUID,
	cmd service.UpdateCardCommand,
) (*domain.Card, error) {
	args := m.Called(ctx, userID, cardID, cmd)
	card, _ := args.Get(0).(*domain.Card)
	return card, args.Error(1)
}

func (m *mockCardService) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	return m.Called(ctx, userID, cardID).Error(0)
}

func (m *mockCardService) ListCardErrors(ctx context.Context, userID, cardID uuid.UUID) ([]*domain.ErrorLog, error) {
	args := m.Called(ctx, userID, cardID)
	logs, _ := args.Get(0).([]*domain.ErrorLog)
	return logs, args.Error(1)
}

type stubContentService struct {
	createFn func(ctx context.Context, userID uuid.UUID, content string) (*domain.OriginalContent, error)
	getFn    func(ctx context.Context, userID, id uuid.UUID) (*domain.OriginalContent, error)
	listFn   func(ctx context.Context, userID uuid.UUID, page, limit int) (*service.ContentPage, error)
	deleteFn func(ctx context.Context, userID, id uuid.UUID) error
}

func (s *stubContentService) Create(ctx context.Context, userID uuid.UUID, content string) (*domain.OriginalContent, error) {
	return s.createFn(ctx, userID, content)
}

func (s *stubContentService) Get(ctx context.Context, userID, id uuid.UUID) (*domain.OriginalContent, error) {
	return s.getFn(ctx, userID, id)
}

func (s *stubContentService) List(ctx context.Context, userID uuid.UUID, page, limit int) (*service.ContentPage, error) {
	return s.listFn(ctx, userID, page, limit)
}

func (s *stubContentService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.deleteFn(ctx, userID, id)
}

type stubUserService struct {
	registerFn     func(ctx context.Context, email, password, first, last string) (*domain.User, error)
	authenticateFn func(ctx context.Context, email, password string) (*domain.User, error)
}

func (s *stubUserService) Register(ctx context.Context, email, password, first, last string) (*domain.User, error) {
	return s.registerFn(ctx, email, password, first, last)
}

func (s *stubUserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	return s.authenticateFn(ctx, email, password)
}

func (s *stubUserService) GetUser(context.Context, uuid.UUID) (*domain.User, error) {
	return nil, nil
}

type stubJWTService struct {
	token string
	err   error
}

func (s *stubJWTService) GenerateToken(context.Context, uuid.UUID) (string, error) {
	return s.token, s.err
}

func (s *stubJWTService) ValidateToken(context.Context, string) (*auth.Claims, error) {
	return nil, auth.ErrInvalidToken
}

// newRequest builds a request carrying userID (when not uuid.Nil) and the
// given chi path parameters.
func newRequest(method, target, body string, userID uuid.UUID, params map[string]string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, target, reader)
	ctx := r.Context()
	if userID != uuid.Nil {
		ctx = shared.WithUserID(ctx, userID)
	}
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return r.WithContext(ctx)
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[shared.ErrorResponse](t, w).Error
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func longContent(n int) string {
	return strings.Repeat("a", n)
}
