package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tenxcards/tenxcards-api/internal/domain"
	"github.com/tenxcards/tenxcards-api/internal/platform/logger"
	"github.com/tenxcards/tenxcards-api/internal/store"
)

// ContentPage is one page of a user's original contents, newest first.
type ContentPage struct {
	Items []*domain.OriginalContent `json:"items"`
	Page  int                       `json:"page"`
	Limit int                       `json:"limit"`
	Total int                       `json:"total"`
}

// OriginalContentService manages the source texts cards are generated from.
type OriginalContentService interface {
	Create(ctx context.Context, userID uuid.UUID, content string) (*domain.OriginalContent, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*domain.OriginalContent, error)
	List(ctx context.Context, userID uuid.UUID, page, limit int) (*ContentPage, error)

	// Delete removes the content and every card generated from it.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type originalContentServiceImpl struct {
	tx       store.Transactor
	contents store.OriginalContentStore
	cards    store.CardStore
	cache    *CardCache
	logger   *slog.Logger
}

var _ OriginalContentService = (*originalContentServiceImpl)(nil)

// NewOriginalContentService creates an OriginalContentService. The cache
// must be the one the CardService reads through.
func NewOriginalContentService(
	tx store.Transactor,
	contents store.OriginalContentStore,
	cards store.CardStore,
	cache *CardCache,
	logger *slog.Logger,
) (OriginalContentService, error) {
	switch {
	case tx == nil:
		return nil, domain.NewValidationError("transactor", "cannot be nil")
	case contents == nil:
		return nil, domain.NewValidationError("contents", "cannot be nil")
	case cards == nil:
		return nil, domain.NewValidationError("cards", "cannot be nil")
	case cache == nil:
		return nil, domain.NewValidationError("cache", "cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &originalContentServiceImpl{
		tx:       tx,
		contents: contents,
		cards:    cards,
		cache:    cache,
		logger:   logger.With(slog.String("component", "original_content_service")),
	}, nil
}

func (s *originalContentServiceImpl) Create(
	ctx context.Context,
	userID uuid.UUID,
	content string,
) (*domain.OriginalContent, error) {
	oc, err := domain.NewOriginalContent(userID, content)
	if err != nil {
		return nil, err
	}

	if err := s.contents.Create(ctx, oc); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to save original content",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("create_original_content", "failed to save original content", err)
	}
	return oc, nil
}

func (s *originalContentServiceImpl) Get(ctx context.Context, userID, id uuid.UUID) (*domain.OriginalContent, error) {
	return s.owned(ctx, s.contents, userID, id)
}

func (s *originalContentServiceImpl) List(
	ctx context.Context,
	userID uuid.UUID,
	page, limit int,
) (*ContentPage, error) {
	// Same paging rules as card lists
	q, err := ListCardsQuery{Page: page, Limit: limit}.normalize()
	if err != nil {
		return nil, err
	}

	items, total, err := s.contents.ListByUser(ctx, userID, q.Limit, (q.Page-1)*q.Limit)
	if err != nil {
		return nil, NewServiceError("list_original_contents", "failed to list original contents", err)
	}
	if items == nil {
		items = []*domain.OriginalContent{}
	}
	return &ContentPage{Items: items, Page: q.Page, Limit: q.Limit, Total: total}, nil
}

func (s *originalContentServiceImpl) Delete(ctx context.Context, userID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var removedCards int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		contents := s.contents.WithTx(tx)
		if _, err := s.owned(ctx, contents, userID, id); err != nil {
			return err
		}

		// Cards go first so no row is left pointing at missing content
		n, err := s.cards.WithTx(tx).DeleteByOriginalContentID(ctx, id)
		if err != nil {
			return err
		}
		removedCards = n
		return contents.Delete(ctx, id)
	})
	if err != nil {
		if store.IsNotFoundError(err) || errors.Is(err, ErrNotOwned) {
			return err
		}
		log.Error("failed to delete original content",
			slog.String("error", err.Error()),
			slog.String("original_content_id", id.String()))
		return NewServiceError("delete_original_content", "failed to delete original content", err)
	}

	// The deleted card IDs are unknown here, so drop the whole user namespace
	s.cache.InvalidateUser(ctx, userID)
	log.Info("deleted original content",
		slog.String("original_content_id", id.String()),
		slog.Int64("cards_removed", removedCards))
	return nil
}

// owned loads an original content and rejects it with ErrNotOwned when
// another user owns it.
func (s *originalContentServiceImpl) owned(
	ctx context.Context,
	contents store.OriginalContentStore,
	userID, id uuid.UUID,
) (*domain.OriginalContent, error) {
	oc, err := contents.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrOriginalContentNotFound
		}
		return nil, NewServiceError("get_original_content", "failed to load original content", err)
	}
	if oc.UserID != userID {
		return nil, ErrNotOwned
	}
	return oc, nil
}
