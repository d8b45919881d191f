package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tenxcards/tenxcards-api/internal/domain"
	"github.com/tenxcards/tenxcards-api/internal/generation"
	"github.com/tenxcards/tenxcards-api/internal/platform/logger"
	"github.com/tenxcards/tenxcards-api/internal/store"
)

// Paging bounds for card and original content lists.
const (
	// DefaultPage is used when the caller does not ask for a page.
	DefaultPage = 1
	// DefaultPageSize is used when the caller does not set a limit.
	DefaultPageSize = 20
	// MaxPageSize caps the limit a caller may request.
	MaxPageSize = 100
)

// Caller-facing validation messages.
const (
	MsgOriginalContentEmpty  = "Original content cannot be empty"
	MsgOriginalContentLength = "Original content must be between 1000 and 10000 characters"
	MsgInvalidPage           = "Page must be greater than 0"
	MsgInvalidLimit          = "Limit must be between 1 and 100"
	MsgInvalidSort           = "Sort must be one of created_at_desc, created_at_asc"
	MsgNoOriginalContent     = "Card has no original content to regenerate from"
)

// SaveCardCommand creates a card by hand.
type SaveCardCommand struct {
	Front             string
	Back              string
	GeneratedBy       domain.GeneratedBy
	OriginalContentID *uuid.UUID
}

// UpdateCardCommand replaces the text of a card.
type UpdateCardCommand struct {
	Front string
	Back  string
}

// ListCardsQuery selects one page of a user's cards. Zero values take the
// defaults: page 1, 20 items, newest first, any source.
type ListCardsQuery struct {
	Page        int
	Limit       int
	GeneratedBy domain.GeneratedBy
	Sort        store.CardSort
}

// normalize applies the defaults and validates the bounds.
func (q ListCardsQuery) normalize() (ListCardsQuery, error) {
	// Zero values mean "not set" and take the defaults
	if q.Page == 0 {
		q.Page = DefaultPage
	}
	if q.Limit == 0 {
		q.Limit = DefaultPageSize
	}
	if q.Sort == "" {
		q.Sort = store.CardSortCreatedDesc
	}

	// Validate what is left after defaulting
	if q.Page < 1 {
		return q, domain.NewValidationError("page", MsgInvalidPage)
	}
	if q.Limit < 1 || q.Limit > MaxPageSize {
		return q, domain.NewValidationError("limit", MsgInvalidLimit)
	}
	if !q.Sort.IsValid() {
		return q, domain.NewValidationError("sort", MsgInvalidSort)
	}
	if q.GeneratedBy != "" && !q.GeneratedBy.IsValid() {
		return q, domain.NewValidationError("generatedBy", "GeneratedBy must be AI or human")
	}
	return q, nil
}

// CardPage is one page of cards plus the total matching count.
type CardPage struct {
	Items []*domain.Card `json:"items"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
	Total int            `json:"total"`
}

// CardService provides card generation and management.
type CardService interface {
	// GenerateCards runs the generation pipeline and returns unsaved cards.
	GenerateCards(ctx context.Context, userID uuid.UUID, originalContent string) ([]*domain.Card, error)

	// GenerateAndSaveCards runs the pipeline and stores the original content
	// together with the generated cards in one transaction.
	GenerateAndSaveCards(ctx context.Context, userID uuid.UUID, originalContent string) ([]*domain.Card, error)

	// RegenerateCard replaces the text of a card with a fresh generation from
	// its original content. Failures are recorded in the card's error log.
	RegenerateCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error)

	CreateCard(ctx context.Context, userID uuid.UUID, cmd SaveCardCommand) (*domain.Card, error)
	GetCards(ctx context.Context, userID uuid.UUID, q ListCardsQuery) (*CardPage, error)
	GetCardByID(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error)
	UpdateCard(ctx context.Context, userID, cardID uuid.UUID, cmd UpdateCardCommand) (*domain.Card, error)
	DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error

	// ListCardErrors returns the error log of an owned card, newest first.
	ListCardErrors(ctx context.Context, userID, cardID uuid.UUID) ([]*domain.ErrorLog, error)
}

// CardServiceDeps holds the collaborators of NewCardService. All are required.
type CardServiceDeps struct {
	Transactor  store.Transactor
	Cards       store.CardStore
	Contents    store.OriginalContentStore
	Client      generation.Client
	ErrorLogger ErrorLogger
	Cache       *CardCache
}

type cardServiceImpl struct {
	tx          store.Transactor
	cards       store.CardStore
	contents    store.OriginalContentStore
	client      generation.Client
	errorLogger ErrorLogger
	cache       *CardCache
	logger      *slog.Logger
}

var _ CardService = (*cardServiceImpl)(nil)

// NewCardService creates a CardService.
// It returns an error if any of the required dependencies are nil.
func NewCardService(deps CardServiceDeps, logger *slog.Logger) (CardService, error) {
	switch {
	case deps.Transactor == nil:
		return nil, domain.NewValidationError("transactor", "cannot be nil")
	case deps.Cards == nil:
		return nil, domain.NewValidationError("cards", "cannot be nil")
	case deps.Contents == nil:
		return nil, domain.NewValidationError("contents", "cannot be nil")
	case deps.Client == nil:
		return nil, domain.NewValidationError("client", "cannot be nil")
	case deps.ErrorLogger == nil:
		return nil, domain.NewValidationError("errorLogger", "cannot be nil")
	case deps.Cache == nil:
		return nil, domain.NewValidationError("cache", "cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &cardServiceImpl{
		tx:          deps.Transactor,
		cards:       deps.Cards,
		contents:    deps.Contents,
		client:      deps.Client,
		errorLogger: deps.ErrorLogger,
		cache:       deps.Cache,
		logger:      logger.With(slog.String("component", "card_service")),
	}, nil
}

// ValidateOriginalContent checks the generation input bounds.
func ValidateOriginalContent(content string) error {
	if content == "" {
		return domain.NewValidationError("originalContent", MsgOriginalContentEmpty)
	}
	if !domain.ContentLengthInRange(content) {
		return domain.NewValidationError("originalContent", MsgOriginalContentLength)
	}
	return nil
}

func (s *cardServiceImpl) GenerateCards(
	ctx context.Context,
	userID uuid.UUID,
	originalContent string,
) ([]*domain.Card, error) {
	// Validate before any external call
	if err := ValidateOriginalContent(originalContent); err != nil {
		return nil, err
	}

	cards, err := s.generate(ctx, userID, originalContent, nil)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, userID)
	return cards, nil
}

func (s *cardServiceImpl) GenerateAndSaveCards(
	ctx context.Context,
	userID uuid.UUID,
	originalContent string,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := ValidateOriginalContent(originalContent); err != nil {
		return nil, err
	}
	content, err := domain.NewOriginalContent(userID, originalContent)
	if err != nil {
		return nil, err
	}

	// Generate first so a failed AI call leaves nothing behind
	cards, err := s.generate(ctx, userID, originalContent, &content.ID)
	if err != nil {
		return nil, err
	}

	// Store the source text and its cards together
	err = s.tx.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.contents.WithTx(tx).Create(ctx, content); err != nil {
			return err
		}
		return s.cards.WithTx(tx).CreateMultiple(ctx, cards)
	})
	if err != nil {
		log.Error("failed to save generated cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.Int("card_count", len(cards)))
		return nil, NewServiceError("generate_and_save_cards", "failed to save generated cards", err)
	}

	s.cache.Invalidate(ctx, userID)
	log.Info("saved generated cards",
		slog.String("user_id", userID.String()),
		slog.String("original_content_id", content.ID.String()),
		slog.Int("card_count", len(cards)))
	return cards, nil
}

func (s *cardServiceImpl) RegenerateCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.ownedCard(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}
	if card.OriginalContentID == nil {
		return nil, domain.NewValidationError("originalContentId", MsgNoOriginalContent)
	}

	// Load the source text the card was generated from
	content, err := s.contents.GetByID(ctx, *card.OriginalContentID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, domain.NewValidationError("originalContentId", MsgNoOriginalContent)
		}
		return nil, NewServiceError("regenerate_card", "failed to load original content", err)
	}

	candidates, err := s.candidates(ctx, content.Content)
	if err != nil {
		s.errorLogger.LogError(ctx, cardID, err)
		return nil, err
	}

	// Only the first candidate replaces the card
	if err := card.Update(candidates[0].Front, candidates[0].Back); err != nil {
		wrapped := generation.NewGenerationError(generation.MsgInvalidCardContent, err)
		s.errorLogger.LogError(ctx, cardID, wrapped)
		return nil, wrapped
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.cards.WithTx(tx).Update(ctx, card)
	})
	if err != nil {
		return nil, s.writeError(ctx, "regenerate_card", err)
	}

	s.cache.Invalidate(ctx, userID, cardID)
	log.Info("regenerated card", slog.String("card_id", cardID.String()))
	return card, nil
}

func (s *cardServiceImpl) CreateCard(
	ctx context.Context,
	userID uuid.UUID,
	cmd SaveCardCommand,
) (*domain.Card, error) {
	card, err := domain.NewCard(userID, cmd.Front, cmd.Back, cmd.GeneratedBy, cmd.OriginalContentID)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		// A linked original content must belong to the same user
		if card.OriginalContentID != nil {
			content, err := s.contents.WithTx(tx).GetByID(ctx, *card.OriginalContentID)
			if err != nil {
				return err
			}
			if content.UserID != userID {
				return ErrNotOwned
			}
		}
		return s.cards.WithTx(tx).Create(ctx, card)
	})
	if err != nil {
		return nil, s.writeError(ctx, "create_card", err)
	}

	s.cache.Invalidate(ctx, userID, card.ID)
	return card, nil
}

func (s *cardServiceImpl) GetCards(ctx context.Context, userID uuid.UUID, q ListCardsQuery) (*CardPage, error) {
	q, err := q.normalize()
	if err != nil {
		return nil, err
	}

	return s.cache.Page(ctx, userID, q, func(ctx context.Context) (*CardPage, error) {
		items, total, err := s.cards.List(ctx, store.CardFilter{
			UserID:      userID,
			GeneratedBy: q.GeneratedBy,
			Sort:        q.Sort,
			Limit:       q.Limit,
			Offset:      (q.Page - 1) * q.Limit,
		})
		if err != nil {
			return nil, NewServiceError("get_cards", "failed to list cards", err)
		}
		if items == nil {
			items = []*domain.Card{}
		}
		return &CardPage{Items: items, Page: q.Page, Limit: q.Limit, Total: total}, nil
	})
}

func (s *cardServiceImpl) GetCardByID(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	return s.cache.Card(ctx, userID, cardID, func(ctx context.Context) (*domain.Card, error) {
		return s.ownedCard(ctx, userID, cardID)
	})
}

func (s *cardServiceImpl) UpdateCard(
	ctx context.Context,
	userID, cardID uuid.UUID,
	cmd UpdateCardCommand,
) (*domain.Card, error) {
	var updated *domain.Card
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		cards := s.cards.WithTx(tx)
		card, err := cards.GetByID(ctx, cardID)
		if err != nil {
			return err
		}
		// Other users' cards look missing
		if card.UserID != userID {
			return store.ErrCardNotFound
		}
		if err := card.Update(cmd.Front, cmd.Back); err != nil {
			return err
		}
		if err := cards.Update(ctx, card); err != nil {
			return err
		}
		updated = card
		return nil
	})
	if err != nil {
		return nil, s.writeError(ctx, "update_card", err)
	}

	s.cache.Invalidate(ctx, userID, cardID)
	return updated, nil
}

func (s *cardServiceImpl) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		cards := s.cards.WithTx(tx)
		card, err := cards.GetByID(ctx, cardID)
		if err != nil {
			return err
		}
		if card.UserID != userID {
			return store.ErrCardNotFound
		}
		return cards.Delete(ctx, cardID)
	})
	if err != nil {
		return s.writeError(ctx, "delete_card", err)
	}

	s.cache.Invalidate(ctx, userID, cardID)
	return nil
}

func (s *cardServiceImpl) ListCardErrors(
	ctx context.Context,
	userID, cardID uuid.UUID,
) ([]*domain.ErrorLog, error) {
	if _, err := s.ownedCard(ctx, userID, cardID); err != nil {
		return nil, err
	}
	return s.errorLogger.ListErrors(ctx, cardID)
}

// ownedCard loads a card and hides cards of other users behind ErrCardNotFound.
func (s *cardServiceImpl) ownedCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrCardNotFound
		}
		return nil, NewServiceError("get_card", "failed to load card", err)
	}
	if card.UserID != userID {
		return nil, store.ErrCardNotFound
	}
	return card, nil
}

// generate maps fresh candidates to unsaved AI cards.
func (s *cardServiceImpl) generate(
	ctx context.Context,
	userID uuid.UUID,
	originalContent string,
	contentID *uuid.UUID,
) ([]*domain.Card, error) {
	candidates, err := s.candidates(ctx, originalContent)
	if err != nil {
		return nil, err
	}

	// All cards of one generation share a timestamp
	now := time.Now().UTC()
	cards := make([]*domain.Card, 0, len(candidates))
	for _, c := range candidates {
		card, err := domain.NewCard(userID, c.Front, c.Back, domain.GeneratedByAI, contentID)
		if err != nil {
			return nil, generation.NewGenerationError(generation.MsgInvalidCardContent, err)
		}
		card.CreatedAt, card.UpdatedAt = now, now
		cards = append(cards, card)
	}
	return cards, nil
}

// candidates runs prompt, provider call and parse, translating failures
// into generation errors.
func (s *cardServiceImpl) candidates(ctx context.Context, originalContent string) ([]generation.Candidate, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	raw, err := s.client.Send(ctx, generation.BuildPrompt(originalContent))
	if err != nil {
		mapped := providerError(err)
		log.Error("card generation failed",
			slog.String("error", err.Error()),
			slog.String("kind", kindName(err)))
		return nil, mapped
	}

	// Parse failures are reported as invalid content, never as transport errors
	candidates, err := generation.ParseCards(raw)
	if err != nil {
		log.Warn("AI returned unusable card content", slog.String("error", err.Error()))
		if generation.IsKind(err, generation.KindGeneration) {
			return nil, err
		}
		return nil, generation.NewGenerationError(generation.MsgInvalidCardContent, err)
	}

	log.Debug("generated card candidates", slog.Int("count", len(candidates)))
	return candidates, nil
}

// providerError keeps an empty-prompt error and provider-side generation
// errors as they are. A missing result is bad content; everything else is a
// communication failure.
func providerError(err error) error {
	var ge *generation.Error
	if errors.As(err, &ge) {
		switch {
		case ge.Kind == generation.KindValidation && ge.Message == generation.MsgEmptyPrompt:
			return err
		case ge.Kind == generation.KindGeneration:
			return err
		case ge.Kind == generation.KindValidation:
			return generation.NewGenerationError(generation.MsgInvalidCardContent, err)
		}
	}
	return generation.NewGenerationError(generation.MsgCommunicationFailure, err)
}

func kindName(err error) string {
	kind, ok := generation.KindOf(err)
	if !ok {
		return "untyped"
	}
	return kind.String()
}

// writeError passes caller-facing errors through and wraps the rest.
func (s *cardServiceImpl) writeError(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, ErrNotOwned),
		errors.Is(err, store.ErrCardNotFound),
		errors.Is(err, store.ErrOriginalContentNotFound):
		return err
	case store.IsNotFoundError(err):
		return store.ErrCardNotFound
	}

	// Anything else is an operational failure
	logger.FromContextOrDefault(ctx, s.logger).Error("card write failed",
		slog.String("operation", op),
		slog.String("error", err.Error()))
	return NewServiceError(op, "failed to write card", err)
}
