package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tenxcards/tenxcards-api/internal/domain"
	"github.com/tenxcards/tenxcards-api/internal/generation"
	"github.com/tenxcards/tenxcards-api/internal/store"
)

const twoCards = `[{"front":"Q1","back":"A1"},{"front":"Q2","back":"A2"}]`

func requireGenerationError(t *testing.T, err error, message string) *generation.Error {
	t.Helper()
	var ge *generation.Error
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, generation.KindGeneration, ge.Kind)
	assert.Equal(t, message, ge.Message)
	return ge
}

func TestNewCardServiceRequiresDependencies(t *testing.T) {
	t.Parallel()

	_, err := NewCardService(CardServiceDeps{}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGenerateCardsValidatesBeforeCallingAI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		message string
	}{
		{name: "empty", input: "", message: MsgOriginalContentEmpty},
		{name: "short whitespace", input: "   \n\t ", message: MsgOriginalContentLength},
		{name: "one character", input: content(1), message: MsgOriginalContentLength},
		{name: "999 characters", input: content(999), message: MsgOriginalContentLength},
		{name: "10001 characters", input: content(10001), message: MsgOriginalContentLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCardFixture(t)

			cards, err := f.svc.GenerateCards(context.Background(), uuid.New(), tt.input)

			assert.Nil(t, cards)
			require.ErrorIs(t, err, domain.ErrValidation)
			assert.Equal(t, tt.message, domain.ValidationMessage(err))
			f.client.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		})
	}
}

func TestValidateOriginalContentCountsWhitespace(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateOriginalContent(strings.Repeat(" ", 1500)))
	assert.Equal(t, MsgOriginalContentEmpty, domain.ValidationMessage(ValidateOriginalContent("")))
}

func TestGenerateCardsAcceptsBoundaryLengths(t *testing.T) {
	t.Parallel()

	for _, n := range []int{1000, 10000} {
		f := newCardFixture(t)
		f.client.On("Send", mock.Anything, mock.Anything).Return(twoCards, nil).Once()

		cards, err := f.svc.GenerateCards(context.Background(), uuid.New(), content(n))

		require.NoError(t, err, "length %d", n)
		assert.Len(t, cards, 2)
	}
}

func TestGenerateCardsReturnsCardsInOrder(t *testing.T) {
	t.Parallel()

	f := newCardFixture(t)
	userID := uuid.New()
	source := content(1500)
	f.client.On("Send", mock.Anything, mock.MatchedBy(func(p *generation.Prompt) bool {
		return len(p.Messages) == 2 &&
			p.Messages[0].Role == generation.RoleSystem &&
			strings.Contains(p.Messages[1].Content, source)
	})).Return(twoCards, nil).Once()

	before := time.Now().UTC()
	cards, err := f.svc.GenerateCards(context.Background(), userID, source)

	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "Q1", cards[0].Front)
	assert.Equal(t, "A1", cards[0].Back)
	assert.Equal(t, "Q2", cards[1].Front)
	assert.Equal(t, "A2", cards[1].Back)
	for _, c := range cards {
		assert.Equal(t, domain.GeneratedByAI, c.GeneratedBy)
		assert.Equal(t, userID, c.UserID)
		assert.Nil(t, c.OriginalContentID)
		assert.False(t, c.CreatedAt.Before(before))
		assert.Equal(t, time.UTC, c.CreatedAt.Location())
	}
	assert.Zero(t, f.cards.count(), "GenerateCards does not persist")
	f.client.AssertExpectations(t)
}

func TestGenerateCardsRejectsEmptyResults(t *testing.T) {
	t.Parallel()

	for _, body := range []string{"[]", "null"} {
		f := newCardFixture(t)
		f.client.On("Send", mock.Anything, mock.Anything).Return(body, nil)

		_, err := f.svc.GenerateCards(context.Background(), uuid.New(), content(1200))

		requireGenerationError(t, err, generation.MsgInvalidCardContent)
	}
}

func TestGenerateCardsWrapsMalformedJSON(t *testing.T) {
	t.Parallel()

	f := newCardFixture(t)
	f.client.On("Send", mock.Anything, mock.Anything).Return("not json", nil)

	_, err := f.svc.GenerateCards(context.Background(), uuid.New(), content(1200))

	requireGenerationError(t, err, generation.MsgInvalidCardContent)
	assert.ErrorIs(t, err, generation.ErrMalformedResponse)
	var syntaxErr *json.SyntaxError
	assert.ErrorAs(t, err, &syntaxErr)
}

func TestGenerateCardsRejectsMalformedElement(t *testing.T) {
	t.Parallel()

	f := newCardFixture(t)
	f.client.On("Send", mock.Anything, mock.Anything).
		Return(`[{"front":"Q1","back":"A1"},{"front":"","back":"A2"}]`, nil)

	cards, err := f.svc.GenerateCards(context.Background(), uuid.New(), content(1200))

	assert.Nil(t, cards)
	requireGenerationError(t, err, generation.MsgInvalidCardContent)
}

func TestGenerateCardsProviderErrors(t *testing.T) {
	t.Parallel()

	emptyPrompt := generation.NewValidationError(generation.MsgEmptyPrompt, nil)

	tests := []struct {
		name       string
		providerEr error
		check      func(t *testing.T, err error)
	}{
		{
			name:       "network error becomes communication failure",
			providerEr: generation.NewNetworkError(400, `{"error":"bad"}`),
			check: func(t *testing.T, err error) {
				ge := requireGenerationError(t, err, generation.MsgCommunicationFailure)
				var cause *generation.Error
				require.ErrorAs(t, ge.Err, &cause)
				assert.Equal(t, generation.KindNetwork, cause.Kind)
				assert.Equal(t, "API request failed: BadRequest", cause.Message)
			},
		},
		{
			name:       "timeout becomes communication failure",
			providerEr: generation.WrapUnknown(context.DeadlineExceeded),
			check: func(t *testing.T, err error) {
				requireGenerationError(t, err, generation.MsgCommunicationFailure)
				assert.ErrorIs(t, err, context.DeadlineExceeded)
			},
		},
		{
			name:       "untyped error becomes communication failure",
			providerEr: errors.New("connection reset"),
			check: func(t *testing.T, err error) {
				requireGenerationError(t, err, generation.MsgCommunicationFailure)
			},
		},
		{
			name:       "empty prompt propagates unchanged",
			providerEr: emptyPrompt,
			check: func(t *testing.T, err error) {
				assert.Same(t, emptyPrompt, err)
				assert.True(t, generation.IsKind(err, generation.KindValidation))
			},
		},
		{
			name:       "missing result is invalid content",
			providerEr: generation.NewValidationError(generation.MsgMissingResult, generation.ErrMalformedResponse),
			check: func(t *testing.T, err error) {
				requireGenerationError(t, err, generation.MsgInvalidCardContent)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCardFixture(t)
			f.client.On("Send", mock.Anything, mock.Anything).Return("", tt.providerEr).Once()

			cards, err := f.svc.GenerateCards(context.Background(), uuid.New(), content(2000))

			assert.Nil(t, cards)
			tt.check(t, err)
			f.client.AssertNumberOfCalls(t, "Send", 1)
		})
	}
}

func TestGenerateCardsInvalidatesListCache(t *testing.T) {
	t.Parallel()

	f := newCardFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	f.client.On("Send", mock.Anything, mock.Anything).Return(twoCards, nil)

	_, err := f.svc.GetCards(ctx, userID, ListCardsQuery{})
	require.NoError(t, err)
	_, err = f.svc.GenerateCards(ctx, userID, content(1200))
	require.NoError(t, err)
	_, err = f.svc.GetCards(ctx, userID, ListCardsQuery{})
	require.NoError(t, err)

	assert.Equal(t, 2, f.cards.listCalls)
}

func TestGenerateAndSaveCardsPersistsContentAndCards(t *testing.T) {
	t.Parallel()

	f := newCardFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	source := content(1800)
	f.client.On("Send", mock.Anything, mock.Anything).Return(twoCards, nil)

	cards, err := f.svc.GenerateAndSaveCards(ctx, userID, source)

	require.NoError(t, err)
	require.Len(t, cards, 2)
	require.NotNil(t, cards[0].OriginalContentID)
	contentID := *cards[0].OriginalContentID
	assert.Equal(t, contentID, *cards[1].OriginalContentID)

	saved, err := f.contents.GetByID(ctx, contentID)
	require.NoError(t, err)
	assert.Equal(t, source, saved.Content)
	assert.Equal(t, userID, saved.UserID)
	assert.Equal(t, 2, f.cards.count())
	assert.Equal(t, 1, f.tx.calls)

	page, err := f.svc.GetCards(ctx, userID, ListCardsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
}

func TestGenerateAndSaveCardsSkipsWritesOnGenerationFailure(t *testing.T) {
	t.Parallel()

	f := newCardFixture(t)
	f.client.On("Send", mock.Anything, mock.Anything).Return("[]", nil)

	_, err := f.svc.GenerateAndSaveCards(context.Background(), uuid.New(), content(1800))

	requireGenerationError(t, err, generation.MsgInvalidCardContent)
	assert.Zero(t, f.tx.calls)
	assert.Zero(t, f.cards.count())
	assert.Empty(t, f.contents.contents)
}

func TestGenerateAndSaveCardsWrapsStoreFailure(t *testing.T) {
	t.Parallel()

	f := newCardFixture(t)
	f.client.On("Send", mock.Anything, mock.Anything).Return(twoCards, nil)
	f.contents.failWrite = errors.New("disk full")

	_, err := f.svc.GenerateAndSaveCards(context.Background(), uuid.New(), content(1800))

	var se *ServiceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "generate_and_save_cards", se.Operation)
	assert.ErrorContains(t, err, "disk full")
}

func TestGetCardsHitsCacheOnRepeatedQuery(t *testing.T) {
	t.Parallel()

	f := newCardFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	_, err := f.svc.CreateCard(ctx, userID, SaveCardCommand{Front: "Q", Back: "A", GeneratedBy: domain.GeneratedByHuman})
	require.NoError(t, err)

	q := ListCardsQuery{Page: 1, Limit: 10}
	first, err := f.svc.GetCards(ctx, userID, q)
	require.NoError(t, err)
	second, err := f.svc.GetCards(ctx, userID, q)
	require.NoError(t, err)

	assert.Equal(t, 1, f.cards.listCalls)
	assert.Equal(t, first, second)

	_, err = f.svc.GetCards(ctx, userID, ListCardsQuery{Page: 1, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 2, f.cards.listCalls, "a different query shape is a different key")
}

func TestCreateCardInvalidatesCachedList(t *testing.T) {
	t.Parallel()

	f := newCardFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	before, err := f.svc.GetCards(ctx, userID, ListCardsQuery{})
	require.NoError(t, err)
	assert.Zero(t, before.Total)

	_, err = f.svc.CreateCard(ctx, userID, SaveCardCommand{Front: "Q", Back: "A", GeneratedBy: domain.GeneratedByHuman})
	require.NoError(t, err)

	after, err := f.svc.GetCards(ctx, userID, ListCardsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, after.Total)
	assert.Equal(t, 2, f.cards.listCalls)
}

func TestCreateCardDoesNotTouchOtherUsersCache(t *testing.T) {
	t.Parallel()

	f := newCardFixture(t)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	_, err := f.svc.GetCards(ctx, bob, ListCardsQuery{})
	require.NoError(t, err)
	_, err = f.svc.CreateCard(ctx, alice, SaveCardCommand{Front: "Q", Back: "A", GeneratedBy: domain.GeneratedByHuman})
	require.NoError(t, err)
	_, err = f.svc.GetCards(ctx, bob, ListCardsQuery{})
	require.NoError(t, err)

	assert.Equal(t, 1, f.cards.listCalls)
}

func TestGetCardsSkipsCachingLargeResults(t *testing.T) {
	t.Parallel()

	f := newCardFixture(t)
	f.cache = NewCardCache(f.mem, CardCacheOptions{MaxListItems: 1}, nil)
	svc, err := NewCardService(CardServiceDeps{
		Transactor:  f.tx,
		Cards:       f.cards,
		Contents:    f.contents,
		Client:      f.client,
		ErrorLogger: NewErrorLogger(f.errorLogs, nil),
		Cache:       f.cache,
	}, nil)
	require.NoError(t, err)

	ctx := context.Background()
	userID := uuid.New()
	for i := 0; i < 2; i++ {
		_, err := svc.CreateCard(ctx, userID, SaveCardCommand{Front: "Q", Back: "A", GeneratedBy: domain.GeneratedByHuman})
		require.NoError(t, err)
	}

	for i := 0; i < 2; i++ {
		page, err := svc.GetCards(ctx, userID, ListCardsQuery{})
		require.NoError(t, err)
		assert.Equal(t, 2, page.Total)
	}
	assert.Equal(t, 2, f.cards.listCalls)
}

func TestGetCardsValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		query   ListCardsQuery
		message string
	}{
		{name: "negative page", query: ListCardsQuery{Page: -1}, message: MsgInvalidPage},
		{name: "limit too large", query: ListCardsQuery{Limit: 101}, message: MsgInvalidLimit},
		{name: "negative limit", query: ListCardsQuery{Limit: -3}, message: MsgInvalidLimit},
		{name: "unknown sort", query: ListCardsQuery{Sort: "front"}, message: MsgInvalidSort},
		{name: "unknown source", query: ListCardsQuery{GeneratedBy: "robot"}, message: "GeneratedBy must be AI or human"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCardFixture(t)

			_, err := f.svc.GetCards(context.Background(), uuid.New(), tt.query)

			require.ErrorIs(t, err, domain.ErrValidation)
			assert.Equal(t, tt.message, domain.ValidationMessage(err))
			assert.Zero(t, f.cards.listCalls)
		})
	}
}

func TestGetCardsDefaultsAndFilter(t *testing.T) {
	t.Parallel()

	f := newCardFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	for _, source := range []domain.GeneratedBy{domain.GeneratedByAI, domain.GeneratedByHuman, domain.GeneratedByAI} {
		_, err := f.svc.CreateCard(ctx, userID, SaveCardCommand{Front: "Q", Back: "A", GeneratedBy: source})
		require.NoError(t, err)
	}

	page, err := f.svc.GetCards(ctx, userID, ListCardsQuery{GeneratedBy: domain.GeneratedByAI})
	require.NoError(t, err)

	assert.Equal(t, DefaultPage, page.Page)
	assert.Equal(t, DefaultPageSize, page.Limit)
	assert.Equal(t, 2, page.Total)
	for _, c := range page.Items {
		assert.Equal(t, domain.GeneratedByAI, c.GeneratedBy)
	}
}

func TestGetCardByID(t *testing.T) {
	t.Parallel()

	f := newCardFixture(t)
	ctx := context.Background()
	owner := uuid.New()
	created, err := f.svc.CreateCard(ctx, owner, SaveCardCommand{Front: "Q", Back: "A", GeneratedBy: domain.GeneratedByHuman})
	require.NoError(t, err)

	got, err := f.svc.GetCardByID(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	got.Front = "mutated by caller"
	again, err := f.svc.GetCardByID(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Q", again.Front)
	assert.Equal(t, 1, f.cards.getCalls)

	_, err = f.svc.GetCardByID(ctx, uuid.New(), created.ID)
	assert.ErrorIs(t, err, store.ErrCardNotFound)

	_, err = f.svc.GetCardByID(ctx, owner, uuid.New())
	assert.ErrorIs(t, err, store.ErrCardNotFound)
}

func TestUpdateCard(t *testing.T) {
	t.Parallel()

	f := newCardFixture(t)
	ctx := context.Background()
	owner := uuid.New()
	created, err := f.svc.CreateCard(ctx, owner, SaveCardCommand{Front: "Q", Back: "A", GeneratedBy: domain.GeneratedByHuman})
	require.NoError(t, err)
	_, err = f.svc.GetCardByID(ctx, owner, created.ID)
	require.NoError(t, err)

	updated, err := f.svc.UpdateCard(ctx, owner, created.ID, UpdateCardCommand{Front: "Q2", Back: "A2"})
	require.NoError(t, err)
	assert.Equal(t, "Q2", updated.Front)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	reloaded, err := f.svc.GetCardByID(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Q2", reloaded.Front, "single-card entry is invalidated")

	_, err = f.svc.UpdateCard(ctx, owner, created.ID, UpdateCardCommand{Front: "", Back: "A"})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "Front cannot be empty", domain.ValidationMessage(err))

	_, err = f.svc.UpdateCard(ctx, uuid.New(), created.ID, UpdateCardCommand{Front: "X", Back: "Y"})
	assert.ErrorIs(t, err, store.ErrCardNotFound)
}

func TestDeleteCard(t *testing.T) {
	t.Parallel()

	f := newCardFixture(t)
	ctx := context.Background()
	owner := uuid.New()
	created, err := f.svc.CreateCard(ctx, owner, SaveCardCommand{Front: "Q", Back: "A", GeneratedBy: domain.GeneratedByHuman})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.DeleteCard(ctx, uuid.New(), created.ID), store.ErrCardNotFound)
	assert.Equal(t, 1, f.cards.count())

	_, err = f.svc.GetCardByID(ctx, owner, created.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteCard(ctx, owner, created.ID))

	_, err = f.svc.GetCardByID(ctx, owner, created.ID)
	assert.ErrorIs(t, err, store.ErrCardNotFound)
	assert.ErrorIs(t, f.svc.DeleteCard(ctx, owner, created.ID), store.ErrCardNotFound)
}

func TestCreateCardChecksOriginalContent(t *testing.T) {
	t.Parallel()

	f := newCardFixture(t)
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()
	oc, err := domain.NewOriginalContent(owner, content(1000))
	require.NoError(t, err)
	require.NoError(t, f.contents.Create(ctx, oc))

	_, err = f.svc.CreateCard(ctx, other, SaveCardCommand{
		Front: "Q", Back: "A", GeneratedBy: domain.GeneratedByHuman, OriginalContentID: &oc.ID,
	})
	assert.ErrorIs(t, err, ErrNotOwned)

	missing := uuid.New()
	_, err = f.svc.CreateCard(ctx, owner, SaveCardCommand{
		Front: "Q", Back: "A", GeneratedBy: domain.GeneratedByHuman, OriginalContentID: &missing,
	})
	assert.ErrorIs(t, err, store.ErrOriginalContentNotFound)

	_, err = f.svc.CreateCard(ctx, owner, SaveCardCommand{Front: "Q", Back: "A", GeneratedBy: "robot"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	card, err := f.svc.CreateCard(ctx, owner, SaveCardCommand{
		Front: "Q", Back: "A", GeneratedBy: domain.GeneratedByHuman, OriginalContentID: &oc.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, oc.ID, *card.OriginalContentID)
	assert.Equal(t, 1, f.cards.count())
}

func TestCreateCardWrapsStoreFailure(t *testing.T) {
	t.Parallel()

	f := newCardFixture(t)
	f.cards.failWrite = errors.New("connection refused")

	_, err := f.svc.CreateCard(context.Background(), uuid.New(),
		SaveCardCommand{Front: "Q", Back: "A", GeneratedBy: domain.GeneratedByHuman})

	var se *ServiceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "create_card", se.Operation)
}

func seedGeneratedCard(t *testing.T, f *cardFixture, owner uuid.UUID) *domain.Card {
	t.Helper()
	ctx := context.Background()
	oc, err := domain.NewOriginalContent(owner, content(1100))
	require.NoError(t, err)
	require.NoError(t, f.contents.Create(ctx, oc))
	card, err := domain.NewCard(owner, "old front", "old back", domain.GeneratedByAI, &oc.ID)
	require.NoError(t, err)
	require.NoError(t, f.cards.Create(ctx, card))
	return card
}

func TestRegenerateCard(t *testing.T) {
	t.Parallel()

	f := newCardFixture(t)
	ctx := context.Background()
	owner := uuid.New()
	card := seedGeneratedCard(t, f, owner)
	f.client.On("Send", mock.Anything, mock.Anything).Return(twoCards, nil)

	_, err := f.svc.GetCardByID(ctx, owner, card.ID)
	require.NoError(t, err)

	updated, err := f.svc.RegenerateCard(ctx, owner, card.ID)
	require.NoError(t, err)
	assert.Equal(t, "Q1", updated.Front)
	assert.Equal(t, "A1", updated.Back)

	reloaded, err := f.svc.GetCardByID(ctx, owner, card.ID)
	require.NoError(t, err)
	assert.Equal(t, "Q1", reloaded.Front)
	assert.Empty(t, f.errorLogs.entries)
}

func TestRegenerateCardLogsGenerationFailure(t *testing.T) {
	t.Parallel()

	f := newCardFixture(t)
	ctx := context.Background()
	owner := uuid.New()
	card := seedGeneratedCard(t, f, owner)
	f.client.On("Send", mock.Anything, mock.Anything).Return("", generation.NewNetworkError(503, "overloaded"))

	_, err := f.svc.RegenerateCard(ctx, owner, card.ID)

	requireGenerationError(t, err, generation.MsgCommunicationFailure)
	logs, err := f.svc.ListCardErrors(ctx, owner, card.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, card.ID, logs[0].CardID)
	assert.Equal(t, generation.MsgCommunicationFailure, logs[0].ErrorDetails)

	unchanged, err := f.cards.GetByID(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, "old front", unchanged.Front)
}

func TestRegenerateCardRequiresOriginalContent(t *testing.T) {
	t.Parallel()

	f := newCardFixture(t)
	ctx := context.Background()
	owner := uuid.New()
	card, err := f.svc.CreateCard(ctx, owner, SaveCardCommand{Front: "Q", Back: "A", GeneratedBy: domain.GeneratedByHuman})
	require.NoError(t, err)

	_, err = f.svc.RegenerateCard(ctx, owner, card.ID)

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, MsgNoOriginalContent, domain.ValidationMessage(err))
	f.client.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)

	_, err = f.svc.RegenerateCard(ctx, uuid.New(), card.ID)
	assert.ErrorIs(t, err, store.ErrCardNotFound)
}

func TestListCardErrorsChecksOwnership(t *testing.T) {
	t.Parallel()

	f := newCardFixture(t)
	card := seedGeneratedCard(t, f, uuid.New())

	_, err := f.svc.ListCardErrors(context.Background(), uuid.New(), card.ID)

	assert.ErrorIs(t, err, store.ErrCardNotFound)
}
