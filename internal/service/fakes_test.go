package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tenxcards/tenxcards-api/internal/cache"
	"github.com/tenxcards/tenxcards-api/internal/domain"
	"github.com/tenxcards/tenxcards-api/internal/generation"
	"github.com/tenxcards/tenxcards-api/internal/store"
)

// content returns a source text of n characters.
func content(n int) string {
	return strings.Repeat("a", n)
}

// MockClient mocks generation.Client.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) Send(ctx context.Context, prompt *generation.Prompt) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// fakeTransactor runs fn without a transaction. failCommit simulates a
// commit error after fn succeeded.
type fakeTransactor struct {
	calls      int
	failCommit error
}

func (f *fakeTransactor) WithinTx(ctx context.Context, fn store.TxFn) error {
	f.calls++
	if err := fn(ctx, nil); err != nil {
		return err
	}
	return f.failCommit
}

type fakeCardStore struct {
	mu        sync.Mutex
	cards     map[uuid.UUID]*domain.Card
	listCalls int
	getCalls  int
	failWrite error
}

func newFakeCardStore() *fakeCardStore {
	return &fakeCardStore{cards: make(map[uuid.UUID]*domain.Card)}
}

func (f *fakeCardStore) Create(_ context.Context, card *domain.Card) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrite != nil {
		return f.failWrite
	}
	f.cards[card.ID] = cloneCard(card)
	return nil
}

func (f *fakeCardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	for _, c := range cards {
		if err := f.Create(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeCardStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	card, ok := f.cards[id]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	return cloneCard(card), nil
}

func (f *fakeCardStore) List(_ context.Context, filter store.CardFilter) ([]*domain.Card, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++

	var matched []*domain.Card
	for _, c := range f.cards {
		if c.UserID != filter.UserID {
			continue
		}
		if filter.GeneratedBy != "" && c.GeneratedBy != filter.GeneratedBy {
			continue
		}
		matched = append(matched, cloneCard(c))
	}
	sort.Slice(matched, func(i, j int) bool {
		if filter.Sort == store.CardSortCreatedAsc {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if filter.Offset >= total {
		return nil, total, nil
	}
	end := filter.Offset + filter.Limit
	if end > total {
		end = total
	}
	return matched[filter.Offset:end], total, nil
}

func (f *fakeCardStore) Update(_ context.Context, card *domain.Card) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrite != nil {
		return f.failWrite
	}
	if _, ok := f.cards[card.ID]; !ok {
		return store.ErrCardNotFound
	}
	f.cards[card.ID] = cloneCard(card)
	return nil
}

func (f *fakeCardStore) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.cards[id]; !ok {
		return store.ErrCardNotFound
	}
	delete(f.cards, id)
	return nil
}

func (f *fakeCardStore) DeleteByOriginalContentID(_ context.Context, contentID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, c := range f.cards {
		if c.OriginalContentID != nil && *c.OriginalContentID == contentID {
			delete(f.cards, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeCardStore) WithTx(*sql.Tx) store.CardStore { return f }

func (f *fakeCardStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cards)
}

type fakeContentStore struct {
	mu        sync.Mutex
	contents  map[uuid.UUID]*domain.OriginalContent
	failWrite error
}

func newFakeContentStore() *fakeContentStore {
	return &fakeContentStore{contents: make(map[uuid.UUID]*domain.OriginalContent)}
}

func (f *fakeContentStore) Create(_ context.Context, oc *domain.OriginalContent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrite != nil {
		return f.failWrite
	}
	cp := *oc
	f.contents[oc.ID] = &cp
	return nil
}

func (f *fakeContentStore) GetByID(_ context.Context, id uuid.UUID) (*domain.OriginalContent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	oc, ok := f.contents[id]
	if !ok {
		return nil, store.ErrOriginalContentNotFound
	}
	cp := *oc
	return &cp, nil
}

func (f *fakeContentStore) ListByUser(
	_ context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.OriginalContent, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []*domain.OriginalContent
	for _, oc := range f.contents {
		if oc.UserID == userID {
			cp := *oc
			matched = append(matched, &cp)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (f *fakeContentStore) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.contents[id]; !ok {
		return store.ErrOriginalContentNotFound
	}
	delete(f.contents, id)
	return nil
}

func (f *fakeContentStore) WithTx(*sql.Tx) store.OriginalContentStore { return f }

type fakeErrorLogStore struct {
	mu      sync.Mutex
	entries []*domain.ErrorLog
	failErr error
}

func (f *fakeErrorLogStore) Create(_ context.Context, entry *domain.ErrorLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeErrorLogStore) ListByCard(_ context.Context, cardID uuid.UUID) ([]*domain.ErrorLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.ErrorLog
	for i := len(f.entries) - 1; i >= 0; i-- {
		if f.entries[i].CardID == cardID {
			out = append(out, f.entries[i])
		}
	}
	return out, nil
}

func (f *fakeErrorLogStore) WithTx(*sql.Tx) store.ErrorLogStore { return f }

type fakeUserStore struct {
	mu     sync.Mutex
	users  map[uuid.UUID]*domain.User
	getErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (f *fakeUserStore) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	cp := *user
	cp.HashedPassword = "hashed:" + user.Password
	cp.Password = ""
	f.users[user.ID] = &cp
	user.HashedPassword = cp.HashedPassword
	user.Password = ""
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	return nil
}

func (f *fakeUserStore) WithTx(*sql.Tx) store.UserStore { return f }

// prefixVerifier accepts password p for the hash "hashed:"+p.
type prefixVerifier struct{}

func (prefixVerifier) Compare(hashed, password string) error {
	if hashed != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// cardFixture wires a CardService to fakes.
type cardFixture struct {
	svc       CardService
	tx        *fakeTransactor
	cards     *fakeCardStore
	contents  *fakeContentStore
	errorLogs *fakeErrorLogStore
	client    *MockClient
	mem       *cache.MemoryCache
	cache     *CardCache
}

func newCardFixture(t *testing.T) *cardFixture {
	t.Helper()
	f := &cardFixture{
		tx:        &fakeTransactor{},
		cards:     newFakeCardStore(),
		contents:  newFakeContentStore(),
		errorLogs: &fakeErrorLogStore{},
		client:    &MockClient{},
		mem:       cache.NewMemoryCache(nil),
	}
	f.cache = NewCardCache(f.mem, CardCacheOptions{}, nil)

	svc, err := NewCardService(CardServiceDeps{
		Transactor:  f.tx,
		Cards:       f.cards,
		Contents:    f.contents,
		Client:      f.client,
		ErrorLogger: NewErrorLogger(f.errorLogs, nil),
		Cache:       f.cache,
	}, nil)
	require.NoError(t, err)
	f.svc = svc
	return f
}
