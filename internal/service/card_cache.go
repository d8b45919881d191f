package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/tenxcards/tenxcards-api/internal/cache"
	"github.com/tenxcards/tenxcards-api/internal/domain"
	"github.com/tenxcards/tenxcards-api/internal/platform/logger"
)

// Card cache defaults.
const (
	DefaultCardCacheTTL     = 5 * time.Minute
	DefaultMaxCardListItems = 1000
)

// CardCacheOptions tunes CardCache.
type CardCacheOptions struct {
	// TTL is the sliding expiration of every entry.
	TTL time.Duration
	// MaxListItems is the largest Total of a page result that is still cached.
	MaxListItems int
}

// CardCache fronts card reads with a cache.Cache. Concurrent misses for the
// same key share one load.
type CardCache struct {
	cache        cache.Cache
	group        singleflight.Group
	ttl          time.Duration
	maxListItems int
	logger       *slog.Logger
}

// NewCardCache wraps c. Zero options fall back to the defaults.
func NewCardCache(c cache.Cache, opts CardCacheOptions, logger *slog.Logger) *CardCache {
	if c == nil {
		panic("cache cannot be nil")
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultCardCacheTTL
	}
	if opts.MaxListItems <= 0 {
		opts.MaxListItems = DefaultMaxCardListItems
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CardCache{
		cache:        c,
		ttl:          opts.TTL,
		maxListItems: opts.MaxListItems,
		logger:       logger.With(slog.String("component", "card_cache")),
	}
}

// CardKey is the key of a single card: card_{userID}_{cardID}.
func CardKey(userID, cardID uuid.UUID) string {
	return fmt.Sprintf("card_%s_%s", userID, cardID)
}

// CardListKey is the key of one page of a user's cards. Every query
// parameter is part of the key.
func CardListKey(userID uuid.UUID, q ListCardsQuery) string {
	generatedBy := string(q.GeneratedBy)
	if generatedBy == "" {
		generatedBy = "all"
	}
	return fmt.Sprintf("%s%d_%d_%s_%s", cardListPrefix(userID), q.Page, q.Limit, generatedBy, q.Sort)
}

func cardListPrefix(userID uuid.UUID) string {
	return fmt.Sprintf("card_%s_list_", userID)
}

func userPrefix(userID uuid.UUID) string {
	return fmt.Sprintf("card_%s_", userID)
}

// Card returns the cached card or loads it.
func (c *CardCache) Card(
	ctx context.Context,
	userID, cardID uuid.UUID,
	load func(ctx context.Context) (*domain.Card, error),
) (*domain.Card, error) {
	return readThrough(ctx, c, CardKey(userID, cardID), cloneCard,
		func(ctx context.Context) (*domain.Card, bool, error) {
			card, err := load(ctx)
			return card, true, err
		})
}

// Page returns the cached page for q or loads it. Pages whose Total exceeds
// MaxListItems are returned but not stored.
func (c *CardCache) Page(
	ctx context.Context,
	userID uuid.UUID,
	q ListCardsQuery,
	load func(ctx context.Context) (*CardPage, error),
) (*CardPage, error) {
	return readThrough(ctx, c, CardListKey(userID, q), clonePage,
		func(ctx context.Context) (*CardPage, bool, error) {
			page, err := load(ctx)
			if err != nil {
				return nil, false, err
			}
			return page, page.Total <= c.maxListItems, nil
		})
}

// Invalidate drops every cached page of the user and the given cards.
func (c *CardCache) Invalidate(ctx context.Context, userID uuid.UUID, cardIDs ...uuid.UUID) {
	removed := c.cache.RemoveByPrefix(cardListPrefix(userID))
	for _, id := range cardIDs {
		c.cache.Remove(CardKey(userID, id))
	}
	logger.FromContextOrDefault(ctx, c.logger).Debug("invalidated card cache",
		slog.String("user_id", userID.String()),
		slog.Int("pages_removed", removed),
		slog.Int("cards_removed", len(cardIDs)))
}

// InvalidateUser drops every cached entry of the user, pages and cards.
func (c *CardCache) InvalidateUser(ctx context.Context, userID uuid.UUID) {
	removed := c.cache.RemoveByPrefix(userPrefix(userID))
	logger.FromContextOrDefault(ctx, c.logger).Debug("invalidated all cached cards of user",
		slog.String("user_id", userID.String()),
		slog.Int("entries_removed", removed))
}

// readThrough serves key from the cache, or runs load once for all
// concurrent callers and stores the result when load marks it cacheable.
// Values are cloned on the way in and out so callers never share memory
// with the cache.
func readThrough[T any](
	ctx context.Context,
	c *CardCache,
	key string,
	clone func(T) T,
	load func(ctx context.Context) (T, bool, error),
) (T, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	if v, ok := c.cache.Get(key); ok {
		if cached, ok := v.(T); ok {
			log.Debug("card cache hit", slog.String("key", key))
			return clone(cached), nil
		}
		// Stale type from an older writer
		c.cache.Remove(key)
	}

	// Concurrent misses for the same key share one load
	v, err, shared := c.group.Do(key, func() (any, error) {
		value, cacheable, err := load(ctx)
		if err != nil {
			return nil, err
		}
		// Errors are never cached
		if cacheable {
			c.cache.Set(key, clone(value), c.ttl)
		}
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	log.Debug("card cache miss", slog.String("key", key), slog.Bool("shared", shared))
	return clone(v.(T)), nil
}

func cloneCard(card *domain.Card) *domain.Card {
	if card == nil {
		return nil
	}
	cp := *card
	if card.OriginalContentID != nil {
		id := *card.OriginalContentID
		cp.OriginalContentID = &id
	}
	return &cp
}

func clonePage(page *CardPage) *CardPage {
	if page == nil {
		return nil
	}
	cp := *page
	cp.Items = make([]*domain.Card, len(page.Items))
	for i, card := range page.Items {
		cp.Items[i] = cloneCard(card)
	}
	return &cp
}
