package cache

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

type entry struct {
	value     any
	ttl       time.Duration
	expiresAt time.Time
}

func (e *entry) expired(now time.Time) bool {
	return e.ttl > 0 && !now.Before(e.expiresAt)
}

// MemoryCache is the in-memory Cache implementation. It is safe for
// concurrent use. A per-namespace key index keeps RemoveByPrefix from
// scanning keys of unrelated namespaces.
type MemoryCache struct {
	mu        sync.Mutex
	entries   map[string]*entry
	index     map[string]map[string]struct{}
	namespace NamespaceFunc
	now       func() time.Time
	logger    *slog.Logger
}

var _ Cache = (*MemoryCache)(nil)

// Option configures a MemoryCache.
type Option func(*MemoryCache)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *MemoryCache) {
		c.now = now
	}
}

// WithNamespace replaces DefaultNamespace.
func WithNamespace(fn NamespaceFunc) Option {
	return func(c *MemoryCache) {
		c.namespace = fn
	}
}

// NewMemoryCache creates an empty cache.
func NewMemoryCache(logger *slog.Logger, opts ...Option) *MemoryCache {
	if logger == nil {
		logger = slog.Default()
	}
	c := &MemoryCache{
		entries:   make(map[string]*entry),
		index:     make(map[string]map[string]struct{}),
		namespace: DefaultNamespace,
		now:       time.Now,
		logger:    logger.With(slog.String("component", "memory_cache")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get implements Cache. A hit slides the entry's expiration forward.
func (c *MemoryCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	now := c.now()
	if e.expired(now) {
		c.removeLocked(key)
		return nil, false
	}
	// Sliding expiration
	if e.ttl > 0 {
		e.expiresAt = now.Add(e.ttl)
	}
	return e.value, true
}

// Set implements Cache.
func (c *MemoryCache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := &entry{value: value, ttl: ttl}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.entries[key] = e

	// Track the key under its namespace for prefix removal
	ns := c.namespace(key)
	keys, ok := c.index[ns]
	if !ok {
		keys = make(map[string]struct{})
		c.index[ns] = keys
	}
	keys[key] = struct{}{}
}

// Remove implements Cache.
func (c *MemoryCache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(key)
}

// RemoveByPrefix implements Cache. When prefix covers a whole namespace only
// that namespace's keys are examined.
func (c *MemoryCache) RemoveByPrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var candidates []string
	if ns := c.namespace(prefix); ns != "" {
		for key := range c.index[ns] {
			if strings.HasPrefix(key, prefix) {
				candidates = append(candidates, key)
			}
		}
	} else {
		// No namespace in the prefix: fall back to a full scan
		for key := range c.entries {
			if strings.HasPrefix(key, prefix) {
				candidates = append(candidates, key)
			}
		}
	}

	for _, key := range candidates {
		c.removeLocked(key)
	}

	if len(candidates) > 0 {
		c.logger.Debug("removed cache entries by prefix",
			slog.String("prefix", prefix),
			slog.Int("count", len(candidates)))
	}
	return len(candidates)
}

// Len returns the number of stored entries, expired ones included until the
// next sweep.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// DeleteExpired removes all expired entries and returns how many were removed.
func (c *MemoryCache) DeleteExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, e := range c.entries {
		if e.expired(now) {
			c.removeLocked(key)
			removed++
		}
	}
	return removed
}

// StartJanitor sweeps expired entries every interval until ctx is done. The
// returned channel is closed when the janitor has stopped.
func (c *MemoryCache) StartJanitor(ctx context.Context, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	if interval <= 0 {
		close(done)
		return done
	}

	go func() {
		defer close(done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				c.logger.Debug("cache janitor stopped")
				return
			case <-ticker.C:
				if n := c.DeleteExpired(); n > 0 {
					c.logger.Debug("swept expired cache entries", slog.Int("count", n))
				}
			}
		}
	}()
	return done
}

func (c *MemoryCache) removeLocked(key string) {
	if _, ok := c.entries[key]; !ok {
		return
	}
	delete(c.entries, key)

	ns := c.namespace(key)
	if keys, ok := c.index[ns]; ok {
		delete(keys, key)
		if len(keys) == 0 {
			delete(c.index, ns)
		}
	}
}
