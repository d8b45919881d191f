package cache

import (
	"strings"
	"time"
)

// Cache is a process-local key/value cache with sliding expiration and
// prefix invalidation.
type Cache interface {
	// Get returns the value stored under key and refreshes its expiration.
	Get(key string) (any, bool)

	// Set stores value under key. A non-positive ttl stores the value
	// without expiration.
	Set(key string, value any, ttl time.Duration)

	// Remove deletes key if present.
	Remove(key string)

	// RemoveByPrefix deletes every key starting with prefix and returns the
	// number of removed entries.
	RemoveByPrefix(prefix string) int
}

// NamespaceFunc maps a key to the namespace used for the secondary index.
// Keys sharing a namespace are removed together by RemoveByPrefix without
// scanning the rest of the cache. An empty namespace means "unindexed".
type NamespaceFunc func(key string) string

// DefaultNamespace returns the key up to its second underscore, so that
// "card_<user>_list_1_20" and "card_<user>_<card>" share the namespace
// "card_<user>". Keys with fewer than two underscores are unindexed.
func DefaultNamespace(key string) string {
	first := strings.IndexByte(key, '_')
	if first < 0 {
		return ""
	}
	second := strings.IndexByte(key[first+1:], '_')
	if second < 0 {
		return ""
	}
	return key[:first+1+second]
}
