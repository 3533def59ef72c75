package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"briefly/internal/domain/entity"
	"briefly/internal/observability/metrics"
)

// KeyPrefix namespaces summary entries in a shared store.
const KeyPrefix = "summary:cache:"

// Key returns the cache key for text: KeyPrefix followed by the lowercase hex
// SHA-256 of its UTF-8 bytes. Identical text always maps to the same key,
// whatever source it came from.
func Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return KeyPrefix + hex.EncodeToString(sum[:])
}

// SummaryCache stores SummaryResult values as JSON in a Store.
//
// Store failures never reach the caller: a failed or undecodable read is a
// miss and a failed write is dropped. Both are logged and counted.
type SummaryCache struct {
	store      Store
	defaultTTL time.Duration
}

// NewSummaryCache wraps store. defaultTTL is used when Set is given ttl <= 0.
func NewSummaryCache(store Store, defaultTTL time.Duration) *SummaryCache {
	return &SummaryCache{store: store, defaultTTL: defaultTTL}
}

// Key is the method form of the package-level Key.
func (c *SummaryCache) Key(text string) string {
	return Key(text)
}

// Get returns the cached result for key, or false on a miss.
func (c *SummaryCache) Get(ctx context.Context, key string) (*entity.SummaryResult, bool) {
	payload, err := c.store.Get(ctx, key)
	if errors.Is(err, ErrCacheMiss) {
		metrics.RecordCacheGet("miss")
		return nil, false
	}
	if err != nil {
		metrics.RecordCacheGet("error")
		slog.WarnContext(ctx, "cache read failed, treating as miss",
			slog.String("key", key),
			slog.Any("error", err))
		return nil, false
	}

	var result entity.SummaryResult
	if err := json.Unmarshal(payload, &result); err != nil || result.BackendResults == nil {
		metrics.RecordCacheGet("error")
		slog.WarnContext(ctx, "discarding malformed cache entry",
			slog.String("key", key),
			slog.Any("error", err))
		if delErr := c.store.Delete(ctx, key); delErr != nil {
			slog.WarnContext(ctx, "failed to delete malformed cache entry",
				slog.String("key", key),
				slog.Any("error", delErr))
		}
		return nil, false
	}

	metrics.RecordCacheGet("hit")
	return &result, true
}

// Set stores result under key for ttl. Failures are logged, never returned.
func (c *SummaryCache) Set(ctx context.Context, key string, result *entity.SummaryResult, ttl time.Duration) {
	if result == nil {
		return
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	payload, err := json.Marshal(result)
	if err == nil {
		err = c.store.Set(ctx, key, payload, ttl)
	}
	metrics.RecordCacheSet(err)

	if err != nil {
		slog.WarnContext(ctx, "cache write failed",
			slog.String("key", key),
			slog.Any("error", err))
	}
}

// Delete removes key from the store.
func (c *SummaryCache) Delete(ctx context.Context, key string) error {
	return c.store.Delete(ctx, key)
}

// Ping checks the underlying store.
func (c *SummaryCache) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}
