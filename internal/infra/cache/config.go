package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"briefly/internal/resilience/retry"
	"briefly/pkg/config"
)

// MemoryURL selects the in-process store instead of Redis.
const MemoryURL = "memory://"

// Config selects and sizes the cache store.
type Config struct {
	// URL is a redis:// or rediss:// URL, or MemoryURL.
	// Default: redis://localhost:6379/0
	URL string

	// TTL is how long a summary stays cached.
	// Default: 24h
	TTL time.Duration

	// MemoryMaxEntries bounds the in-memory store.
	// Default: 1024
	MemoryMaxEntries int
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		URL:              "redis://localhost:6379/0",
		TTL:              24 * time.Hour,
		MemoryMaxEntries: 1024,
	}
}

// LoadConfigFromEnv reads REDIS_URL, CACHE_TTL and CACHE_MEMORY_MAX_ENTRIES.
func LoadConfigFromEnv() (Config, error) {
	def := DefaultConfig()
	cfg := Config{
		URL:              config.GetEnvString("REDIS_URL", def.URL),
		TTL:              config.GetEnvDuration("CACHE_TTL", def.TTL),
		MemoryMaxEntries: config.GetEnvInt("CACHE_MEMORY_MAX_ENTRIES", def.MemoryMaxEntries),
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("cache configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	if err := config.ValidatePositiveDuration(c.TTL); err != nil {
		return fmt.Errorf("ttl: %w", err)
	}
	if c.IsMemory() {
		if c.MemoryMaxEntries <= 0 {
			return fmt.Errorf("memory max entries must be positive, got %d", c.MemoryMaxEntries)
		}
		return nil
	}
	if !strings.HasPrefix(c.URL, "redis://") && !strings.HasPrefix(c.URL, "rediss://") {
		return fmt.Errorf("cache url must use redis://, rediss:// or %s", MemoryURL)
	}
	return nil
}

// IsMemory reports whether the in-process store is selected.
func (c *Config) IsMemory() bool {
	return c.URL == MemoryURL
}

// OpenStore builds the configured store. For Redis it waits for the server
// with retry.ConnectConfig before giving up.
func OpenStore(ctx context.Context, cfg Config) (Store, error) {
	if cfg.IsMemory() {
		slog.Info("using in-memory summary cache", slog.Int("max_entries", cfg.MemoryMaxEntries))
		return NewMemoryStore(cfg.MemoryMaxEntries), nil
	}

	store, err := NewRedisStore(cfg.URL)
	if err != nil {
		return nil, err
	}

	err = retry.WithBackoff(ctx, retry.ConnectConfig("redis"), func() error {
		return store.Ping(ctx)
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	slog.Info("connected to redis summary cache")
	return store, nil
}
