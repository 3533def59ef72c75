package extractor

import (
	"fmt"
	"time"

	"briefly/pkg/config"
)

// Structured extraction strategies for HTML pages.
const (
	StrategyReadability = "readability"
	StrategyTrafilatura = "trafilatura"
)

// Config controls how sources are fetched and parsed.
type Config struct {
	// Timeout bounds a single URL fetch, including redirects and body read.
	// Default: 10s
	Timeout time.Duration

	// MaxBodySize is the maximum HTTP response body size in bytes.
	// Enforced while reading, not from Content-Length.
	// Default: 10MB
	MaxBodySize int64

	// MaxRedirects is the maximum number of redirects to follow.
	// Each redirect target is validated again.
	// Default: 5
	MaxRedirects int

	// DenyPrivateIPs rejects URLs whose host resolves to a private,
	// loopback or link-local address.
	// Default: true
	DenyPrivateIPs bool

	// Strategy selects the structured HTML extractor tried before the generic one.
	// Default: readability
	Strategy string

	// MaxDocumentSize is the largest accepted uploaded document in bytes.
	// Default: 20MB
	MaxDocumentSize int64

	// UserAgent is sent with every fetch.
	UserAgent string
}

// DefaultConfig returns the default extraction configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:         10 * time.Second,
		MaxBodySize:     10 * 1024 * 1024,
		MaxRedirects:    5,
		DenyPrivateIPs:  true,
		Strategy:        StrategyReadability,
		MaxDocumentSize: 20 * 1024 * 1024,
		UserAgent:       "BrieflyBot/1.0",
	}
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	if err := config.ValidatePositiveDuration(c.Timeout); err != nil {
		return fmt.Errorf("timeout: %w", err)
	}

	minBodySize := int64(1024)
	maxBodySize := int64(100 * 1024 * 1024)
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	if c.MaxDocumentSize < minBodySize || c.MaxDocumentSize > maxBodySize {
		return fmt.Errorf("max document size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxDocumentSize)
	}

	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}

	switch c.Strategy {
	case StrategyReadability, StrategyTrafilatura:
	default:
		return fmt.Errorf("unknown extraction strategy %q (want %s or %s)", c.Strategy, StrategyReadability, StrategyTrafilatura)
	}

	return nil
}

// LoadConfigFromEnv loads the configuration from EXTRACT_* variables
// on top of DefaultConfig and validates it.
//
// Environment variables:
//   - EXTRACT_TIMEOUT: duration (default: 10s)
//   - EXTRACT_MAX_BODY_SIZE: bytes (default: 10485760)
//   - EXTRACT_MAX_REDIRECTS: integer (default: 5)
//   - EXTRACT_DENY_PRIVATE_IPS: boolean (default: true)
//   - EXTRACT_STRATEGY: readability or trafilatura (default: readability)
//   - EXTRACT_MAX_DOCUMENT_SIZE: bytes (default: 20971520)
//   - EXTRACT_USER_AGENT: string (default: BrieflyBot/1.0)
func LoadConfigFromEnv() (Config, error) {
	def := DefaultConfig()
	cfg := Config{
		Timeout:         config.GetEnvDuration("EXTRACT_TIMEOUT", def.Timeout),
		MaxBodySize:     int64(config.GetEnvInt("EXTRACT_MAX_BODY_SIZE", int(def.MaxBodySize))),
		MaxRedirects:    config.GetEnvInt("EXTRACT_MAX_REDIRECTS", def.MaxRedirects),
		DenyPrivateIPs:  config.GetEnvBool("EXTRACT_DENY_PRIVATE_IPS", def.DenyPrivateIPs),
		Strategy:        config.GetEnvString("EXTRACT_STRATEGY", def.Strategy),
		MaxDocumentSize: int64(config.GetEnvInt("EXTRACT_MAX_DOCUMENT_SIZE", int(def.MaxDocumentSize))),
		UserAgent:       config.GetEnvString("EXTRACT_USER_AGENT", def.UserAgent),
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("extractor configuration validation failed: %w", err)
	}
	return cfg, nil
}
