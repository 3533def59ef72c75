package middleware

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	"briefly/internal/handler/http/respond"
	"briefly/pkg/config"
)

var rateLimitRejections = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "http_rate_limit_rejections_total",
		Help: "Total number of requests rejected by the per-client rate limiter",
	},
)

// RateLimitConfig configures the per-client token bucket.
type RateLimitConfig struct {
	// RPS is the sustained request rate per client. Zero disables limiting.
	RPS float64
	// Burst is the bucket size.
	Burst int
	// IdleTTL drops a client's bucket after this long without requests.
	IdleTTL time.Duration
}

// DefaultRateLimitConfig returns 5 requests per second with bursts of 10.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{RPS: 5, Burst: 10, IdleTTL: 10 * time.Minute}
}

// LoadRateLimitConfigFromEnv reads RATE_LIMIT_RPS, RATE_LIMIT_BURST and RATE_LIMIT_IDLE_TTL.
func LoadRateLimitConfigFromEnv() RateLimitConfig {
	d := DefaultRateLimitConfig()
	return RateLimitConfig{
		RPS:     config.GetEnvFloat("RATE_LIMIT_RPS", d.RPS),
		Burst:   config.GetEnvInt("RATE_LIMIT_BURST", d.Burst),
		IdleTTL: config.GetEnvDuration("RATE_LIMIT_IDLE_TTL", d.IdleTTL),
	}
}

// Validate checks the configuration.
func (c RateLimitConfig) Validate() error {
	if c.RPS < 0 {
		return errors.New("RATE_LIMIT_RPS must be non-negative")
	}
	if c.RPS > 0 && c.Burst < 1 {
		return errors.New("RATE_LIMIT_BURST must be at least 1")
	}
	return config.ValidatePositiveDuration(c.IdleTTL)
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies one token bucket per client IP.
type RateLimiter struct {
	config    RateLimitConfig
	extractor IPExtractor

	mu       sync.Mutex
	visitors map[string]*visitor
	now      func() time.Time
}

// NewRateLimiter creates a RateLimiter. A nil extractor uses RemoteAddr.
func NewRateLimiter(cfg RateLimitConfig, extractor IPExtractor) *RateLimiter {
	if extractor == nil {
		extractor = &RemoteAddrExtractor{}
	}
	return &RateLimiter{
		config:    cfg,
		extractor: extractor,
		visitors:  make(map[string]*visitor),
		now:       time.Now,
	}
}

// Middleware rejects requests over the client's budget with 429 and a Retry-After header.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	if rl.config.RPS <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, err := rl.extractor.ExtractIP(r)
		if err != nil {
			ip = r.RemoteAddr
		}

		limiter := rl.limiter(ip)
		reservation := limiter.Reserve()
		if delay := reservation.Delay(); delay > 0 {
			reservation.Cancel()
			rateLimitRejections.Inc()
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			respond.SafeError(w, http.StatusTooManyRequests, errors.New("rate limit exceeded"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Limit(rl.config.RPS), rl.config.Burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = rl.now()
	return v.limiter
}

// Cleanup drops buckets idle for longer than IdleTTL and returns how many were removed.
func (rl *RateLimiter) Cleanup() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.config.IdleTTL)
	removed := 0
	for ip, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, ip)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked clients.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}

// StartCleanup runs Cleanup every interval until ctx is canceled.
func (rl *RateLimiter) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rl.Cleanup(); n > 0 {
				slog.Debug("rate limiter cleanup",
					slog.Int("removed", n),
					slog.Int("remaining", rl.Len()))
			}
		}
	}
}
