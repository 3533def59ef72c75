package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"briefly/internal/bootstrap"
	"briefly/internal/common/pagination"
	hhttp "briefly/internal/handler/http"
	hauth "briefly/internal/handler/http/auth"
	"briefly/internal/handler/http/middleware"
	"briefly/internal/handler/http/summary"
	"briefly/internal/observability/logging"
	"briefly/internal/observability/tracing"
	"briefly/pkg/config"
)

func main() {
	logger := bootstrap.InitLogger(os.Stdout, logging.FormatJSON)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	authn := initAuth(logger)

	shutdownTracing := initTracing(logger)
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Error("failed to flush traces", slog.Any("error", err))
		}
	}()

	sum, err := bootstrap.NewSummarizer(ctx, logger)
	if err != nil {
		logger.Error("failed to initialize summarization service", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sum.Close(); err != nil {
			logger.Error("failed to close summary cache", slog.Any("error", err))
		}
	}()

	database, hist := initHistory(ctx, logger)
	if database != nil {
		defer func() {
			if err := database.Close(); err != nil {
				logger.Error("failed to close database", slog.Any("error", err))
			}
		}()
	}

	version := config.GetEnvString("VERSION", "dev")
	handler := setupServer(ctx, logger, sum, database, hist, authn, version)

	runServer(ctx, cancel, logger, handler, version)
}

// initAuth validates JWT_SECRET and AUTH_REQUIRED at startup.
func initAuth(logger *slog.Logger) *hauth.Authenticator {
	cfg := hauth.LoadConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		logger.Error("auth configuration validation failed", slog.Any("error", err))
		os.Exit(1)
	}
	if cfg.Secret == "" {
		logger.Warn("JWT_SECRET not set, history endpoints will reject every request")
	}
	return hauth.NewAuthenticator(cfg)
}

// initTracing installs the tracer provider. TRACE_SAMPLE_RATIO defaults to 1.
func initTracing(logger *slog.Logger) func(context.Context) error {
	ratio := config.GetEnvFloat("TRACE_SAMPLE_RATIO", 1)
	shutdown, err := tracing.Init(ratio)
	if err != nil {
		logger.Error("failed to initialize tracing", slog.Any("error", err))
		os.Exit(1)
	}
	return shutdown
}

// initHistory opens the optional history database. Both results are nil
// when DATABASE_URL is unset.
func initHistory(ctx context.Context, logger *slog.Logger) (*sql.DB, summary.History) {
	database, dialect, err := bootstrap.OpenDatabase(ctx, logger, true)
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	if database == nil {
		return nil, nil
	}
	return database, bootstrap.NewHistory(database, dialect)
}

// setupServer builds the handler with routes and middleware.
func setupServer(
	ctx context.Context,
	logger *slog.Logger,
	sum *bootstrap.Summarizer,
	database *sql.DB,
	hist summary.History,
	authn *hauth.Authenticator,
	version string,
) http.Handler {
	limiter := initRateLimiter(ctx, logger)

	corsCfg := middleware.LoadCORSConfigFromEnv()
	if err := corsCfg.Validate(); err != nil {
		logger.Error("invalid CORS configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("CORS enabled", slog.Any("allowed_origins", corsCfg.AllowedOrigins))

	health := &hhttp.HealthHandler{
		DB:       database,
		Backends: sum.Service.Backends(),
		Version:  version,
	}
	if sum.Cache != nil {
		health.Cache = sum.Cache
	}

	return hhttp.NewRouter(hhttp.RouterConfig{
		Logger:       logger,
		Summarizer:   sum.Service,
		History:      hist,
		Auth:         authn,
		RateLimiter:  limiter,
		CORS:         corsCfg,
		Security:     middleware.LoadSecurityConfigFromEnv(),
		Pagination:   pagination.LoadFromEnv(),
		MaxBodyBytes: int64(config.GetEnvInt("MAX_BODY_BYTES", int(hhttp.DefaultMaxBodyBytes))),
		Health:       health,
		Ready:        &hhttp.ReadyHandler{DB: database},
	})
}

// initRateLimiter returns nil when RATE_LIMIT_RPS is 0.
func initRateLimiter(ctx context.Context, logger *slog.Logger) *middleware.RateLimiter {
	cfg := middleware.LoadRateLimitConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid rate limit configuration", slog.Any("error", err))
		os.Exit(1)
	}
	if cfg.RPS == 0 {
		logger.Warn("rate limiting is DISABLED - not recommended for production")
		return nil
	}

	proxyCfg, err := middleware.LoadTrustedProxyConfig()
	if err != nil {
		logger.Error("failed to load trusted proxy configuration", slog.Any("error", err))
		os.Exit(1)
	}
	if proxyCfg.Enabled {
		logger.Info("rate limiting: trusted proxy mode enabled",
			slog.Int("trusted_proxies_count", len(proxyCfg.AllowedCIDRs)))
	} else {
		logger.Info("rate limiting: using RemoteAddr (proxy headers ignored)")
	}

	limiter := middleware.NewRateLimiter(cfg, middleware.NewIPExtractor(proxyCfg))
	go limiter.StartCleanup(ctx, cfg.IdleTTL)

	logger.Info("rate limiting initialized",
		slog.Float64("rps", cfg.RPS),
		slog.Int("burst", cfg.Burst),
		slog.Duration("idle_ttl", cfg.IdleTTL))
	return limiter
}

// runServer serves on HTTP_ADDR until SIGINT or SIGTERM, then drains.
func runServer(ctx context.Context, cancel context.CancelFunc, logger *slog.Logger, handler http.Handler, version string) {
	addr := config.GetEnvString("HTTP_ADDR", ":8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       config.GetEnvDuration("HTTP_READ_TIMEOUT", 30*time.Second),
		// summarization of a long document can take most of a minute
		WriteTimeout: config.GetEnvDuration("HTTP_WRITE_TIMEOUT", 120*time.Second),
		IdleTimeout:  120 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.GetEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second))
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}

	// stops rate limiter cleanup and cancels requests still running
	cancel()
	logger.Info("server stopped")
}
