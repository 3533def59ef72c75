// Package bootstrap assembles the long-lived components shared by the
// briefly binaries from environment configuration.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	pgRepo "briefly/internal/infra/adapter/persistence/postgres"
	sqliteRepo "briefly/internal/infra/adapter/persistence/sqlite"
	"briefly/internal/infra/cache"
	"briefly/internal/infra/db"
	"briefly/internal/infra/extractor"
	"briefly/internal/infra/summarizer"
	"briefly/internal/observability/logging"
	"briefly/internal/observability/slo"
	"briefly/internal/repository"
	"briefly/internal/usecase/history"
	"briefly/internal/usecase/summarize"
	"briefly/pkg/config"
)

// InitLogger builds the process logger writing to w and installs it as the
// slog default. Services log JSON to stdout; the CLI logs text to stderr so
// that stdout carries only command output.
func InitLogger(w io.Writer, defaultFormat string) *slog.Logger {
	logger := logging.New(w, logging.LoadConfigFromEnv(defaultFormat))
	slog.SetDefault(logger)
	return logger
}

// Summarizer is the orchestrator together with the resources it owns.
type Summarizer struct {
	Service *summarize.Service
	// Cache is nil when caching is disabled or the store was unreachable.
	Cache *cache.SummaryCache

	store cache.Store
}

// NewSummarizer wires extractor, cache and backends into a summarize.Service.
//
// CACHE_ENABLED=false runs without a cache. An unreachable cache store is
// logged and the service runs uncached rather than failing to start.
func NewSummarizer(ctx context.Context, logger *slog.Logger) (*Summarizer, error) {
	extCfg, err := extractor.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}

	backendCfgs, err := summarizer.LoadConfigsFromEnv()
	if err != nil {
		return nil, err
	}
	backends, err := summarizer.NewBackends(ctx, backendCfgs, summarizer.Options{})
	if err != nil {
		return nil, fmt.Errorf("build backends: %w", err)
	}

	cacheCfg, err := cache.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}

	out := &Summarizer{}
	var svcCache summarize.Cache
	if config.GetEnvBool("CACHE_ENABLED", true) {
		store, err := cache.OpenStore(ctx, cacheCfg)
		if err != nil {
			logger.Warn("summary cache unavailable, continuing without cache", slog.Any("error", err))
		} else {
			out.store = store
			out.Cache = cache.NewSummaryCache(store, cacheCfg.TTL)
			svcCache = out.Cache
		}
	} else {
		logger.Info("summary cache disabled")
	}

	svc, err := summarize.NewService(backends, svcCache, extractor.NewExtractor(extCfg), summarize.Config{
		CacheTTL: cacheCfg.TTL,
		SLO:      slo.NewTracker(config.GetEnvInt("SLO_WINDOW", slo.DefaultWindow)),
	})
	if err != nil {
		_ = out.Close()
		return nil, err
	}
	out.Service = svc

	logger.Info("summarization service initialized",
		slog.Any("backends", svc.Backends()),
		slog.Bool("cache", out.Cache != nil),
		slog.String("extract_strategy", extCfg.Strategy))
	return out, nil
}

// Close releases the cache store.
func (s *Summarizer) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

// OpenDatabase connects to DATABASE_URL and, when migrate is set, applies
// the schema. It returns a nil DB when DATABASE_URL is unset.
func OpenDatabase(ctx context.Context, logger *slog.Logger, migrate bool) (*sql.DB, db.Dialect, error) {
	url := config.GetEnvString("DATABASE_URL", "")
	if url == "" {
		logger.Info("DATABASE_URL not set, summary history disabled")
		return nil, "", nil
	}

	database, dialect, err := db.Open(ctx, url)
	if err != nil {
		return nil, "", err
	}
	if migrate {
		if err := db.MigrateUp(ctx, database, dialect); err != nil {
			_ = database.Close()
			return nil, "", fmt.Errorf("migrate database: %w", err)
		}
		logger.Info("database schema is up to date", slog.String("dialect", string(dialect)))
	}
	return database, dialect, nil
}

// NewSummaryRepo picks the repository implementation for dialect.
func NewSummaryRepo(database *sql.DB, dialect db.Dialect) repository.SummaryRepository {
	if dialect == db.DialectSQLite {
		return sqliteRepo.NewSummaryRepo(database)
	}
	return pgRepo.NewSummaryRepo(database)
}

// NewHistory builds the history service on an open database.
func NewHistory(database *sql.DB, dialect db.Dialect) *history.Service {
	return history.NewService(NewSummaryRepo(database, dialect))
}
