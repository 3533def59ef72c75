package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"briefly/internal/bootstrap"
	workerPkg "briefly/internal/infra/worker"
	"briefly/internal/observability/logging"
)

func main() {
	logger := bootstrap.InitLogger(os.Stdout, logging.FormatJSON)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load worker configuration (fail-open strategy)
	workerMetrics := workerPkg.NewMetrics(prometheus.DefaultRegisterer)
	workerConfig := workerPkg.LoadConfigFromEnv(logger, workerMetrics.Config)
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("retention_period", workerConfig.RetentionPeriod),
		slog.Duration("purge_timeout", workerConfig.PurgeTimeout),
		slog.Int("health_port", workerConfig.HealthPort))

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger, promhttp.Handler())
	go func() {
		if err := healthServer.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	database, dialect, err := bootstrap.OpenDatabase(ctx, logger, false)
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	if database == nil {
		logger.Error("DATABASE_URL is required by the retention worker")
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	job := workerPkg.NewPurgeJob(bootstrap.NewHistory(database, dialect), workerConfig, workerMetrics, logger)
	scheduler, err := workerPkg.NewScheduler(ctx, job)
	if err != nil {
		logger.Error("failed to schedule purge job", slog.Any("error", err))
		os.Exit(1)
	}

	if workerConfig.RunOnStart {
		_, _ = job.Run(ctx)
	}

	scheduler.Start()
	healthServer.SetReady(true)
	logger.Info("retention worker started")

	<-ctx.Done()
	logger.Info("shutting down worker...")
	healthServer.SetReady(false)

	// waits for a running purge to finish
	<-scheduler.Stop().Done()
	logger.Info("worker stopped")
}
