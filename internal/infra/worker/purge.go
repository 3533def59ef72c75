package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrPurgeInProgress is returned when a run starts while another is active.
var ErrPurgeInProgress = errors.New("purge already in progress")

// Purger deletes stored summaries older than a retention period.
type Purger interface {
	Purge(ctx context.Context, olderThan time.Duration) (int64, error)
}

// PurgeJob runs one retention purge per invocation.
type PurgeJob struct {
	purger  Purger
	cfg     Config
	metrics *Metrics
	logger  *slog.Logger
	running atomic.Bool
}

// NewPurgeJob builds a job. metrics may be nil.
func NewPurgeJob(p Purger, cfg Config, m *Metrics, logger *slog.Logger) *PurgeJob {
	return &PurgeJob{purger: p, cfg: cfg, metrics: m, logger: logger}
}

// Run purges once, bounded by the configured timeout. Overlapping runs are
// rejected with ErrPurgeInProgress.
func (j *PurgeJob) Run(ctx context.Context) (int64, error) {
	if !j.running.CompareAndSwap(false, true) {
		j.logger.Warn("purge skipped: previous run still active")
		return 0, ErrPurgeInProgress
	}
	defer j.running.Store(false)

	ctx, cancel := context.WithTimeout(ctx, j.cfg.PurgeTimeout)
	defer cancel()

	start := time.Now()
	j.logger.Info("purge started", slog.Duration("retention", j.cfg.RetentionPeriod))

	deleted, err := j.purger.Purge(ctx, j.cfg.RetentionPeriod)
	elapsed := time.Since(start)
	if err != nil {
		if j.metrics != nil {
			j.metrics.RecordFailure(elapsed.Seconds())
		}
		j.logger.Error("purge failed",
			slog.Any("error", err),
			slog.Duration("duration", elapsed))
		return 0, err
	}

	if j.metrics != nil {
		j.metrics.RecordSuccess(elapsed.Seconds(), deleted)
	}
	j.logger.Info("purge completed",
		slog.Int64("deleted", deleted),
		slog.Duration("duration", elapsed))
	return deleted, nil
}

// NewScheduler returns a cron scheduler evaluating in the configured zone
// with the job registered on the configured schedule. ctx is the parent of
// every run.
func NewScheduler(ctx context.Context, job *PurgeJob) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(job.cfg.Location()))
	_, err := c.AddFunc(job.cfg.CronSchedule, func() {
		_, _ = job.Run(ctx)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}
