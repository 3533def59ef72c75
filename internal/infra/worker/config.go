// Package worker runs the history retention job: a cron-scheduled purge of
// stored summaries older than the retention period, with its own health and
// metrics endpoints.
package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"briefly/internal/pkg/config"
	envconfig "briefly/pkg/config"
)

// Config controls the retention worker.
//
// Every setting is fail-open: a bad value is logged, counted and replaced by
// its default so the worker still starts.
type Config struct {
	// CronSchedule is a five-field cron expression. Default "0 3 * * *".
	CronSchedule string

	// Timezone is the IANA zone the schedule is evaluated in. Default "UTC".
	Timezone string

	// RetentionPeriod is how long summaries are kept. Default 30 days.
	RetentionPeriod time.Duration

	// PurgeTimeout bounds a single purge run. Default 5 minutes.
	PurgeTimeout time.Duration

	// HealthPort serves /health, /health/ready and /metrics. Default 9091.
	HealthPort int

	// RunOnStart triggers one purge immediately after startup.
	RunOnStart bool
}

// DefaultConfig returns the worker defaults.
func DefaultConfig() Config {
	return Config{
		CronSchedule:    "0 3 * * *",
		Timezone:        "UTC",
		RetentionPeriod: 30 * 24 * time.Hour,
		PurgeTimeout:    5 * time.Minute,
		HealthPort:      9091,
	}
}

// Validate checks every field.
func (c Config) Validate() error {
	var errs []error
	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, err)
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, err)
	}
	if err := validateRetention(c.RetentionPeriod); err != nil {
		errs = append(errs, err)
	}
	if err := validatePurgeTimeout(c.PurgeTimeout); err != nil {
		errs = append(errs, err)
	}
	if err := validatePort(c.HealthPort); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Location returns the schedule's time zone, UTC if it cannot be loaded.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func validateRetention(d time.Duration) error {
	if d < time.Hour {
		return fmt.Errorf("retention period %s is shorter than 1h", d)
	}
	return nil
}

func validatePurgeTimeout(d time.Duration) error {
	if err := envconfig.ValidateDurationRange(d, time.Second, time.Hour); err != nil {
		return fmt.Errorf("purge timeout: %w", err)
	}
	return nil
}

func validatePort(p int) error {
	return config.ValidateIntRange(p, 1024, 65535)
}

// LoadConfigFromEnv reads the worker settings:
//
//	RETENTION_CRON, WORKER_TIMEZONE, RETENTION_PERIOD,
//	PURGE_TIMEOUT, WORKER_HEALTH_PORT, RETENTION_RUN_ON_START
//
// Fallbacks are logged at WARN and recorded on m when m is non-nil.
func LoadConfigFromEnv(logger *slog.Logger, m *config.ConfigMetrics) Config {
	def := DefaultConfig()
	fallback := false
	note := func(field string, applied bool, warning string) {
		if !applied {
			return
		}
		fallback = true
		logger.Warn("worker configuration fallback applied",
			slog.String("field", field),
			slog.String("warning", warning))
		if m != nil {
			m.RecordFallback(field)
		}
	}

	cron := config.LoadString("RETENTION_CRON", def.CronSchedule, config.ValidateCronSchedule)
	note("cron_schedule", cron.FallbackApplied, cron.Warning)

	tz := config.LoadString("WORKER_TIMEZONE", def.Timezone, config.ValidateTimezone)
	note("timezone", tz.FallbackApplied, tz.Warning)

	retention := config.LoadDuration("RETENTION_PERIOD", def.RetentionPeriod, validateRetention)
	note("retention_period", retention.FallbackApplied, retention.Warning)

	timeout := config.LoadDuration("PURGE_TIMEOUT", def.PurgeTimeout, validatePurgeTimeout)
	note("purge_timeout", timeout.FallbackApplied, timeout.Warning)

	port := config.LoadInt("WORKER_HEALTH_PORT", def.HealthPort, validatePort)
	note("health_port", port.FallbackApplied, port.Warning)

	runOnStart := config.LoadBool("RETENTION_RUN_ON_START", def.RunOnStart)
	note("run_on_start", runOnStart.FallbackApplied, runOnStart.Warning)

	if m != nil {
		m.RecordLoad(fallback)
	}

	return Config{
		CronSchedule:    cron.Value,
		Timezone:        tz.Value,
		RetentionPeriod: retention.Value,
		PurgeTimeout:    timeout.Value,
		HealthPort:      port.Value,
		RunOnStart:      runOnStart.Value,
	}
}
