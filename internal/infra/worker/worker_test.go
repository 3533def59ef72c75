package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

/* ───── config ───── */

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad cron", func(c *Config) { c.CronSchedule = "nightly" }, "invalid cron schedule"},
		{"bad timezone", func(c *Config) { c.Timezone = "Nowhere/Land" }, "invalid timezone"},
		{"short retention", func(c *Config) { c.RetentionPeriod = time.Minute }, "shorter than 1h"},
		{"zero timeout", func(c *Config) { c.PurgeTimeout = 0 }, "purge timeout"},
		{"privileged port", func(c *Config) { c.HealthPort = 80 }, "below minimum"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfigFromEnv_Valid(t *testing.T) {
	t.Setenv("RETENTION_CRON", "15 4 * * 0")
	t.Setenv("WORKER_TIMEZONE", "UTC")
	t.Setenv("RETENTION_PERIOD", "168h")
	t.Setenv("PURGE_TIMEOUT", "30s")
	t.Setenv("WORKER_HEALTH_PORT", "9300")
	t.Setenv("RETENTION_RUN_ON_START", "true")

	m := NewMetrics(prometheus.NewRegistry())
	cfg := LoadConfigFromEnv(discardLogger(), m.Config)

	assert.Equal(t, Config{
		CronSchedule:    "15 4 * * 0",
		Timezone:        "UTC",
		RetentionPeriod: 168 * time.Hour,
		PurgeTimeout:    30 * time.Second,
		HealthPort:      9300,
		RunOnStart:      true,
	}, cfg)
	assert.Equal(t, float64(0), testutil.ToFloat64(m.Config.FallbackActive))
}

func TestLoadConfigFromEnv_FallsBackPerField(t *testing.T) {
	t.Setenv("RETENTION_CRON", "every night")
	t.Setenv("RETENTION_PERIOD", "10m")
	t.Setenv("WORKER_HEALTH_PORT", "9400")

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	m := NewMetrics(prometheus.NewRegistry())

	cfg := LoadConfigFromEnv(logger, m.Config)

	def := DefaultConfig()
	assert.Equal(t, def.CronSchedule, cfg.CronSchedule)
	assert.Equal(t, def.RetentionPeriod, cfg.RetentionPeriod)
	assert.Equal(t, 9400, cfg.HealthPort)
	assert.NoError(t, cfg.Validate())

	assert.Equal(t, float64(1), testutil.ToFloat64(m.Config.FallbacksTotal.WithLabelValues("cron_schedule")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Config.FallbacksTotal.WithLabelValues("retention_period")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Config.FallbackActive))
	assert.Contains(t, logs.String(), "worker configuration fallback applied")
}

func TestLoadConfigFromEnv_NilMetrics(t *testing.T) {
	t.Setenv("WORKER_TIMEZONE", "Not/AZone")
	cfg := LoadConfigFromEnv(discardLogger(), nil)
	assert.Equal(t, "UTC", cfg.Timezone)
}

/* ───── purge job ───── */

type fakePurger struct {
	mu      sync.Mutex
	calls   []time.Duration
	deleted int64
	err     error
	block   chan struct{}
}

func (f *fakePurger) Purge(ctx context.Context, olderThan time.Duration) (int64, error) {
	f.mu.Lock()
	f.calls = append(f.calls, olderThan)
	f.mu.Unlock()
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	return f.deleted, f.err
}

func TestPurgeJob_Run_Success(t *testing.T) {
	p := &fakePurger{deleted: 7}
	m := NewMetrics(prometheus.NewRegistry())
	cfg := DefaultConfig()
	job := NewPurgeJob(p, cfg, m, discardLogger())

	n, err := job.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.Equal(t, []time.Duration{cfg.RetentionPeriod}, p.calls)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.PurgeRuns.WithLabelValues("success")))
	assert.Equal(t, float64(7), testutil.ToFloat64(m.LastDeletedCount))
	assert.Greater(t, testutil.ToFloat64(m.LastSuccess), float64(0))

	var pb dto.Metric
	require.NoError(t, m.PurgeDuration.Write(&pb))
	assert.Equal(t, uint64(1), pb.GetHistogram().GetSampleCount())
}

func TestPurgeJob_Run_Failure(t *testing.T) {
	p := &fakePurger{err: errors.New("connection refused")}
	m := NewMetrics(prometheus.NewRegistry())
	job := NewPurgeJob(p, DefaultConfig(), m, discardLogger())

	_, err := job.Run(context.Background())

	require.Error(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.PurgeRuns.WithLabelValues("failure")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.LastSuccess))
}

func TestPurgeJob_Run_Timeout(t *testing.T) {
	p := &fakePurger{block: make(chan struct{})}
	cfg := DefaultConfig()
	cfg.PurgeTimeout = 20 * time.Millisecond
	job := NewPurgeJob(p, cfg, nil, discardLogger())

	_, err := job.Run(context.Background())

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPurgeJob_Run_RejectsOverlap(t *testing.T) {
	p := &fakePurger{block: make(chan struct{})}
	job := NewPurgeJob(p, DefaultConfig(), nil, discardLogger())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = job.Run(context.Background())
	}()
	require.Eventually(t, func() bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		return len(p.calls) == 1
	}, time.Second, 5*time.Millisecond)

	_, err := job.Run(context.Background())
	assert.ErrorIs(t, err, ErrPurgeInProgress)

	close(p.block)
	<-done

	_, err = job.Run(context.Background())
	assert.NoError(t, err)
}

func TestNewScheduler(t *testing.T) {
	cfg := DefaultConfig()
	job := NewPurgeJob(&fakePurger{}, cfg, nil, discardLogger())

	c, err := NewScheduler(context.Background(), job)
	require.NoError(t, err)
	require.Len(t, c.Entries(), 1)
	assert.Equal(t, time.UTC, c.Location())

	job.cfg.CronSchedule = "bogus"
	_, err = NewScheduler(context.Background(), job)
	assert.Error(t, err)
}

/* ───── health server ───── */

func TestHealthServer_Handler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.RecordSuccess(0.2, 3)
	h := NewHealthServer(":0", discardLogger(), promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	handler := h.Handler()

	get := func(path string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		return rr
	}
	status := func(rr *httptest.ResponseRecorder) string {
		var body healthResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		return body.Status
	}

	rr := get("/health")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", status(rr))

	rr = get("/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "not ready", status(rr))

	h.SetReady(true)
	rr = get("/health/ready")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = get("/metrics")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "retention_purge_runs_total")
}

func TestHealthServer_NoMetrics(t *testing.T) {
	h := NewHealthServer(":0", discardLogger(), nil)
	rr := httptest.NewRecorder()
	h.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHealthServer_StartAndShutdown(t *testing.T) {
	h := NewHealthServer("127.0.0.1:0", discardLogger(), nil)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- h.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(6 * time.Second):
		t.Fatal("health server did not stop")
	}
}
