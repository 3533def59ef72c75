// Package slo tracks summarization against its service level objectives
// over a rolling window of recent requests.
package slo

import (
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Targets for summarization requests. Latency covers extraction plus the
// slowest backend, so it is measured in seconds rather than milliseconds.
const (
	// AvailabilitySLO is the target share of requests not failed by the service, in percent.
	AvailabilitySLO = 99.5

	// LatencyP95SLO is the p95 target in seconds.
	LatencyP95SLO = 15.0

	// LatencyP99SLO is the p99 target in seconds.
	LatencyP99SLO = 30.0

	// ErrorRateSLO is the maximum ratio of failed requests.
	ErrorRateSLO = 0.005
)

// DefaultWindow is the number of recent requests a Tracker evaluates.
const DefaultWindow = 1000

var (
	SLOAvailability = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slo_summarize_availability_ratio",
		Help: "Share of recent summarizations not failed by the service (0-1), target: 0.995",
	})

	SLOLatencyP95 = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slo_summarize_latency_p95_seconds",
		Help: "p95 latency of recent successful summarizations, target: 15",
	})

	SLOLatencyP99 = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slo_summarize_latency_p99_seconds",
		Help: "p99 latency of recent successful summarizations, target: 30",
	})

	SLOErrorRate = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slo_summarize_error_rate_ratio",
		Help: "Share of recent summarizations failed by the service (0-1), target: 0.005",
	})
)

type sample struct {
	duration time.Duration
	failed   bool
}

// Tracker keeps the last window outcomes and republishes the SLO gauges on
// every observation. It is safe for concurrent use.
type Tracker struct {
	mu      sync.Mutex
	samples []sample
	next    int
	full    bool
}

// NewTracker creates a tracker over the last window requests.
// A non-positive window selects DefaultWindow.
func NewTracker(window int) *Tracker {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Tracker{samples: make([]sample, window)}
}

// Snapshot is the state of the window.
type Snapshot struct {
	Requests     int
	Availability float64
	ErrorRate    float64
	P95          time.Duration
	P99          time.Duration
}

// Observe records one request. failed marks a failure the service is
// accountable for; rejected input should be recorded as not failed or not
// at all.
func (t *Tracker) Observe(d time.Duration, failed bool) Snapshot {
	t.mu.Lock()
	t.samples[t.next] = sample{duration: d, failed: failed}
	t.next = (t.next + 1) % len(t.samples)
	if t.next == 0 {
		t.full = true
	}
	snap := t.snapshotLocked()
	t.mu.Unlock()

	SLOAvailability.Set(snap.Availability)
	SLOErrorRate.Set(snap.ErrorRate)
	SLOLatencyP95.Set(snap.P95.Seconds())
	SLOLatencyP99.Set(snap.P99.Seconds())
	return snap
}

// Snapshot returns the current window state without recording anything.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) snapshotLocked() Snapshot {
	n := t.next
	if t.full {
		n = len(t.samples)
	}
	if n == 0 {
		return Snapshot{Availability: 1}
	}

	failures := 0
	durations := make([]time.Duration, 0, n)
	for _, s := range t.samples[:n] {
		if s.failed {
			failures++
			continue
		}
		durations = append(durations, s.duration)
	}
	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

	errRate := float64(failures) / float64(n)
	return Snapshot{
		Requests:     n,
		Availability: 1 - errRate,
		ErrorRate:    errRate,
		P95:          percentile(durations, 0.95),
		P99:          percentile(durations, 0.99),
	}
}

// percentile uses the nearest-rank method on sorted durations.
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	rank := int(p*float64(len(sorted))+0.999999) - 1
	if rank < 0 {
		rank = 0
	}
	if rank >= len(sorted) {
		rank = len(sorted) - 1
	}
	return sorted[rank]
}
