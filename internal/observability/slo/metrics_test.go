package slo

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestTracker_Empty(t *testing.T) {
	snap := NewTracker(10).Snapshot()
	if snap.Requests != 0 || snap.Availability != 1 || snap.ErrorRate != 0 {
		t.Errorf("unexpected empty snapshot: %+v", snap)
	}
}

func TestTracker_Observe(t *testing.T) {
	tr := NewTracker(100)
	for i := 1; i <= 100; i++ {
		tr.Observe(time.Duration(i)*time.Second, false)
	}

	snap := tr.Snapshot()
	if snap.Requests != 100 {
		t.Errorf("Requests = %d, want 100", snap.Requests)
	}
	if snap.P95 != 95*time.Second {
		t.Errorf("P95 = %v, want 95s", snap.P95)
	}
	if snap.P99 != 99*time.Second {
		t.Errorf("P99 = %v, want 99s", snap.P99)
	}
	if got := testutil.ToFloat64(SLOLatencyP95); got != 95 {
		t.Errorf("p95 gauge = %v, want 95", got)
	}
	if got := testutil.ToFloat64(SLOAvailability); got != 1 {
		t.Errorf("availability gauge = %v, want 1", got)
	}
}

func TestTracker_FailuresExcludedFromLatency(t *testing.T) {
	tr := NewTracker(4)
	tr.Observe(time.Second, false)
	tr.Observe(time.Minute, true)
	tr.Observe(2*time.Second, false)
	snap := tr.Observe(time.Minute, true)

	if snap.ErrorRate != 0.5 || snap.Availability != 0.5 {
		t.Errorf("ErrorRate/Availability = %v/%v, want 0.5/0.5", snap.ErrorRate, snap.Availability)
	}
	if snap.P99 != 2*time.Second {
		t.Errorf("P99 = %v, want 2s", snap.P99)
	}
	if got := testutil.ToFloat64(SLOErrorRate); got != 0.5 {
		t.Errorf("error rate gauge = %v, want 0.5", got)
	}
}

func TestTracker_WindowRollsOver(t *testing.T) {
	tr := NewTracker(3)
	tr.Observe(time.Second, true)
	tr.Observe(time.Second, true)
	tr.Observe(time.Second, true)
	for i := 0; i < 3; i++ {
		tr.Observe(time.Second, false)
	}

	snap := tr.Snapshot()
	if snap.Requests != 3 || snap.ErrorRate != 0 {
		t.Errorf("snapshot after rollover = %+v, want 3 requests without errors", snap)
	}
}

func TestTracker_Concurrent(t *testing.T) {
	tr := NewTracker(50)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				tr.Observe(time.Millisecond, i%2 == 0)
			}
		}(i)
	}
	wg.Wait()

	if got := tr.Snapshot().Requests; got != 50 {
		t.Errorf("Requests = %d, want 50", got)
	}
}

func TestPercentile(t *testing.T) {
	if got := percentile(nil, 0.95); got != 0 {
		t.Errorf("percentile(nil) = %v", got)
	}
	one := []time.Duration{3 * time.Second}
	if got := percentile(one, 0.99); got != 3*time.Second {
		t.Errorf("percentile(one) = %v", got)
	}
}

func TestNewTracker_DefaultWindow(t *testing.T) {
	if got := len(NewTracker(0).samples); got != DefaultWindow {
		t.Errorf("window = %d, want %d", got, DefaultWindow)
	}
}
