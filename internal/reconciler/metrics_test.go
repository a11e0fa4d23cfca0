package reconciler

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"envrepo/internal/environment"
)

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordRefresh(RefreshSuccess, time.Second)
	m.SetEnvironments(3)
	m.RecordChanges([]Change{{Operation: OperationCreate, ID: "a"}})
	m.RecordStateUpdate(true)
}

func TestMetrics_Register(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordRefresh(RefreshSuccess, 10*time.Millisecond)
	m.RecordRefresh(RefreshFailure, 20*time.Millisecond)
	m.RecordRefresh(RefreshSuccess, 30*time.Millisecond)
	m.SetEnvironments(2)
	m.RecordStateUpdate(true)
	m.RecordStateUpdate(false)

	if got := testutil.ToFloat64(m.refreshes.WithLabelValues(RefreshSuccess)); got != 2 {
		t.Errorf("successful refreshes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.refreshes.WithLabelValues(RefreshFailure)); got != 1 {
		t.Errorf("failed refreshes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.environments); got != 2 {
		t.Errorf("environments = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.stateUpdates.WithLabelValues("unknown")); got != 1 {
		t.Errorf("unknown state updates = %v, want 1", got)
	}

	count, err := testutil.GatherAndCount(reg, "envrepo_refresh_duration_seconds")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if count != 1 {
		t.Errorf("expected one histogram series, got %d", count)
	}
}

func TestMetrics_CacheRecordsChanges(t *testing.T) {
	m := NewMetrics(nil)
	cache := NewCache(CacheConfig{Metrics: m})

	cache.Reconcile([]environment.Config{cfg("a", "A"), cfg("b", "B")})
	cache.Reconcile([]environment.Config{cfg("a", "A2")})

	tests := []struct {
		op   ChangeOperation
		want float64
	}{
		{OperationCreate, 2},
		{OperationUpdate, 1},
		{OperationDelete, 1},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(m.changes.WithLabelValues(string(tt.op))); got != tt.want {
			t.Errorf("%s changes = %v, want %v", tt.op, got, tt.want)
		}
	}
}
