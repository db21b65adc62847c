package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Mutation("add_task")
	m.Mutation("add_task")
	m.Saved(time.Millisecond, nil)
	m.Saved(time.Millisecond, errors.New("disk full"))
	m.TaskCounts(3, 1)
	m.ReminderDropped()

	if got := testutil.ToFloat64(m.Mutations.WithLabelValues("add_task")); got != 2 {
		t.Fatalf("expected 2 add_task mutations, got %v", got)
	}
	if got := testutil.ToFloat64(m.SaveFailures); got != 1 {
		t.Fatalf("expected 1 save failure, got %v", got)
	}
	if got := testutil.ToFloat64(m.Tasks.WithLabelValues("archived")); got != 1 {
		t.Fatalf("expected archived gauge 1, got %v", got)
	}
	if got := testutil.ToFloat64(m.ReminderDrops); got != 1 {
		t.Fatalf("expected 1 drop, got %v", got)
	}
	if n := testutil.CollectAndCount(m.SaveDuration); n != 1 {
		t.Fatalf("expected one histogram series, got %d", n)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.Mutation("x")
	m.Saved(time.Second, errors.New("boom"))
	m.TaskCounts(1, 1)
	m.Notified("info")
	m.ImportRecord("imported")
	m.ReminderFired()
	m.ReminderDropped()
}
