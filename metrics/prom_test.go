package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPromProvider_Counter(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPromProvider(reg)

	c := p.Counter("tasks.submitted", WithHelp("submitted tasks"))
	c.Add(3)
	p.Counter("tasks.submitted").Add(2)

	require.InDelta(t, 5.0, testutil.ToFloat64(p.counters["tasks.submitted"]), 1e-9)
	require.Equal(t, 1, testutil.CollectAndCount(reg, "tasks_submitted"))
}

func TestPromProvider_UpDownCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPromProvider(reg)

	u := p.UpDownCounter("tasks.pending")
	u.Add(4)
	u.Add(-1)

	require.InDelta(t, 3.0, testutil.ToFloat64(p.gauges["tasks.pending"]), 1e-9)
}

func TestPromProvider_Histogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPromProvider(reg)

	h := p.Histogram("task.duration", WithHelp("task latency"), WithUnit("s"))
	h.Record(0.1)
	h.Record(0.2)
	p.Histogram("task.duration").Record(0.3)

	require.Equal(t, 1, testutil.CollectAndCount(reg, "task_duration"))
}

func TestPromProvider_ReregistrationIsSafe(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPromProvider(reg)

	require.NotPanics(t, func() {
		for i := 0; i < 3; i++ {
			p.Counter("tasks.completed").Add(1)
			p.UpDownCounter("tasks.pending").Add(1)
			p.Histogram("task.duration").Record(0.1)
		}
	})
}

func TestSanitizeName(t *testing.T) {
	require.Equal(t, "task_pool_pending_tasks", sanitizeName("task.pool.pending-tasks"))
}
