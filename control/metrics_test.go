// control/metrics_test.go
// Author: momentics <momentics@gmail.com>

package control_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/osthread/api"
	"github.com/momentics/osthread/control"
)

func TestMetricsRegistrySnapshot(t *testing.T) {
	mr := control.NewMetricsRegistry()
	mr.ThreadStarted("high")
	mr.ThreadStarted("high")
	mr.ThreadStarted("inherit")
	mr.StartFailed(api.ErrCodePriority)
	mr.ThreadJoined(time.Millisecond)
	mr.JoinTimedOut()
	mr.ThreadDetached()
	mr.ThreadExited(2 * time.Millisecond)

	snap := mr.GetSnapshot()
	assert.Equal(t, int64(3), snap["started"])
	assert.Equal(t, map[string]int64{"high": 2, "inherit": 1}, snap["started_priority"])
	assert.Equal(t, map[string]int64{"priority": 1}, snap["start_failures"])
	assert.Equal(t, int64(1), snap["joined"])
	assert.Equal(t, int64(1), snap["join_timeouts"])
	assert.Equal(t, int64(1), snap["detached"])
	assert.Equal(t, int64(1), snap["exited"])
	assert.Equal(t, "1ms", snap["join_wait"])
	assert.Equal(t, "2ms", snap["run_time"])
}

func TestMultiMetricsFanOut(t *testing.T) {
	a, b := control.NewMetricsRegistry(), control.NewMetricsRegistry()
	m := control.MultiMetrics{a, b}
	m.ThreadStarted("low")
	m.ThreadDetached()

	for _, mr := range []*control.MetricsRegistry{a, b} {
		snap := mr.GetSnapshot()
		assert.Equal(t, int64(1), snap["started"])
		assert.Equal(t, int64(1), snap["detached"])
	}
}

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	p, err := control.NewPrometheus(reg, "test")
	require.NoError(t, err)

	p.ThreadStarted("normal")
	p.ThreadStarted("normal")
	p.StartFailed(api.ErrCodeResourceExhausted)
	p.ThreadJoined(5 * time.Millisecond)
	p.JoinTimedOut()
	p.ThreadExited(10 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.Started("normal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.Live()))

	n, err := testutil.GatherAndCount(reg,
		"test_threads_started_total",
		"test_thread_start_failures_total",
		"test_threads_joined_total",
		"test_thread_join_timeouts_total",
		"test_threads_live",
	)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestPrometheusReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := control.NewPrometheus(reg, "")
	require.NoError(t, err)
	second, err := control.NewPrometheus(reg, "")
	require.NoError(t, err)

	first.ThreadStarted("low")
	second.ThreadStarted("low")
	assert.Equal(t, 2.0, testutil.ToFloat64(first.Started("low")))
}
