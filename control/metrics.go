// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// In-memory lifecycle counters implementing api.Metrics, exported as a
// snapshot map for debug probes.

package control

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/momentics/osthread/api"
)

// MetricsRegistry counts lifecycle events with atomic counters.
type MetricsRegistry struct {
	started      atomic.Int64
	joined       atomic.Int64
	joinTimeouts atomic.Int64
	detached     atomic.Int64
	exited       atomic.Int64
	joinWaitNs   atomic.Int64
	runtimeNs    atomic.Int64

	mu         sync.RWMutex
	byPriority map[string]int64
	failures   map[string]int64
	updated    time.Time
}

var _ api.Metrics = (*MetricsRegistry)(nil)

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		byPriority: make(map[string]int64),
		failures:   make(map[string]int64),
	}
}

func (mr *MetricsRegistry) touch(fn func()) {
	mr.mu.Lock()
	if fn != nil {
		fn()
	}
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// ThreadStarted implements api.Metrics.
func (mr *MetricsRegistry) ThreadStarted(priority string) {
	mr.started.Add(1)
	mr.touch(func() { mr.byPriority[priority]++ })
}

// StartFailed implements api.Metrics.
func (mr *MetricsRegistry) StartFailed(code api.ErrorCode) {
	mr.touch(func() { mr.failures[code.String()]++ })
}

// ThreadJoined implements api.Metrics.
func (mr *MetricsRegistry) ThreadJoined(wait time.Duration) {
	mr.joined.Add(1)
	mr.joinWaitNs.Add(int64(wait))
	mr.touch(nil)
}

// JoinTimedOut implements api.Metrics.
func (mr *MetricsRegistry) JoinTimedOut() {
	mr.joinTimeouts.Add(1)
	mr.touch(nil)
}

// ThreadDetached implements api.Metrics.
func (mr *MetricsRegistry) ThreadDetached() {
	mr.detached.Add(1)
	mr.touch(nil)
}

// ThreadExited implements api.Metrics.
func (mr *MetricsRegistry) ThreadExited(runtime time.Duration) {
	mr.exited.Add(1)
	mr.runtimeNs.Add(int64(runtime))
	mr.touch(nil)
}

// GetSnapshot returns the latest metrics.
func (mr *MetricsRegistry) GetSnapshot() map[string]any {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	byPriority := make(map[string]int64, len(mr.byPriority))
	for k, v := range mr.byPriority {
		byPriority[k] = v
	}
	failures := make(map[string]int64, len(mr.failures))
	for k, v := range mr.failures {
		failures[k] = v
	}
	return map[string]any{
		"started":          mr.started.Load(),
		"started_priority": byPriority,
		"start_failures":   failures,
		"joined":           mr.joined.Load(),
		"join_timeouts":    mr.joinTimeouts.Load(),
		"detached":         mr.detached.Load(),
		"exited":           mr.exited.Load(),
		"join_wait":        time.Duration(mr.joinWaitNs.Load()).String(),
		"run_time":         time.Duration(mr.runtimeNs.Load()).String(),
		"updated":          mr.updated,
	}
}

// MultiMetrics fans every event out to each of its members.
type MultiMetrics []api.Metrics

var _ api.Metrics = MultiMetrics(nil)

func (m MultiMetrics) ThreadStarted(priority string) {
	for _, x := range m {
		x.ThreadStarted(priority)
	}
}

func (m MultiMetrics) StartFailed(code api.ErrorCode) {
	for _, x := range m {
		x.StartFailed(code)
	}
}

func (m MultiMetrics) ThreadJoined(wait time.Duration) {
	for _, x := range m {
		x.ThreadJoined(wait)
	}
}

func (m MultiMetrics) JoinTimedOut() {
	for _, x := range m {
		x.JoinTimedOut()
	}
}

func (m MultiMetrics) ThreadDetached() {
	for _, x := range m {
		x.ThreadDetached()
	}
}

func (m MultiMetrics) ThreadExited(runtime time.Duration) {
	for _, x := range m {
		x.ThreadExited(runtime)
	}
}
