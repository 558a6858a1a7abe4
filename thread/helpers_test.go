// File: thread/helpers_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package thread_test

import (
	"errors"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/momentics/osthread/api"
	"github.com/momentics/osthread/control"
	"github.com/momentics/osthread/internal/concurrency"
	"github.com/momentics/osthread/thread"
)

// waitIdle waits for threads left running by earlier tests.
func waitIdle(t *testing.T) {
	t.Helper()
	require.Eventually(t, func() bool { return thread.LiveThreads() == 0 },
		5*time.Second, 5*time.Millisecond, "threads still live")
}

// resetConfig restores package defaults when the test ends.
func resetConfig(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		require.NoError(t, thread.Configure(control.DefaultConfig()))
		thread.SetLogger(nil)
		thread.SetMetrics(nil)
	})
}

// skipIfDenied skips when the OS refuses a priority for lack of privilege
// or support.
func skipIfDenied(t *testing.T, err error) {
	t.Helper()
	switch {
	case errors.Is(err, syscall.EPERM), errors.Is(err, syscall.EACCES):
		t.Skipf("priority change not permitted: %v", err)
	case errors.Is(err, concurrency.ErrPriorityNotSupported):
		t.Skipf("priorities not supported: %v", err)
	}
}

type logRecord struct {
	level string
	msg   string
	kv    []any
}

type recordingLogger struct {
	mu      sync.Mutex
	records []logRecord
}

func (l *recordingLogger) add(level, msg string, kv []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, logRecord{level: level, msg: msg, kv: kv})
}

func (l *recordingLogger) Debug(msg string, kv ...any) { l.add("debug", msg, kv) }
func (l *recordingLogger) Info(msg string, kv ...any)  { l.add("info", msg, kv) }
func (l *recordingLogger) Warn(msg string, kv ...any)  { l.add("warn", msg, kv) }
func (l *recordingLogger) Error(msg string, kv ...any) { l.add("error", msg, kv) }

func (l *recordingLogger) messages(level string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, r := range l.records {
		if r.level == level {
			out = append(out, r.msg)
		}
	}
	return out
}

type countingMetrics struct {
	mu       sync.Mutex
	started  map[string]int
	failed   int
	joined   int
	timeouts int
	detached int
	exited   int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{started: make(map[string]int)}
}

func (m *countingMetrics) ThreadStarted(p string) {
	m.mu.Lock()
	m.started[p]++
	m.mu.Unlock()
}

func (m *countingMetrics) StartFailed(api.ErrorCode) {
	m.mu.Lock()
	m.failed++
	m.mu.Unlock()
}

func (m *countingMetrics) ThreadJoined(time.Duration) {
	m.mu.Lock()
	m.joined++
	m.mu.Unlock()
}

func (m *countingMetrics) JoinTimedOut() {
	m.mu.Lock()
	m.timeouts++
	m.mu.Unlock()
}

func (m *countingMetrics) ThreadDetached() {
	m.mu.Lock()
	m.detached++
	m.mu.Unlock()
}

func (m *countingMetrics) ThreadExited(time.Duration) {
	m.mu.Lock()
	m.exited++
	m.mu.Unlock()
}

type metricCounts struct {
	failed, joined, timeouts, detached, exited int
}

func (m *countingMetrics) snapshot() metricCounts {
	m.mu.Lock()
	defer m.mu.Unlock()
	return metricCounts{
		failed:   m.failed,
		joined:   m.joined,
		timeouts: m.timeouts,
		detached: m.detached,
		exited:   m.exited,
	}
}

// eventsFor returns the recorded kinds for tid, oldest first.
func eventsFor(tid uint64) []control.EventKind {
	var out []control.EventKind
	for _, e := range thread.History().Events() {
		if e.TID == tid {
			out = append(out, e.Kind)
		}
	}
	return out
}
