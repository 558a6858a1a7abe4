// File: thread/hooks.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package-level logger, metrics, history and limits shared by all threads.

package thread

import (
	"sync/atomic"

	"github.com/momentics/osthread/api"
	"github.com/momentics/osthread/control"
	"github.com/momentics/osthread/internal/registry"
	"github.com/momentics/osthread/logging"
)

// hooks is replaced as a whole; readers take one snapshot per operation.
type hooks struct {
	logger      api.Logger
	metrics     api.Metrics
	history     *control.History
	defPriority api.Priority
	hasDefault  bool
}

var (
	active atomic.Pointer[hooks]
	live   = registry.New(0)
	stats  = control.NewMetricsRegistry()
)

func init() {
	active.Store(&hooks{
		logger:  logging.NewNop(),
		metrics: stats,
		history: control.NewHistory(control.DefaultConfig().HistorySize),
	})
}

func load() *hooks {
	return active.Load()
}

func update(fn func(h *hooks)) {
	for {
		old := active.Load()
		next := *old
		fn(&next)
		if active.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetLogger installs l for lifecycle records. nil restores the no-op logger.
func SetLogger(l api.Logger) {
	if l == nil {
		l = logging.NewNop()
	}
	update(func(h *hooks) { h.logger = l })
}

// SetMetrics installs m for lifecycle events, in addition to the built-in
// in-memory counters returned by Stats. nil removes m.
func SetMetrics(m api.Metrics) {
	var next api.Metrics = stats
	if m != nil {
		next = control.MultiMetrics{stats, m}
	}
	update(func(h *hooks) { h.metrics = next })
}

// Stats returns the built-in in-memory counters.
func Stats() *control.MetricsRegistry {
	return stats
}

// History returns the lifecycle history currently recording.
func History() *control.History {
	return load().history
}

// Configure applies cfg: the live-thread limit, the default priority used
// when Options request none, and the history size.
func Configure(cfg control.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	p, ok, _ := cfg.Priority()
	live.SetLimit(cfg.MaxThreads)
	update(func(h *hooks) {
		h.defPriority, h.hasDefault = p, ok
		if h.history.Cap() != cfg.HistorySize {
			h.history = control.NewHistory(cfg.HistorySize)
		}
	})
	return nil
}

// LiveThreads returns the number of threads started by this package that
// have not finished yet, detached ones included.
func LiveThreads() int {
	return live.Len()
}

// RegisterProbes exposes live threads, history, limits and counters on dp.
func RegisterProbes(dp *control.DebugProbes) {
	control.RegisterPlatformProbes(dp)
	dp.RegisterProbe("threads.live", func() any {
		return live.Snapshot()
	})
	dp.RegisterProbe("threads.limit", func() any {
		return live.Limit()
	})
	dp.RegisterProbe("threads.history", func() any {
		return load().history.Events()
	})
	dp.RegisterProbe("threads.stats", func() any {
		return stats.GetSnapshot()
	})
	dp.RegisterProbe("threads.hardware_concurrency", func() any {
		return HardwareConcurrency()
	})
}
