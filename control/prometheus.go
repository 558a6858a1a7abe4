// control/prometheus.go
// Author: momentics <momentics@gmail.com>
//
// Prometheus-backed api.Metrics.

package control

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/momentics/osthread/api"
)

// PrometheusCollector implements api.Metrics with Prometheus collectors.
type PrometheusCollector struct {
	started      *prometheus.CounterVec
	startFailed  *prometheus.CounterVec
	joined       prometheus.Counter
	joinTimeouts prometheus.Counter
	detached     prometheus.Counter
	live         prometheus.Gauge
	joinWait     prometheus.Histogram
	runTime      prometheus.Histogram
}

var _ api.Metrics = (*PrometheusCollector)(nil)

// NewPrometheus creates and registers the collectors on reg
// (prometheus.DefaultRegisterer if nil) under namespace ("osthread" if empty).
// Collectors already registered by an earlier call are reused.
func NewPrometheus(reg prometheus.Registerer, namespace string) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "osthread"
	}

	p := &PrometheusCollector{
		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "threads_started_total",
			Help:      "Threads that began running their callable, by requested priority.",
		}, []string{"priority"}),
		startFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "thread_start_failures_total",
			Help:      "Thread constructions that failed, by error code.",
		}, []string{"code"}),
		joined: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "threads_joined_total",
			Help:      "Successful joins.",
		}),
		joinTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "thread_join_timeouts_total",
			Help:      "Bounded joins that returned before the thread ended.",
		}),
		detached: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "threads_detached_total",
			Help:      "Threads released without waiting.",
		}),
		live: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "threads_live",
			Help:      "Threads currently running a callable.",
		}),
		joinWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "thread_join_wait_seconds",
			Help:      "Time callers spent blocked in successful joins.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		runTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "thread_run_seconds",
			Help:      "Callable run time per thread.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}

	var err error
	p.started = register(reg, p.started, &err)
	p.startFailed = register(reg, p.startFailed, &err)
	p.joined = register(reg, p.joined, &err)
	p.joinTimeouts = register(reg, p.joinTimeouts, &err)
	p.detached = register(reg, p.detached, &err)
	p.live = register(reg, p.live, &err)
	p.joinWait = register(reg, p.joinWait, &err)
	p.runTime = register(reg, p.runTime, &err)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// register returns c, or the collector already registered in its place.
// The first hard failure is stored in *errp.
func register[C prometheus.Collector](reg prometheus.Registerer, c C, errp *error) C {
	if *errp != nil {
		return c
	}
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		*errp = err
	}
	return c
}

// ThreadStarted implements api.Metrics.
func (p *PrometheusCollector) ThreadStarted(priority string) {
	p.started.WithLabelValues(priority).Inc()
	p.live.Inc()
}

// StartFailed implements api.Metrics.
func (p *PrometheusCollector) StartFailed(code api.ErrorCode) {
	p.startFailed.WithLabelValues(code.String()).Inc()
}

// ThreadJoined implements api.Metrics.
func (p *PrometheusCollector) ThreadJoined(wait time.Duration) {
	p.joined.Inc()
	p.joinWait.Observe(wait.Seconds())
}

// JoinTimedOut implements api.Metrics.
func (p *PrometheusCollector) JoinTimedOut() {
	p.joinTimeouts.Inc()
}

// ThreadDetached implements api.Metrics.
func (p *PrometheusCollector) ThreadDetached() {
	p.detached.Inc()
}

// ThreadExited implements api.Metrics.
func (p *PrometheusCollector) ThreadExited(runtime time.Duration) {
	p.live.Dec()
	p.runTime.Observe(runtime.Seconds())
}

// Started returns the started counter for priority.
func (p *PrometheusCollector) Started(priority string) prometheus.Counter {
	return p.started.WithLabelValues(priority)
}

// Live returns the live-threads gauge.
func (p *PrometheusCollector) Live() prometheus.Gauge {
	return p.live
}
