// File: thread/spawn.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Thread startup. A thread that needs a priority or CPU set is held after
// locking its OS thread until both are applied, so its callable never runs
// with the inherited settings. If applying fails the held thread is released
// without running the callable and its OS thread exits with it.

package thread

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/momentics/osthread/api"
	"github.com/momentics/osthread/control"
	"github.com/momentics/osthread/internal/concurrency"
	"github.com/momentics/osthread/internal/registry"
	"github.com/momentics/osthread/internal/trampoline"
)

const inheritPriority = "inherit"

// native is the state shared between an owning Thread and its goroutine.
// tid, priority and label are written before the owner sees the value.
type native struct {
	tid         uint64
	priority    api.Priority
	hasPriority bool
	label       string

	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

func (n *native) finished() bool {
	select {
	case <-n.done:
		return true
	default:
		return false
	}
}

func (n *native) priorityLabel() string {
	if n.hasPriority {
		return n.priority.String()
	}
	return inheritPriority
}

// spawn starts the bound inv on a new locked OS thread.
func spawn(op string, opts Options, inv *trampoline.Invocation) (*native, error) {
	h := load()
	prio, hasPrio := opts.effectivePriority(h.defPriority, h.hasDefault)
	if hasPrio && !prio.Valid() {
		return nil, startFailed(h, api.WrapError(api.ErrCodeCreation, op,
			fmt.Errorf("%w: priority %d", api.ErrInvalidArgument, int(prio))))
	}
	if !live.Reserve() {
		err := api.WrapError(api.ErrCodeCreation, op, api.ErrResourceExhausted).
			WithContext("max_threads", live.Limit())
		return nil, startFailed(h, err)
	}

	ctx, cancel := context.WithCancel(opts.context())
	n := &native{
		priority:    prio,
		hasPriority: hasPrio,
		label:       opts.name,
		done:        make(chan struct{}),
		ctx:         ctx,
		cancel:      cancel,
	}
	held := hasPrio || len(opts.cpus) > 0
	ready := make(chan uint64, 1)
	gate := make(chan bool, 1)

	go n.run(h, inv, ready, gate, held)

	n.tid = <-ready

	if held {
		if err := n.configure(op, opts.cpus); err != nil {
			gate <- false
			<-n.done
			cancel()
			live.Release(n.tid)
			return nil, startFailed(h, err)
		}
		gate <- true
	}
	return n, nil
}

// configure applies priority then affinity to the held thread.
func (n *native) configure(op string, cpus []int) *api.Error {
	if n.hasPriority {
		if err := concurrency.SetThreadPriority(n.tid, n.priority); err != nil {
			return api.WrapError(api.ErrCodePriority, op, err).
				WithContext("priority", n.priority.String()).
				WithContext("tid", n.tid)
		}
	}
	if len(cpus) > 0 {
		if err := concurrency.SetThreadAffinity(n.tid, cpus); err != nil {
			return api.WrapError(api.ErrCodeCreation, op, err).
				WithContext("cpus", cpus).
				WithContext("tid", n.tid)
		}
	}
	return nil
}

// run is the thread entry point.
func (n *native) run(h *hooks, inv *trampoline.Invocation, ready chan<- uint64, gate <-chan bool, held bool) {
	// Never unlocked: the runtime terminates the OS thread when this
	// goroutine returns.
	runtime.LockOSThread()
	defer close(n.done)

	tid := concurrency.CurrentThreadID()
	live.Add(&registry.Entry{
		TID:      tid,
		Name:     n.label,
		Priority: n.priorityLabel(),
		Started:  time.Now(),
	})
	ready <- tid
	if held && !<-gate {
		return
	}

	h.metrics.ThreadStarted(n.priorityLabel())
	h.history.Record(control.Event{Kind: control.EventStarted, TID: tid, Detail: n.describe()})
	h.logger.Debug("thread started", "tid", tid, "name", n.label,
		"priority", n.priorityLabel(), "callable", inv.Name())

	start := time.Now()
	completed := false
	defer func() {
		if !completed {
			h.logger.Error("callable did not return normally", "tid", tid, "callable", inv.Name())
		}
		n.cancel()
		h.metrics.ThreadExited(time.Since(start))
		h.history.Record(control.Event{Kind: control.EventExited, TID: tid, Detail: n.label})
		live.Release(tid)
	}()

	inv.Invoke(n.ctx)
	completed = true
}

func (n *native) describe() string {
	if n.label == "" {
		return n.priorityLabel()
	}
	return n.label + " " + n.priorityLabel()
}

func startFailed(h *hooks, err *api.Error) error {
	h.metrics.StartFailed(err.Code)
	h.history.Record(control.Event{Kind: control.EventStartFailed, Detail: err.Error()})
	h.logger.Warn("thread start failed", "code", err.Code.String(), "error", err)
	return err
}
