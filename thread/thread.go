// File: thread/thread.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Thread: exclusive owner of at most one native thread.

package thread

import (
	"context"
	"runtime"
	"syscall"
	"time"

	"github.com/momentics/osthread/api"
	"github.com/momentics/osthread/control"
	"github.com/momentics/osthread/internal/concurrency"
	"github.com/momentics/osthread/internal/trampoline"
)

// NativeHandle is the OS thread id: the value gettid(2) returns on Linux and
// GetCurrentThreadId on Windows.
type NativeHandle uint64

// noCopy makes go vet's copylocks check report copies of Thread.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Thread owns zero or one OS thread. The zero value owns nothing.
//
// Close is the only join tied to scope exit; pair it with defer. A handle
// that is garbage collected while still owning a running thread does not
// join it: the thread is left detached and a Warn record is logged.
//
// A Thread must not be copied after first use.
type Thread struct {
	_ noCopy
	n *native
}

// Start runs fn(args...) on a new OS thread with DefaultOptions.
func Start(fn any, args ...any) (*Thread, error) {
	return start("thread.Start", DefaultOptions(), fn, args...)
}

// StartWithOptions runs fn(args...) on a new OS thread configured by opts.
//
// If opts (or the configured default) request a priority, the thread does
// not run fn until the priority is in effect. If the OS refuses it, the
// thread is torn down without running fn and an error with code
// api.ErrCodePriority is returned.
func StartWithOptions(opts Options, fn any, args ...any) (*Thread, error) {
	return start("thread.StartWithOptions", opts, fn, args...)
}

func start(op string, opts Options, fn any, args ...any) (*Thread, error) {
	inv, err := trampoline.Bind(fn, args...)
	if err != nil {
		return nil, startFailed(load(), api.WrapError(api.ErrCodeCreation, op, err))
	}
	n, err := spawn(op, opts, inv)
	if err != nil {
		return nil, err
	}
	return newOwner(n), nil
}

func newOwner(n *native) *Thread {
	t := &Thread{n: n}
	runtime.SetFinalizer(t, (*Thread).drop)
	return t
}

// drop runs when an owning Thread is collected without being joined,
// detached or closed. The thread keeps running without an owner.
func (t *Thread) drop() {
	n := t.n
	if n == nil {
		return
	}
	t.n = nil
	if n.finished() {
		return
	}
	h := load()
	live.MarkDetached(n.tid)
	h.history.Record(control.Event{Kind: control.EventDropped, TID: n.tid, Detail: n.label})
	h.logger.Warn("thread handle collected while owning a running thread; thread left detached",
		"tid", n.tid, "name", n.label)
}

// Joinable reports whether t owns a thread other than the calling one.
// It does not report whether that thread has finished.
func (t *Thread) Joinable() bool {
	return t.n != nil && t.n.tid != currentTID()
}

// ID returns the owned thread's identity, or CurrentID when t is empty.
func (t *Thread) ID() ID {
	if t.n == nil {
		return CurrentID()
	}
	return ID{tid: t.n.tid}
}

// Join blocks until the owned thread finishes and empties t. Everything the
// thread wrote is visible to the caller afterwards.
func (t *Thread) Join() error {
	if !t.Joinable() {
		return t.invalid(api.ErrCodeNotJoinable, "thread.Join")
	}
	start := time.Now()
	<-t.n.done
	t.reclaim(start)
	return nil
}

// JoinTimeout waits up to d for the owned thread to finish. It returns true
// and empties t if it did; false leaves t owning a joinable thread. d <= 0
// checks without blocking.
func (t *Thread) JoinTimeout(d time.Duration) (bool, error) {
	if !t.Joinable() {
		return false, t.invalid(api.ErrCodeNotJoinable, "thread.JoinTimeout")
	}
	start := time.Now()
	if d <= 0 {
		if t.n.finished() {
			t.reclaim(start)
			return true, nil
		}
		t.timedOut()
		return false, nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-t.n.done:
		t.reclaim(start)
		return true, nil
	case <-timer.C:
		t.timedOut()
		return false, nil
	}
}

// JoinContext is Join bounded by ctx. When ctx ends first it returns
// ctx.Err() and t keeps ownership.
func (t *Thread) JoinContext(ctx context.Context) error {
	if !t.Joinable() {
		return t.invalid(api.ErrCodeNotJoinable, "thread.JoinContext")
	}
	start := time.Now()
	select {
	case <-t.n.done:
		t.reclaim(start)
		return nil
	case <-ctx.Done():
		t.timedOut()
		return ctx.Err()
	}
}

func (t *Thread) reclaim(start time.Time) {
	n := t.n
	t.n = nil
	n.cancel()
	h := load()
	h.metrics.ThreadJoined(time.Since(start))
	h.history.Record(control.Event{Kind: control.EventJoined, TID: n.tid, Detail: n.label})
}

func (t *Thread) timedOut() {
	h := load()
	h.metrics.JoinTimedOut()
	h.history.Record(control.Event{Kind: control.EventJoinTimeout, TID: t.n.tid, Detail: t.n.label})
}

// Detach releases the owned thread without waiting. It keeps running and
// its resources are reclaimed when it finishes.
func (t *Thread) Detach() error {
	if !t.Joinable() {
		return t.invalid(api.ErrCodeNotDetachable, "thread.Detach")
	}
	n := t.n
	t.n = nil
	live.MarkDetached(n.tid)
	h := load()
	h.metrics.ThreadDetached()
	h.history.Record(control.Event{Kind: control.EventDetached, TID: n.tid, Detail: n.label})
	h.logger.Debug("thread detached", "tid", n.tid, "name", n.label)
	return nil
}

// Close is the scope-exit operation: it joins the owned thread if t is
// joinable and does nothing otherwise. Use it with defer.
func (t *Thread) Close() error {
	if !t.Joinable() {
		return nil
	}
	return t.Join()
}

// Move transfers ownership to a new Thread and leaves t empty.
func (t *Thread) Move() *Thread {
	n := t.n
	t.n = nil
	if n == nil {
		return &Thread{}
	}
	return newOwner(n)
}

// MoveFrom joins the thread t owns, if joinable, then takes ownership of
// src's thread and leaves src empty. A handle t cannot join (its own
// thread) is handed to src instead of being dropped.
func (t *Thread) MoveFrom(src *Thread) error {
	if src == t {
		return nil
	}
	if t.Joinable() {
		if err := t.Join(); err != nil {
			return err
		}
	}
	t.n, src.n = src.n, t.n
	return nil
}

// Swap exchanges the owned threads of t and other without blocking.
func (t *Thread) Swap(other *Thread) {
	t.n, other.n = other.n, t.n
}

// NativeHandle returns the owned OS thread id for direct OS calls.
// Changing the thread's state behind the package's back is unsupported.
func (t *Thread) NativeHandle() (NativeHandle, error) {
	if t.n == nil {
		return 0, t.invalid(api.ErrCodeEmptyHandle, "thread.NativeHandle")
	}
	return NativeHandle(t.n.tid), nil
}

// Priority reads the owned thread's current priority level.
func (t *Thread) Priority() (api.Priority, error) {
	if t.n == nil {
		return 0, t.invalid(api.ErrCodeEmptyHandle, "thread.Priority")
	}
	if t.n.finished() {
		return 0, api.WrapError(api.ErrCodePriority, "thread.Priority", syscall.ESRCH).
			WithContext("tid", t.n.tid)
	}
	p, err := concurrency.ThreadPriority(t.n.tid)
	if err != nil {
		return 0, api.WrapError(api.ErrCodePriority, "thread.Priority", err).
			WithContext("tid", t.n.tid)
	}
	return p, nil
}

// RequestStop cancels the context handed to the callable. It returns false
// when t owns no thread.
func (t *Thread) RequestStop() bool {
	if t.n == nil {
		return false
	}
	t.n.cancel()
	return true
}

// StopRequested reports whether the owned thread's context was cancelled,
// by RequestStop, by its parent context or because the thread finished.
func (t *Thread) StopRequested() bool {
	return t.n != nil && t.n.ctx.Err() != nil
}

// Name returns the label given with Options.WithName, empty if none or if t
// owns no thread.
func (t *Thread) Name() string {
	if t.n == nil {
		return ""
	}
	return t.n.label
}

func (t *Thread) invalid(code api.ErrorCode, op string) error {
	err := api.WrapError(code, op, nil)
	if t.n == nil {
		return err.WithContext("reason", "empty")
	}
	return err.WithContext("reason", "self").WithContext("tid", t.n.tid)
}

// HardwareConcurrency returns the number of logical processors available to
// the process, or 0 when it cannot be determined.
func HardwareConcurrency() uint {
	return uint(concurrency.VisibleCPUs())
}
