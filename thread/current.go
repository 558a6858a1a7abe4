// File: thread/current.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Operations on the calling thread.

package thread

import (
	"time"

	"github.com/momentics/osthread/api"
	"github.com/momentics/osthread/internal/concurrency"
)

func currentTID() uint64 {
	return concurrency.CurrentThreadID()
}

// Yield hints the OS scheduler to run another thread.
func Yield() {
	concurrency.Yield()
}

// Sleep suspends the calling thread for at least d. Non-positive d returns
// immediately.
func Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	time.Sleep(d)
}

// SleepMillis suspends the calling thread for at least ms milliseconds.
func SleepMillis(ms int64) {
	Sleep(time.Duration(ms) * time.Millisecond)
}

// CurrentPriority reads the calling thread's priority level. The result is
// only stable for goroutines locked to their OS thread.
func CurrentPriority() (api.Priority, error) {
	tid := currentTID()
	p, err := concurrency.ThreadPriority(tid)
	if err != nil {
		return 0, api.WrapError(api.ErrCodePriority, "thread.CurrentPriority", err).
			WithContext("tid", tid)
	}
	return p, nil
}
