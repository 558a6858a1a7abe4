// File: internal/concurrency/native.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Platform-neutral API for native thread control. Platform-specific
// implementations are located in native_linux.go, native_windows.go and
// native_other.go.

package concurrency

import (
	"fmt"
	"runtime"

	"github.com/momentics/osthread/api"
)

// CurrentThreadID returns the OS id of the calling thread.
//
// Unless the calling goroutine is locked to its thread, the result is a
// snapshot: the runtime may migrate the goroutine at any time.
func CurrentThreadID() uint64 {
	return currentThreadID()
}

// Yield gives up the rest of the calling thread's quantum to the OS scheduler
// and lets the Go scheduler run other goroutines.
func Yield() {
	yieldThread()
	runtime.Gosched()
}

// SetThreadPriority applies p to the thread tid. The OS error is returned
// unchanged; levels the OS refuses are never approximated.
func SetThreadPriority(tid uint64, p api.Priority) error {
	if !p.Valid() {
		return fmt.Errorf("%w: priority %d", api.ErrInvalidArgument, int(p))
	}
	return setThreadPriority(tid, p)
}

// ThreadPriority reads the current level of thread tid. Native values between
// two levels are reported as the closest level.
func ThreadPriority(tid uint64) (api.Priority, error) {
	return threadPriority(tid)
}

// NativeLevel returns the OS value p maps to on this platform.
func NativeLevel(p api.Priority) int {
	if !p.Valid() {
		return nativeLevel(api.PriorityNormal)
	}
	return nativeLevel(p)
}
