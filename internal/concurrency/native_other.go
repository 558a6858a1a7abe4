//go:build !linux && !windows
// +build !linux,!windows

// File: internal/concurrency/native_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fallback for platforms without a thread id syscall wired here. Thread
// goroutines are locked 1:1 to their OS thread for life, so the goroutine id
// identifies the thread. Priorities are not supported.

package concurrency

import (
	"runtime"
	"strconv"
	"strings"

	"github.com/momentics/osthread/api"
)

func currentThreadID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	if n <= 0 {
		return 0
	}
	// Stack header: "goroutine 123 ["
	fields := strings.Fields(strings.TrimPrefix(string(buf[:n]), "goroutine "))
	if len(fields) == 0 {
		return 0
	}
	id, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func yieldThread() {}

func nativeLevel(p api.Priority) int {
	return int(p) - int(api.PriorityNormal)
}

func setThreadPriority(uint64, api.Priority) error {
	return ErrPriorityNotSupported
}

func threadPriority(uint64) (api.Priority, error) {
	return 0, ErrPriorityNotSupported
}
