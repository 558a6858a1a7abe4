//go:build linux
// +build linux

// File: internal/concurrency/native_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux implementation: gettid(2), sched_yield(2) and per-thread nice values
// through setpriority(2)/getpriority(2).

package concurrency

import (
	"golang.org/x/sys/unix"

	"github.com/momentics/osthread/api"
)

// niceLevels maps api.Priority to nice values. Negative values need
// CAP_SYS_NICE or a permissive RLIMIT_NICE.
var niceLevels = [...]int{
	api.PriorityLowest:       19,
	api.PriorityLow:          10,
	api.PriorityNormal:       0,
	api.PriorityHigh:         -5,
	api.PriorityHighest:      -10,
	api.PriorityTimeCritical: -20,
}

func currentThreadID() uint64 {
	return uint64(unix.Gettid())
}

func yieldThread() {
	_, _, _ = unix.Syscall(unix.SYS_SCHED_YIELD, 0, 0, 0)
}

func nativeLevel(p api.Priority) int {
	return niceLevels[p]
}

// On Linux PRIO_PROCESS with a thread id addresses that single thread.
func setThreadPriority(tid uint64, p api.Priority) error {
	return unix.Setpriority(unix.PRIO_PROCESS, int(tid), niceLevels[p])
}

func threadPriority(tid uint64) (api.Priority, error) {
	// The raw syscall returns 20 - nice.
	raw, err := unix.Getpriority(unix.PRIO_PROCESS, int(tid))
	if err != nil {
		return 0, err
	}
	return priorityFromNice(20 - raw), nil
}

func priorityFromNice(nice int) api.Priority {
	switch {
	case nice >= 15:
		return api.PriorityLowest
	case nice >= 5:
		return api.PriorityLow
	case nice >= -2:
		return api.PriorityNormal
	case nice >= -7:
		return api.PriorityHigh
	case nice >= -15:
		return api.PriorityHighest
	default:
		return api.PriorityTimeCritical
	}
}
