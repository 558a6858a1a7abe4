//go:build windows
// +build windows

// File: internal/concurrency/affinity_windows.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Windows CPU affinity through SetThreadAffinityMask on a thread id.
//
// Only the calling process group's first 64 processors are addressable.

package concurrency

import (
	"runtime"

	"golang.org/x/sys/windows"
)

const maxAffinityCPU = 64

func setThreadAffinity(tid uint64, cpus []int) error {
	h, err := windows.OpenThread(threadSetInformation|threadQueryInformation, false, uint32(tid))
	if err != nil {
		return err
	}
	defer windows.CloseHandle(h)
	var mask uintptr
	for _, cpu := range cpus {
		mask |= uintptr(1) << uint(cpu)
	}
	old, _, callErr := procSetThreadAffinityMask.Call(uintptr(h), mask)
	if old == 0 {
		return lastError(callErr)
	}
	return nil
}

func visibleCPUs() int {
	return runtime.NumCPU()
}
