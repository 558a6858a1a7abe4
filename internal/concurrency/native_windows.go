//go:build windows
// +build windows

// File: internal/concurrency/native_windows.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Windows implementation over kernel32 thread APIs. Threads are addressed by
// id and opened with the minimal access right for each call.
//
// Reference: https://learn.microsoft.com/en-us/windows/win32/api/processthreadsapi/nf-processthreadsapi-setthreadpriority

package concurrency

import (
	"syscall"

	"golang.org/x/sys/windows"

	"github.com/momentics/osthread/api"
)

var (
	modkernel32               = windows.NewLazySystemDLL("kernel32.dll")
	procSetThreadPriority     = modkernel32.NewProc("SetThreadPriority")
	procGetThreadPriority     = modkernel32.NewProc("GetThreadPriority")
	procSwitchToThread        = modkernel32.NewProc("SwitchToThread")
	procSetThreadAffinityMask = modkernel32.NewProc("SetThreadAffinityMask")
)

const (
	threadSetInformation      = 0x0020
	threadQueryInformation    = 0x0040
	threadPriorityErrorReturn = 0x7FFFFFFF
)

// THREAD_PRIORITY_* values.
var windowsLevels = [...]int32{
	api.PriorityLowest:       -2,
	api.PriorityLow:          -1,
	api.PriorityNormal:       0,
	api.PriorityHigh:         1,
	api.PriorityHighest:      2,
	api.PriorityTimeCritical: 15,
}

func currentThreadID() uint64 {
	return uint64(windows.GetCurrentThreadId())
}

func yieldThread() {
	_, _, _ = procSwitchToThread.Call()
}

func nativeLevel(p api.Priority) int {
	return int(windowsLevels[p])
}

// lastError normalizes the error returned by LazyProc.Call.
func lastError(err error) error {
	if errno, ok := err.(syscall.Errno); ok && errno != 0 {
		return errno
	}
	return syscall.EINVAL
}

func setThreadPriority(tid uint64, p api.Priority) error {
	h, err := windows.OpenThread(threadSetInformation, false, uint32(tid))
	if err != nil {
		return err
	}
	defer windows.CloseHandle(h)
	level := windowsLevels[p]
	ret, _, callErr := procSetThreadPriority.Call(uintptr(h), uintptr(level))
	if ret == 0 {
		return lastError(callErr)
	}
	return nil
}

func threadPriority(tid uint64) (api.Priority, error) {
	h, err := windows.OpenThread(threadQueryInformation, false, uint32(tid))
	if err != nil {
		return 0, err
	}
	defer windows.CloseHandle(h)
	ret, _, callErr := procGetThreadPriority.Call(uintptr(h))
	if uint32(ret) == threadPriorityErrorReturn {
		return 0, lastError(callErr)
	}
	level := int32(ret)
	switch {
	case level <= -2:
		return api.PriorityLowest, nil
	case level == -1:
		return api.PriorityLow, nil
	case level == 0:
		return api.PriorityNormal, nil
	case level == 1:
		return api.PriorityHigh, nil
	case level < 15:
		return api.PriorityHighest, nil
	default:
		return api.PriorityTimeCritical, nil
	}
}
