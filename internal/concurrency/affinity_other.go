//go:build !linux && !windows
// +build !linux,!windows

// File: internal/concurrency/affinity_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fallback affinity implementation: pinning is unavailable.

package concurrency

import "runtime"

const maxAffinityCPU = 64

func setThreadAffinity(uint64, []int) error {
	return ErrAffinityNotSupported
}

func visibleCPUs() int {
	return runtime.NumCPU()
}
