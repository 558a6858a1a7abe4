//go:build linux
// +build linux

// File: internal/concurrency/affinity_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux CPU affinity through sched_setaffinity(2) on a thread id.

package concurrency

import "golang.org/x/sys/unix"

// maxAffinityCPU is the capacity of unix.CPUSet.
const maxAffinityCPU = 1024

func setThreadAffinity(tid uint64, cpus []int) error {
	var set unix.CPUSet
	set.Zero()
	for _, cpu := range cpus {
		set.Set(cpu)
	}
	return unix.SchedSetaffinity(int(tid), &set)
}

func visibleCPUs() int {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return 0
	}
	return set.Count()
}
