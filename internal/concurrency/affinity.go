// File: internal/concurrency/affinity.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Cross-platform CPU affinity by thread id and processor visibility.

package concurrency

import "fmt"

// SetThreadAffinity restricts thread tid to the given logical CPUs.
// An empty set is a no-op.
func SetThreadAffinity(tid uint64, cpus []int) error {
	if len(cpus) == 0 {
		return nil
	}
	for _, cpu := range cpus {
		if cpu < 0 || cpu >= maxAffinityCPU {
			return fmt.Errorf("%w: %d (valid: 0..%d)", ErrInvalidCPU, cpu, maxAffinityCPU-1)
		}
	}
	return setThreadAffinity(tid, cpus)
}

// VisibleCPUs returns the number of logical processors the process may run
// on, or 0 when it cannot be determined.
func VisibleCPUs() int {
	n := visibleCPUs()
	if n < 0 {
		return 0
	}
	return n
}
