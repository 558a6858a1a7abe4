//go:build linux
// +build linux

// File: internal/concurrency/native_linux_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/momentics/osthread/api"
	"github.com/momentics/osthread/internal/concurrency"
)

// Raising nice is always permitted, so lowering priority on a throwaway
// locked thread works unprivileged. The thread is never unlocked and exits
// with its goroutine.
func TestLowerPriorityOnThread(t *testing.T) {
	type result struct {
		p   api.Priority
		err error
	}
	out := make(chan result, 1)
	go func() {
		runtime.LockOSThread()
		tid := concurrency.CurrentThreadID()
		if err := concurrency.SetThreadPriority(tid, api.PriorityLow); err != nil {
			out <- result{err: err}
			return
		}
		p, err := concurrency.ThreadPriority(tid)
		out <- result{p: p, err: err}
	}()
	r := <-out
	if errors.Is(r.err, unix.EACCES) || errors.Is(r.err, unix.EPERM) {
		t.Skipf("process nice above low: %v", r.err)
	}
	require.NoError(t, r.err)
	assert.Equal(t, api.PriorityLow, r.p)
}

func TestAffinityOnThread(t *testing.T) {
	var set unix.CPUSet
	require.NoError(t, unix.SchedGetaffinity(0, &set))
	cpu := -1
	for i := 0; i < 1024; i++ {
		if set.IsSet(i) {
			cpu = i
			break
		}
	}
	require.GreaterOrEqual(t, cpu, 0)

	out := make(chan error, 1)
	go func() {
		runtime.LockOSThread()
		tid := concurrency.CurrentThreadID()
		if err := concurrency.SetThreadAffinity(tid, []int{cpu}); err != nil {
			out <- err
			return
		}
		var got unix.CPUSet
		if err := unix.SchedGetaffinity(int(tid), &got); err != nil {
			out <- err
			return
		}
		if got.Count() != 1 || !got.IsSet(cpu) {
			out <- errors.New("affinity not applied")
			return
		}
		out <- nil
	}()
	assert.NoError(t, <-out)
}
