// File: thread/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package thread provides owning handles over native OS threads with
// priority control.
//
// A Thread owns at most one OS thread. The thread runs a goroutine locked to
// it for its whole life; when the callable returns, the goroutine exits and
// the Go runtime destroys the OS thread, so priority or affinity changes never
// leak into the runtime's shared thread pool.
//
// Ownership is exclusive. Thread values must not be copied (go vet reports
// copies); transfer ownership with Move, MoveFrom or Swap. A Thread that still
// owns a joinable thread must be joined, detached or closed:
//
//	t, err := thread.StartWithOptions(
//		thread.DefaultOptions().WithPriority(api.PriorityLow),
//		func(out *float64, v float64) { *out = v },
//		&value, 5.0,
//	)
//	if err != nil {
//		return err
//	}
//	defer t.Close()
//
// Arguments are captured by value when the thread is created. Pass a pointer
// to share state with the thread.
//
// A Thread is not safe for concurrent use: concurrent Join, Detach, Close or
// moves on one value are data races and must be serialized by the caller.
//
// A callable that panics terminates the process, exactly like any other
// goroutine. Recover inside the callable to keep the process alive.
package thread
