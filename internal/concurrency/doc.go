// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Native thread primitives for osthread: OS thread identity, yield, priority
// and CPU affinity addressed by thread id, and visible processor count.
//
// Every function taking a thread id expects the id of an OS thread that is
// locked to a live goroutine (runtime.LockOSThread). Platform files are
// selected by build tags: *_linux.go, *_windows.go and *_other.go.
package concurrency
