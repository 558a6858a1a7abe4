// File: api/metrics.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Metrics contract for thread lifecycle events.

package api

import "time"

// Metrics receives lifecycle events. Implementations must be safe for
// concurrent use and must not block.
type Metrics interface {
	// ThreadStarted is called once a thread runs its callable. priority is
	// the requested level name, or "inherit".
	ThreadStarted(priority string)
	// StartFailed is called when construction fails after validation.
	StartFailed(code ErrorCode)
	// ThreadJoined is called after a successful join with the time spent blocked.
	ThreadJoined(wait time.Duration)
	// JoinTimedOut is called when a bounded join gives up.
	JoinTimedOut()
	// ThreadDetached is called after a successful detach.
	ThreadDetached()
	// ThreadExited is called from the exiting thread with its run time.
	ThreadExited(runtime time.Duration)
}
