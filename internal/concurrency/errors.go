// File: internal/concurrency/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Error definitions for the native thread layer.

package concurrency

import (
	"fmt"

	"github.com/momentics/osthread/api"
)

var (
	// ErrPriorityNotSupported indicates thread priorities cannot be set on this platform.
	ErrPriorityNotSupported = fmt.Errorf("%w: thread priority", api.ErrNotSupported)

	// ErrAffinityNotSupported indicates CPU affinity is not supported on this platform.
	ErrAffinityNotSupported = fmt.Errorf("%w: CPU affinity", api.ErrNotSupported)

	// ErrInvalidCPU indicates a CPU index outside the range the platform can address.
	ErrInvalidCPU = fmt.Errorf("%w: CPU index", api.ErrInvalidArgument)
)
