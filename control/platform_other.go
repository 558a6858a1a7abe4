//go:build !linux && !windows
// +build !linux,!windows

// control/platform_other.go
// Author: momentics <momentics@gmail.com>

package control

import (
	"runtime"

	"github.com/momentics/osthread/internal/concurrency"
)

// RegisterPlatformProbes sets the probes available on every platform.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.os", func() any {
		return runtime.GOOS
	})
	dp.RegisterProbe("platform.cpus", func() any {
		return concurrency.VisibleCPUs()
	})
}
