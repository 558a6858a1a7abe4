//go:build windows
// +build windows

// control/platform_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows-specific metrics/debug introspection points.

package control

import (
	"github.com/momentics/osthread/api"
	"github.com/momentics/osthread/internal/concurrency"
)

// RegisterPlatformProbes sets Windows-specific debug probes.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.os", func() any {
		return "windows"
	})
	dp.RegisterProbe("platform.cpus", func() any {
		return concurrency.VisibleCPUs()
	})
	dp.RegisterProbe("platform.thread_priorities", func() any {
		out := make(map[string]int, len(api.Priorities()))
		for _, p := range api.Priorities() {
			out[p.String()] = concurrency.NativeLevel(p)
		}
		return out
	})
}
