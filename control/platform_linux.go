//go:build linux
// +build linux

// control/platform_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux-specific debug probe integrations.

package control

import (
	"github.com/momentics/osthread/api"
	"github.com/momentics/osthread/internal/concurrency"
)

// RegisterPlatformProbes sets Linux-specific debug probes.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.os", func() any {
		return "linux"
	})
	dp.RegisterProbe("platform.cpus", func() any {
		return concurrency.VisibleCPUs()
	})
	dp.RegisterProbe("platform.nice_levels", func() any {
		return priorityTable()
	})
}

func priorityTable() map[string]int {
	out := make(map[string]int, len(api.Priorities()))
	for _, p := range api.Priorities() {
		out[p.String()] = concurrency.NativeLevel(p)
	}
	return out
}
