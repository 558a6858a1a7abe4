// control/debug.go
// Author: momentics <momentics@gmail.com>
//
// Named probes reporting thread runtime state on demand.

package control

import (
	"maps"
	"slices"
	"sync"

	"github.com/momentics/osthread/api"
)

// DebugProbes maps probe names to functions evaluated on each dump.
// Probes run without the registry lock held, so a probe may register or
// remove other probes.
type DebugProbes struct {
	mu     sync.RWMutex
	probes map[string]func() any
}

var _ api.Debug = (*DebugProbes)(nil)

// NewDebugProbes returns an empty probe set.
func NewDebugProbes() *DebugProbes {
	return &DebugProbes{probes: make(map[string]func() any)}
}

// RegisterProbe sets the probe for name. A nil fn removes it.
func (dp *DebugProbes) RegisterProbe(name string, fn func() any) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	if fn == nil {
		delete(dp.probes, name)
		return
	}
	dp.probes[name] = fn
}

// Names lists probe names in lexical order.
func (dp *DebugProbes) Names() []string {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	return slices.Sorted(maps.Keys(dp.probes))
}

// Probe evaluates a single probe.
func (dp *DebugProbes) Probe(name string) (any, bool) {
	dp.mu.RLock()
	fn, ok := dp.probes[name]
	dp.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return fn(), true
}

// DumpState evaluates every probe.
func (dp *DebugProbes) DumpState() map[string]any {
	dp.mu.RLock()
	fns := maps.Clone(dp.probes)
	dp.mu.RUnlock()

	out := make(map[string]any, len(fns))
	for name, fn := range fns {
		out[name] = fn()
	}
	return out
}
