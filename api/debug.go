// Package api
// Author: momentics
//
// Live debug support: probes report thread runtime state on demand.

package api

// Debug exposes runtime introspection.
type Debug interface {
	// DumpState emits a snapshot of probe outputs keyed by probe name.
	DumpState() map[string]any

	// RegisterProbe dynamically registers a named probe.
	RegisterProbe(name string, fn func() any)
}
