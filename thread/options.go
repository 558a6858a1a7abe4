// File: thread/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package thread

import (
	"context"
	"slices"

	"github.com/momentics/osthread/api"
)

// Options configures thread startup. Options is an immutable value: every
// With method returns a modified copy.
//
// Without a priority or CPU set the thread starts running immediately.
// Otherwise it is held before running its callable until both are applied.
type Options struct {
	priority    api.Priority
	hasPriority bool
	inherit     bool
	cpus        []int
	ctx         context.Context
	name        string
}

// DefaultOptions inherits the default priority and places no CPU restriction.
func DefaultOptions() Options {
	return Options{}
}

// WithPriority requests p for the new thread. Startup fails if the OS refuses it.
func (o Options) WithPriority(p api.Priority) Options {
	o.priority = p
	o.hasPriority = true
	o.inherit = false
	return o
}

// WithoutPriority clears a requested priority, including the configured default.
func (o Options) WithoutPriority() Options {
	o.priority = 0
	o.hasPriority = false
	o.inherit = true
	return o
}

// WithCPUs restricts the thread to the given logical CPUs.
func (o Options) WithCPUs(cpus ...int) Options {
	o.cpus = slices.Clone(cpus)
	return o
}

// WithContext sets the parent of the stop context passed to callables that
// take a context.Context first parameter.
func (o Options) WithContext(ctx context.Context) Options {
	o.ctx = ctx
	return o
}

// WithName labels the thread in logs, history and probes.
func (o Options) WithName(name string) Options {
	o.name = name
	return o
}

// Priority returns the requested priority; ok is false when none was set.
func (o Options) Priority() (p api.Priority, ok bool) {
	return o.priority, o.hasPriority
}

// CPUs returns a copy of the requested CPU set.
func (o Options) CPUs() []int {
	return slices.Clone(o.cpus)
}

// Name returns the thread label.
func (o Options) Name() string {
	return o.name
}

// effectivePriority resolves the requested priority against the
// configured default.
func (o Options) effectivePriority(def api.Priority, hasDef bool) (api.Priority, bool) {
	switch {
	case o.hasPriority:
		return o.priority, true
	case o.inherit || !hasDef:
		return 0, false
	}
	return def, true
}

func (o Options) context() context.Context {
	if o.ctx == nil {
		return context.Background()
	}
	return o.ctx
}
