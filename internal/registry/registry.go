// File: internal/registry/registry.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Registry tracks live threads started by osthread, enforces the optional
// MaxThreads admission limit and serves diagnostics snapshots.

package registry

import (
	"slices"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
)

// Entry describes one live thread. Detached flips once and is read by probes.
type Entry struct {
	TID      uint64
	Name     string
	Priority string
	Started  time.Time
	detached atomic.Bool
}

// Info is an immutable copy of an Entry for reporting.
type Info struct {
	TID      uint64    `yaml:"tid" json:"tid"`
	Name     string    `yaml:"name,omitempty" json:"name,omitempty"`
	Priority string    `yaml:"priority" json:"priority"`
	Started  time.Time `yaml:"started" json:"started"`
	Detached bool      `yaml:"detached" json:"detached"`
}

// Registry is safe for concurrent use.
type Registry struct {
	live     *xsync.Map[uint64, *Entry]
	reserved atomic.Int64
	limit    atomic.Int64
}

// New creates a registry admitting at most limit live threads; limit <= 0
// means unlimited.
func New(limit int) *Registry {
	r := &Registry{live: xsync.NewMap[uint64, *Entry]()}
	r.SetLimit(limit)
	return r
}

// SetLimit changes the admission limit. Threads already admitted are kept.
func (r *Registry) SetLimit(limit int) {
	if limit < 0 {
		limit = 0
	}
	r.limit.Store(int64(limit))
}

// Limit returns the admission limit, 0 when unlimited.
func (r *Registry) Limit() int {
	return int(r.limit.Load())
}

// Reserve claims a slot for a thread about to start. It returns false when
// the limit is reached. Every successful Reserve must be matched by Release.
func (r *Registry) Reserve() bool {
	for {
		cur := r.reserved.Load()
		if lim := r.limit.Load(); lim > 0 && cur >= lim {
			return false
		}
		if r.reserved.CompareAndSwap(cur, cur+1) {
			return true
		}
	}
}

// Add records a started thread under its reserved slot.
func (r *Registry) Add(e *Entry) {
	r.live.Store(e.TID, e)
}

// Release drops tid, if recorded, and frees its slot.
func (r *Registry) Release(tid uint64) {
	if tid != 0 {
		r.live.Delete(tid)
	}
	r.reserved.Add(-1)
}

// MarkDetached flags tid as running without an owner.
func (r *Registry) MarkDetached(tid uint64) {
	if e, ok := r.live.Load(tid); ok {
		e.detached.Store(true)
	}
}

// Len returns the number of reserved slots, which includes threads still
// being started.
func (r *Registry) Len() int {
	return int(r.reserved.Load())
}

// Snapshot returns the recorded threads ordered by thread id.
func (r *Registry) Snapshot() []Info {
	out := make([]Info, 0, r.live.Size())
	r.live.Range(func(_ uint64, e *Entry) bool {
		out = append(out, Info{
			TID:      e.TID,
			Name:     e.Name,
			Priority: e.Priority,
			Started:  e.Started,
			Detached: e.detached.Load(),
		})
		return true
	})
	slices.SortFunc(out, func(a, b Info) int {
		switch {
		case a.TID < b.TID:
			return -1
		case a.TID > b.TID:
			return 1
		}
		return 0
	})
	return out
}
