// control/history.go
// Author: momentics <momentics@gmail.com>
//
// Bounded FIFO of recent thread lifecycle events for diagnostics.

package control

import (
	"sync"
	"time"

	"github.com/eapache/queue"
)

// EventKind names a lifecycle transition.
type EventKind string

const (
	EventStarted     EventKind = "started"
	EventStartFailed EventKind = "start_failed"
	EventJoined      EventKind = "joined"
	EventJoinTimeout EventKind = "join_timeout"
	EventDetached    EventKind = "detached"
	EventExited      EventKind = "exited"
	EventDropped     EventKind = "dropped"
)

// Event is one recorded transition.
type Event struct {
	Time   time.Time `yaml:"time" json:"time"`
	Kind   EventKind `yaml:"kind" json:"kind"`
	TID    uint64    `yaml:"tid,omitempty" json:"tid,omitempty"`
	Detail string    `yaml:"detail,omitempty" json:"detail,omitempty"`
}

// History retains the last Cap events. A nil *History or one with
// capacity 0 records nothing.
type History struct {
	mu  sync.Mutex
	q   *queue.Queue
	cap int
}

// NewHistory creates a history keeping at most capacity events.
func NewHistory(capacity int) *History {
	if capacity < 0 {
		capacity = 0
	}
	return &History{q: queue.New(), cap: capacity}
}

// Cap returns the retention limit.
func (h *History) Cap() int {
	if h == nil {
		return 0
	}
	return h.cap
}

// Record appends e, stamping Time if unset, and evicts the oldest events
// beyond capacity.
func (h *History) Record(e Event) {
	if h == nil || h.cap == 0 {
		return
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.q.Add(e)
	for h.q.Length() > h.cap {
		h.q.Remove()
	}
}

// Events returns the retained events, oldest first.
func (h *History) Events() []Event {
	if h == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Event, h.q.Length())
	for i := range out {
		out[i] = h.q.Get(i).(Event)
	}
	return out
}

// Last returns the most recent event, if any.
func (h *History) Last() (Event, bool) {
	if h == nil {
		return Event{}, false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.q.Length() == 0 {
		return Event{}, false
	}
	return h.q.Get(-1).(Event), true
}

// Len returns the number of retained events.
func (h *History) Len() int {
	if h == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.q.Length()
}
