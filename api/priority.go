// File: api/priority.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Portable thread priority levels. Platform layers map them to native values.

package api

import (
	"fmt"
	"strings"
)

// Priority is one of six ordered scheduling levels, independent of any
// OS-specific numeric constants.
type Priority int

const (
	PriorityLowest Priority = iota
	PriorityLow
	PriorityNormal
	PriorityHigh
	PriorityHighest
	PriorityTimeCritical
)

var priorityNames = [...]string{
	PriorityLowest:       "lowest",
	PriorityLow:          "low",
	PriorityNormal:       "normal",
	PriorityHigh:         "high",
	PriorityHighest:      "highest",
	PriorityTimeCritical: "time-critical",
}

// Priorities lists every level from lowest to time-critical.
func Priorities() []Priority {
	return []Priority{
		PriorityLowest,
		PriorityLow,
		PriorityNormal,
		PriorityHigh,
		PriorityHighest,
		PriorityTimeCritical,
	}
}

// Valid reports whether p is one of the six defined levels.
func (p Priority) Valid() bool {
	return p >= PriorityLowest && p <= PriorityTimeCritical
}

func (p Priority) String() string {
	if p.Valid() {
		return priorityNames[p]
	}
	return fmt.Sprintf("priority(%d)", int(p))
}

// MarshalText implements encoding.TextMarshaler.
func (p Priority) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: priority %d", ErrInvalidArgument, int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Priority) UnmarshalText(b []byte) error {
	v, err := ParsePriority(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParsePriority accepts level names case-insensitively. "realtime" and
// "time_critical" are accepted as aliases of time-critical.
func ParsePriority(s string) (Priority, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "realtime", "time_critical", "timecritical":
		return PriorityTimeCritical, nil
	}
	for i, n := range priorityNames {
		if n == name {
			return Priority(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown priority %q", ErrInvalidArgument, s)
}
