// File: thread/id.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Thread identity: comparable, ordered, hashable and printable.

package thread

import (
	"encoding/binary"
	"strconv"

	"github.com/zeebo/xxh3"
)

// ID identifies a thread of execution by its OS thread id.
//
// IDs are valid map keys. The OS may reuse an id once its thread is gone, so
// two IDs are only meaningfully equal while one of the threads is known to be
// live, or when both were taken at the same moment. The package never
// returns the zero ID.
type ID struct {
	tid uint64
}

// CurrentID returns the identity of the calling thread.
//
// A goroutine that is not locked to its OS thread (runtime.LockOSThread)
// gets a snapshot: it may run on another thread after the call. Code running
// inside a Thread is always locked, so its CurrentID is stable.
func CurrentID() ID {
	return ID{tid: currentTID()}
}

// Equal reports whether id and other denote the same OS thread id.
func (id ID) Equal(other ID) bool {
	return id.tid == other.tid
}

// Compare orders IDs by OS thread id: -1, 0 or +1.
func (id ID) Compare(other ID) int {
	switch {
	case id.tid < other.tid:
		return -1
	case id.tid > other.tid:
		return 1
	}
	return 0
}

// Less reports whether id orders before other.
func (id ID) Less(other ID) bool {
	return id.tid < other.tid
}

// Hash returns a 64-bit hash consistent with Equal.
func (id ID) Hash() uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], id.tid)
	return xxh3.Hash(b[:])
}

// Uint64 returns the raw OS thread id.
func (id ID) Uint64() uint64 {
	return id.tid
}

// String returns the decimal OS thread id.
func (id ID) String() string {
	return strconv.FormatUint(id.tid, 10)
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return strconv.AppendUint(nil, id.tid, 10), nil
}
