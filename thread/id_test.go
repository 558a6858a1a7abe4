// File: thread/id_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package thread_test

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/osthread/thread"
)

func TestCurrentIDStableWhenLocked(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	a := thread.CurrentID()
	b := thread.CurrentID()
	assert.True(t, a.Equal(b))
	assert.Equal(t, a, b)
	assert.NotZero(t, a.Uint64())
	assert.Equal(t, a.Hash(), b.Hash())
}

func TestIDAsMapKey(t *testing.T) {
	release := make(chan struct{})
	seen := make(map[thread.ID]string)
	var threads []*thread.Thread
	for _, name := range []string{"a", "b", "c"} {
		th, err := thread.StartWithOptions(thread.DefaultOptions().WithName(name), func() { <-release })
		require.NoError(t, err)
		seen[th.ID()] = name
		threads = append(threads, th)
	}
	assert.Len(t, seen, 3)
	for _, th := range threads {
		assert.Equal(t, th.Name(), seen[th.ID()])
	}

	hashes := make(map[uint64]bool)
	for id := range seen {
		hashes[id.Hash()] = true
	}
	assert.Len(t, hashes, 3)

	close(release)
	for _, th := range threads {
		require.NoError(t, th.Join())
	}
}
