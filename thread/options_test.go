// File: thread/options_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package thread_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/momentics/osthread/api"
	"github.com/momentics/osthread/thread"
)

func TestOptionsImmutable(t *testing.T) {
	base := thread.DefaultOptions()
	high := base.WithPriority(api.PriorityHigh)

	_, ok := base.Priority()
	assert.False(t, ok)
	p, ok := high.Priority()
	assert.True(t, ok)
	assert.Equal(t, api.PriorityHigh, p)

	cpus := []int{0, 1}
	pinned := base.WithCPUs(cpus...)
	cpus[0] = 7
	assert.Equal(t, []int{0, 1}, pinned.CPUs())
	assert.Empty(t, base.CPUs())

	got := pinned.CPUs()
	got[1] = 9
	assert.Equal(t, []int{0, 1}, pinned.CPUs())

	assert.Equal(t, "io", base.WithName("io").Name())
	assert.Empty(t, base.Name())
}
