//go:build linux
// +build linux

// File: internal/concurrency/nice_linux_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/momentics/osthread/api"
)

func TestPriorityFromNice(t *testing.T) {
	tests := []struct {
		nice int
		want api.Priority
	}{
		{19, api.PriorityLowest},
		{15, api.PriorityLowest},
		{10, api.PriorityLow},
		{5, api.PriorityLow},
		{0, api.PriorityNormal},
		{-2, api.PriorityNormal},
		{-5, api.PriorityHigh},
		{-10, api.PriorityHighest},
		{-15, api.PriorityHighest},
		{-20, api.PriorityTimeCritical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, priorityFromNice(tt.nice), "nice %d", tt.nice)
	}
	for _, p := range api.Priorities() {
		assert.Equal(t, p, priorityFromNice(NativeLevel(p)), "round trip %s", p)
	}
}
