// File: logging/nop.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package logging

import "github.com/momentics/osthread/api"

// NopLogger discards all records. It is the thread package default.
type NopLogger struct{}

var _ api.Logger = NopLogger{}

// NewNop returns a logger that discards everything.
func NewNop() NopLogger { return NopLogger{} }

func (NopLogger) Debug(string, ...any) {}
func (NopLogger) Info(string, ...any)  {}
func (NopLogger) Warn(string, ...any)  {}
func (NopLogger) Error(string, ...any) {}
