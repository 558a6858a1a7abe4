// File: api/logger.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Structured logging contract used by the thread lifecycle.

package api

// Logger defines methods for structured logging.
//
// All methods accept alternating key-value pairs for structured fields and
// must be safe for concurrent use.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}
