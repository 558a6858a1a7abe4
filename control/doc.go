// Package control
// Author: momentics <momentics@gmail.com>
//
// Configuration, runtime metrics, lifecycle history and debug introspection
// for osthread.
//
// Provides concurrent-safe state handling primitives including:
//   - Typed configuration loaded from YAML files and the environment
//   - Snapshot config reads, atomic updates and reload listeners
//   - In-memory and Prometheus implementations of api.Metrics
//   - Lifecycle event history and probe registration
//
// This package is cross-platform and build-tag-partitioned as needed.
package control
