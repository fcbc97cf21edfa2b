// Package ports defines the boundary interfaces of the engine: the
// host-facing Engine API, the external code execution service and the
// controls persistence service.
//
// Concrete implementations live under pkg/adapters; the engine core under
// internal/engine depends only on these interfaces.
package ports
