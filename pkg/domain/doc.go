// Package domain contains the pure data model of the canvas evaluation
// engine: graph snapshots, per-node evaluation state, control descriptors
// and the structural diff between two snapshots.
//
// Nothing in this package performs I/O or holds locks; richer behavior
// lives in the engine and the adapters.
package domain
