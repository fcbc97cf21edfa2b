// Package engine implements the incremental dependency-graph evaluation
// core: diff-driven reconciliation of canvas snapshots, downstream scope
// planning, sequential batch execution and versioned all-or-nothing
// commits into a copy-on-write store.
//
// The only shared mutable resource is the EvalStore snapshot. Competing
// requests race through a monotonically increasing version counter: every
// request bumps it, and a running batch abandons itself the moment its
// captured version is no longer current. A stale batch is never partially
// visible; a fresher batch always eventually wins once it completes
// uncontested.
package engine
