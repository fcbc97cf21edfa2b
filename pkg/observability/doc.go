// Package observability provides the Prometheus instruments the engine
// emits: batch lifecycle counters and node execution timings.
package observability
