package ports

import (
	"context"

	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/domain"
)

// Engine is the host-facing API of the evaluation engine. Adapters (HTTP,
// MCP, CLI) depend on this interface rather than the concrete controller.
type Engine interface {
	// SyncGraph reconciles the committed state against a fresh snapshot of
	// the canvas and re-evaluates everything the edit touched. Calling it
	// twice with a deep-equal snapshot is a no-op on the second call.
	SyncGraph(ctx context.Context, snapshot *domain.GraphSnapshot) error

	// EvaluateNode re-runs one node and its downstream closure.
	EvaluateNode(ctx context.Context, nodeID string) error

	// EvaluateAll re-runs every node in the committed graph.
	EvaluateAll(ctx context.Context) error

	// UpdateNodeControls applies new control values to a node and, if any
	// value actually changed, re-evaluates the node and its closure.
	UpdateNodeControls(ctx context.Context, nodeID string, values map[string]any) error

	// Snapshot returns a copy of the current committed evaluation state.
	Snapshot() *domain.EvalSnapshot

	// Subscribe registers a callback invoked after every commit with a copy
	// of the new snapshot. The returned function cancels the subscription.
	Subscribe(fn func(*domain.EvalSnapshot)) (cancel func())
}
