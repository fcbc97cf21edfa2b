package engine

import (
	"context"
	"sort"
	"strings"

	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/domain"
	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/ports"
)

// NodeExecutor turns one planned node into its next evaluation state:
// it gathers upstream outputs and control values, calls the external code
// execution service and folds the result (or the failure) into a new
// NodeEvalState. It never touches the store itself.
type NodeExecutor struct {
	exec     ports.CodeExecutor
	controls ports.ControlsStore
}

// NewNodeExecutor wires the executor to the sandbox service and the
// controls persistence store. controls may be nil.
func NewNodeExecutor(exec ports.CodeExecutor, controls ports.ControlsStore) *NodeExecutor {
	return &NodeExecutor{exec: exec, controls: controls}
}

// gatherInputs merges the outputs of every immediate upstream node in
// incoming-array order (later overwrites earlier on key collision),
// resolving each upstream preferentially from the interim results of the
// running batch and falling back to the committed start snapshot. The
// node's own control values are merged last so they win name collisions.
func gatherInputs(nodeID string, start *domain.EvalSnapshot, interim map[string]*domain.NodeEvalState, prev *domain.NodeEvalState) map[string]any {
	inputs := make(map[string]any)

	for _, src := range start.IncomingByTarget[nodeID] {
		upstream, ok := interim[src]
		if !ok {
			upstream = start.Data[src]
		}
		if upstream == nil {
			continue
		}
		for k, v := range upstream.Outputs {
			inputs[k] = v
		}
	}

	if prev != nil {
		for _, c := range prev.Controls {
			inputs[c.Name] = c.EffectiveValue()
		}
	}

	return inputs
}

// Execute computes the next state for nodeID. start is the committed
// snapshot captured at batch start; interim holds the states already
// recomputed earlier in the same batch.
func (x *NodeExecutor) Execute(ctx context.Context, nodeID string, start *domain.EvalSnapshot, interim map[string]*domain.NodeEvalState) *domain.NodeEvalState {
	prev := start.Data[nodeID]
	if prev == nil {
		prev = domain.NewNodeEvalState("")
	}

	next := prev.Clone()
	next.IsEvaluating = false

	// Empty code is an explicit no-op result, not an error.
	if strings.TrimSpace(prev.Code) == "" {
		next.Outputs = map[string]any{}
		next.Logs = []string{}
		next.Errors = []domain.ErrorInfo{}
		next.Warnings = []domain.WarningInfo{}
		return next
	}

	inputs := gatherInputs(nodeID, start, interim, prev)

	result, err := x.exec.Execute(ctx, prev.Code, inputs)
	if err != nil {
		// Infrastructure fault: the outcome is unknown, so previous
		// outputs and controls are left untouched.
		next.Errors = []domain.ErrorInfo{{Message: err.Error()}}
		return next
	}

	// Collections stay non-nil so the JSON surface always renders arrays.
	next.Logs = result.Logs
	if next.Logs == nil {
		next.Logs = []string{}
	}
	next.Warnings = result.Warnings
	if next.Warnings == nil {
		next.Warnings = []domain.WarningInfo{}
	}
	// The sandbox rediscovers controls with default values on every run;
	// carrying prior user-set values forward keeps a re-declared control's
	// value stable across re-executions and failed runs alike.
	next.Controls = domain.MergeControls(prev.Controls, result.Controls)

	if result.Success {
		next.Outputs = result.Outputs
		if next.Outputs == nil {
			next.Outputs = map[string]any{}
		}
		next.Errors = []domain.ErrorInfo{}
		if x.controls != nil {
			// Persistence failures must not poison the batch; the cached
			// copy is only a reload convenience.
			_ = x.controls.Persist(ctx, nodeID, next.Controls)
		}
		return next
	}

	next.Outputs = map[string]any{}
	next.Errors = make([]domain.ErrorInfo, len(result.Errors))
	copy(next.Errors, result.Errors)
	sort.SliceStable(next.Errors, func(i, j int) bool {
		return next.Errors[i].Line < next.Errors[j].Line
	})
	return next
}
