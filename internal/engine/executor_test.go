package engine

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/adapters/memory"
	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/domain"
	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/ports"
)

func TestNodeExecutor_EmptyCodeIsNoOp(t *testing.T) {
	exec := newFakeExecutor(nil)
	x := NewNodeExecutor(exec, nil)

	prev := domain.NewNodeEvalState("   \n\t")
	prev.Outputs = map[string]any{"output_0": 1}
	prev.Logs = []string{"old"}
	prev.Errors = []domain.ErrorInfo{{Message: "old"}}
	prev.Controls = []domain.ControlDescriptor{{Name: "speed", Kind: domain.ControlSlider, Default: 1.0}}

	start := snapshotWith(nil, map[string]*domain.NodeEvalState{"n": prev})
	next := x.Execute(context.Background(), "n", start, nil)

	if exec.callCount() != 0 {
		t.Error("empty code must not reach the sandbox")
	}
	if len(next.Outputs) != 0 || len(next.Logs) != 0 || len(next.Errors) != 0 || len(next.Warnings) != 0 {
		t.Errorf("expected explicit no-op result, got %+v", next)
	}
	if next.IsEvaluating {
		t.Error("no-op must clear the evaluating flag")
	}
	if len(next.Controls) != 1 {
		t.Error("no-op must keep the node's controls")
	}
}

func TestNodeExecutor_MergesInputsInIncomingOrder(t *testing.T) {
	var got map[string]any
	exec := newFakeExecutor(func(code string, inputs map[string]any) (*ports.ExecutionResult, error) {
		got = inputs
		return success(map[string]any{}), nil
	})
	x := NewNodeExecutor(exec, nil)

	edges := []domain.EdgeSpec{
		{Source: "first", Target: "sink"},
		{Source: "second", Target: "sink"},
	}
	first := domain.NewNodeEvalState("f")
	first.Outputs = map[string]any{"shared": "from-first", "a": 1}
	second := domain.NewNodeEvalState("s")
	second.Outputs = map[string]any{"shared": "from-second", "b": 2}
	sink := domain.NewNodeEvalState("sink code")

	start := snapshotWith(edges, map[string]*domain.NodeEvalState{
		"first": first, "second": second, "sink": sink,
	})
	x.Execute(context.Background(), "sink", start, nil)

	if got["shared"] != "from-second" {
		t.Errorf("later incoming edge must overwrite earlier on collision, got %v", got["shared"])
	}
	if got["a"] != 1 || got["b"] != 2 {
		t.Errorf("non-colliding keys must both survive: %v", got)
	}
}

func TestNodeExecutor_InterimResultsWinOverStore(t *testing.T) {
	var got map[string]any
	exec := newFakeExecutor(func(code string, inputs map[string]any) (*ports.ExecutionResult, error) {
		got = inputs
		return success(map[string]any{}), nil
	})
	x := NewNodeExecutor(exec, nil)

	up := domain.NewNodeEvalState("up")
	up.Outputs = map[string]any{"v": "stale"}
	down := domain.NewNodeEvalState("down")
	start := snapshotWith([]domain.EdgeSpec{{Source: "up", Target: "down"}},
		map[string]*domain.NodeEvalState{"up": up, "down": down})

	fresh := up.Clone()
	fresh.Outputs = map[string]any{"v": "fresh"}
	interim := map[string]*domain.NodeEvalState{"up": fresh}

	x.Execute(context.Background(), "down", start, interim)

	if got["v"] != "fresh" {
		t.Errorf("interim result must win over committed store, got %v", got["v"])
	}
}

func TestNodeExecutor_ControlValuesWinNameCollisions(t *testing.T) {
	var got map[string]any
	exec := newFakeExecutor(func(code string, inputs map[string]any) (*ports.ExecutionResult, error) {
		got = inputs
		return success(map[string]any{}), nil
	})
	x := NewNodeExecutor(exec, nil)

	up := domain.NewNodeEvalState("up")
	up.Outputs = map[string]any{"speed": "upstream"}
	node := domain.NewNodeEvalState("code")
	node.Controls = []domain.ControlDescriptor{
		{Name: "speed", Kind: domain.ControlSlider, Default: 1.0, Value: 7.0},
		{Name: "label", Kind: domain.ControlText, Default: "hi"},
	}
	start := snapshotWith([]domain.EdgeSpec{{Source: "up", Target: "n"}},
		map[string]*domain.NodeEvalState{"up": up, "n": node})

	x.Execute(context.Background(), "n", start, nil)

	if got["speed"] != 7.0 {
		t.Errorf("control value must shadow upstream input, got %v", got["speed"])
	}
	if got["label"] != "hi" {
		t.Errorf("unset control must contribute its default, got %v", got["label"])
	}
}

func TestNodeExecutor_ReportedFailure(t *testing.T) {
	exec := newFakeExecutor(func(code string, inputs map[string]any) (*ports.ExecutionResult, error) {
		return &ports.ExecutionResult{
			Success: false,
			Logs:    []string{"log line"},
			Errors: []domain.ErrorInfo{
				{Message: "late", Line: 9},
				{Message: "early", Line: 2},
			},
			Warnings: []domain.WarningInfo{{Message: "careful"}},
			Controls: []domain.ControlDescriptor{
				{Name: "speed", Kind: domain.ControlSlider, Default: 1.0},
			},
		}, nil
	})
	x := NewNodeExecutor(exec, nil)

	prev := domain.NewNodeEvalState("bad code")
	prev.Outputs = map[string]any{"output_0": 4}
	prev.Controls = []domain.ControlDescriptor{
		{Name: "speed", Kind: domain.ControlSlider, Default: 1.0, Value: 7.0},
	}
	start := snapshotWith(nil, map[string]*domain.NodeEvalState{"n": prev})

	next := x.Execute(context.Background(), "n", start, nil)

	if len(next.Outputs) != 0 {
		t.Errorf("failed run must clear outputs, got %v", next.Outputs)
	}
	if len(next.Errors) != 2 || next.Errors[0].Line != 2 {
		t.Errorf("errors must be sorted by line ascending: %v", next.Errors)
	}
	if len(next.Controls) != 1 || next.Controls[0].Value != 7.0 {
		t.Errorf("failed run must preserve user-set control values: %+v", next.Controls)
	}
	if len(next.Warnings) != 1 || len(next.Logs) != 1 {
		t.Errorf("logs and warnings must carry over from the result")
	}
}

func TestNodeExecutor_InfrastructureFault(t *testing.T) {
	exec := newFakeExecutor(func(code string, inputs map[string]any) (*ports.ExecutionResult, error) {
		return nil, errors.New("sandbox unreachable")
	})
	x := NewNodeExecutor(exec, nil)

	prev := domain.NewNodeEvalState("code")
	prev.Outputs = map[string]any{"output_0": 4}
	prev.Controls = []domain.ControlDescriptor{
		{Name: "speed", Kind: domain.ControlSlider, Default: 1.0, Value: 7.0},
	}
	start := snapshotWith(nil, map[string]*domain.NodeEvalState{"n": prev})

	next := x.Execute(context.Background(), "n", start, nil)

	// Unknown outcome: previous outputs and controls stay untouched.
	if next.Outputs["output_0"] != 4 {
		t.Errorf("fault must not clear previous outputs: %v", next.Outputs)
	}
	if len(next.Controls) != 1 || next.Controls[0].Value != 7.0 {
		t.Errorf("fault must not touch controls: %+v", next.Controls)
	}
	if len(next.Errors) != 1 || next.Errors[0].Message != "sandbox unreachable" {
		t.Errorf("fault must attach one error record: %v", next.Errors)
	}
	if next.IsEvaluating {
		t.Error("fault must clear the evaluating flag")
	}
}

func TestNodeExecutor_SuccessPersistsControls(t *testing.T) {
	exec := newFakeExecutor(func(code string, inputs map[string]any) (*ports.ExecutionResult, error) {
		return success(map[string]any{"output_0": 1},
			domain.ControlDescriptor{Name: "speed", Kind: domain.ControlSlider, Default: 1.0}), nil
	})
	store := memory.NewStore()
	x := NewNodeExecutor(exec, store)

	prev := domain.NewNodeEvalState("code")
	prev.Controls = []domain.ControlDescriptor{
		{Name: "speed", Kind: domain.ControlSlider, Default: 1.0, Value: 7.0},
	}
	start := snapshotWith(nil, map[string]*domain.NodeEvalState{"n": prev})

	next := x.Execute(context.Background(), "n", start, nil)

	if next.Controls[0].Value != 7.0 {
		t.Errorf("redeclared control must keep its user value: %+v", next.Controls)
	}
	persisted, err := store.Cached(context.Background(), "n")
	if err != nil {
		t.Fatalf("controls not persisted: %v", err)
	}
	if persisted[0].Value != 7.0 {
		t.Errorf("persisted controls must include the user value: %+v", persisted)
	}
}

func TestNodeExecutor_StatesMarshalWithEmptyArrays(t *testing.T) {
	exec := newFakeExecutor(func(code string, inputs map[string]any) (*ports.ExecutionResult, error) {
		// A minimal sandbox result: every optional collection omitted.
		return &ports.ExecutionResult{Success: true}, nil
	})
	x := NewNodeExecutor(exec, nil)

	start := snapshotWith(nil, map[string]*domain.NodeEvalState{
		"ran":  domain.NewNodeEvalState("code"),
		"noop": domain.NewNodeEvalState("   "),
	})

	for _, id := range []string{"ran", "noop"} {
		next := x.Execute(context.Background(), id, start, nil)
		data, err := json.Marshal(next)
		if err != nil {
			t.Fatalf("marshal %s: %v", id, err)
		}
		for _, want := range []string{`"outputs":{}`, `"logs":[]`, `"errors":[]`, `"warnings":[]`} {
			if !strings.Contains(string(data), want) {
				t.Errorf("%s state must render %s, got %s", id, want, data)
			}
		}
	}
}
