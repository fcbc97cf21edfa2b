package canvas_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	canvas "github.com/Siridelta/PerSpatia-Ad-Destra-sub000"
	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/domain"
	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/ports"
)

// countingExecutor returns a constant output and records call counts per code.
type countingExecutor struct {
	calls map[string]int
}

func (e *countingExecutor) Execute(_ context.Context, code string, inputs map[string]any) (*ports.ExecutionResult, error) {
	if e.calls == nil {
		e.calls = make(map[string]int)
	}
	e.calls[code]++

	sum := 1.0
	for _, in := range inputs {
		if f, ok := in.(float64); ok {
			sum += f
		}
	}
	return &ports.ExecutionResult{
		Success: true,
		Outputs: map[string]any{"output_0": sum},
	}, nil
}

func TestFacade_Integration(t *testing.T) {
	exec := &countingExecutor{}
	eng, err := canvas.New(exec)
	if err != nil {
		t.Fatalf("Failed to initialize engine: %v", err)
	}

	ctx := context.Background()
	graph := &domain.GraphSnapshot{
		Nodes: []domain.NodeSpec{
			{ID: "a", Code: "x = 1"},
			{ID: "b", Code: "y = input_0 + 1"},
		},
		Edges: []domain.EdgeSpec{{Source: "a", Target: "b"}},
	}

	if err := eng.SyncGraph(ctx, graph); err != nil {
		t.Fatalf("SyncGraph failed: %v", err)
	}

	snap := eng.Snapshot()
	if len(snap.Data) != 2 {
		t.Fatalf("Expected 2 node states, got %d", len(snap.Data))
	}
	// a outputs 1, b sees it as input and outputs 2.
	if got := snap.Data["b"].Outputs["output_0"]; got != 2.0 {
		t.Errorf("Expected b output 2, got %v", got)
	}

	// Re-syncing the identical graph must not re-execute anything.
	before := exec.calls["x = 1"]
	if err := eng.SyncGraph(ctx, graph); err != nil {
		t.Fatalf("Idempotent SyncGraph failed: %v", err)
	}
	if exec.calls["x = 1"] != before {
		t.Error("Identical sync re-executed nodes")
	}

	if err := eng.EvaluateNode(ctx, "missing"); err == nil {
		t.Error("Expected error for unknown node")
	}
}

func TestFacade_RequiresExecutor(t *testing.T) {
	if _, err := canvas.New(nil); err == nil {
		t.Error("Expected error when executor is nil")
	}
}

func TestFacade_SubscribeSeesCommits(t *testing.T) {
	eng, err := canvas.New(&countingExecutor{})
	if err != nil {
		t.Fatal(err)
	}

	var notified int
	cancel := eng.Subscribe(func(*domain.EvalSnapshot) { notified++ })
	defer cancel()

	err = eng.SyncGraph(context.Background(), &domain.GraphSnapshot{
		Nodes: []domain.NodeSpec{{ID: "solo", Code: "x = 1"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if notified == 0 {
		t.Error("Expected subscriber to observe the committed snapshot")
	}
}

func TestLoadGraph(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "graph.yaml")
	yamlContent := []byte(`nodes:
  - id: a
    code: "x = 1"
  - id: b
    code: "y = input_0 * 2"
edges:
  - source: a
    target: b
`)
	if err := os.WriteFile(yamlPath, yamlContent, 0644); err != nil {
		t.Fatal(err)
	}

	snapshot, err := canvas.LoadGraph(yamlPath)
	if err != nil {
		t.Fatalf("LoadGraph failed: %v", err)
	}
	if len(snapshot.Nodes) != 2 || len(snapshot.Edges) != 1 {
		t.Fatalf("Unexpected graph shape: %d nodes, %d edges", len(snapshot.Nodes), len(snapshot.Edges))
	}
	if snapshot.Edges[0].Source != "a" || snapshot.Edges[0].Target != "b" {
		t.Errorf("Unexpected edge: %+v", snapshot.Edges[0])
	}

	jsonPath := filepath.Join(dir, "graph.json")
	jsonContent := []byte(`{"nodes":[{"id":"solo","code":"x = 1"}],"edges":[]}`)
	if err := os.WriteFile(jsonPath, jsonContent, 0644); err != nil {
		t.Fatal(err)
	}
	snapshot, err = canvas.LoadGraph(jsonPath)
	if err != nil {
		t.Fatalf("LoadGraph json failed: %v", err)
	}
	if len(snapshot.Nodes) != 1 || snapshot.Nodes[0].ID != "solo" {
		t.Errorf("Unexpected json graph: %+v", snapshot)
	}
}

func TestLoadGraphRejectsBrokenFiles(t *testing.T) {
	dir := t.TempDir()

	cases := []struct {
		name    string
		content string
	}{
		{"DuplicateNode", "nodes:\n  - id: a\n  - id: a\n"},
		{"EmptyID", "nodes:\n  - code: \"x = 1\"\n"},
		{"DanglingEdge", "nodes:\n  - id: a\nedges:\n  - source: a\n    target: ghost\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name+".yaml")
			if err := os.WriteFile(path, []byte(tc.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := canvas.LoadGraph(path); err == nil {
				t.Error("Expected validation error")
			}
		})
	}

	if _, err := canvas.LoadGraph(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}
