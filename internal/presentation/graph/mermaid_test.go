package graph_test

import (
	"strings"
	"testing"

	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/internal/presentation/graph"
	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		snapshot *domain.GraphSnapshot
		overlay  *graph.GraphOverlay
		contains []string
	}{
		{
			name: "Nodes And Edges",
			snapshot: &domain.GraphSnapshot{
				Nodes: []domain.NodeSpec{
					{ID: "a", Code: "x = 1"},
					{ID: "b", Code: "y = input_0 + 1"},
				},
				Edges: []domain.EdgeSpec{
					{Source: "a", Target: "b"},
				},
			},
			contains: []string{
				"graph TD",
				"a[\"a <br/> x = 1\"]",
				"b[\"b <br/> y = input_0 + 1\"]",
				"a --> b",
			},
		},
		{
			name: "ID Sanitization",
			snapshot: &domain.GraphSnapshot{
				Nodes: []domain.NodeSpec{
					{ID: "node-1.v2"},
					{ID: "path/to/node"},
				},
			},
			contains: []string{
				"node_1_v2[\"node-1.v2\"]",
				"path_to_node[\"path/to/node\"]",
			},
		},
		{
			name: "Label Escaping And Truncation",
			snapshot: &domain.GraphSnapshot{
				Nodes: []domain.NodeSpec{
					{ID: "q", Code: `msg = "this is a very long line of code that keeps going"`},
				},
			},
			contains: []string{
				"msg = 'this is a very long line of ...",
			},
		},
		{
			name: "Overlay Styles",
			snapshot: &domain.GraphSnapshot{
				Nodes: []domain.NodeSpec{
					{ID: "bad"},
					{ID: "busy"},
				},
			},
			overlay: &graph.GraphOverlay{
				ErrorNodes:      []string{"bad", "bad"},
				EvaluatingNodes: []string{"busy"},
			},
			contains: []string{
				"classDef errored",
				"class bad errored;",
				"class busy evaluating;",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := graph.GenerateMermaid(tc.snapshot, tc.overlay)
			for _, want := range tc.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q\n--- got ---\n%s", want, out)
				}
			}
		})
	}
}

func TestGenerateMermaidDeduplicatesOverlay(t *testing.T) {
	snapshot := &domain.GraphSnapshot{Nodes: []domain.NodeSpec{{ID: "n"}}}
	overlay := &graph.GraphOverlay{ErrorNodes: []string{"n", "n", "n"}}

	out := graph.GenerateMermaid(snapshot, overlay)
	if got := strings.Count(out, "class n errored;"); got != 1 {
		t.Errorf("expected 1 style assignment, got %d", got)
	}
}

func TestOverlayFromSnapshot(t *testing.T) {
	snap := domain.NewEvalSnapshot()
	snap.Data["ok"] = domain.NewNodeEvalState("x = 1")
	snap.Data["bad"] = domain.NewNodeEvalState("boom")
	snap.Data["bad"].Errors = []domain.ErrorInfo{{Message: "boom"}}
	snap.Data["busy"] = domain.NewNodeEvalState("y = 2")
	snap.Data["busy"].IsEvaluating = true

	overlay := graph.OverlayFromSnapshot(snap)
	if len(overlay.ErrorNodes) != 1 || overlay.ErrorNodes[0] != "bad" {
		t.Errorf("unexpected error nodes: %v", overlay.ErrorNodes)
	}
	if len(overlay.EvaluatingNodes) != 1 || overlay.EvaluatingNodes[0] != "busy" {
		t.Errorf("unexpected evaluating nodes: %v", overlay.EvaluatingNodes)
	}
}
