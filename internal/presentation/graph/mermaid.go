package graph

import (
	"fmt"
	"strings"

	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/domain"
)

// GraphOverlay contains evaluation state data to visualize on the graph.
type GraphOverlay struct {
	ErrorNodes      []string
	EvaluatingNodes []string
}

// GenerateMermaid produces a Mermaid flowchart syntax string from a graph
// snapshot. Edges point from a node's outputs to the consumer's inputs, so
// the chart reads top-down in data-flow order. Overlay styles highlight
// failed and in-flight nodes when provided.
func GenerateMermaid(snapshot *domain.GraphSnapshot, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range snapshot.Nodes {
		safeID := sanitizeMermaidID(node.ID)
		label := node.ID
		if first := firstCodeLine(node.Code); first != "" {
			label = fmt.Sprintf("%s <br/> %s", node.ID, first)
		}
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", safeID, label))
	}

	for _, edge := range snapshot.Edges {
		sb.WriteString(fmt.Sprintf("    %s --> %s\n",
			sanitizeMermaidID(edge.Source), sanitizeMermaidID(edge.Target)))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast regardless of theme
		sb.WriteString("    classDef errored fill:#ffebee,stroke:#b71c1c,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef evaluating fill:#fff8e1,stroke:#ff8f00,stroke-width:2px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.ErrorNodes {
			safeID := sanitizeMermaidID(id)
			if !seen[safeID] && safeID != "" {
				seen[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s errored;\n", safeID))
			}
		}
		for _, id := range overlay.EvaluatingNodes {
			safeID := sanitizeMermaidID(id)
			if !seen[safeID] && safeID != "" {
				seen[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s evaluating;\n", safeID))
			}
		}
	}

	return sb.String()
}

// OverlayFromSnapshot derives overlay highlights from the committed
// evaluation state.
func OverlayFromSnapshot(snap *domain.EvalSnapshot) *GraphOverlay {
	if snap == nil {
		return nil
	}
	overlay := &GraphOverlay{}
	for id, state := range snap.Data {
		if state == nil {
			continue
		}
		if len(state.Errors) > 0 {
			overlay.ErrorNodes = append(overlay.ErrorNodes, id)
		}
		if state.IsEvaluating {
			overlay.EvaluatingNodes = append(overlay.EvaluatingNodes, id)
		}
	}
	return overlay
}

// firstCodeLine returns the first non-empty line of a node's code, truncated
// so labels stay readable.
func firstCodeLine(code string) string {
	for _, line := range strings.Split(code, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.ReplaceAll(line, "\"", "'")
		if len(line) > 40 {
			line = line[:37] + "..."
		}
		return line
	}
	return ""
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
