package domain

// NodeSpec is the externally supplied description of a single canvas node.
// It is immutable within one snapshot; the engine never edits code.
type NodeSpec struct {
	ID   string `json:"id" yaml:"id"`
	Code string `json:"code" yaml:"code"`
}

// EdgeSpec wires one node's outputs into another node's inputs.
type EdgeSpec struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// GraphSnapshot is one point-in-time description of the whole canvas.
// The host hands a fresh snapshot to the engine on every structural edit.
type GraphSnapshot struct {
	Nodes []NodeSpec `json:"nodes" yaml:"nodes"`
	Edges []EdgeSpec `json:"edges" yaml:"edges"`
}

// NodeIDs returns the set of node ids present in the snapshot.
func (g *GraphSnapshot) NodeIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		ids[n.ID] = struct{}{}
	}
	return ids
}
