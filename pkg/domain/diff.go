package domain

// GraphDiff represents the structural changes between two graph snapshots.
type GraphDiff struct {
	AddedNodes   []NodeSpec
	RemovedNodes []NodeSpec
	// ChangedNodes are nodes present in both snapshots whose code differs.
	ChangedNodes []NodeSpec
	AddedEdges   []EdgeSpec
	RemovedEdges []EdgeSpec
}

// HasChanges reports whether the diff carries any structural change.
func (d *GraphDiff) HasChanges() bool {
	return len(d.AddedNodes) > 0 ||
		len(d.RemovedNodes) > 0 ||
		len(d.ChangedNodes) > 0 ||
		len(d.AddedEdges) > 0 ||
		len(d.RemovedEdges) > 0
}

// Diff calculates the difference between an old and a new snapshot.
// If old is nil, everything in new is reported as added (initial sync).
// Node identity is ID; edge identity is the (source, target) pair.
func Diff(old, new *GraphSnapshot) *GraphDiff {
	diff := &GraphDiff{}
	if new == nil {
		new = &GraphSnapshot{}
	}

	oldNodes := make(map[string]NodeSpec)
	if old != nil {
		for _, n := range old.Nodes {
			oldNodes[n.ID] = n
		}
	}

	newNodes := make(map[string]NodeSpec, len(new.Nodes))
	for _, n := range new.Nodes {
		newNodes[n.ID] = n
		prev, exists := oldNodes[n.ID]
		switch {
		case !exists:
			diff.AddedNodes = append(diff.AddedNodes, n)
		case prev.Code != n.Code:
			diff.ChangedNodes = append(diff.ChangedNodes, n)
		}
	}

	if old != nil {
		for _, n := range old.Nodes {
			if _, exists := newNodes[n.ID]; !exists {
				diff.RemovedNodes = append(diff.RemovedNodes, n)
			}
		}
	}

	oldEdges := make(map[EdgeSpec]struct{})
	if old != nil {
		for _, e := range old.Edges {
			oldEdges[e] = struct{}{}
		}
	}

	newEdges := make(map[EdgeSpec]struct{}, len(new.Edges))
	for _, e := range new.Edges {
		if _, seen := newEdges[e]; seen {
			continue // parallel edge, identity is the pair
		}
		newEdges[e] = struct{}{}
		if _, exists := oldEdges[e]; !exists {
			diff.AddedEdges = append(diff.AddedEdges, e)
		}
	}

	if old != nil {
		seen := make(map[EdgeSpec]struct{}, len(old.Edges))
		for _, e := range old.Edges {
			if _, dup := seen[e]; dup {
				continue
			}
			seen[e] = struct{}{}
			if _, exists := newEdges[e]; !exists {
				diff.RemovedEdges = append(diff.RemovedEdges, e)
			}
		}
	}

	return diff
}
