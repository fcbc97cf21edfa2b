package engine

import (
	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/domain"
)

// DependencyIndex holds the adjacency derived from the committed edge list:
// incoming[target] lists the sources wired into target, outgoing[source]
// lists the targets fed by source. Parallel edges are deduplicated; slice
// order follows first appearance in the edge list and drives input merging.
type DependencyIndex struct {
	incoming map[string][]string
	outgoing map[string][]string
}

// NewDependencyIndex builds the index from an edge list.
func NewDependencyIndex(edges []domain.EdgeSpec) *DependencyIndex {
	idx := &DependencyIndex{
		incoming: make(map[string][]string),
		outgoing: make(map[string][]string),
	}

	seen := make(map[domain.EdgeSpec]struct{}, len(edges))
	for _, e := range edges {
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		idx.incoming[e.Target] = append(idx.incoming[e.Target], e.Source)
		idx.outgoing[e.Source] = append(idx.outgoing[e.Source], e.Target)
	}
	return idx
}

// Incoming returns the sources wired into target, in edge-list order.
func (idx *DependencyIndex) Incoming(target string) []string {
	return idx.incoming[target]
}

// Outgoing returns the targets fed by source, in edge-list order.
func (idx *DependencyIndex) Outgoing(source string) []string {
	return idx.outgoing[source]
}

// IncomingMap exposes the full incoming adjacency for snapshot commits.
func (idx *DependencyIndex) IncomingMap() map[string][]string {
	return idx.incoming
}

// OutgoingMap exposes the full outgoing adjacency for snapshot commits.
func (idx *DependencyIndex) OutgoingMap() map[string][]string {
	return idx.outgoing
}
