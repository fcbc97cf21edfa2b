package engine

import "sort"

// Plan is the outcome of scope planning: the transitive downstream closure
// of the dirty entries and a topological execution order inside it.
type Plan struct {
	Scope map[string]struct{}
	Order []string
	// Cyclic is set when the scope could not be fully topologically
	// ordered; Order then falls back to BFS discovery order.
	Cyclic bool
}

// InScope reports whether a node is part of the planned closure.
func (p *Plan) InScope(id string) bool {
	_, ok := p.Scope[id]
	return ok
}

// PlanScope computes the downstream closure of the entry set through the
// outgoing adjacency, restricted to nodes in exists, then orders it with
// Kahn's algorithm seeded in discovery order. When a cycle prevents a full
// topological order, the plan keeps the discovery order and flags Cyclic.
func PlanScope(entries []string, idx *DependencyIndex, exists map[string]struct{}) *Plan {
	plan := &Plan{Scope: make(map[string]struct{})}

	// Deterministic discovery regardless of how the entry set was built.
	seeds := append([]string(nil), entries...)
	sort.Strings(seeds)

	var discovery []string
	queue := make([]string, 0, len(seeds))
	for _, id := range seeds {
		if _, ok := exists[id]; !ok {
			continue
		}
		if _, ok := plan.Scope[id]; ok {
			continue
		}
		plan.Scope[id] = struct{}{}
		queue = append(queue, id)
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		discovery = append(discovery, id)
		for _, next := range idx.Outgoing(id) {
			if _, ok := exists[next]; !ok {
				continue
			}
			if _, ok := plan.Scope[next]; ok {
				continue
			}
			plan.Scope[next] = struct{}{}
			queue = append(queue, next)
		}
	}

	// In-scope in-degree: count only incoming edges whose source is also
	// part of the scope.
	indeg := make(map[string]int, len(plan.Scope))
	for id := range plan.Scope {
		for _, src := range idx.Incoming(id) {
			if _, ok := plan.Scope[src]; ok {
				indeg[id]++
			}
		}
	}

	ready := make([]string, 0, len(discovery))
	for _, id := range discovery {
		if indeg[id] == 0 {
			ready = append(ready, id)
		}
	}

	order := make([]string, 0, len(plan.Scope))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)
		for _, next := range idx.Outgoing(id) {
			if _, ok := plan.Scope[next]; !ok {
				continue
			}
			indeg[next]--
			if indeg[next] == 0 {
				ready = append(ready, next)
			}
		}
	}

	if len(order) < len(plan.Scope) {
		// A cycle inside the scope: degrade to discovery order rather than
		// failing the whole batch.
		plan.Order = discovery
		plan.Cyclic = true
		return plan
	}

	plan.Order = order
	return plan
}
