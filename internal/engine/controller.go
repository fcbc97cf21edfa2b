package engine

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/internal/logging"
	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/domain"
	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/observability"
	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/ports"
)

// Controller owns the version counter and reconciles host requests into
// planned, versioned evaluation batches. It is the single writer of the
// eval store's structure; batches add computed results on top.
//
// Concurrency model: structural application happens under c.mu at a fresh
// version; the batch itself runs outside the lock. A request that arrives
// while a batch is running bumps the version, which the running batch
// notices before its next node and abandons in full.
type Controller struct {
	mu sync.Mutex

	version  atomic.Uint64
	store    *EvalStore
	executor *NodeExecutor
	runner   *EvaluationRunner
	controls ports.ControlsStore
	logger   *slog.Logger
	metrics  *observability.Metrics

	// Reconciliation state guarded by mu.
	lastGraph *domain.GraphSnapshot
	index     *DependencyIndex
	exists    map[string]struct{}
}

// Option configures the Controller.
type Option func(*Controller)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(c *Controller) {
		c.metrics = metrics
	}
}

// WithControlsStore sets the controls persistence service.
func WithControlsStore(store ports.ControlsStore) Option {
	return func(c *Controller) {
		c.controls = store
	}
}

// NewController creates a controller around the given code executor.
func NewController(exec ports.CodeExecutor, opts ...Option) *Controller {
	c := &Controller{
		store:  NewEvalStore(),
		logger: logging.NewNop(),
		index:  NewDependencyIndex(nil),
		exists: map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.executor = NewNodeExecutor(exec, c.controls)
	c.runner = NewEvaluationRunner(c.store, c.executor, &c.version, c.logger, c.metrics)
	return c
}

var _ ports.Engine = (*Controller)(nil)

// SyncGraph reconciles the committed state against a fresh canvas snapshot.
// An unchanged snapshot is an idempotent no-op; otherwise the structural
// changes are applied at a new version and the dirty downstream closure is
// re-evaluated.
func (c *Controller) SyncGraph(ctx context.Context, snapshot *domain.GraphSnapshot) error {
	if snapshot == nil {
		snapshot = &domain.GraphSnapshot{}
	}

	c.mu.Lock()
	diff := domain.Diff(c.lastGraph, snapshot)
	if c.lastGraph != nil && !diff.HasChanges() {
		c.mu.Unlock()
		c.logger.Debug("sync: no structural changes")
		return nil
	}

	firstSync := c.lastGraph == nil
	oldIndex := c.index
	exists := snapshot.NodeIDs()
	index := NewDependencyIndex(snapshot.Edges)

	version := c.version.Add(1)
	next := c.store.Current().Clone()

	for _, n := range diff.RemovedNodes {
		delete(next.Data, n.ID)
	}
	for _, n := range diff.AddedNodes {
		state := domain.NewNodeEvalState(n.Code)
		if c.controls != nil {
			if cached, err := c.controls.Cached(ctx, n.ID); err == nil {
				state.Controls = cached
			}
		}
		next.Data[n.ID] = state
	}
	for _, n := range diff.ChangedNodes {
		if state := next.Data[n.ID]; state != nil {
			state.Code = n.Code
		} else {
			next.Data[n.ID] = domain.NewNodeEvalState(n.Code)
		}
	}
	next.IncomingByTarget = cloneAdjacency(index.IncomingMap())
	next.OutgoingBySource = cloneAdjacency(index.OutgoingMap())

	entries := make(map[string]struct{})
	if firstSync {
		for id := range exists {
			entries[id] = struct{}{}
		}
	} else {
		for _, n := range diff.AddedNodes {
			entries[n.ID] = struct{}{}
		}
		for _, n := range diff.ChangedNodes {
			entries[n.ID] = struct{}{}
		}
		for _, e := range diff.AddedEdges {
			entries[e.Target] = struct{}{}
		}
		for _, e := range diff.RemovedEdges {
			entries[e.Target] = struct{}{}
		}
		// Safety net: nodes that were downstream of a removed node per the
		// old adjacency, in case the host left edges dangling.
		removed := make([]string, 0, len(diff.RemovedNodes))
		for _, n := range diff.RemovedNodes {
			removed = append(removed, n.ID)
		}
		for id := range downstreamOf(removed, oldIndex, exists) {
			entries[id] = struct{}{}
		}
	}
	for id := range entries {
		if _, ok := exists[id]; !ok {
			delete(entries, id)
		}
	}

	plan, notify := c.prepare(next, entries, index, exists)

	c.lastGraph = cloneGraph(snapshot)
	c.index = index
	c.exists = exists
	c.mu.Unlock()

	// Removed nodes take their cached controls with them, so the
	// persistence layer tracks the committed node set.
	if c.controls != nil {
		for _, n := range diff.RemovedNodes {
			if err := c.controls.Delete(ctx, n.ID); err != nil {
				c.logger.Warn("failed to delete cached controls", "node", n.ID, "err", err)
			}
		}
	}

	notify()

	c.logger.Info("graph synced",
		"version", version,
		"added", len(diff.AddedNodes),
		"removed", len(diff.RemovedNodes),
		"changed", len(diff.ChangedNodes),
		"scope", len(plan.Scope))

	c.runBatch(ctx, plan, version)
	return nil
}

// EvaluateNode re-runs one node and its downstream closure against the
// current committed state.
func (c *Controller) EvaluateNode(ctx context.Context, nodeID string) error {
	c.mu.Lock()
	if _, ok := c.exists[nodeID]; !ok {
		c.mu.Unlock()
		return fmt.Errorf("evaluate %q: %w", nodeID, domain.ErrNodeNotFound)
	}

	version := c.version.Add(1)
	next := c.store.Current().Clone()
	plan, notify := c.prepare(next, map[string]struct{}{nodeID: {}}, c.index, c.exists)
	c.mu.Unlock()

	notify()
	c.runBatch(ctx, plan, version)
	return nil
}

// EvaluateAll re-runs every node in the committed graph.
func (c *Controller) EvaluateAll(ctx context.Context) error {
	c.mu.Lock()
	version := c.version.Add(1)
	next := c.store.Current().Clone()
	entries := make(map[string]struct{}, len(c.exists))
	for id := range c.exists {
		entries[id] = struct{}{}
	}
	plan, notify := c.prepare(next, entries, c.index, c.exists)
	c.mu.Unlock()

	notify()
	c.runBatch(ctx, plan, version)
	return nil
}

// UpdateNodeControls applies new control values to a node's stored
// controls. If any value actually changed the node and its closure are
// re-evaluated; otherwise the current controls are only re-persisted.
func (c *Controller) UpdateNodeControls(ctx context.Context, nodeID string, values map[string]any) error {
	c.mu.Lock()
	current := c.store.Current()
	prev, ok := current.Data[nodeID]
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("update controls %q: %w", nodeID, domain.ErrNodeNotFound)
	}

	state := prev.Clone()
	changed := false
	for i, ctrl := range state.Controls {
		value, ok := values[ctrl.Name]
		if !ok {
			continue
		}
		if !reflect.DeepEqual(ctrl.Value, value) {
			state.Controls[i].Value = value
			changed = true
		}
	}

	if !changed {
		c.mu.Unlock()
		if c.controls != nil {
			return c.controls.Persist(ctx, nodeID, prev.Controls)
		}
		return nil
	}

	version := c.version.Add(1)
	next := c.store.Current().Clone()
	next.Data[nodeID] = state
	plan, notify := c.prepare(next, map[string]struct{}{nodeID: {}}, c.index, c.exists)
	c.mu.Unlock()

	if c.controls != nil {
		if err := c.controls.Persist(ctx, nodeID, state.Controls); err != nil {
			c.logger.Warn("failed to persist controls", "node", nodeID, "err", err)
		}
	}

	notify()
	c.runBatch(ctx, plan, version)
	return nil
}

// Snapshot returns a copy of the current committed evaluation state.
func (c *Controller) Snapshot() *domain.EvalSnapshot {
	return c.store.Snapshot()
}

// Subscribe registers a callback invoked after every commit.
func (c *Controller) Subscribe(fn func(*domain.EvalSnapshot)) func() {
	return c.store.Subscribe(fn)
}

// prepare plans the batch for the given entries, marks the planned scope
// as evaluating in next and publishes next as the structural state of the
// new version. Callers must hold c.mu and invoke the returned notify func
// only after releasing it: a subscriber reacting to the structural change
// may call straight back into the engine.
func (c *Controller) prepare(next *domain.EvalSnapshot, entries map[string]struct{}, index *DependencyIndex, exists map[string]struct{}) (*Plan, func()) {
	entryList := make([]string, 0, len(entries))
	for id := range entries {
		entryList = append(entryList, id)
	}
	plan := PlanScope(entryList, index, exists)

	// Clear flags left by any superseded batch before marking this scope,
	// so an abandoned wider batch cannot strand a node as evaluating.
	// next is a private deep copy, safe to mutate in place.
	for id, state := range next.Data {
		state.IsEvaluating = plan.InScope(id)
	}

	notify := c.store.Replace(next)
	return plan, notify
}

func (c *Controller) runBatch(ctx context.Context, plan *Plan, version uint64) {
	if plan.Cyclic {
		c.metrics.CycleFallback()
		c.logger.Warn("cycle detected in evaluation scope, using discovery order", "version", version)
	}
	c.runner.Run(ctx, plan, version)
}

// downstreamOf walks the outgoing adjacency transitively from the given
// ids and returns every reachable node that still exists.
func downstreamOf(ids []string, idx *DependencyIndex, exists map[string]struct{}) map[string]struct{} {
	result := make(map[string]struct{})
	visited := make(map[string]struct{}, len(ids))
	queue := append([]string(nil), ids...)
	for _, id := range ids {
		visited[id] = struct{}{}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, next := range idx.Outgoing(id) {
			if _, seen := visited[next]; seen {
				continue
			}
			visited[next] = struct{}{}
			if _, ok := exists[next]; ok {
				result[next] = struct{}{}
			}
			queue = append(queue, next)
		}
	}
	return result
}

func cloneAdjacency(m map[string][]string) map[string][]string {
	out := make(map[string][]string, len(m))
	for k, v := range m {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func cloneGraph(g *domain.GraphSnapshot) *domain.GraphSnapshot {
	c := &domain.GraphSnapshot{
		Nodes: append([]domain.NodeSpec(nil), g.Nodes...),
		Edges: append([]domain.EdgeSpec(nil), g.Edges...),
	}
	return c
}
