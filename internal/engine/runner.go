package engine

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/domain"
	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/observability"
)

// EvaluationRunner drives a planned order through the node executor. Each
// batch captures the committed snapshot at start, accumulates interim
// results so later nodes see just-computed upstream outputs, and commits
// all results at once only if its version is still the freshest.
type EvaluationRunner struct {
	store    *EvalStore
	executor *NodeExecutor
	version  *atomic.Uint64
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewEvaluationRunner wires a runner to the store, the node executor and
// the live version counter it checks for staleness.
func NewEvaluationRunner(store *EvalStore, executor *NodeExecutor, version *atomic.Uint64, logger *slog.Logger, metrics *observability.Metrics) *EvaluationRunner {
	return &EvaluationRunner{
		store:    store,
		executor: executor,
		version:  version,
		logger:   logger,
		metrics:  metrics,
	}
}

// Run executes one batch at the given captured version. It returns true if
// the batch committed, false if it was abandoned because a newer request
// superseded it. Abandonment discards every interim result, including
// nodes already finished in this loop; the store keeps the state of the
// last committed batch.
func (r *EvaluationRunner) Run(ctx context.Context, plan *Plan, version uint64) bool {
	batchID := uuid.NewString()
	log := r.logger.With("batch", batchID, "version", version)

	r.metrics.BatchStarted()
	log.Debug("batch started", "nodes", len(plan.Order), "cyclic", plan.Cyclic)

	start := r.store.Current()
	interim := make(map[string]*domain.NodeEvalState, len(plan.Order))

	for _, nodeID := range plan.Order {
		if r.version.Load() != version {
			r.metrics.BatchAbandoned()
			log.Debug("batch superseded, discarding interim results", "completed", len(interim))
			return false
		}

		began := time.Now()
		interim[nodeID] = r.executor.Execute(ctx, nodeID, start, interim)
		r.metrics.ObserveNode(time.Since(began))
	}

	next := start.Clone()
	for nodeID, state := range interim {
		if _, exists := next.Data[nodeID]; !exists {
			// Structurally removed mid-plan; never resurrect it.
			continue
		}
		next.Data[nodeID] = state
	}

	committed := r.store.CommitIf(next, func() bool {
		return r.version.Load() == version
	})
	if !committed {
		r.metrics.BatchAbandoned()
		log.Debug("batch superseded at commit", "completed", len(interim))
		return false
	}

	r.metrics.BatchCommitted()
	log.Debug("batch committed", "nodes", len(interim))
	return true
}
