package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/internal/engine"
	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/internal/logging"
	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/adapters/memory"
	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/domain"
	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/observability"
	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/ports"
)

// Version is the library version, stamped into banners and server identities.
const Version = "0.1.0"

// Engine is the high-level entry point for the canvas library.
// It wraps the internal reconciliation controller and provides a simplified
// API for consumers.
type Engine struct {
	controller *engine.Controller
	controls   ports.ControlsStore
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithControlsStore injects a custom controls store, bypassing the default
// in-memory one. Use the redis adapter to survive restarts.
func WithControlsStore(store ports.ControlsStore) Option {
	return func(e *Engine) {
		e.controls = store
	}
}

// WithMetrics registers Prometheus instrumentation for batch and node
// execution activity.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(e *Engine) {
		e.metrics = metrics
	}
}

// New initializes a canvas Engine around a code executor.
// By default it keeps control values in memory and discards logs.
func New(exec ports.CodeExecutor, opts ...Option) (*Engine, error) {
	if exec == nil {
		return nil, fmt.Errorf("code executor is required")
	}

	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.controls == nil {
		eng.controls = memory.NewStore()
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	controllerOpts := []engine.Option{
		engine.WithLogger(eng.logger),
		engine.WithControlsStore(eng.controls),
	}
	if eng.metrics != nil {
		controllerOpts = append(controllerOpts, engine.WithMetrics(eng.metrics))
	}

	eng.controller = engine.NewController(exec, controllerOpts...)
	return eng, nil
}

// SyncGraph reconciles the engine against a full graph snapshot and
// re-evaluates whatever the edit touched.
func (e *Engine) SyncGraph(ctx context.Context, snapshot *domain.GraphSnapshot) error {
	return e.controller.SyncGraph(ctx, snapshot)
}

// EvaluateNode re-runs one node and its downstream closure.
func (e *Engine) EvaluateNode(ctx context.Context, nodeID string) error {
	return e.controller.EvaluateNode(ctx, nodeID)
}

// EvaluateAll re-runs every node in the committed graph.
func (e *Engine) EvaluateAll(ctx context.Context) error {
	return e.controller.EvaluateAll(ctx)
}

// UpdateNodeControls applies new control values to a node and re-evaluates
// its closure if anything changed.
func (e *Engine) UpdateNodeControls(ctx context.Context, nodeID string, values map[string]any) error {
	return e.controller.UpdateNodeControls(ctx, nodeID, values)
}

// Snapshot returns a copy of the committed evaluation state.
func (e *Engine) Snapshot() *domain.EvalSnapshot {
	return e.controller.Snapshot()
}

// Subscribe registers a callback for committed snapshots. The returned
// function cancels the subscription.
func (e *Engine) Subscribe(fn func(*domain.EvalSnapshot)) func() {
	return e.controller.Subscribe(fn)
}

// Controls returns the underlying controls store used by the engine.
func (e *Engine) Controls() ports.ControlsStore {
	return e.controls
}

var _ ports.Engine = (*Engine)(nil)

// LoadGraph reads a graph snapshot from a YAML or JSON file. The format is
// chosen by extension; anything but .json is parsed as YAML.
func LoadGraph(path string) (*domain.GraphSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph file: %w", err)
	}

	var snapshot domain.GraphSnapshot
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &snapshot); err != nil {
			return nil, fmt.Errorf("failed to parse graph file %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &snapshot); err != nil {
			return nil, fmt.Errorf("failed to parse graph file %s: %w", path, err)
		}
	}

	seen := make(map[string]struct{}, len(snapshot.Nodes))
	for _, node := range snapshot.Nodes {
		if node.ID == "" {
			return nil, fmt.Errorf("graph file %s: node with empty id", path)
		}
		if _, dup := seen[node.ID]; dup {
			return nil, fmt.Errorf("graph file %s: duplicate node id %q", path, node.ID)
		}
		seen[node.ID] = struct{}{}
	}
	for _, edge := range snapshot.Edges {
		if _, ok := seen[edge.Source]; !ok {
			return nil, fmt.Errorf("graph file %s: edge source %q is not a node", path, edge.Source)
		}
		if _, ok := seen[edge.Target]; !ok {
			return nil, fmt.Errorf("graph file %s: edge target %q is not a node", path, edge.Target)
		}
	}

	return &snapshot, nil
}
