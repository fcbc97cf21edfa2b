package engine

import (
	"context"
	"sync"

	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/domain"
	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/ports"
)

// fakeExecutor scripts sandbox behavior per code string and records calls.
type fakeExecutor struct {
	mu    sync.Mutex
	calls []fakeCall

	// fn computes the result for a call. Defaults to an empty success.
	fn func(code string, inputs map[string]any) (*ports.ExecutionResult, error)

	// gates block specific code strings until released, for supersede tests.
	gates map[string]chan struct{}
}

type fakeCall struct {
	code   string
	inputs map[string]any
}

func newFakeExecutor(fn func(code string, inputs map[string]any) (*ports.ExecutionResult, error)) *fakeExecutor {
	return &fakeExecutor{fn: fn, gates: make(map[string]chan struct{})}
}

func (f *fakeExecutor) gate(code string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[code] = ch
	return ch
}

func (f *fakeExecutor) Execute(ctx context.Context, code string, inputs map[string]any) (*ports.ExecutionResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fakeCall{code: code, inputs: inputs})
	gate := f.gates[code]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if f.fn == nil {
		return &ports.ExecutionResult{Success: true, Outputs: map[string]any{}}, nil
	}
	return f.fn(code, inputs)
}

func (f *fakeExecutor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeExecutor) calledCodes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	codes := make([]string, len(f.calls))
	for i, c := range f.calls {
		codes[i] = c.code
	}
	return codes
}

// success builds a plain successful result.
func success(outputs map[string]any, controls ...domain.ControlDescriptor) *ports.ExecutionResult {
	return &ports.ExecutionResult{Success: true, Outputs: outputs, Controls: controls}
}

// snapshotWith builds a committed snapshot for executor-level tests.
func snapshotWith(edges []domain.EdgeSpec, states map[string]*domain.NodeEvalState) *domain.EvalSnapshot {
	idx := NewDependencyIndex(edges)
	snap := domain.NewEvalSnapshot()
	for id, st := range states {
		snap.Data[id] = st
	}
	snap.IncomingByTarget = idx.IncomingMap()
	snap.OutgoingBySource = idx.OutgoingMap()
	return snap
}
