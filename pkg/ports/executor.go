package ports

import (
	"context"

	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/domain"
)

// ExecutionResult is what one sandboxed run of a node's code reports back.
type ExecutionResult struct {
	Success  bool                       `json:"success"`
	Outputs  map[string]any             `json:"outputs"`
	Controls []domain.ControlDescriptor `json:"controls"`
	Logs     []string                   `json:"logs"`
	Errors   []domain.ErrorInfo         `json:"errors,omitempty"`
	Warnings []domain.WarningInfo       `json:"warnings,omitempty"`
}

// CodeExecutor runs one node's code against a set of resolved input values.
// Implementations must not retain state across calls: each call rediscovers
// the code's controls from scratch.
//
// A returned error means the execution mechanism itself failed and no
// outcome could be determined (infrastructure fault). A result with
// Success=false means the code ran and failed; its diagnostics are in the
// result.
type CodeExecutor interface {
	Execute(ctx context.Context, code string, inputs map[string]any) (*ExecutionResult, error)
}

// CodeExecutorFunc adapts a function to the CodeExecutor interface.
type CodeExecutorFunc func(ctx context.Context, code string, inputs map[string]any) (*ExecutionResult, error)

// Execute implements CodeExecutor.
func (f CodeExecutorFunc) Execute(ctx context.Context, code string, inputs map[string]any) (*ExecutionResult, error) {
	return f(ctx, code, inputs)
}
