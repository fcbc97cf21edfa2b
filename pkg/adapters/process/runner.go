// Package process provides a CodeExecutor that delegates each node
// execution to an external interpreter process, speaking JSON over
// stdin/stdout. The interpreter is stateless by construction: one process
// per call, so controls are rediscovered from scratch every run.
package process

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"

	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/domain"
	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/ports"
)

// Runner implements ports.CodeExecutor by spawning the configured
// interpreter once per execution.
type Runner struct {
	command string
	args    []string
	env     map[string]string
	baseDir string
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithEnv adds environment variables to the interpreter process.
func WithEnv(env map[string]string) RunnerOption {
	return func(r *Runner) {
		for k, v := range env {
			r.env[k] = v
		}
	}
}

// WithBaseDir sets the working directory for the interpreter process.
func WithBaseDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.baseDir = dir
	}
}

// NewRunner creates a runner for the given interpreter command.
func NewRunner(command string, args []string, opts ...RunnerOption) *Runner {
	r := &Runner{
		command: command,
		args:    args,
		env:     make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewRunnerFromConfig creates a runner from a loaded interpreter config.
func NewRunnerFromConfig(cfg InterpreterConfig, opts ...RunnerOption) *Runner {
	opts = append([]RunnerOption{WithEnv(cfg.Environment)}, opts...)
	return NewRunner(cfg.Command, cfg.Args, opts...)
}

// request is the payload written to the interpreter's stdin.
type request struct {
	Code   string         `json:"code"`
	Inputs map[string]any `json:"inputs"`
}

// response mirrors ports.ExecutionResult but keeps controls loosely typed
// so interpreters are free in how they shape kind-specific fields.
type response struct {
	Success  bool                 `json:"success"`
	Outputs  map[string]any       `json:"outputs"`
	Controls any                  `json:"controls"`
	Logs     []string             `json:"logs"`
	Errors   []domain.ErrorInfo   `json:"errors"`
	Warnings []domain.WarningInfo `json:"warnings"`
}

// Execute runs the node's code in one interpreter invocation. A non-zero
// exit or malformed output is an infrastructure fault (error return); a
// clean run reporting success=false is a sandbox failure carried in the
// result.
func (r *Runner) Execute(ctx context.Context, code string, inputs map[string]any) (*ports.ExecutionResult, error) {
	payload, err := json.Marshal(request{Code: code, Inputs: inputs})
	if err != nil {
		return nil, fmt.Errorf("failed to encode execution request: %w", err)
	}

	cmd := exec.CommandContext(ctx, r.command, r.args...)
	cmd.Dir = r.baseDir
	cmd.Stdin = bytes.NewReader(payload)
	if len(r.env) > 0 {
		cmd.Env = os.Environ()
		for k, v := range r.env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("interpreter %s failed: %w (stderr: %s)", r.command, err, stderr.String())
	}

	var resp response
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("interpreter %s produced malformed output: %w", r.command, err)
	}

	controls, err := domain.DecodeControls(resp.Controls)
	if err != nil {
		return nil, fmt.Errorf("interpreter %s declared malformed controls: %w", r.command, err)
	}

	result := &ports.ExecutionResult{
		Success:  resp.Success,
		Outputs:  resp.Outputs,
		Controls: controls,
		Logs:     resp.Logs,
		Errors:   resp.Errors,
		Warnings: resp.Warnings,
	}
	if result.Outputs == nil {
		result.Outputs = map[string]any{}
	}
	return result, nil
}
