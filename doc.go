/*
Package canvas is an incremental evaluation engine for node-based visual
programs. A canvas is a directed graph of code nodes wired by edges; the
engine tracks which nodes an edit touched, re-runs exactly that downstream
closure in dependency order, and commits the results atomically so readers
never observe a half-evaluated canvas.

It follows a Hexagonal Architecture: the core reconciliation logic is
decoupled from adapters (code interpreters, control-value storage, HTTP,
MCP), so the engine can be embedded in any host.

# Key Features

  - Incremental Evaluation: graph syncs diff against the last committed
    snapshot and re-run only the dirty closure.
  - Versioned Batches: a newer edit supersedes in-flight work; superseded
    batches abandon silently and never commit.
  - Control Preservation: user-tuned control values (sliders, toggles,
    text) survive code edits and re-execution.
  - Pluggable Execution: any ports.CodeExecutor can run node code, from an
    in-process stub to an external interpreter process.

# Usage

	package main

	import (
		"context"
		"log"

		canvas "github.com/Siridelta/PerSpatia-Ad-Destra-sub000"
		"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/adapters/process"
		"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/domain"
	)

	func main() {
		runner := process.NewRunner("python3", []string{"interpreter.py"})
		eng, err := canvas.New(runner)
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		err = eng.SyncGraph(ctx, &domain.GraphSnapshot{
			Nodes: []domain.NodeSpec{
				{ID: "a", Code: "x = 1"},
				{ID: "b", Code: "y = input_0 + 1"},
			},
			Edges: []domain.EdgeSpec{{Source: "a", Target: "b"}},
		})
		if err != nil {
			log.Fatal(err)
		}

		for id, state := range eng.Snapshot().Data {
			log.Println(id, state.Outputs)
		}
	}
*/
package canvas
