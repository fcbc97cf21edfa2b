package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	canvas "github.com/Siridelta/PerSpatia-Ad-Destra-sub000"
	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [graph-file]",
	Short: "Export the dependency graph visualization",
	Long:  `Reads a graph file and outputs a Mermaid diagram (graph TD) representing the node wiring.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		snapshot, err := canvas.LoadGraph(args[0])
		if err != nil {
			fmt.Printf("Error loading graph: %v\n", err)
			os.Exit(1)
		}

		evaluate, _ := cmd.Flags().GetBool("evaluate")

		var overlay *graph.GraphOverlay
		if evaluate {
			engine, err := buildEngine(cmd)
			if err != nil {
				fmt.Printf("Error initializing canvas: %v\n", err)
				os.Exit(1)
			}
			if err := engine.SyncGraph(cmd.Context(), snapshot); err != nil {
				fmt.Printf("Error evaluating graph: %v\n", err)
				os.Exit(1)
			}
			overlay = graph.OverlayFromSnapshot(engine.Snapshot())
		}

		fmt.Print(graph.GenerateMermaid(snapshot, overlay))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("evaluate", false, "Evaluate the graph first and highlight failing nodes")
}
