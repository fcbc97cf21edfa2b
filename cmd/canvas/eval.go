package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	canvas "github.com/Siridelta/PerSpatia-Ad-Destra-sub000"
	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/internal/presentation/tui"
)

// evalCmd represents the eval command
var evalCmd = &cobra.Command{
	Use:   "eval [graph-file]",
	Short: "Evaluate a graph file once and print the results",
	Long:  `Loads a graph snapshot from a YAML or JSON file, evaluates every node in dependency order and renders a report of outputs, controls and errors.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		plain, _ := cmd.Flags().GetBool("plain")

		engine, err := buildEngine(cmd)
		if err != nil {
			fmt.Printf("Error initializing canvas: %v\n", err)
			os.Exit(1)
		}

		snapshot, err := canvas.LoadGraph(args[0])
		if err != nil {
			fmt.Printf("Error loading graph: %v\n", err)
			os.Exit(1)
		}

		if err := engine.SyncGraph(cmd.Context(), snapshot); err != nil {
			fmt.Printf("Error evaluating graph: %v\n", err)
			os.Exit(1)
		}

		report := tui.EvalReport(engine.Snapshot())
		if plain {
			fmt.Print(report)
			return
		}

		tui.PrintBanner(canvas.Version)
		render := tui.NewRenderer()
		out, err := render(report)
		if err != nil {
			// Fall back to raw markdown if the terminal renderer chokes.
			fmt.Print(report)
			return
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().Bool("plain", false, "Print raw markdown without terminal styling")
}
