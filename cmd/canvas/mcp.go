package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	canvas "github.com/Siridelta/PerSpatia-Ad-Destra-sub000"
	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the canvas engine as an MCP Server over stdio.
This allows AI agents to sync graphs, evaluate nodes and tune controls as tools.`,
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := buildEngine(cmd)
		if err != nil {
			fmt.Printf("Error initializing canvas: %v\n", err)
			os.Exit(1)
		}

		graphPath, _ := cmd.Flags().GetString("graph")
		if graphPath != "" {
			snapshot, err := canvas.LoadGraph(graphPath)
			if err != nil {
				fmt.Printf("Error loading graph: %v\n", err)
				os.Exit(1)
			}
			if err := engine.SyncGraph(cmd.Context(), snapshot); err != nil {
				fmt.Printf("Error syncing graph: %v\n", err)
				os.Exit(1)
			}
		}

		srv := mcp.NewServer(engine, canvas.Version)

		// Ensure logs don't corrupt JSON-RPC on Stdout
		log.SetOutput(os.Stderr)
		slog.Info("Starting Canvas MCP Server (Stdio)...")
		if err := srv.ServeStdio(); err != nil {
			slog.Error("MCP Server execution failed", "err", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringP("graph", "g", "", "Graph file to load on startup (YAML or JSON)")
}
