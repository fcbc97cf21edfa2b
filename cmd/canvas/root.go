package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	canvas "github.com/Siridelta/PerSpatia-Ad-Destra-sub000"
	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/internal/logging"
	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/adapters/process"
	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/adapters/redis"
)

var rootCmd = &cobra.Command{
	Use:   "canvas",
	Short: "Canvas is an incremental evaluation engine for node-based programs",
	Long:  `Canvas evaluates directed graphs of code nodes, re-running only what an edit touched and keeping user-tuned control values across re-executions.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("interpreter", "", "Path to the interpreter config file (YAML or JSON)")
	rootCmd.PersistentFlags().String("redis", "", "Redis address for control-value persistence (e.g. localhost:6379)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

// buildEngine wires an Engine from the persistent flags, plus any extra
// options the caller needs (metrics, custom logger).
func buildEngine(cmd *cobra.Command, extra ...canvas.Option) (*canvas.Engine, error) {
	configPath, _ := cmd.Flags().GetString("interpreter")
	if configPath == "" {
		return nil, fmt.Errorf("--interpreter is required (path to interpreter config)")
	}

	cfg, err := process.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load interpreter config: %w", err)
	}
	runner := process.NewRunnerFromConfig(cfg)

	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	opts := []canvas.Option{canvas.WithLogger(logging.New(level))}

	if addr, _ := cmd.Flags().GetString("redis"); addr != "" {
		opts = append(opts, canvas.WithControlsStore(redis.New(addr, "", 0)))
	}
	opts = append(opts, extra...)

	return canvas.New(runner, opts...)
}
