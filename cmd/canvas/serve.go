package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	canvas "github.com/Siridelta/PerSpatia-Ad-Destra-sub000"
	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/internal/adapters/httpapi"
	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  `Starts the canvas engine in server mode, exposing graph sync and evaluation over a JSON API, plus Prometheus metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		graphPath, _ := cmd.Flags().GetString("graph")

		registry := prometheus.NewRegistry()
		metrics := observability.NewMetrics(registry)

		engine, err := buildEngine(cmd, canvas.WithMetrics(metrics))
		if err != nil {
			fmt.Printf("Error initializing canvas: %v\n", err)
			os.Exit(1)
		}

		// Optionally seed the engine with a graph file before serving.
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

		handler := httpapi.NewHandler(engine, httpapi.WithMetricsGatherer(registry))

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Canvas Server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Canvas Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().StringP("graph", "g", "", "Graph file to load on startup (YAML or JSON)")
}
