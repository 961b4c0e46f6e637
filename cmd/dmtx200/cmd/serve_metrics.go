package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

// serveMetricsCmd represents the serve-metrics command.
var serveMetricsCmd = &cobra.Command{
	Use:   "serve-metrics",
	Short: "Serve Prometheus decode metrics over HTTP",
	Long: `Start an HTTP server exposing the dmtx_decode_total, dmtx_decode_seconds
and dmtx_retry_policy_total Prometheus metrics on /metrics.

Examples:
  dmtx200 serve-metrics
  dmtx200 serve-metrics --addr :9105`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		addr := cfg.Metrics.Addr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}
		if addr == "" {
			addr = ":9105"
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())

		httpServer := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			slog.Info("Starting metrics server", "addr", addr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("Metrics server error", "error", err)
				cancel()
			}
		}()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

		select {
		case sig := <-sigChan:
			slog.Info("Received shutdown signal", "signal", sig.String())
		case <-ctx.Done():
			slog.Info("Context cancelled, initiating shutdown")
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("Metrics server shutdown error", "error", err)
			return fmt.Errorf("metrics server shutdown: %w", err)
		}

		slog.Info("Metrics server shutdown completed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveMetricsCmd)
	serveMetricsCmd.Flags().String("addr", ":9105", "metrics server listen address")
}

// GetServeMetricsCommand returns the serve-metrics command for testing purposes.
func GetServeMetricsCommand() *cobra.Command {
	return serveMetricsCmd
}
