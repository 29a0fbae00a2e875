// ABOUTME: CLI command for the local HTTP JSON API.
// ABOUTME: Serves calendar, today, stats, schedules, and dose logging until interrupted.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/harperreed/dose/internal/api"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API",
	Long: `Serve a small JSON API for widgets and scripts on this machine.

ENDPOINTS:

  GET  /api/v1/calendar?start=YYYY-MM-DD&days=N
  GET  /api/v1/today
  GET  /api/v1/stats
  GET  /api/v1/schedules
  POST /api/v1/doses   {"peptideName":"BPC-157","amount":"250mcg"}

The address defaults to api_addr from the config (127.0.0.1:8765).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.GetAPIAddr()
		if serveAddr != "" {
			addr = serveAddr
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		color.Green("✓ Serving on http://%s", addr)
		return api.NewServer(trk, logger).ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}
