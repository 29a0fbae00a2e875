// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for Claude integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/dose/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants like Claude to read your dose calendar and log
doses through a standardized protocol. The server communicates via stdin/stdout.

CLAUDE DESKTOP CONFIGURATION:

  Add this to your Claude Desktop config (claude_desktop_config.json):

  {
    "mcpServers": {
      "dose": {
        "command": "dose",
        "args": ["mcp"]
      }
    }
  }

  On macOS, the config is at:
    ~/Library/Application Support/Claude/claude_desktop_config.json

AVAILABLE TOOLS:

  add_compound      Track a compound
  list_compounds    List tracked compounds
  add_schedule      Create a recurring schedule
  list_schedules    List schedules
  delete_schedule   Delete a schedule by ID
  log_dose          Log a dose
  get_calendar      Classified calendar for a window
  get_stats         Adherence and streaks

AVAILABLE RESOURCES:

  dose://today      Today's classified doses
  dose://summary    Adherence, compounds, and schedules`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(trk)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
