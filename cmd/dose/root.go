// ABOUTME: Root Cobra command for dose CLI.
// ABOUTME: Opens config, storage, and the tracker in PersistentPre/PostRunE.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/harperreed/dose/internal/config"
	"github.com/harperreed/dose/internal/notify"
	"github.com/harperreed/dose/internal/storage"
	"github.com/harperreed/dose/internal/tracker"
	"github.com/spf13/cobra"
)

// noStorage marks commands that run without opening a backend.
const noStorage = "no-storage"

var (
	cfg     *config.Config
	repo    storage.Repository
	trk     *tracker.Tracker
	logger  *log.Logger
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "dose",
	Short: "Recurring dose schedules, calendar, and adherence",
	Long: `Dose tracks the compounds you take, when you plan to take them, and
what you actually logged.

QUICK START:

  $ dose compound add "BPC-157"                        # Track a compound
  $ dose schedule add "BPC-157" 250mcg --time 08:00    # Daily at 08:00
  $ dose schedule add "Tirzepatide" 10mg -f weekly --days sat
  $ dose log "BPC-157" 250mcg                          # Log a dose now
  $ dose today                                         # What is due today
  $ dose calendar                                      # Past week and next two
  $ dose stats                                         # Adherence and streaks

HOW DOSES MATCH:

  A logged dose completes a scheduled one on the same calendar day when
  the names overlap, ignoring case: "bpc-157" completes "BPC-157 250mcg".
  Schedules whose compound is no longer tracked are removed automatically.

SYNC:

  Set the backend to charm to sync across devices with Charm Cloud:
  $ dose config set backend charm
  $ dose sync link

MCP INTEGRATION:

  Run 'dose mcp' to start the Model Context Protocol server:

  {
    "mcpServers": {
      "dose": { "command": "dose", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  SQLite at ~/.local/share/dose/dose.db unless data_dir is configured.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = newLogger()
		if skipsStorage(cmd) {
			return nil
		}
		return openTracker()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStorage()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
}

func newLogger() *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{Prefix: "dose"})
	l.SetLevel(log.WarnLevel)
	if verbose {
		l.SetLevel(log.DebugLevel)
	}
	return l
}

func skipsStorage(cmd *cobra.Command) bool {
	if cmd.Name() == "help" || cmd.Name() == "version" {
		return true
	}
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[noStorage] == "true" {
			return true
		}
	}
	return false
}

func openTracker() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	policy, err := cfg.Staleness()
	if err != nil {
		return err
	}

	repo, err = cfg.OpenStorage()
	if err != nil {
		repo = nil
		return fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
	}
	logger.Debug("storage opened", "backend", cfg.GetBackend())

	planner := notify.NewPlanner(repo,
		notify.WithHorizon(cfg.GetReminderHorizon()),
		notify.WithLocation(loc),
		notify.WithLogger(logger),
	)
	trk = tracker.New(repo, planner,
		tracker.WithLogger(logger),
		tracker.WithLocation(loc),
		tracker.WithStaleness(policy),
		tracker.WithAdherenceWindow(cfg.GetAdherenceWindow()),
	)
	return nil
}

func closeStorage() error {
	trk = nil
	if repo == nil {
		return nil
	}
	err := repo.Close()
	repo = nil
	return err
}
