// ABOUTME: CLI commands for viewing and editing the dose config file.
// ABOUTME: Runs without opening storage so a broken backend can be fixed.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/dose/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
	Long: `Show or change settings stored in ~/.config/dose/config.json.

KEYS:

  backend                 sqlite (default) or charm
  data_dir                where dose.db lives
  timezone                IANA zone for calendar days (default local)
  adherence_window_days   days counted by 'dose stats' (default 7)
  reminder_horizon_days   days of reminders planned ahead
  reload_interval         minimum time between reloads, e.g. 30s
  api_addr                listen address for 'dose serve'

EXAMPLES:

  dose config show
  dose config set timezone America/Chicago
  dose config set backend charm`,
	Annotations: map[string]string{noStorage: "true"},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		timezone := c.Timezone
		if timezone == "" {
			timezone = "local"
		}
		reload := c.ReloadInterval
		if reload == "" {
			reload = "every view"
		}

		faint := color.New(color.Faint)
		fmt.Println(faint.Sprint(config.GetConfigPath()))
		rows := [][2]string{
			{"backend", c.GetBackend()},
			{"data_dir", c.GetDataDir()},
			{"timezone", timezone},
			{"adherence_window_days", fmt.Sprint(c.GetAdherenceWindow())},
			{"reminder_horizon_days", fmt.Sprint(c.GetReminderHorizon())},
			{"reload_interval", reload},
			{"api_addr", c.GetAPIAddr()},
		}
		for _, r := range rows {
			fmt.Printf("  %s %s\n", padRight(r[0], 22), r[1])
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:       "set <key> <value>",
	Short:     "Change a setting",
	Args:      cobra.ExactArgs(2),
	ValidArgs: config.Keys(),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := c.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := c.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		color.Green("✓ %s = %s", args[0], args[1])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
