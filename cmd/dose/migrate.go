// ABOUTME: CLI command for copying dose data between storage backends.
// ABOUTME: Moves compounds, schedules, and the dose log from sqlite to charm or back.
package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/harperreed/dose/internal/config"
	"github.com/harperreed/dose/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateFrom   string
	migrateTo     string
	migrateDryRun bool
	migrateForce  bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy data between storage backends",
	Long: `Copy dose data from one storage backend to another.

Compounds, schedules, and the dose log are copied. Reminders are rebuilt
on the destination the next time schedules change.

IMPORTANT:

  - The destination must be empty unless --force is given
  - Run with --dry-run first to see what would be migrated
  - The configured backend is not changed; use 'dose config set backend'

USAGE:

  dose migrate --from sqlite --to charm --dry-run
  dose migrate --from sqlite --to charm
  dose config set backend charm`,
	Annotations: map[string]string{noStorage: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateFrom == migrateTo {
			return fmt.Errorf("source and destination are both %s", migrateFrom)
		}

		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		src, err := c.OpenBackend(migrateFrom)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", migrateFrom, err)
		}
		defer src.Close()

		if migrateDryRun {
			color.Yellow("Dry run mode - no changes will be made")
			fmt.Println()
			data, err := storage.CollectData(src)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", migrateFrom, err)
			}
			fmt.Printf("Would copy from %s to %s:\n", migrateFrom, migrateTo)
			fmt.Printf("  Compounds: %d\n", len(data.Compounds))
			fmt.Printf("  Schedules: %d\n", len(data.Schedules))
			fmt.Printf("  Doses:     %d\n", len(data.Doses))
			return nil
		}

		if migrateTo == "sqlite" {
			existing, err := storage.IsDirNonEmpty(c.GetDataDir())
			if err != nil {
				return err
			}
			if !existing {
				fmt.Printf("Creating %s\n", filepath.Join(c.GetDataDir(), "dose.db"))
			}
		}

		dst, err := c.OpenBackend(migrateTo)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", migrateTo, err)
		}
		defer dst.Close()

		if !migrateForce {
			full, err := storage.HasData(dst)
			if err != nil {
				return fmt.Errorf("failed to inspect %s: %w", migrateTo, err)
			}
			if full {
				return fmt.Errorf("%s already holds data; use --force to merge into it", migrateTo)
			}
		}

		summary, err := storage.MigrateData(src, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		color.Green("✓ Migrated %s to %s", migrateFrom, migrateTo)
		fmt.Printf("  Compounds: %d\n", summary.Compounds)
		fmt.Printf("  Schedules: %d\n", summary.Schedules)
		fmt.Printf("  Doses:     %d\n", summary.Doses)
		if migrateTo == "sqlite" {
			fmt.Printf("\nData stored at %s\n", filepath.Join(c.GetDataDir(), "dose.db"))
		}
		if c.GetBackend() != migrateTo {
			fmt.Printf("Run 'dose config set backend %s' to use it.\n", migrateTo)
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", "sqlite", "source backend (sqlite or charm)")
	migrateCmd.Flags().StringVar(&migrateTo, "to", "charm", "destination backend (sqlite or charm)")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "copy even if the destination holds data")
	rootCmd.AddCommand(migrateCmd)
}
