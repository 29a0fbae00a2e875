// ABOUTME: CLI commands for the tracked compound stack.
// ABOUTME: Supports add, list, delete, pause, and resume.
package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/dose/internal/models"
)

var compoundCategory string

var compoundCmd = &cobra.Command{
	Use:     "compound",
	Aliases: []string{"c"},
	Short:   "Manage tracked compounds",
	Long: `Manage the compounds in your active stack.

Schedules only survive while a tracked compound backs them. Deleting a
compound removes its schedules and their reminders on the same command.

EXAMPLES:

  dose compound add "BPC-157" --category healing
  dose compound list
  dose compound pause "Tirzepatide"      # Keep schedules, stop reminders
  dose compound resume "Tirzepatide"
  dose compound delete abc12345`,
}

var compoundAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Track a compound",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := models.NewCompound(args[0])
		if compoundCategory != "" {
			c.WithCategory(compoundCategory)
		}

		if err := trk.AddCompound(context.Background(), c); err != nil {
			return fmt.Errorf("failed to add compound: %w", err)
		}

		color.Green("✓ Tracking %s", c.Name)
		fmt.Printf("  %s\n", color.New(color.Faint).Sprint(c.ID.String()[:8]))
		return nil
	},
}

var compoundListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tracked compounds",
	RunE: func(cmd *cobra.Command, args []string) error {
		compounds, err := trk.Compounds(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list compounds: %w", err)
		}

		if len(compounds) == 0 {
			fmt.Println("No compounds tracked.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, c := range compounds {
			extra := ""
			if c.Category != "" {
				extra = faint.Sprintf(" (%s)", c.Category)
			}
			if c.Paused {
				extra += color.YellowString(" paused")
			}
			fmt.Printf("%s %s%s\n", faint.Sprint(c.ID.String()[:8]), c.Name, extra)
		}
		return nil
	},
}

var compoundDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Stop tracking a compound",
	Long: `Stop tracking a compound by its ID or ID prefix.

Schedules that no tracked compound backs any more are removed along with
their reminders. The dose log is never touched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := repo.GetCompound(args[0])
		if err != nil {
			return fmt.Errorf("compound not found: %w", err)
		}

		snap, err := trk.DeleteCompound(context.Background(), c.ID.String())
		if err != nil {
			return fmt.Errorf("failed to delete compound: %w", err)
		}

		color.Yellow("✗ Deleted %s", c.Name)
		for _, s := range snap.Removed {
			fmt.Printf("  %s removed schedule %s\n",
				color.New(color.Faint).Sprint(shortID(s.ID)), s.PeptideName)
		}
		return nil
	},
}

var compoundPauseCmd = &cobra.Command{
	Use:   "pause <name>",
	Short: "Pause reminders for a compound",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := trk.PauseCompound(context.Background(), args[0]); err != nil {
			return fmt.Errorf("failed to pause: %w", err)
		}
		color.Yellow("⏸ Paused %s", args[0])
		return nil
	},
}

var compoundResumeCmd = &cobra.Command{
	Use:   "resume <name>",
	Short: "Resume reminders for a compound",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := trk.ResumeCompound(context.Background(), args[0]); err != nil {
			return fmt.Errorf("failed to resume: %w", err)
		}
		color.Green("✓ Resumed %s", args[0])
		return nil
	},
}

func init() {
	compoundAddCmd.Flags().StringVarP(&compoundCategory, "category", "c", "", "compound category")

	compoundCmd.AddCommand(compoundAddCmd)
	compoundCmd.AddCommand(compoundListCmd)
	compoundCmd.AddCommand(compoundDeleteCmd)
	compoundCmd.AddCommand(compoundPauseCmd)
	compoundCmd.AddCommand(compoundResumeCmd)
	rootCmd.AddCommand(compoundCmd)
}
