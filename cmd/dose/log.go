// ABOUTME: CLI commands for logging doses and reading the dose history.
// ABOUTME: The history log is append-only apart from an explicit clear.
package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/dose/internal/models"
	"github.com/spf13/cobra"
)

var (
	logAt        string
	logCategory  string
	historyLimit int
	historyYes   bool
)

var logCmd = &cobra.Command{
	Use:   "log <compound> <amount>",
	Short: "Log a dose",
	Long: `Log a dose you took. The time defaults to now.

A logged dose completes any scheduled dose on the same calendar day whose
name overlaps, ignoring case. Doses that match no schedule still show on
the calendar as unscheduled.

EXAMPLES:

  dose log "BPC-157" 250mcg
  dose log "Tirzepatide" 10mg --at "2025-06-01 20:15"
  dose log "Creatine" 5g --category supplement`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e := models.NewDoseEntry(args[0], args[1]).WithDate(trk.Now())
		if logAt != "" {
			t, err := parseTime(logAt, trk.Location())
			if err != nil {
				return err
			}
			e.WithDate(t)
		}
		if logCategory != "" {
			e.WithCategory(logCategory)
		}

		if err := trk.LogDose(context.Background(), e); err != nil {
			return fmt.Errorf("failed to log dose: %w", err)
		}

		color.Green("✓ Logged %s %s", e.PeptideName, e.Amount)
		fmt.Printf("  %s %s\n",
			color.New(color.Faint).Sprint(e.ID.String()[:8]),
			e.Date.In(trk.Location()).Format("2006-01-02 15:04"))
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"hist"},
	Short:   "Show logged doses, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := trk.History(context.Background(), historyLimit)
		if err != nil {
			return fmt.Errorf("failed to read history: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No doses logged.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, e := range entries {
			category := ""
			if e.Category != "" {
				category = faint.Sprintf(" (%s)", e.Category)
			}
			fmt.Printf("%s %s %s %s%s\n",
				faint.Sprint(e.ID.String()[:8]),
				e.Date.In(trk.Location()).Format("2006-01-02 15:04"),
				padRight(truncate(e.PeptideName, 24), 24),
				e.Amount,
				category)
		}
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the whole dose history",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !historyYes && !confirm("Delete ALL logged doses? [y/N] ") {
			fmt.Println("Canceled.")
			return nil
		}
		if err := repo.ClearDoseHistory(); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		color.Yellow("✗ Dose history cleared")
		return nil
	},
}

func init() {
	logCmd.Flags().StringVar(&logAt, "at", "", "when the dose was taken (default now)")
	logCmd.Flags().StringVarP(&logCategory, "category", "c", "", "dose category")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of entries to show (0 for all)")
	historyClearCmd.Flags().BoolVarP(&historyYes, "yes", "y", false, "skip confirmation")

	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(historyCmd)
}
