// ABOUTME: CLI commands for the classified calendar, today, and adherence stats.
// ABOUTME: Reads go through the tracker so orphaned schedules never show.
package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/dose/internal/engine"
	"github.com/harperreed/dose/internal/models"
	"github.com/spf13/cobra"
)

var (
	calendarStart  string
	calendarDays   int
	calendarPast   int
	calendarFuture int
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's doses",
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := trk.Today(context.Background())
		if err != nil {
			return fmt.Errorf("failed to load today: %w", err)
		}
		printDay(day)
		printCounts([]models.ClassifiedDay{day})
		return nil
	},
}

var calendarCmd = &cobra.Command{
	Use:     "calendar",
	Aliases: []string{"cal"},
	Short:   "Show the dose calendar",
	Long: `Show scheduled and logged doses per day.

By default the calendar covers the past week, today, and the next two
weeks. Days with nothing scheduled or logged are omitted.

MARKS:

  ✓  completed      ✗  missed
  ·  pending        +  logged without a schedule

EXAMPLES:

  dose calendar
  dose calendar --past 30 --future 0
  dose calendar --start 2025-06-01 --days 7`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start, days := engine.WindowAround(trk.Now(), calendarPast, calendarFuture)
		if calendarStart != "" {
			t, err := engine.ParseDayKey(calendarStart, trk.Location())
			if err != nil {
				return fmt.Errorf("invalid date: %s (use YYYY-MM-DD)", calendarStart)
			}
			start = t
		}
		if calendarDays != 0 {
			days = calendarDays
		}
		if days < 1 || days > engine.MaxWindowDays {
			return fmt.Errorf("days must be between 1 and %d", engine.MaxWindowDays)
		}

		calendar, err := trk.Calendar(context.Background(), start, days)
		if err != nil {
			return fmt.Errorf("failed to build calendar: %w", err)
		}
		if len(calendar) == 0 {
			fmt.Println("Nothing scheduled or logged in this window.")
			return nil
		}

		for i, d := range calendar {
			if i > 0 {
				fmt.Println()
			}
			printDay(d)
		}
		printCounts(calendar)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show adherence and streaks",
	Long: `Show adherence and streaks.

Adherence is the share of scheduled days in the window, today included,
with at least one matching dose. The current streak counts consecutive
days with any dose logged, starting today or yesterday.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := trk.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("failed to compute stats: %w", err)
		}

		bold := color.New(color.Bold)
		fmt.Printf("%s %d%%\n", bold.Sprint("Adherence:"), report.Percent)
		fmt.Printf("  %d of %d scheduled days over the last %d days\n",
			report.SatisfiedDays, report.ScheduledDays, report.WindowDays)
		fmt.Printf("%s %d days\n", bold.Sprint("Current streak:"), report.Streak.Current)
		fmt.Printf("%s %d days\n", bold.Sprint("Best streak:"), report.Streak.Best)
		return nil
	},
}

func printCounts(days []models.ClassifiedDay) {
	var completed, pending, missed int
	for _, d := range days {
		completed += d.Count(models.StatusCompleted)
		pending += d.Count(models.StatusPending)
		missed += d.Count(models.StatusMissed)
	}
	fmt.Println()
	fmt.Printf("%s completed  %s pending  %s missed\n",
		color.GreenString("%d", completed),
		color.New(color.Faint).Sprintf("%d", pending),
		color.RedString("%d", missed))
}

func init() {
	calendarCmd.Flags().StringVar(&calendarStart, "start", "", "first day YYYY-MM-DD")
	calendarCmd.Flags().IntVar(&calendarDays, "days", 0, "number of days to show (default past+future+1)")
	calendarCmd.Flags().IntVar(&calendarPast, "past", 7, "days before today")
	calendarCmd.Flags().IntVar(&calendarFuture, "future", 14, "days after today")

	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(statsCmd)
}
