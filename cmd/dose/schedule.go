// ABOUTME: CLI commands for recurring dose schedules.
// ABOUTME: Supports add, list, show, due, enable, disable, delete, and clear.
package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/dose/internal/engine"
	"github.com/harperreed/dose/internal/models"
	"github.com/spf13/cobra"
)

var (
	scheduleFrequency string
	scheduleDays      string
	scheduleTime      string
	scheduleDisabled  bool
	scheduleByName    string
	scheduleDueDate   string
	scheduleClearYes  bool
)

var scheduleCmd = &cobra.Command{
	Use:     "schedule",
	Aliases: []string{"sched"},
	Short:   "Manage dose schedules",
	Long: `Manage recurring dose schedules.

FREQUENCY:

  daily      Every day (days are ignored)
  weekly     On the --days given
  biweekly   On the --days given; recorded for reference only

DAYS:

  Comma-separated names or numbers with Sunday=0:
    --days mon,wed,fri
    --days 1,3,5

EXAMPLES:

  dose schedule add "BPC-157" 250mcg --time 08:00
  dose schedule add "Tirzepatide" 10mg -f weekly --days sat --time 20:00
  dose schedule list
  dose schedule disable abc12345
  dose schedule delete --name "BPC-157"`,
}

var scheduleAddCmd = &cobra.Command{
	Use:   "add <compound> <amount>",
	Short: "Create a schedule",
	Long: `Create a schedule for a tracked compound.

The compound must already be tracked ('dose compound add'); a schedule no
compound backs would be removed on the next load.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := models.NewSchedule(args[0], args[1]).
			WithFrequency(models.Frequency(scheduleFrequency)).
			WithTime(scheduleTime).
			WithEnabled(!scheduleDisabled)

		if scheduleDays != "" {
			days, err := parseDays(scheduleDays)
			if err != nil {
				return err
			}
			s.WithDays(days...)
		} else if s.Frequency != models.FrequencyDaily {
			s.DaysOfWeek = nil
		}

		if err := trk.CreateSchedule(context.Background(), s); err != nil {
			return fmt.Errorf("failed to create schedule: %w", err)
		}

		color.Green("✓ Scheduled %s", s.PeptideName)
		printSchedule(*s)
		return nil
	},
}

var scheduleListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List schedules",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := trk.Load(context.Background())
		if err != nil {
			return fmt.Errorf("failed to load schedules: %w", err)
		}
		for _, s := range snap.Removed {
			color.Yellow("✗ Removed orphaned schedule %s (%s)", shortID(s.ID), s.PeptideName)
		}

		if len(snap.Schedules) == 0 {
			fmt.Println("No schedules found.")
			return nil
		}
		for _, s := range snap.Schedules {
			printSchedule(s)
		}
		return nil
	},
}

var scheduleShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a schedule and its next occurrences",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := repo.GetSchedule(args[0])
		if err != nil {
			return fmt.Errorf("schedule not found: %w", err)
		}

		faint := color.New(color.Faint)
		fmt.Printf("%s %s\n", color.New(color.Bold).Sprint(s.PeptideName), faint.Sprint(s.ID))
		fmt.Printf("  Amount:    %s\n", s.Amount)
		fmt.Printf("  Frequency: %s\n", describeDays(*s))
		fmt.Printf("  Time:      %s\n", s.Time)
		fmt.Printf("  Enabled:   %t\n", s.Enabled)
		if len(s.NotificationIDs) > 0 {
			fmt.Printf("  Reminders: %d planned\n", len(s.NotificationIDs))
		}

		next := engine.Expand([]models.Schedule{*s}, trk.Now(), 14)
		if len(next) == 0 {
			return nil
		}
		fmt.Println()
		fmt.Println("Next occurrences:")
		for i, o := range next {
			if i == 5 {
				break
			}
			fmt.Printf("  %s %s %s\n", o.Date.Format("Mon"), o.Day, o.Time)
		}
		return nil
	},
}

var scheduleDueCmd = &cobra.Command{
	Use:   "due",
	Short: "List schedules firing on a date",
	RunE: func(cmd *cobra.Command, args []string) error {
		day := trk.Now()
		if scheduleDueDate != "" {
			t, err := engine.ParseDayKey(scheduleDueDate, trk.Location())
			if err != nil {
				return fmt.Errorf("invalid date: %s (use YYYY-MM-DD)", scheduleDueDate)
			}
			day = t
		}

		due, err := repo.GetScheduledDosesForDate(day)
		if err != nil {
			return fmt.Errorf("failed to load schedules: %w", err)
		}
		if len(due) == 0 {
			fmt.Printf("Nothing scheduled on %s.\n", engine.LocalDayKey(day, nil))
			return nil
		}
		for _, d := range due {
			fmt.Printf("%s %s %s\n",
				d.ScheduledTime.Format("15:04"),
				padRight(d.Schedule.PeptideName, 24),
				d.Schedule.Amount)
		}
		return nil
	},
}

func toggleCmd(use, short string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := trk.ToggleSchedule(context.Background(), args[0], enabled)
			if err != nil {
				return fmt.Errorf("failed to %s schedule: %w", use, err)
			}
			if enabled {
				color.Green("✓ Enabled %s", s.PeptideName)
			} else {
				color.Yellow("⏸ Disabled %s", s.PeptideName)
			}
			printSchedule(*s)
			return nil
		},
	}
}

var scheduleDeleteCmd = &cobra.Command{
	Use:     "delete [id]",
	Aliases: []string{"rm"},
	Short:   "Delete a schedule",
	Long: `Delete a schedule by ID or ID prefix, or every schedule matching a
compound name with --name. Reminders for deleted schedules are cancelled.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		if scheduleByName != "" {
			removed, err := trk.DeleteSchedulesFor(ctx, scheduleByName)
			if err != nil {
				return fmt.Errorf("failed to delete schedules: %w", err)
			}
			if len(removed) == 0 {
				fmt.Printf("No schedules match %s.\n", scheduleByName)
				return nil
			}
			for _, s := range removed {
				color.Yellow("✗ Deleted %s", s.PeptideName)
			}
			return nil
		}

		if len(args) != 1 {
			return errors.New("give a schedule id or --name")
		}
		s, err := trk.DeleteSchedule(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to delete schedule: %w", err)
		}
		color.Yellow("✗ Deleted %s", s.PeptideName)
		fmt.Printf("  %s\n", color.New(color.Faint).Sprint(shortID(s.ID)))
		return nil
	},
}

var scheduleClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !scheduleClearYes && !confirm("Delete ALL schedules? [y/N] ") {
			fmt.Println("Canceled.")
			return nil
		}

		n, err := trk.ClearSchedules(context.Background())
		if err != nil {
			return fmt.Errorf("failed to clear schedules: %w", err)
		}
		color.Yellow("✗ Deleted %d schedules", n)
		return nil
	},
}

func init() {
	scheduleAddCmd.Flags().StringVarP(&scheduleFrequency, "frequency", "f", string(models.FrequencyDaily), "daily, weekly, or biweekly")
	scheduleAddCmd.Flags().StringVarP(&scheduleDays, "days", "d", "", "weekdays, e.g. mon,wed,fri")
	scheduleAddCmd.Flags().StringVarP(&scheduleTime, "time", "t", "09:00", "time of day HH:MM")
	scheduleAddCmd.Flags().BoolVar(&scheduleDisabled, "disabled", false, "create the schedule disabled")
	scheduleDeleteCmd.Flags().StringVar(&scheduleByName, "name", "", "delete every schedule matching this compound name")
	scheduleDueCmd.Flags().StringVar(&scheduleDueDate, "date", "", "date YYYY-MM-DD (default today)")
	scheduleClearCmd.Flags().BoolVarP(&scheduleClearYes, "yes", "y", false, "skip confirmation")

	scheduleCmd.AddCommand(scheduleAddCmd)
	scheduleCmd.AddCommand(scheduleListCmd)
	scheduleCmd.AddCommand(scheduleShowCmd)
	scheduleCmd.AddCommand(scheduleDueCmd)
	scheduleCmd.AddCommand(toggleCmd("enable", "Enable a schedule", true))
	scheduleCmd.AddCommand(toggleCmd("disable", "Disable a schedule", false))
	scheduleCmd.AddCommand(scheduleDeleteCmd)
	scheduleCmd.AddCommand(scheduleClearCmd)
	rootCmd.AddCommand(scheduleCmd)
}
