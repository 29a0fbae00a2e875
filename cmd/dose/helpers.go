// ABOUTME: Shared parsing and formatting helpers for CLI commands.
// ABOUTME: Timestamps, weekday lists, padding, and classified-day output.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/dose/internal/models"
	"github.com/harperreed/dose/internal/storage"
)

// parseTime accepts RFC3339, "YYYY-MM-DD HH:MM", "YYYY-MM-DDTHH:MM" and
// "YYYY-MM-DD". Offset-less forms are read in loc.
func parseTime(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}

var dayAliases = map[string]int{
	"sun": 0, "sunday": 0,
	"mon": 1, "monday": 1,
	"tue": 2, "tues": 2, "tuesday": 2,
	"wed": 3, "wednesday": 3,
	"thu": 4, "thur": 4, "thurs": 4, "thursday": 4,
	"fri": 5, "friday": 5,
	"sat": 6, "saturday": 6,
}

// parseDays reads a comma-separated weekday list: names or 0-6, Sunday=0.
func parseDays(s string) ([]int, error) {
	var days []int
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if d, ok := dayAliases[part]; ok {
			days = append(days, d)
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 6 {
			return nil, fmt.Errorf("invalid day %q (use sun-sat or 0-6)", part)
		}
		days = append(days, n)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("no days given")
	}
	return models.NormalizeDays(days), nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func describeDays(s models.Schedule) string {
	if s.Frequency == models.FrequencyDaily {
		return "daily"
	}
	return fmt.Sprintf("%s %s", s.Frequency, strings.Join(storage.DayNames(s.DaysOfWeek), ","))
}

func printSchedule(s models.Schedule) {
	faint := color.New(color.Faint)
	state := ""
	if !s.Enabled {
		state = faint.Sprint(" (disabled)")
	}
	fmt.Printf("%s %s %s %s %s%s\n",
		faint.Sprint(shortID(s.ID)),
		s.Time,
		padRight(describeDays(s), 20),
		padRight(s.PeptideName, 24),
		s.Amount,
		state)
}

// printDay renders one classified day, one line per item.
func printDay(d models.ClassifiedDay) {
	fmt.Println(color.New(color.Bold).Sprintf("%s %s", d.Date.Format("Mon"), d.Day))
	if len(d.Occurrences) == 0 {
		fmt.Println(color.New(color.Faint).Sprint("  nothing scheduled"))
		return
	}
	for _, o := range d.Occurrences {
		var mark string
		switch {
		case o.AdHoc:
			mark = color.CyanString("+")
		case o.Status == models.StatusCompleted:
			mark = color.GreenString("✓")
		case o.Status == models.StatusMissed:
			mark = color.RedString("✗")
		default:
			mark = color.New(color.Faint).Sprint("·")
		}
		label := string(o.Status)
		if o.AdHoc {
			label = "unscheduled"
		}
		fmt.Printf("  %s %s %s %s %s\n",
			mark, o.Time,
			padRight(truncate(o.PeptideName, 24), 24),
			padRight(o.Amount, 8),
			color.New(color.Faint).Sprint(label))
	}
}

// confirm asks a yes/no question on stdin.
func confirm(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
