// ABOUTME: Data migration between dose storage backends.
// ABOUTME: Copies compounds, schedules, and the dose log from source to destination.

package storage

import (
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Compounds int
	Schedules int
	Doses     int
}

// MigrateData copies all data from src to dst storage. Reminders are not
// copied; the planner rebuilds them on the destination's first sync.
// The destination should be empty before calling this function.
func MigrateData(src, dst Repository) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	compounds, err := src.ListCompounds()
	if err != nil {
		return nil, fmt.Errorf("list source compounds: %w", err)
	}
	for i := range compounds {
		if err := dst.SaveCompound(&compounds[i]); err != nil {
			return nil, fmt.Errorf("save compound %s: %w", compounds[i].ID, err)
		}
		summary.Compounds++
	}

	schedules, err := src.GetSchedules()
	if err != nil {
		return nil, fmt.Errorf("list source schedules: %w", err)
	}
	for i := range schedules {
		// Reminder IDs belong to the source backend's planner.
		schedules[i].NotificationIDs = nil
		if _, err := dst.SaveSchedule(&schedules[i]); err != nil {
			return nil, fmt.Errorf("save schedule %s: %w", schedules[i].ID, err)
		}
		summary.Schedules++
	}

	doses, err := src.GetDoseHistory()
	if err != nil {
		return nil, fmt.Errorf("list source doses: %w", err)
	}
	// Oldest first so the destination log reads in the order it was written.
	for i := len(doses) - 1; i >= 0; i-- {
		if err := dst.SaveDose(&doses[i]); err != nil {
			return nil, fmt.Errorf("save dose %s: %w", doses[i].ID, err)
		}
		summary.Doses++
	}

	return summary, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}

// HasData reports whether r holds any compounds, schedules, or doses.
func HasData(r Repository) (bool, error) {
	compounds, err := r.ListCompounds()
	if err != nil {
		return false, err
	}
	schedules, err := r.GetSchedules()
	if err != nil {
		return false, err
	}
	doses, err := r.GetDoseHistory()
	if err != nil {
		return false, err
	}
	return len(compounds)+len(schedules)+len(doses) > 0, nil
}
