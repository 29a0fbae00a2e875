// ABOUTME: Reminder rows owned by the notification planner.
// ABOUTME: Reminders are replaced per schedule inside a transaction.
package storage

import (
	"fmt"
	"sort"

	"github.com/harperreed/dose/internal/models"
)

// ListReminders returns every planned reminder ordered by fire time.
func (d *DB) ListReminders() ([]models.Reminder, error) {
	rows, err := d.db.Query(`SELECT id, schedule_id, peptide_name, amount, fire_at FROM reminders`)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()

	reminders := []models.Reminder{}
	for rows.Next() {
		var r models.Reminder
		var fireAt string
		if err := rows.Scan(&r.ID, &r.ScheduleID, &r.PeptideName, &r.Amount, &fireAt); err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		r.FireAt = parseTime(fireAt)
		reminders = append(reminders, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	SortByFireTime(reminders)
	return reminders, nil
}

// ReplaceReminders swaps the reminders of one schedule for the given set.
// An empty set just cancels the schedule's reminders.
func (d *DB) ReplaceReminders(scheduleID string, reminders []models.Reminder) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM reminders WHERE schedule_id = ?", scheduleID); err != nil {
		return fmt.Errorf("clear reminders: %w", err)
	}
	for _, r := range reminders {
		_, err := tx.Exec(
			`INSERT INTO reminders (id, schedule_id, peptide_name, amount, fire_at) VALUES (?, ?, ?, ?, ?)`,
			r.ID, scheduleID, r.PeptideName, r.Amount, formatTime(r.FireAt),
		)
		if err != nil {
			return fmt.Errorf("insert reminder: %w", err)
		}
	}
	return tx.Commit()
}

// DeleteReminders removes reminders by ID. Unknown IDs are ignored.
func (d *DB) DeleteReminders(ids []string) error {
	for _, id := range ids {
		if _, err := d.db.Exec("DELETE FROM reminders WHERE id = ?", id); err != nil {
			return fmt.Errorf("delete reminder %s: %w", id, err)
		}
	}
	return nil
}

// SortByFireTime orders reminders by when they fire, earliest first.
func SortByFireTime(reminders []models.Reminder) {
	sort.SliceStable(reminders, func(i, j int) bool {
		return reminders[i].FireAt.Before(reminders[j].FireAt)
	})
}
