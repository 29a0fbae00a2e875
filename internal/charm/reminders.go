// ABOUTME: Reminder records owned by the notification planner.
// ABOUTME: Stored under reminder:<id> keys alongside the schedule they belong to.
package charm

import (
	"fmt"

	"github.com/harperreed/dose/internal/models"
	"github.com/harperreed/dose/internal/storage"
)

// ListReminders returns every planned reminder ordered by fire time.
func (c *Client) ListReminders() ([]models.Reminder, error) {
	allData, err := c.listByPrefix(ReminderPrefix)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}

	reminders := []models.Reminder{}
	for _, data := range allData {
		r, err := unmarshalJSON[models.Reminder](data)
		if err != nil {
			continue // Skip invalid entries
		}
		reminders = append(reminders, *r)
	}

	storage.SortByFireTime(reminders)
	return reminders, nil
}

// ReplaceReminders swaps the reminders of one schedule for the given set.
func (c *Client) ReplaceReminders(scheduleID string, reminders []models.Reminder) error {
	current, err := c.ListReminders()
	if err != nil {
		return err
	}

	var stale []string
	for _, r := range current {
		if r.ScheduleID == scheduleID {
			stale = append(stale, ReminderPrefix+r.ID)
		}
	}
	if len(stale) > 0 {
		if err := c.delete(stale...); err != nil {
			return fmt.Errorf("clear reminders: %w", err)
		}
	}
	if len(reminders) == 0 {
		return nil
	}

	entries := make(map[string][]byte, len(reminders))
	for _, r := range reminders {
		r.ScheduleID = scheduleID
		data, err := marshalJSON(r)
		if err != nil {
			return fmt.Errorf("marshal reminder: %w", err)
		}
		entries[ReminderPrefix+r.ID] = data
	}
	return c.set(entries)
}

// DeleteReminders removes reminders by ID. Unknown IDs are ignored.
func (c *Client) DeleteReminders(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, ReminderPrefix+id)
	}
	return c.delete(keys...)
}
