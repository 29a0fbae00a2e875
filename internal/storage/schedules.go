// ABOUTME: Schedule CRUD operations for SQLite storage.
// ABOUTME: Day lists are stored as JSON and decoded leniently on read.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/dose/internal/engine"
	"github.com/harperreed/dose/internal/models"
)

const scheduleColumns = `id, peptide_name, compound_id, amount, frequency, days_of_week, time, enabled, notification_ids, created_at`

// GetSchedules returns every stored schedule in creation order.
func (d *DB) GetSchedules() ([]models.Schedule, error) {
	rows, err := d.db.Query(`SELECT ` + scheduleColumns + ` FROM schedules ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	schedules := []models.Schedule{}
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, *s)
	}
	return schedules, rows.Err()
}

// GetSchedule retrieves a schedule by ID or ID prefix.
func (d *DB) GetSchedule(idOrPrefix string) (*models.Schedule, error) {
	id, err := d.resolveID("schedules", idOrPrefix)
	if err != nil {
		return nil, err
	}
	row := d.db.QueryRow(`SELECT `+scheduleColumns+` FROM schedules WHERE id = ?`, id)
	s, err := scanSchedule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	}
	return s, err
}

// SaveSchedule inserts s, assigning an ID when it has none, or replaces the
// stored schedule with the same ID. It returns the full schedule list.
func (d *DB) SaveSchedule(s *models.Schedule) ([]models.Schedule, error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}

	days, err := json.Marshal(models.NormalizeDays(s.DaysOfWeek))
	if err != nil {
		return nil, fmt.Errorf("marshal days: %w", err)
	}
	notificationIDs := s.NotificationIDs
	if notificationIDs == nil {
		notificationIDs = []string{}
	}
	ids, err := json.Marshal(notificationIDs)
	if err != nil {
		return nil, fmt.Errorf("marshal notification ids: %w", err)
	}

	query := `
		INSERT INTO schedules (` + scheduleColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			peptide_name = excluded.peptide_name,
			compound_id = excluded.compound_id,
			amount = excluded.amount,
			frequency = excluded.frequency,
			days_of_week = excluded.days_of_week,
			time = excluded.time,
			enabled = excluded.enabled,
			notification_ids = excluded.notification_ids
	`
	_, err = d.db.Exec(query,
		s.ID,
		s.PeptideName,
		nullString(s.CompoundID),
		s.Amount,
		string(s.Frequency),
		string(days),
		s.Time,
		s.Enabled,
		string(ids),
		formatTime(s.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("save schedule: %w", err)
	}
	return d.GetSchedules()
}

// DeleteSchedule removes a schedule by ID or prefix.
func (d *DB) DeleteSchedule(idOrPrefix string) error {
	id, err := d.resolveID("schedules", idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	if _, err := d.db.Exec("DELETE FROM schedules WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return nil
}

// DeleteSchedulesByPeptide removes every schedule whose name matches name
// under the fuzzy name rule.
func (d *DB) DeleteSchedulesByPeptide(name string) error {
	schedules, err := d.GetSchedules()
	if err != nil {
		return err
	}
	for _, s := range schedules {
		if !engine.NameMatches(s.PeptideName, name) {
			continue
		}
		if _, err := d.db.Exec("DELETE FROM schedules WHERE id = ?", s.ID); err != nil {
			return fmt.Errorf("delete schedule %s: %w", s.ID, err)
		}
	}
	return nil
}

// ClearAllSchedules removes every schedule.
func (d *DB) ClearAllSchedules() error {
	if _, err := d.db.Exec("DELETE FROM schedules"); err != nil {
		return fmt.Errorf("clear schedules: %w", err)
	}
	return nil
}

// GetScheduledDosesForDate returns the enabled schedules firing on day's
// calendar day, each with its firing instant on that day.
func (d *DB) GetScheduledDosesForDate(day time.Time) ([]models.ScheduledDose, error) {
	schedules, err := d.GetSchedules()
	if err != nil {
		return nil, err
	}
	return ScheduledDosesForDate(schedules, day), nil
}

func scanSchedule(row rowScanner) (*models.Schedule, error) {
	var s models.Schedule
	var frequency, days, ids, createdAt string
	var compoundID sql.NullString

	err := row.Scan(&s.ID, &s.PeptideName, &compoundID, &s.Amount, &frequency, &days, &s.Time, &s.Enabled, &ids, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan schedule: %w", err)
	}

	s.CompoundID = compoundID.String
	s.Frequency = models.FrequencyWeekly
	if models.IsValidFrequency(frequency) {
		s.Frequency = models.Frequency(frequency)
	}
	s.DaysOfWeek = models.SanitizeDays(json.RawMessage(days))
	if err := json.Unmarshal([]byte(ids), &s.NotificationIDs); err != nil {
		s.NotificationIDs = nil
	}
	s.CreatedAt = parseTime(createdAt)
	return &s, nil
}

// ScheduledDosesForDate materializes schedules on one calendar day, ordered
// by time of day. Both storage backends share it.
func ScheduledDosesForDate(schedules []models.Schedule, day time.Time) []models.ScheduledDose {
	byID := make(map[string]models.Schedule, len(schedules))
	for _, s := range schedules {
		byID[s.ID] = s
	}

	occurrences := engine.Expand(schedules, day, 1)
	doses := make([]models.ScheduledDose, 0, len(occurrences))
	for _, occ := range occurrences {
		s := byID[occ.ScheduleID]
		doses = append(doses, models.ScheduledDose{
			Schedule:      s,
			ScheduledTime: s.ScheduledAt(occ.Date),
		})
	}
	return doses
}
