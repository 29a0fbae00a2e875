// ABOUTME: Schedule CRUD operations for Charm KV storage.
// ABOUTME: Schedules decode through the tolerant Schedule JSON decoder.
package charm

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/dose/internal/engine"
	"github.com/harperreed/dose/internal/models"
	"github.com/harperreed/dose/internal/storage"
)

// GetSchedules returns every stored schedule in creation order.
func (c *Client) GetSchedules() ([]models.Schedule, error) {
	allData, err := c.listByPrefix(SchedulePrefix)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}

	schedules := []models.Schedule{}
	for _, data := range allData {
		s, err := unmarshalJSON[models.Schedule](data)
		if err != nil {
			continue // Skip invalid entries
		}
		schedules = append(schedules, *s)
	}

	sort.SliceStable(schedules, func(i, j int) bool {
		if schedules[i].CreatedAt.Equal(schedules[j].CreatedAt) {
			return schedules[i].ID < schedules[j].ID
		}
		return schedules[i].CreatedAt.Before(schedules[j].CreatedAt)
	})
	return schedules, nil
}

// GetSchedule retrieves a schedule by ID or ID prefix.
func (c *Client) GetSchedule(idOrPrefix string) (*models.Schedule, error) {
	data, err := c.getByIDPrefix(SchedulePrefix, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}

	s, err := unmarshalJSON[models.Schedule](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal schedule: %w", err)
	}
	return s, nil
}

// SaveSchedule stores s, assigning an ID when it has none, and returns the
// full schedule list.
func (c *Client) SaveSchedule(s *models.Schedule) ([]models.Schedule, error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	s.DaysOfWeek = models.NormalizeDays(s.DaysOfWeek)

	data, err := marshalJSON(s)
	if err != nil {
		return nil, fmt.Errorf("marshal schedule: %w", err)
	}
	if err := c.set(map[string][]byte{SchedulePrefix + s.ID: data}); err != nil {
		return nil, fmt.Errorf("save schedule: %w", err)
	}
	return c.GetSchedules()
}

// DeleteSchedule removes a schedule by ID or prefix.
func (c *Client) DeleteSchedule(idOrPrefix string) error {
	if err := c.deleteByIDPrefix(SchedulePrefix, idOrPrefix); err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return nil
}

// DeleteSchedulesByPeptide removes every schedule whose name matches name
// under the fuzzy name rule.
func (c *Client) DeleteSchedulesByPeptide(name string) error {
	schedules, err := c.GetSchedules()
	if err != nil {
		return err
	}

	var keys []string
	for _, s := range schedules {
		if engine.NameMatches(s.PeptideName, name) {
			keys = append(keys, SchedulePrefix+s.ID)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	return c.delete(keys...)
}

// ClearAllSchedules removes every schedule.
func (c *Client) ClearAllSchedules() error {
	keys, err := c.keysByPrefix(SchedulePrefix)
	if err != nil {
		return fmt.Errorf("clear schedules: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.delete(keys...)
}

// GetScheduledDosesForDate returns the enabled schedules firing on day's
// calendar day, each with its firing instant on that day.
func (c *Client) GetScheduledDosesForDate(day time.Time) ([]models.ScheduledDose, error) {
	schedules, err := c.GetSchedules()
	if err != nil {
		return nil, err
	}
	return storage.ScheduledDosesForDate(schedules, day), nil
}
