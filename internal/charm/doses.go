// ABOUTME: Dose log operations for Charm KV storage.
package charm

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/dose/internal/models"
	"github.com/harperreed/dose/internal/storage"
)

// GetDoseHistory returns every logged dose, most recent first.
func (c *Client) GetDoseHistory() ([]models.DoseEntry, error) {
	allData, err := c.listByPrefix(DosePrefix)
	if err != nil {
		return nil, fmt.Errorf("list doses: %w", err)
	}

	doses := []models.DoseEntry{}
	for _, data := range allData {
		e, err := unmarshalJSON[models.DoseEntry](data)
		if err != nil {
			continue // Skip invalid entries
		}
		doses = append(doses, *e)
	}

	storage.SortNewestFirst(doses)
	return doses, nil
}

// SaveDose appends an entry to the log. A zero date is set to now.
// Writing an ID that already exists is an error.
func (c *Client) SaveDose(e *models.DoseEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Date.IsZero() {
		e.Date = time.Now()
	}

	key := DosePrefix + e.ID.String()
	existing, err := c.keysByPrefix(key)
	if err != nil {
		return fmt.Errorf("save dose: %w", err)
	}
	for _, k := range existing {
		if k == key {
			return fmt.Errorf("save dose: duplicate id %s", e.ID)
		}
	}

	data, err := marshalJSON(e)
	if err != nil {
		return fmt.Errorf("marshal dose: %w", err)
	}
	return c.set(map[string][]byte{key: data})
}

// ClearDoseHistory removes every logged dose.
func (c *Client) ClearDoseHistory() error {
	keys, err := c.keysByPrefix(DosePrefix)
	if err != nil {
		return fmt.Errorf("clear dose history: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.delete(keys...)
}
