// ABOUTME: Compound CRUD operations for Charm KV storage.
// ABOUTME: Uses type-prefixed keys and client-side filtering.
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

// ListCompounds returns every tracked compound in creation order.
func (c *Client) ListCompounds() ([]models.Compound, error) {
	allData, err := c.listByPrefix(CompoundPrefix)
	if err != nil {
		return nil, fmt.Errorf("list compounds: %w", err)
	}

	compounds := []models.Compound{}
	for _, data := range allData {
		comp, err := unmarshalJSON[models.Compound](data)
		if err != nil {
			continue // Skip invalid entries
		}
		compounds = append(compounds, *comp)
	}

	sort.SliceStable(compounds, func(i, j int) bool {
		return compounds[i].CreatedAt.Before(compounds[j].CreatedAt)
	})
	return compounds, nil
}

// GetCompound retrieves a compound by ID or ID prefix.
func (c *Client) GetCompound(idOrPrefix string) (*models.Compound, error) {
	data, err := c.getByIDPrefix(CompoundPrefix, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get compound: %w", err)
	}

	comp, err := unmarshalJSON[models.Compound](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal compound: %w", err)
	}
	return comp, nil
}

// SaveCompound stores a compound, replacing any with the same ID.
func (c *Client) SaveCompound(comp *models.Compound) error {
	if comp.ID == uuid.Nil {
		comp.ID = uuid.New()
	}
	if comp.CreatedAt.IsZero() {
		comp.CreatedAt = time.Now()
	}

	data, err := marshalJSON(comp)
	if err != nil {
		return fmt.Errorf("marshal compound: %w", err)
	}
	return c.set(map[string][]byte{CompoundPrefix + comp.ID.String(): data})
}

// DeleteCompound removes a compound by ID or prefix.
func (c *Client) DeleteCompound(idOrPrefix string) error {
	if err := c.deleteByIDPrefix(CompoundPrefix, idOrPrefix); err != nil {
		return fmt.Errorf("delete compound: %w", err)
	}
	return nil
}

// SetCompoundPaused sets the paused flag on every compound whose normalized
// name equals name.
func (c *Client) SetCompoundPaused(name string, paused bool) error {
	compounds, err := c.ListCompounds()
	if err != nil {
		return err
	}

	want := engine.NormalizeName(name)
	updates := make(map[string][]byte)
	for i := range compounds {
		comp := &compounds[i]
		if want == "" || engine.NormalizeName(comp.Name) != want {
			continue
		}
		comp.Paused = paused
		data, err := marshalJSON(comp)
		if err != nil {
			return fmt.Errorf("marshal compound: %w", err)
		}
		updates[CompoundPrefix+comp.ID.String()] = data
	}
	if len(updates) == 0 {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, name)
	}
	return c.set(updates)
}
