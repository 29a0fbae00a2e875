// ABOUTME: Compound model for the user's tracked stack.
// ABOUTME: Schedules and doses refer to compounds by ID or by free-text name.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Compound is one entry in the user's active stack. Names are display strings
// and are not guaranteed to be unique.
type Compound struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"`
	Paused    bool      `json:"paused,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewCompound creates a new Compound with generated UUID and current timestamp.
func NewCompound(name string) *Compound {
	return &Compound{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
	}
}

// WithCategory sets the compound category.
func (c *Compound) WithCategory(category string) *Compound {
	c.Category = category
	return c
}
