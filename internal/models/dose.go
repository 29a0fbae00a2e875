// ABOUTME: DoseEntry model for the append-only dose log.
// ABOUTME: Entries are timestamps with a free-text name, not schedule references.
package models

import (
	"time"

	"github.com/google/uuid"
)

// DoseEntry is one logged dose. Entries are immutable once written.
type DoseEntry struct {
	ID          uuid.UUID `json:"id"`
	Date        time.Time `json:"date"`
	PeptideName string    `json:"peptideName"`
	CompoundID  string    `json:"compoundId,omitempty"`
	Amount      string    `json:"amount"`
	Category    string    `json:"category,omitempty"`
}

// NewDoseEntry creates a new DoseEntry dated now.
func NewDoseEntry(peptideName, amount string) *DoseEntry {
	return &DoseEntry{
		ID:          uuid.New(),
		Date:        time.Now(),
		PeptideName: peptideName,
		Amount:      amount,
	}
}

// WithDate sets a custom dose timestamp.
func (d *DoseEntry) WithDate(t time.Time) *DoseEntry {
	d.Date = t
	return d
}

// WithCategory sets the dose category.
func (d *DoseEntry) WithCategory(category string) *DoseEntry {
	d.Category = category
	return d
}

// WithCompoundID links the entry to a tracked compound.
func (d *DoseEntry) WithCompoundID(id string) *DoseEntry {
	d.CompoundID = id
	return d
}
