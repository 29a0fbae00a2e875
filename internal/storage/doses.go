// ABOUTME: Dose log operations for SQLite storage.
// ABOUTME: The log is append-only apart from a bulk clear.
package storage

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/dose/internal/models"
)

// GetDoseHistory returns every logged dose, most recent first.
func (d *DB) GetDoseHistory() ([]models.DoseEntry, error) {
	rows, err := d.db.Query(`SELECT id, date, peptide_name, compound_id, amount, category FROM doses`)
	if err != nil {
		return nil, fmt.Errorf("list doses: %w", err)
	}
	defer rows.Close()

	doses := []models.DoseEntry{}
	for rows.Next() {
		var e models.DoseEntry
		var idStr, date string
		var compoundID, category sql.NullString

		if err := rows.Scan(&idStr, &date, &e.PeptideName, &compoundID, &e.Amount, &category); err != nil {
			return nil, fmt.Errorf("scan dose: %w", err)
		}
		e.ID, _ = uuid.Parse(idStr)
		e.Date = parseTime(date)
		e.CompoundID = compoundID.String
		e.Category = category.String
		doses = append(doses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Stored strings carry mixed offsets, so order by instant here.
	SortNewestFirst(doses)
	return doses, nil
}

// SaveDose appends an entry to the log. A zero date is set to now.
func (d *DB) SaveDose(e *models.DoseEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Date.IsZero() {
		e.Date = time.Now()
	}

	query := `
		INSERT INTO doses (id, date, peptide_name, compound_id, amount, category)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := d.db.Exec(query,
		e.ID.String(),
		formatTime(e.Date),
		e.PeptideName,
		nullString(e.CompoundID),
		e.Amount,
		nullString(e.Category),
	)
	if err != nil {
		return fmt.Errorf("save dose: %w", err)
	}
	return nil
}

// ClearDoseHistory removes every logged dose.
func (d *DB) ClearDoseHistory() error {
	if _, err := d.db.Exec("DELETE FROM doses"); err != nil {
		return fmt.Errorf("clear dose history: %w", err)
	}
	return nil
}

// SortNewestFirst orders doses by timestamp, most recent first.
func SortNewestFirst(doses []models.DoseEntry) {
	sort.SliceStable(doses, func(i, j int) bool {
		return doses[i].Date.After(doses[j].Date)
	})
}
