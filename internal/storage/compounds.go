// ABOUTME: Compound CRUD operations for SQLite storage.
// ABOUTME: Implements the tracked-stack half of the Repository interface.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/dose/internal/engine"
	"github.com/harperreed/dose/internal/models"
)

const compoundColumns = `id, name, category, paused, created_at`

// ListCompounds returns every tracked compound in creation order.
func (d *DB) ListCompounds() ([]models.Compound, error) {
	rows, err := d.db.Query(`SELECT ` + compoundColumns + ` FROM compounds ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("list compounds: %w", err)
	}
	defer rows.Close()

	compounds := []models.Compound{}
	for rows.Next() {
		c, err := scanCompound(rows)
		if err != nil {
			return nil, err
		}
		compounds = append(compounds, *c)
	}
	return compounds, rows.Err()
}

// GetCompound retrieves a compound by ID or ID prefix.
func (d *DB) GetCompound(idOrPrefix string) (*models.Compound, error) {
	id, err := d.resolveID("compounds", idOrPrefix)
	if err != nil {
		return nil, err
	}
	row := d.db.QueryRow(`SELECT `+compoundColumns+` FROM compounds WHERE id = ?`, id)
	c, err := scanCompound(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	}
	return c, err
}

// SaveCompound inserts a compound or replaces the one with the same ID.
func (d *DB) SaveCompound(c *models.Compound) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO compounds (id, name, category, paused, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			paused = excluded.paused
	`
	_, err := d.db.Exec(query, c.ID.String(), c.Name, nullString(c.Category), c.Paused, formatTime(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("save compound: %w", err)
	}
	return nil
}

// DeleteCompound removes a compound by ID or prefix. Its schedules are left
// in place for the reconciler to remove.
func (d *DB) DeleteCompound(idOrPrefix string) error {
	id, err := d.resolveID("compounds", idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete compound: %w", err)
	}
	if _, err := d.db.Exec("DELETE FROM compounds WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete compound: %w", err)
	}
	return nil
}

// SetCompoundPaused sets the paused flag on every compound whose normalized
// name equals name.
func (d *DB) SetCompoundPaused(name string, paused bool) error {
	compounds, err := d.ListCompounds()
	if err != nil {
		return err
	}

	want := engine.NormalizeName(name)
	updated := 0
	for _, c := range compounds {
		if want == "" || engine.NormalizeName(c.Name) != want {
			continue
		}
		if _, err := d.db.Exec("UPDATE compounds SET paused = ? WHERE id = ?", paused, c.ID.String()); err != nil {
			return fmt.Errorf("set compound paused: %w", err)
		}
		updated++
	}
	if updated == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompound(row rowScanner) (*models.Compound, error) {
	var c models.Compound
	var idStr, createdAt string
	var category sql.NullString

	if err := row.Scan(&idStr, &c.Name, &category, &c.Paused, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan compound: %w", err)
	}

	c.ID, _ = uuid.Parse(idStr)
	c.Category = category.String
	c.CreatedAt = parseTime(createdAt)
	return &c, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
