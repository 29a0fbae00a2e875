// ABOUTME: Repository interface for dose tracker storage.
// ABOUTME: Defines the contract for compounds, schedules, doses, and reminders.
package storage

import (
	"errors"
	"time"

	"github.com/harperreed/dose/internal/models"
)

var (
	// ErrNotFound is returned when no record matches an ID, prefix, or name.
	ErrNotFound = errors.New("not found")

	// ErrAmbiguous is returned when an ID prefix matches more than one record.
	ErrAmbiguous = errors.New("ambiguous prefix")
)

// Repository defines the storage interface for dose tracker data.
// Both the SQLite DB and the Charm KV client implement it.
type Repository interface {
	// Compound operations
	ListCompounds() ([]models.Compound, error)
	GetCompound(idOrPrefix string) (*models.Compound, error)
	SaveCompound(c *models.Compound) error
	DeleteCompound(idOrPrefix string) error
	SetCompoundPaused(name string, paused bool) error

	// Schedule operations
	GetSchedules() ([]models.Schedule, error)
	GetSchedule(idOrPrefix string) (*models.Schedule, error)
	SaveSchedule(s *models.Schedule) ([]models.Schedule, error)
	DeleteSchedule(idOrPrefix string) error
	DeleteSchedulesByPeptide(name string) error
	ClearAllSchedules() error
	GetScheduledDosesForDate(day time.Time) ([]models.ScheduledDose, error)

	// Dose log operations
	GetDoseHistory() ([]models.DoseEntry, error)
	SaveDose(d *models.DoseEntry) error
	ClearDoseHistory() error

	// Reminder operations
	ListReminders() ([]models.Reminder, error)
	ReplaceReminders(scheduleID string, reminders []models.Reminder) error
	DeleteReminders(ids []string) error

	// Export/Import
	GetAllData() (*ExportData, error)
	ImportData(data *ExportData) error

	// Lifecycle
	Close() error
}
