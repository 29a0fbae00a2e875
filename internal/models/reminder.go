// ABOUTME: Reminder model for planned dose notifications.
// ABOUTME: Reminders are owned by the notification adapter, not the engine.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Reminder is one platform notification planned for a schedule occurrence.
type Reminder struct {
	ID          string    `json:"id"`
	ScheduleID  string    `json:"scheduleId"`
	PeptideName string    `json:"peptideName"`
	Amount      string    `json:"amount"`
	FireAt      time.Time `json:"fireAt"`
}

// NewReminder creates a reminder for a schedule at the given instant.
func NewReminder(s *Schedule, fireAt time.Time) *Reminder {
	return &Reminder{
		ID:          uuid.New().String(),
		ScheduleID:  s.ID,
		PeptideName: s.PeptideName,
		Amount:      s.Amount,
		FireAt:      fireAt,
	}
}
