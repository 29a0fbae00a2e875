// ABOUTME: Derived occurrence and classified-day views.
// ABOUTME: These are recomputed on every query and never persisted.
package models

import "time"

// Status is the classification of one occurrence.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
	StatusMissed    Status = "missed"
)

// Occurrence is one schedule materialized on one calendar day.
type Occurrence struct {
	ScheduleID  string    `json:"scheduleId"`
	Date        time.Time `json:"date"`
	Day         string    `json:"day"`
	Time        string    `json:"time"`
	PeptideName string    `json:"peptideName"`
	CompoundID  string    `json:"compoundId,omitempty"`
	Amount      string    `json:"amount"`
}

// ClassifiedOccurrence is an occurrence with its status. AdHoc items come from
// log entries with no matching schedule on their day; they are always completed.
type ClassifiedOccurrence struct {
	Occurrence
	Status Status     `json:"status"`
	AdHoc  bool       `json:"adHoc,omitempty"`
	Entry  *DoseEntry `json:"entry,omitempty"`
}

// ClassifiedDay groups the classified items of one calendar day.
type ClassifiedDay struct {
	Date        time.Time              `json:"date"`
	Day         string                 `json:"day"`
	Occurrences []ClassifiedOccurrence `json:"occurrences"`
}

// Count returns how many items on the day have the given status.
func (d ClassifiedDay) Count(status Status) int {
	n := 0
	for _, o := range d.Occurrences {
		if o.Status == status {
			n++
		}
	}
	return n
}
