// ABOUTME: Orphan Reconciler: drops schedules whose compound is no longer tracked.
// ABOUTME: Idempotent; run before every expansion that feeds a view.
package engine

import (
	"github.com/google/uuid"
	"github.com/harperreed/dose/internal/models"
)

// ReconcileResult partitions schedules into those still backed by an active
// compound and those that were orphaned.
type ReconcileResult struct {
	Kept    []models.Schedule
	Removed []models.Schedule
}

// Reconcile keeps each schedule that refers to at least one active compound.
// With no active compounds every schedule is removed. Schedules carrying a
// compound ID are matched by ID only; the rest by name.
func Reconcile(schedules []models.Schedule, active []models.Compound) ReconcileResult {
	result := ReconcileResult{
		Kept:    make([]models.Schedule, 0, len(schedules)),
		Removed: make([]models.Schedule, 0),
	}

	if len(active) == 0 {
		result.Removed = append(result.Removed, schedules...)
		return result
	}

	for _, s := range schedules {
		if backedBy(s, active) {
			result.Kept = append(result.Kept, s)
		} else {
			result.Removed = append(result.Removed, s)
		}
	}
	return result
}

func backedBy(s models.Schedule, active []models.Compound) bool {
	for _, c := range active {
		if ScheduleRefersTo(s, c) {
			return true
		}
	}
	return false
}

// ScheduleRefersTo reports whether s belongs to compound c: by ID when both
// carry one, otherwise by the fuzzy name rule.
func ScheduleRefersTo(s models.Schedule, c models.Compound) bool {
	return refersTo(s.CompoundID, s.PeptideName, compoundID(c), c.Name)
}

// MatchCompound returns the first compound referred to by name, or nil.
func MatchCompound(name string, compounds []models.Compound) *models.Compound {
	for i := range compounds {
		if NameMatches(name, compounds[i].Name) {
			return &compounds[i]
		}
	}
	return nil
}

// compoundID treats the nil UUID as "no ID" so legacy rows fall back to names.
func compoundID(c models.Compound) string {
	if c.ID == uuid.Nil {
		return ""
	}
	return c.ID.String()
}
