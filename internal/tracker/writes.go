// ABOUTME: Tracker write operations: schedules, compounds, and dose logging.
// ABOUTME: Every write goes to storage before the reminder adapter is told.
package tracker

import (
	"context"
	"fmt"

	"github.com/harperreed/dose/internal/engine"
	"github.com/harperreed/dose/internal/models"
)

// AddCompound starts tracking a compound.
func (t *Tracker) AddCompound(ctx context.Context, c *models.Compound) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := t.repo.SaveCompound(c); err != nil {
		return err
	}
	t.invalidate()
	return nil
}

// DeleteCompound stops tracking a compound. Its schedules are orphaned and
// removed by a fresh load within the same call.
func (t *Tracker) DeleteCompound(ctx context.Context, idOrPrefix string) (*Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.repo.DeleteCompound(idOrPrefix); err != nil {
		return nil, err
	}
	t.invalidate()
	return t.load(ctx)
}

// PauseCompound silences reminders for a compound without deleting anything.
func (t *Tracker) PauseCompound(ctx context.Context, name string) error {
	return t.setPaused(ctx, name, true)
}

// ResumeCompound restores reminders for a paused compound.
func (t *Tracker) ResumeCompound(ctx context.Context, name string) error {
	return t.setPaused(ctx, name, false)
}

func (t *Tracker) setPaused(ctx context.Context, name string, paused bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.repo.SetCompoundPaused(name, paused); err != nil {
		return err
	}
	t.invalidate()

	if paused {
		t.notify("pause", t.adapter.PauseForCompound(ctx, name))
	} else {
		t.notify("resume", t.adapter.ResumeForCompound(ctx, name))
	}
	return nil
}

// CreateSchedule validates and stores a schedule, linking it to the tracked
// compound it names, then resyncs reminders.
func (t *Tracker) CreateSchedule(ctx context.Context, s *models.Schedule) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := s.Validate(); err != nil {
		return err
	}
	compounds, err := t.repo.ListCompounds()
	if err != nil {
		return fmt.Errorf("load compounds: %w", err)
	}
	if !linkCompound(s, compounds) {
		return fmt.Errorf("%w: %s", ErrUntrackedCompound, s.PeptideName)
	}

	if _, err := t.repo.SaveSchedule(s); err != nil {
		return err
	}
	t.invalidate()
	t.notify("sync", t.adapter.SyncAll(ctx))
	return nil
}

// linkCompound sets s.CompoundID from the compounds it names and reports
// whether any tracked compound backs it.
func linkCompound(s *models.Schedule, compounds []models.Compound) bool {
	if s.CompoundID != "" {
		for _, c := range compounds {
			if c.ID.String() == s.CompoundID {
				return true
			}
		}
		return false
	}
	c := uniqueCompound(s.PeptideName, compounds)
	if c != nil {
		s.CompoundID = c.ID.String()
		return true
	}
	return engine.MatchCompound(s.PeptideName, compounds) != nil
}

// uniqueCompound returns the only compound name refers to, or nil when none
// or several match.
func uniqueCompound(name string, compounds []models.Compound) *models.Compound {
	var found *models.Compound
	for i := range compounds {
		if !engine.NameMatches(name, compounds[i].Name) {
			continue
		}
		if found != nil {
			return nil
		}
		found = &compounds[i]
	}
	return found
}

// ToggleSchedule enables or disables a schedule and resyncs reminders.
func (t *Tracker) ToggleSchedule(ctx context.Context, idOrPrefix string, enabled bool) (*models.Schedule, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, err := t.repo.GetSchedule(idOrPrefix)
	if err != nil {
		return nil, err
	}
	s.Enabled = enabled
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if _, err := t.repo.SaveSchedule(s); err != nil {
		return nil, err
	}
	t.invalidate()
	t.notify("sync", t.adapter.SyncAll(ctx))
	return s, nil
}

// DeleteSchedule removes a schedule and cancels its reminders.
func (t *Tracker) DeleteSchedule(ctx context.Context, idOrPrefix string) (*models.Schedule, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, err := t.repo.GetSchedule(idOrPrefix)
	if err != nil {
		return nil, err
	}
	if err := t.repo.DeleteSchedule(s.ID); err != nil {
		return nil, err
	}
	t.invalidate()
	t.notify("cancel", t.adapter.CancelForSchedule(ctx, []string{s.ID}))
	return s, nil
}

// DeleteSchedulesFor removes every schedule whose name matches name and
// cancels their reminders. It returns the removed schedules.
func (t *Tracker) DeleteSchedulesFor(ctx context.Context, name string) ([]models.Schedule, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	schedules, err := t.repo.GetSchedules()
	if err != nil {
		return nil, err
	}
	var matched []models.Schedule
	ids := []string{}
	for _, s := range schedules {
		if engine.NameMatches(s.PeptideName, name) {
			matched = append(matched, s)
			ids = append(ids, s.ID)
		}
	}
	if len(matched) == 0 {
		return nil, nil
	}

	if err := t.repo.DeleteSchedulesByPeptide(name); err != nil {
		return nil, err
	}
	t.invalidate()
	t.notify("cancel", t.adapter.CancelForSchedule(ctx, ids))
	return matched, nil
}

// ClearSchedules removes every schedule and cancels all their reminders.
func (t *Tracker) ClearSchedules(ctx context.Context) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	schedules, err := t.repo.GetSchedules()
	if err != nil {
		return 0, err
	}
	if err := t.repo.ClearAllSchedules(); err != nil {
		return 0, err
	}
	t.invalidate()

	ids := make([]string, 0, len(schedules))
	for _, s := range schedules {
		ids = append(ids, s.ID)
	}
	if len(ids) > 0 {
		t.notify("cancel", t.adapter.CancelForSchedule(ctx, ids))
	}
	return len(ids), nil
}

// LogDose appends a dose to the log. When exactly one tracked compound
// matches the name the entry is linked to it.
func (t *Tracker) LogDose(ctx context.Context, e *models.DoseEntry) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if e.CompoundID == "" {
		compounds, err := t.repo.ListCompounds()
		if err != nil {
			return fmt.Errorf("load compounds: %w", err)
		}
		if c := uniqueCompound(e.PeptideName, compounds); c != nil {
			e.CompoundID = c.ID.String()
		}
	}
	if err := t.repo.SaveDose(e); err != nil {
		return err
	}
	t.invalidate()
	return nil
}
