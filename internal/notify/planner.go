// ABOUTME: Planner adapter: plans reminder rows from schedules over a horizon.
// ABOUTME: Reminder IDs are written back onto each schedule's NotificationIDs.
package notify

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/dose/internal/engine"
	"github.com/harperreed/dose/internal/models"
	"github.com/harperreed/dose/internal/storage"
)

// DefaultHorizon is how many days ahead reminders are planned.
const DefaultHorizon = 7

// Planner implements Adapter by storing reminders through the repository.
type Planner struct {
	repo    storage.Repository
	horizon int
	now     func() time.Time
	loc     *time.Location
	logger  *log.Logger
}

var _ Adapter = (*Planner)(nil)

// Option configures a Planner.
type Option func(*Planner)

// WithHorizon sets how many days ahead to plan. Non-positive values keep the default.
func WithHorizon(days int) Option {
	return func(p *Planner) {
		if days > 0 {
			p.horizon = days
		}
	}
}

// WithClock overrides the current time source.
func WithClock(now func() time.Time) Option {
	return func(p *Planner) { p.now = now }
}

// WithLocation sets the zone whose calendar days reminders are planned on.
func WithLocation(loc *time.Location) Option {
	return func(p *Planner) {
		if loc != nil {
			p.loc = loc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(p *Planner) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPlanner creates a Planner over repo.
func NewPlanner(repo storage.Repository, opts ...Option) *Planner {
	p := &Planner{
		repo:    repo,
		horizon: DefaultHorizon,
		now:     time.Now,
		loc:     time.Local,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CancelForSchedule drops the reminders of each schedule.
func (p *Planner) CancelForSchedule(ctx context.Context, scheduleIDs []string) error {
	for _, id := range scheduleIDs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.repo.ReplaceReminders(id, nil); err != nil {
			return fmt.Errorf("cancel reminders for %s: %w", id, err)
		}
	}
	p.logger.Debug("cancelled reminders", "schedules", len(scheduleIDs))
	return nil
}

// SyncAll replans reminders for every schedule and drops reminders whose
// schedule no longer exists. Schedules no tracked compound backs get none.
func (p *Planner) SyncAll(ctx context.Context) error {
	schedules, err := p.repo.GetSchedules()
	if err != nil {
		return fmt.Errorf("load schedules: %w", err)
	}
	compounds, err := p.repo.ListCompounds()
	if err != nil {
		return fmt.Errorf("load compounds: %w", err)
	}
	existing, err := p.repo.ListReminders()
	if err != nil {
		return fmt.Errorf("load reminders: %w", err)
	}

	now := p.now().In(p.loc)
	planned := p.plan(engine.Reconcile(schedules, compounds).Kept, compounds, now)

	known := make(map[string]bool, len(schedules))
	total := 0
	for i := range schedules {
		if err := ctx.Err(); err != nil {
			return err
		}
		s := &schedules[i]
		known[s.ID] = true
		reminders := planned[s.ID]
		if err := p.apply(s, reminders); err != nil {
			return err
		}
		total += len(reminders)
	}

	var orphans []string
	for _, r := range existing {
		if !known[r.ScheduleID] {
			orphans = append(orphans, r.ID)
		}
	}
	if len(orphans) > 0 {
		if err := p.repo.DeleteReminders(orphans); err != nil {
			return fmt.Errorf("delete orphaned reminders: %w", err)
		}
	}

	p.logger.Debug("synced reminders", "schedules", len(schedules), "reminders", total, "orphans", len(orphans))
	return nil
}

// PauseForCompound cancels reminders for every schedule of the named compound.
// The compound's paused flag must already be stored.
func (p *Planner) PauseForCompound(ctx context.Context, name string) error {
	schedules, err := p.schedulesFor(name)
	if err != nil {
		return err
	}
	for i := range schedules {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.apply(&schedules[i], nil); err != nil {
			return err
		}
	}
	p.logger.Debug("paused reminders", "compound", name, "schedules", len(schedules))
	return nil
}

// ResumeForCompound replans reminders; the compound's stored flag decides.
func (p *Planner) ResumeForCompound(ctx context.Context, name string) error {
	p.logger.Debug("resuming reminders", "compound", name)
	return p.SyncAll(ctx)
}

// plan expands schedules over the horizon and keeps occurrences still ahead
// of now whose compound is not paused.
func (p *Planner) plan(schedules []models.Schedule, compounds []models.Compound, now time.Time) map[string][]models.Reminder {
	byID := make(map[string]*models.Schedule, len(schedules))
	for i := range schedules {
		byID[schedules[i].ID] = &schedules[i]
	}

	planned := make(map[string][]models.Reminder)
	for _, occ := range engine.Expand(schedules, now, p.horizon) {
		s := byID[occ.ScheduleID]
		if s == nil || Paused(*s, compounds) {
			continue
		}
		fireAt := s.ScheduledAt(occ.Date)
		if !fireAt.After(now) {
			continue
		}
		planned[s.ID] = append(planned[s.ID], *models.NewReminder(s, fireAt))
	}
	return planned
}

// apply stores reminders for s and records their IDs on the schedule.
func (p *Planner) apply(s *models.Schedule, reminders []models.Reminder) error {
	if err := p.repo.ReplaceReminders(s.ID, reminders); err != nil {
		return fmt.Errorf("replace reminders for %s: %w", s.ID, err)
	}

	ids := make([]string, 0, len(reminders))
	for _, r := range reminders {
		ids = append(ids, r.ID)
	}
	if len(ids) == 0 && len(s.NotificationIDs) == 0 {
		return nil
	}
	if slices.Equal(ids, s.NotificationIDs) {
		return nil
	}
	s.NotificationIDs = ids
	if _, err := p.repo.SaveSchedule(s); err != nil {
		return fmt.Errorf("save notification ids for %s: %w", s.ID, err)
	}
	return nil
}

// schedulesFor returns the schedules belonging to compounds named name.
// With no such compound it falls back to matching schedule names.
func (p *Planner) schedulesFor(name string) ([]models.Schedule, error) {
	schedules, err := p.repo.GetSchedules()
	if err != nil {
		return nil, fmt.Errorf("load schedules: %w", err)
	}
	compounds, err := p.repo.ListCompounds()
	if err != nil {
		return nil, fmt.Errorf("load compounds: %w", err)
	}

	want := engine.NormalizeName(name)
	var named []models.Compound
	for _, c := range compounds {
		if engine.NormalizeName(c.Name) == want {
			named = append(named, c)
		}
	}

	var out []models.Schedule
	for _, s := range schedules {
		if len(named) == 0 {
			if engine.NameMatches(s.PeptideName, name) {
				out = append(out, s)
			}
			continue
		}
		for _, c := range named {
			if engine.ScheduleRefersTo(s, c) {
				out = append(out, s)
				break
			}
		}
	}
	return out, nil
}

// Paused reports whether s belongs to any paused compound.
func Paused(s models.Schedule, compounds []models.Compound) bool {
	for _, c := range compounds {
		if c.Paused && engine.ScheduleRefersTo(s, c) {
			return true
		}
	}
	return false
}
