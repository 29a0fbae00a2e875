// ABOUTME: Tracker sequences storage reads, reconciliation, and reminder sync.
// ABOUTME: Storage is written first; reminder adapter failures are logged, not returned.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/dose/internal/engine"
	"github.com/harperreed/dose/internal/models"
	"github.com/harperreed/dose/internal/notify"
	"github.com/harperreed/dose/internal/storage"
)

// ErrUntrackedCompound is returned when a schedule names no tracked compound.
// Such a schedule would be removed by the next reconciliation.
var ErrUntrackedCompound = errors.New("no tracked compound matches")

// Snapshot is one fresh read of storage after reconciliation.
type Snapshot struct {
	Schedules []models.Schedule
	Compounds []models.Compound
	Doses     []models.DoseEntry
	// Removed holds the orphaned schedules the load deleted.
	Removed  []models.Schedule
	LoadedAt time.Time
}

// Tracker is the caller-side coordinator over a Repository and an Adapter.
// It is safe for concurrent use.
type Tracker struct {
	repo      storage.Repository
	adapter   notify.Adapter
	logger    *log.Logger
	loc       *time.Location
	now       func() time.Time
	staleness engine.StalenessPolicy
	window    int

	mu   sync.Mutex
	snap *Snapshot
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithLocation sets the zone whose calendar days views are computed in.
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) {
		if loc != nil {
			t.loc = loc
		}
	}
}

// WithClock overrides the current time source.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// WithStaleness sets when Refresh reloads. The default always reloads.
func WithStaleness(policy engine.StalenessPolicy) Option {
	return func(t *Tracker) {
		if policy != nil {
			t.staleness = policy
		}
	}
}

// WithAdherenceWindow sets how many days Stats looks back over.
func WithAdherenceWindow(days int) Option {
	return func(t *Tracker) {
		if days > 0 {
			t.window = days
		}
	}
}

// New creates a Tracker. A nil adapter behaves like notify.Nop.
func New(repo storage.Repository, adapter notify.Adapter, opts ...Option) *Tracker {
	if adapter == nil {
		adapter = notify.Nop{}
	}
	t := &Tracker{
		repo:      repo,
		adapter:   adapter,
		logger:    log.New(io.Discard),
		loc:       time.Local,
		now:       time.Now,
		staleness: engine.AlwaysReload{},
		window:    engine.DefaultAdherenceWindow,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Location returns the zone views are computed in.
func (t *Tracker) Location() *time.Location {
	return t.loc
}

// Now returns the current time in the tracker's location.
func (t *Tracker) Now() time.Time {
	return t.now().In(t.loc)
}

// Load reads schedules, compounds and the dose log fresh from storage,
// deletes schedules whose compound is no longer tracked, and cancels their
// reminders.
func (t *Tracker) Load(ctx context.Context) (*Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.load(ctx)
}

// Refresh returns the last snapshot unless the staleness policy says it is
// stale, in which case it loads a new one.
func (t *Tracker) Refresh(ctx context.Context) (*Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.refresh(ctx)
}

func (t *Tracker) refresh(ctx context.Context) (*Snapshot, error) {
	if t.snap != nil && !t.staleness.Stale(t.snap.LoadedAt, t.now()) {
		return t.snap, nil
	}
	return t.load(ctx)
}

func (t *Tracker) load(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	schedules, err := t.repo.GetSchedules()
	if err != nil {
		return nil, fmt.Errorf("load schedules: %w", err)
	}
	compounds, err := t.repo.ListCompounds()
	if err != nil {
		return nil, fmt.Errorf("load compounds: %w", err)
	}
	doses, err := t.repo.GetDoseHistory()
	if err != nil {
		return nil, fmt.Errorf("load dose history: %w", err)
	}

	result := engine.Reconcile(schedules, compounds)
	removedIDs := make([]string, 0, len(result.Removed))
	for _, s := range result.Removed {
		if err := t.repo.DeleteSchedule(s.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("remove orphaned schedule %s: %w", s.ID, err)
		}
		removedIDs = append(removedIDs, s.ID)
	}
	if len(removedIDs) > 0 {
		t.logger.Info("removed orphaned schedules", "count", len(removedIDs))
		t.notify("cancel", t.adapter.CancelForSchedule(ctx, removedIDs))
	}

	t.snap = &Snapshot{
		Schedules: result.Kept,
		Compounds: compounds,
		Doses:     doses,
		Removed:   result.Removed,
		LoadedAt:  t.now(),
	}
	return t.snap, nil
}

// invalidate forces the next Refresh to reload.
func (t *Tracker) invalidate() {
	t.snap = nil
}

// notify logs an adapter failure. Reminders are rebuilt on the next sync.
func (t *Tracker) notify(op string, err error) {
	if err != nil {
		t.logger.Warn("reminder sync failed", "op", op, "err", err)
	}
}

// Calendar classifies every occurrence and logged dose in the days starting
// at start's calendar day.
func (t *Tracker) Calendar(ctx context.Context, start time.Time, days int) ([]models.ClassifiedDay, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap, err := t.refresh(ctx)
	if err != nil {
		return nil, err
	}

	start = engine.StartOfDay(start, t.loc)
	occurrences := engine.Expand(snap.Schedules, start, days)
	entries := engine.EntriesInWindow(snap.Doses, start, days)
	return engine.Classify(occurrences, entries, t.Now()), nil
}

// Today returns today's classified view. It is present even with no items.
func (t *Tracker) Today(ctx context.Context) (models.ClassifiedDay, error) {
	now := t.Now()
	days, err := t.Calendar(ctx, now, 1)
	if err != nil {
		return models.ClassifiedDay{}, err
	}
	if len(days) == 1 {
		return days[0], nil
	}
	return models.ClassifiedDay{
		Date:        engine.StartOfDay(now, nil),
		Day:         engine.LocalDayKey(now, nil),
		Occurrences: []models.ClassifiedOccurrence{},
	}, nil
}

// Stats returns adherence and streaks over the configured window.
func (t *Tracker) Stats(ctx context.Context) (engine.AdherenceReport, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap, err := t.refresh(ctx)
	if err != nil {
		return engine.AdherenceReport{}, err
	}
	return engine.Summary(snap.Schedules, snap.Doses, t.Now(), t.window), nil
}

// Schedules returns the reconciled schedule list.
func (t *Tracker) Schedules(ctx context.Context) ([]models.Schedule, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap, err := t.refresh(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Schedules, nil
}

// Compounds returns the tracked compounds.
func (t *Tracker) Compounds(ctx context.Context) ([]models.Compound, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap, err := t.refresh(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Compounds, nil
}

// History returns logged doses, most recent first, capped at limit when
// limit is positive.
func (t *Tracker) History(ctx context.Context, limit int) ([]models.DoseEntry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap, err := t.refresh(ctx)
	if err != nil {
		return nil, err
	}
	doses := snap.Doses
	if limit > 0 && len(doses) > limit {
		doses = doses[:limit]
	}
	return doses, nil
}
