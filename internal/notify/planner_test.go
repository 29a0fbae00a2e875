// ABOUTME: Tests for the reminder Planner against a temporary SQLite store.
// ABOUTME: Covers horizon planning, past skipping, pausing, and cancellation.
package notify

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/dose/internal/models"
	"github.com/harperreed/dose/internal/storage"
)

var (
	zone = time.FixedZone("UTC+2", 2*3600)
	// 2025-06-01 is a Sunday.
	noon = time.Date(2025, 6, 1, 12, 0, 0, 0, zone)
)

func setupPlanner(t *testing.T, opts ...Option) (*Planner, *storage.DB) {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "dose.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	base := []Option{WithClock(func() time.Time { return noon }), WithLocation(zone)}
	return NewPlanner(db, append(base, opts...)...), db
}

func mustSave(t *testing.T, db *storage.DB, s *models.Schedule) {
	t.Helper()
	if _, err := db.SaveSchedule(s); err != nil {
		t.Fatalf("SaveSchedule failed: %v", err)
	}
}

func track(t *testing.T, db *storage.DB, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := db.SaveCompound(models.NewCompound(name)); err != nil {
			t.Fatalf("SaveCompound failed: %v", err)
		}
	}
}

func TestSyncAllPlansHorizon(t *testing.T) {
	p, db := setupPlanner(t)
	track(t, db, "BPC-157", "TB-500")

	// Daily at 09:00: today's slot has passed, so six reminders remain in seven days.
	morning := models.NewSchedule("BPC-157", "250").WithTime("09:00")
	// Daily at 18:00: all seven remain.
	evening := models.NewSchedule("TB-500", "2").WithTime("18:00")
	mustSave(t, db, morning)
	mustSave(t, db, evening)

	if err := p.SyncAll(context.Background()); err != nil {
		t.Fatalf("SyncAll failed: %v", err)
	}

	reminders, _ := db.ListReminders()
	counts := map[string]int{}
	for _, r := range reminders {
		counts[r.ScheduleID]++
		if !r.FireAt.After(noon) {
			t.Errorf("reminder in the past: %v", r.FireAt)
		}
	}
	if counts[morning.ID] != 6 || counts[evening.ID] != 7 {
		t.Errorf("unexpected counts: %v", counts)
	}
	if !reminders[0].FireAt.Equal(time.Date(2025, 6, 1, 18, 0, 0, 0, zone)) {
		t.Errorf("first reminder = %v, want today 18:00", reminders[0].FireAt)
	}

	got, _ := db.GetSchedule(evening.ID)
	if len(got.NotificationIDs) != 7 {
		t.Errorf("NotificationIDs = %d, want 7", len(got.NotificationIDs))
	}
}

func TestSyncAllIsStable(t *testing.T) {
	p, db := setupPlanner(t, WithHorizon(3))
	track(t, db, "BPC-157")
	s := models.NewSchedule("BPC-157", "250").WithFrequency(models.FrequencyWeekly).WithDays(1, 2)
	mustSave(t, db, s)

	for i := 0; i < 2; i++ {
		if err := p.SyncAll(context.Background()); err != nil {
			t.Fatalf("SyncAll failed: %v", err)
		}
	}

	reminders, _ := db.ListReminders()
	if len(reminders) != 2 {
		t.Fatalf("expected Monday and Tuesday reminders only, got %d", len(reminders))
	}
	got, _ := db.GetSchedule(s.ID)
	if len(got.NotificationIDs) != 2 || got.NotificationIDs[0] != reminders[0].ID {
		t.Errorf("NotificationIDs out of step: %v vs %+v", got.NotificationIDs, reminders)
	}
}

func TestSyncAllSkipsDisabledAndDropsOrphans(t *testing.T) {
	p, db := setupPlanner(t)

	off := models.NewSchedule("BPC-157", "250").WithEnabled(false)
	mustSave(t, db, off)
	ghost := models.NewSchedule("Gone", "1")
	if err := db.ReplaceReminders(ghost.ID, []models.Reminder{*models.NewReminder(ghost, noon.Add(time.Hour))}); err != nil {
		t.Fatalf("ReplaceReminders failed: %v", err)
	}

	if err := p.SyncAll(context.Background()); err != nil {
		t.Fatalf("SyncAll failed: %v", err)
	}

	reminders, _ := db.ListReminders()
	if len(reminders) != 0 {
		t.Errorf("expected no reminders, got %+v", reminders)
	}
}

func TestPauseAndResumeCompound(t *testing.T) {
	p, db := setupPlanner(t)

	tirz := models.NewCompound("Tirzepatide")
	bpc := models.NewCompound("BPC-157")
	for _, c := range []*models.Compound{tirz, bpc} {
		if err := db.SaveCompound(c); err != nil {
			t.Fatalf("SaveCompound failed: %v", err)
		}
	}
	tirzSchedule := models.NewSchedule("Tirzepatide 10mg", "10").WithTime("20:00")
	bpcSchedule := models.NewSchedule("BPC-157", "250").WithTime("20:00")
	mustSave(t, db, tirzSchedule)
	mustSave(t, db, bpcSchedule)

	ctx := context.Background()
	if err := p.SyncAll(ctx); err != nil {
		t.Fatalf("SyncAll failed: %v", err)
	}

	if err := db.SetCompoundPaused("Tirzepatide", true); err != nil {
		t.Fatalf("SetCompoundPaused failed: %v", err)
	}
	if err := p.PauseForCompound(ctx, "Tirzepatide"); err != nil {
		t.Fatalf("PauseForCompound failed: %v", err)
	}

	reminders, _ := db.ListReminders()
	for _, r := range reminders {
		if r.ScheduleID == tirzSchedule.ID {
			t.Fatal("paused compound still has reminders")
		}
	}
	if len(reminders) != 7 {
		t.Errorf("other compound should keep its reminders, got %d", len(reminders))
	}

	// A full sync keeps the paused compound silent.
	if err := p.SyncAll(ctx); err != nil {
		t.Fatalf("SyncAll failed: %v", err)
	}
	reminders, _ = db.ListReminders()
	if len(reminders) != 7 {
		t.Errorf("sync should respect pause, got %d reminders", len(reminders))
	}

	if err := db.SetCompoundPaused("Tirzepatide", false); err != nil {
		t.Fatalf("SetCompoundPaused failed: %v", err)
	}
	if err := p.ResumeForCompound(ctx, "Tirzepatide"); err != nil {
		t.Fatalf("ResumeForCompound failed: %v", err)
	}
	reminders, _ = db.ListReminders()
	if len(reminders) != 14 {
		t.Errorf("expected reminders restored, got %d", len(reminders))
	}
}

func TestSyncAllSkipsUntrackedSchedules(t *testing.T) {
	p, db := setupPlanner(t)
	track(t, db, "BPC-157")

	tracked := models.NewSchedule("BPC-157", "250").WithTime("20:00")
	untracked := models.NewSchedule("Semaglutide", "1").WithTime("20:00")
	untracked.NotificationIDs = []string{"stale"}
	mustSave(t, db, tracked)
	mustSave(t, db, untracked)

	if err := p.SyncAll(context.Background()); err != nil {
		t.Fatalf("SyncAll failed: %v", err)
	}

	reminders, _ := db.ListReminders()
	if len(reminders) != 7 {
		t.Fatalf("expected 7 reminders, got %d", len(reminders))
	}
	for _, r := range reminders {
		if r.ScheduleID != tracked.ID {
			t.Errorf("untracked schedule got reminder at %v", r.FireAt)
		}
	}
	got, _ := db.GetSchedule(untracked.ID)
	if len(got.NotificationIDs) != 0 {
		t.Errorf("NotificationIDs = %v, want none", got.NotificationIDs)
	}
}

func TestCancelForSchedule(t *testing.T) {
	p, db := setupPlanner(t)
	track(t, db, "BPC-157")
	s := models.NewSchedule("BPC-157", "250").WithTime("20:00")
	mustSave(t, db, s)

	ctx := context.Background()
	if err := p.SyncAll(ctx); err != nil {
		t.Fatalf("SyncAll failed: %v", err)
	}
	if err := p.CancelForSchedule(ctx, []string{s.ID}); err != nil {
		t.Fatalf("CancelForSchedule failed: %v", err)
	}
	reminders, _ := db.ListReminders()
	if len(reminders) != 0 {
		t.Errorf("expected reminders cancelled, got %d", len(reminders))
	}
}

func TestCancelledContext(t *testing.T) {
	p, db := setupPlanner(t)
	mustSave(t, db, models.NewSchedule("BPC-157", "250"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := p.SyncAll(ctx); err == nil {
		t.Error("expected error from cancelled context")
	}
	if err := p.CancelForSchedule(ctx, []string{"x"}); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestPaused(t *testing.T) {
	paused := models.NewCompound("BPC-157")
	paused.Paused = true
	active := models.NewCompound("TB-500")
	compounds := []models.Compound{*paused, *active}

	tests := []struct {
		name string
		s    *models.Schedule
		want bool
	}{
		{"paused by name", models.NewSchedule("BPC-157 250mcg", "250"), true},
		{"active compound", models.NewSchedule("TB-500", "2"), false},
		{"untracked", models.NewSchedule("Semaglutide", "1"), false},
		{"paused by id", models.NewSchedule("Renamed", "1").WithCompoundID(paused.ID.String()), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Paused(*tt.s, compounds); got != tt.want {
				t.Errorf("Paused() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNop(t *testing.T) {
	var a Adapter = Nop{}
	ctx := context.Background()

	if err := a.SyncAll(ctx); err != nil {
		t.Errorf("SyncAll: %v", err)
	}
	if err := a.CancelForSchedule(ctx, []string{"x"}); err != nil {
		t.Errorf("CancelForSchedule: %v", err)
	}
	if err := a.PauseForCompound(ctx, "x"); err != nil {
		t.Errorf("PauseForCompound: %v", err)
	}
	if err := a.ResumeForCompound(ctx, "x"); err != nil {
		t.Errorf("ResumeForCompound: %v", err)
	}
}
