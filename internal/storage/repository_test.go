// ABOUTME: Tests for the SQLite Repository implementation.
// ABOUTME: Verifies compounds, schedules, doses, and reminders CRUD.
package storage

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/dose/internal/models"
)

// setupTestDB creates a test database in a temp directory.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "dose-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(tmpDir) })

	dbPath := filepath.Join(tmpDir, "dose.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func TestSaveAndGetCompound(t *testing.T) {
	db := setupTestDB(t)

	c := models.NewCompound("BPC-157").WithCategory("peptide")
	if err := db.SaveCompound(c); err != nil {
		t.Fatalf("SaveCompound failed: %v", err)
	}

	got, err := db.GetCompound(c.ID.String()[:8])
	if err != nil {
		t.Fatalf("GetCompound by prefix failed: %v", err)
	}
	if got.ID != c.ID || got.Name != "BPC-157" || got.Category != "peptide" {
		t.Errorf("unexpected compound: %+v", got)
	}
	if got.Paused {
		t.Error("new compound should not be paused")
	}
}

func TestListCompoundsCreationOrder(t *testing.T) {
	db := setupTestDB(t)

	first := models.NewCompound("TB-500")
	first.CreatedAt = time.Now().Add(-time.Hour)
	second := models.NewCompound("BPC-157")

	for _, c := range []*models.Compound{second, first} {
		if err := db.SaveCompound(c); err != nil {
			t.Fatalf("SaveCompound failed: %v", err)
		}
	}

	all, err := db.ListCompounds()
	if err != nil {
		t.Fatalf("ListCompounds failed: %v", err)
	}
	if len(all) != 2 || all[0].ID != first.ID || all[1].ID != second.ID {
		t.Errorf("unexpected order: %+v", all)
	}
}

func TestDeleteCompound(t *testing.T) {
	db := setupTestDB(t)

	c := models.NewCompound("BPC-157")
	if err := db.SaveCompound(c); err != nil {
		t.Fatalf("SaveCompound failed: %v", err)
	}
	if err := db.DeleteCompound(c.ID.String()[:8]); err != nil {
		t.Fatalf("DeleteCompound failed: %v", err)
	}
	if _, err := db.GetCompound(c.ID.String()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := db.DeleteCompound(c.ID.String()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestSetCompoundPaused(t *testing.T) {
	db := setupTestDB(t)

	c := models.NewCompound("BPC-157")
	other := models.NewCompound("TB-500")
	for _, x := range []*models.Compound{c, other} {
		if err := db.SaveCompound(x); err != nil {
			t.Fatalf("SaveCompound failed: %v", err)
		}
	}

	if err := db.SetCompoundPaused("bpc-157", true); err != nil {
		t.Fatalf("SetCompoundPaused failed: %v", err)
	}
	got, _ := db.GetCompound(c.ID.String())
	if !got.Paused {
		t.Error("expected compound to be paused")
	}
	untouched, _ := db.GetCompound(other.ID.String())
	if untouched.Paused {
		t.Error("other compound should not be paused")
	}

	if err := db.SetCompoundPaused("Semaglutide", true); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAmbiguousPrefixError(t *testing.T) {
	db := setupTestDB(t)

	a := models.NewCompound("A")
	a.ID = uuid.MustParse("abcdef00-0000-4000-8000-000000000001")
	b := models.NewCompound("B")
	b.ID = uuid.MustParse("abcdef00-0000-4000-8000-000000000002")
	for _, c := range []*models.Compound{a, b} {
		if err := db.SaveCompound(c); err != nil {
			t.Fatalf("SaveCompound failed: %v", err)
		}
	}

	_, err := db.GetCompound("abcdef00")
	if !errors.Is(err, ErrAmbiguous) {
		t.Fatalf("expected ErrAmbiguous, got %v", err)
	}
	if err.Error() != "ambiguous prefix abcdef00: matches multiple records" {
		t.Errorf("unexpected message: %q", err.Error())
	}

	got, err := db.GetCompound(a.ID.String())
	if err != nil || got.ID != a.ID {
		t.Errorf("full ID should resolve exactly: %v, %v", got, err)
	}
}

func TestGetCompoundNotFoundMessage(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetCompound("deadbeef")
	if err == nil || err.Error() != "not found: deadbeef" {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := db.GetCompound(""); !errors.Is(err, ErrNotFound) {
		t.Errorf("empty prefix should be not found, got %v", err)
	}
}

func TestSaveScheduleAssignsIDAndReturnsList(t *testing.T) {
	db := setupTestDB(t)

	s := models.NewSchedule("BPC-157 250mcg", "250").WithFrequency(models.FrequencyWeekly).WithDays(1, 3, 5)
	s.ID = ""

	list, err := db.SaveSchedule(s)
	if err != nil {
		t.Fatalf("SaveSchedule failed: %v", err)
	}
	if s.ID == "" {
		t.Fatal("expected ID to be assigned")
	}
	if len(list) != 1 || list[0].ID != s.ID {
		t.Fatalf("unexpected list: %+v", list)
	}

	got := list[0]
	if got.Frequency != models.FrequencyWeekly || !reflect.DeepEqual(got.DaysOfWeek, []int{1, 3, 5}) {
		t.Errorf("unexpected schedule: %+v", got)
	}
	if got.Time != "09:00" || !got.Enabled || got.Amount != "250" {
		t.Errorf("unexpected schedule fields: %+v", got)
	}
}

func TestSaveScheduleReplaces(t *testing.T) {
	db := setupTestDB(t)

	s := models.NewSchedule("TB-500", "2")
	if _, err := db.SaveSchedule(s); err != nil {
		t.Fatalf("SaveSchedule failed: %v", err)
	}

	s.Enabled = false
	s.NotificationIDs = []string{"r1", "r2"}
	list, err := db.SaveSchedule(s)
	if err != nil {
		t.Fatalf("SaveSchedule replace failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected replace, got %d schedules", len(list))
	}
	if list[0].Enabled || !reflect.DeepEqual(list[0].NotificationIDs, []string{"r1", "r2"}) {
		t.Errorf("replace not persisted: %+v", list[0])
	}
}

func TestGetSchedulesSanitizesStoredDays(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.db.Exec(`INSERT INTO schedules (id, peptide_name, amount, frequency, days_of_week, time, enabled, notification_ids, created_at)
		VALUES ('s1', 'BPC-157', '250', 'fortnightly', '["1", 3.0, "x", 9, 2.5]', '08:00', 1, 'garbage', ?)`,
		formatTime(time.Now()))
	if err != nil {
		t.Fatalf("raw insert failed: %v", err)
	}

	got, err := db.GetSchedule("s1")
	if err != nil {
		t.Fatalf("GetSchedule failed: %v", err)
	}
	if !reflect.DeepEqual(got.DaysOfWeek, []int{1, 3}) {
		t.Errorf("DaysOfWeek = %v, want [1 3]", got.DaysOfWeek)
	}
	if got.Frequency != models.FrequencyWeekly {
		t.Errorf("Frequency = %s, want weekly", got.Frequency)
	}
	if got.NotificationIDs != nil {
		t.Errorf("NotificationIDs = %v, want nil", got.NotificationIDs)
	}
}

func TestDeleteSchedule(t *testing.T) {
	db := setupTestDB(t)

	s := models.NewSchedule("BPC-157", "250")
	if _, err := db.SaveSchedule(s); err != nil {
		t.Fatalf("SaveSchedule failed: %v", err)
	}
	if err := db.DeleteSchedule(s.ID[:8]); err != nil {
		t.Fatalf("DeleteSchedule failed: %v", err)
	}
	if err := db.DeleteSchedule(s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteSchedulesByPeptide(t *testing.T) {
	db := setupTestDB(t)

	tirz := models.NewSchedule("Tirzepatide 10mg", "10")
	tirz2 := models.NewSchedule("tirzepatide", "5")
	bpc := models.NewSchedule("BPC-157", "250")
	for _, s := range []*models.Schedule{tirz, tirz2, bpc} {
		if _, err := db.SaveSchedule(s); err != nil {
			t.Fatalf("SaveSchedule failed: %v", err)
		}
	}

	if err := db.DeleteSchedulesByPeptide("Tirzepatide"); err != nil {
		t.Fatalf("DeleteSchedulesByPeptide failed: %v", err)
	}

	left, _ := db.GetSchedules()
	if len(left) != 1 || left[0].ID != bpc.ID {
		t.Errorf("unexpected remaining schedules: %+v", left)
	}
}

func TestClearAllSchedules(t *testing.T) {
	db := setupTestDB(t)

	for _, name := range []string{"A", "B"} {
		if _, err := db.SaveSchedule(models.NewSchedule(name, "1")); err != nil {
			t.Fatalf("SaveSchedule failed: %v", err)
		}
	}
	if err := db.ClearAllSchedules(); err != nil {
		t.Fatalf("ClearAllSchedules failed: %v", err)
	}
	left, err := db.GetSchedules()
	if err != nil || len(left) != 0 {
		t.Errorf("expected no schedules, got %v (%v)", left, err)
	}
}

func TestGetScheduledDosesForDate(t *testing.T) {
	db := setupTestDB(t)
	loc := time.FixedZone("UTC+9", 9*3600)
	monday := time.Date(2025, 6, 2, 15, 0, 0, 0, loc)

	late := models.NewSchedule("TB-500", "2").WithTime("20:00")
	early := models.NewSchedule("BPC-157", "250").WithFrequency(models.FrequencyWeekly).WithDays(1).WithTime("07:30")
	tuesday := models.NewSchedule("Semaglutide", "1").WithFrequency(models.FrequencyWeekly).WithDays(2)
	off := models.NewSchedule("Off", "1").WithEnabled(false)
	for _, s := range []*models.Schedule{late, early, tuesday, off} {
		if _, err := db.SaveSchedule(s); err != nil {
			t.Fatalf("SaveSchedule failed: %v", err)
		}
	}

	doses, err := db.GetScheduledDosesForDate(monday)
	if err != nil {
		t.Fatalf("GetScheduledDosesForDate failed: %v", err)
	}
	if len(doses) != 2 {
		t.Fatalf("expected 2 scheduled doses, got %d", len(doses))
	}
	if doses[0].Schedule.ID != early.ID || doses[1].Schedule.ID != late.ID {
		t.Errorf("unexpected order: %s, %s", doses[0].Schedule.PeptideName, doses[1].Schedule.PeptideName)
	}
	want := time.Date(2025, 6, 2, 7, 30, 0, 0, loc)
	if !doses[0].ScheduledTime.Equal(want) {
		t.Errorf("ScheduledTime = %v, want %v", doses[0].ScheduledTime, want)
	}
}

func TestDoseHistoryNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	east := time.FixedZone("UTC+10", 10*3600)
	west := time.FixedZone("UTC-7", -7*3600)

	// Same wall-clock string order would put "older" first; the instant order differs.
	older := models.NewDoseEntry("BPC-157", "250").WithDate(time.Date(2025, 6, 1, 20, 0, 0, 0, east))
	newer := models.NewDoseEntry("BPC-157", "250").WithDate(time.Date(2025, 6, 1, 8, 0, 0, 0, west))

	for _, e := range []*models.DoseEntry{older, newer} {
		if err := db.SaveDose(e); err != nil {
			t.Fatalf("SaveDose failed: %v", err)
		}
	}

	history, err := db.GetDoseHistory()
	if err != nil {
		t.Fatalf("GetDoseHistory failed: %v", err)
	}
	if len(history) != 2 || history[0].ID != newer.ID {
		t.Fatalf("expected newest first, got %+v", history)
	}

	_, offset := history[1].Date.Zone()
	if offset != 10*3600 {
		t.Errorf("stored offset lost: got %d", offset)
	}
	if history[1].Date.Day() != 1 {
		t.Errorf("local calendar day changed: %v", history[1].Date)
	}
}

func TestSaveDoseDefaultsDate(t *testing.T) {
	db := setupTestDB(t)

	e := &models.DoseEntry{PeptideName: "TB-500", Amount: "2"}
	if err := db.SaveDose(e); err != nil {
		t.Fatalf("SaveDose failed: %v", err)
	}
	if e.Date.IsZero() || e.ID == uuid.Nil {
		t.Errorf("expected date and ID to be set: %+v", e)
	}
}

func TestClearDoseHistory(t *testing.T) {
	db := setupTestDB(t)

	if err := db.SaveDose(models.NewDoseEntry("A", "1")); err != nil {
		t.Fatalf("SaveDose failed: %v", err)
	}
	if err := db.ClearDoseHistory(); err != nil {
		t.Fatalf("ClearDoseHistory failed: %v", err)
	}
	history, _ := db.GetDoseHistory()
	if len(history) != 0 {
		t.Errorf("expected empty history, got %d", len(history))
	}
}

func TestReplaceAndDeleteReminders(t *testing.T) {
	db := setupTestDB(t)

	s := models.NewSchedule("BPC-157", "250")
	now := time.Now()
	later := *models.NewReminder(s, now.Add(2*time.Hour))
	sooner := *models.NewReminder(s, now.Add(time.Hour))
	other := *models.NewReminder(models.NewSchedule("TB-500", "2"), now.Add(3*time.Hour))

	if err := db.ReplaceReminders(s.ID, []models.Reminder{later, sooner}); err != nil {
		t.Fatalf("ReplaceReminders failed: %v", err)
	}
	if err := db.ReplaceReminders(other.ScheduleID, []models.Reminder{other}); err != nil {
		t.Fatalf("ReplaceReminders failed: %v", err)
	}

	all, err := db.ListReminders()
	if err != nil {
		t.Fatalf("ListReminders failed: %v", err)
	}
	if len(all) != 3 || all[0].ID != sooner.ID || all[2].ID != other.ID {
		t.Fatalf("unexpected reminders: %+v", all)
	}

	// Replacing with an empty set cancels only that schedule's reminders.
	if err := db.ReplaceReminders(s.ID, nil); err != nil {
		t.Fatalf("ReplaceReminders failed: %v", err)
	}
	all, _ = db.ListReminders()
	if len(all) != 1 || all[0].ID != other.ID {
		t.Fatalf("unexpected reminders after cancel: %+v", all)
	}

	if err := db.DeleteReminders([]string{other.ID, "missing"}); err != nil {
		t.Fatalf("DeleteReminders failed: %v", err)
	}
	all, _ = db.ListReminders()
	if len(all) != 0 {
		t.Errorf("expected no reminders, got %d", len(all))
	}
}

func TestDBClose(t *testing.T) {
	db := setupTestDB(t)

	if err := db.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestDBCloseNilDB(t *testing.T) {
	d := &DB{db: nil}
	if err := d.Close(); err != nil {
		t.Errorf("Close on nil db should not error: %v", err)
	}
}
