// ABOUTME: Tests for adherence percentages and streaks.
// ABOUTME: Covers the grace day, rounding, and monotonicity.
package engine

import (
	"testing"

	"github.com/harperreed/dose/internal/models"
	"github.com/stretchr/testify/assert"
)

func daily(name string) models.Schedule {
	return *models.NewSchedule(name, "1")
}

func TestStreakGraceDayForToday(t *testing.T) {
	log := []models.DoseEntry{
		dose("A", at(-1, 9, 0)),
		dose("A", at(-2, 9, 0)),
		dose("A", at(-3, 9, 0)),
	}

	got := Streak(log, sunday)

	assert.Equal(t, 3, got.Current)
	assert.Equal(t, 3, got.Best)
}

func TestStreakBrokenByYesterday(t *testing.T) {
	log := []models.DoseEntry{
		dose("A", at(-2, 9, 0)),
		dose("A", at(-3, 9, 0)),
	}

	got := Streak(log, sunday)

	assert.Equal(t, 0, got.Current)
	assert.Equal(t, 2, got.Best)
}

func TestStreakIncludesToday(t *testing.T) {
	log := []models.DoseEntry{
		dose("A", at(0, 7, 0)),
		dose("B", at(0, 8, 0)),
		dose("A", at(-1, 9, 0)),
	}

	assert.Equal(t, 2, Streak(log, sunday).Current)
}

func TestStreakBestAcrossGaps(t *testing.T) {
	log := []models.DoseEntry{
		dose("A", at(-1, 9, 0)),
		dose("A", at(-10, 9, 0)),
		dose("A", at(-11, 9, 0)),
		dose("A", at(-12, 9, 0)),
		dose("A", at(-13, 9, 0)),
	}

	got := Streak(log, sunday)

	assert.Equal(t, 1, got.Current)
	assert.Equal(t, 4, got.Best)
}

func TestStreakEmptyLog(t *testing.T) {
	assert.Equal(t, StreakResult{}, Streak(nil, sunday))
}

func TestAdherenceNothingScheduled(t *testing.T) {
	assert.Equal(t, 100, Adherence(nil, nil, sunday, 7))
	assert.Equal(t, 100, Adherence([]models.Schedule{weekly("A")}, nil, sunday, 7))
}

func TestAdherenceRounds(t *testing.T) {
	log := []models.DoseEntry{
		dose("A", at(-1, 9, 0)),
		dose("A", at(-2, 9, 0)),
		dose("A", at(-3, 9, 0)),
	}

	// 3 of 7 days is 42.86%.
	assert.Equal(t, 43, Adherence([]models.Schedule{daily("A")}, log, sunday, 7))
}

func TestAdherenceOnlyCountsScheduledDays(t *testing.T) {
	// Sunday and Wednesday fall in the last seven days.
	s := weekly("A", 0, 3)
	log := []models.DoseEntry{
		dose("A", at(-4, 9, 0)),
		dose("A", at(-1, 9, 0)),
	}

	report := Summary([]models.Schedule{s}, log, sunday, 7)

	assert.Equal(t, 2, report.ScheduledDays)
	assert.Equal(t, 1, report.SatisfiedDays)
	assert.Equal(t, 50, report.Percent)
	assert.Equal(t, 7, report.WindowDays)
}

func TestAdherenceIgnoresDisabled(t *testing.T) {
	s := daily("A")
	s.Enabled = false

	assert.Equal(t, 100, Adherence([]models.Schedule{s}, nil, sunday, 7))
}

func TestAdherenceDefaultWindow(t *testing.T) {
	report := Summary([]models.Schedule{daily("A")}, nil, sunday, 0)

	assert.Equal(t, DefaultAdherenceWindow, report.WindowDays)
	assert.Equal(t, 0, report.Percent)
	assert.Equal(t, 0, Adherence([]models.Schedule{daily("A")}, nil, sunday, -3))
}

func TestAdherenceMonotonicWhenLoggingToday(t *testing.T) {
	schedules := []models.Schedule{daily("A")}
	log := []models.DoseEntry{dose("A", at(-2, 9, 0))}

	before := Adherence(schedules, log, sunday, 7)
	after := Adherence(schedules, append(log, dose("A", at(0, 9, 0))), sunday, 7)

	assert.GreaterOrEqual(t, after, before)
	assert.GreaterOrEqual(t, after, 0)
	assert.LessOrEqual(t, after, 100)
}
