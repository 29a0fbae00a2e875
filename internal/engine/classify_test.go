// ABOUTME: Tests for the Day Classifier.
// ABOUTME: Covers completed/missed/pending, ad hoc doses, and empty days.
package engine

import (
	"testing"

	"github.com/harperreed/dose/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyCompletedBySubstring(t *testing.T) {
	s := weekly("BPC-157 250mcg", 0)
	occ := Expand([]models.Schedule{s}, day(0), 1)
	log := []models.DoseEntry{dose("BPC-157", at(0, 8, 0))}

	days := Classify(occ, log, sunday)

	require.Len(t, days, 1)
	require.Len(t, days[0].Occurrences, 1)
	item := days[0].Occurrences[0]
	assert.Equal(t, models.StatusCompleted, item.Status)
	assert.False(t, item.AdHoc)
	require.NotNil(t, item.Entry)
	assert.Equal(t, log[0].ID, item.Entry.ID)
}

func TestClassifyMissedAndPending(t *testing.T) {
	s := weekly("TB-500", 0, 1, 2, 3, 4, 5, 6)
	occ := Expand([]models.Schedule{s}, day(-1), 3)

	days := Classify(occ, nil, sunday)

	require.Len(t, days, 3)
	assert.Equal(t, models.StatusMissed, days[0].Occurrences[0].Status, "yesterday")
	assert.Equal(t, models.StatusPending, days[1].Occurrences[0].Status, "today")
	assert.Equal(t, models.StatusPending, days[2].Occurrences[0].Status, "tomorrow")
}

func TestClassifyAdHocOnlyDay(t *testing.T) {
	log := []models.DoseEntry{dose("Ipamorelin", at(-2, 20, 15))}

	days := Classify(nil, log, sunday)

	require.Len(t, days, 1)
	assert.Equal(t, LocalDayKey(day(-2), nil), days[0].Day)
	require.Len(t, days[0].Occurrences, 1)
	item := days[0].Occurrences[0]
	assert.True(t, item.AdHoc)
	assert.Equal(t, models.StatusCompleted, item.Status)
	assert.Equal(t, "20:15", item.Time)
	assert.Empty(t, item.ScheduleID)
}

func TestClassifyUnmatchedEntryBesideSchedule(t *testing.T) {
	s := weekly("BPC-157", 0)
	occ := Expand([]models.Schedule{s}, day(0), 1)
	log := []models.DoseEntry{
		dose("BPC-157", at(0, 8, 0)),
		dose("TB-500", at(0, 7, 0)),
	}

	days := Classify(occ, log, sunday)

	require.Len(t, days, 1)
	require.Len(t, days[0].Occurrences, 2)
	assert.Equal(t, "TB-500", days[0].Occurrences[0].PeptideName, "sorted by time")
	assert.True(t, days[0].Occurrences[0].AdHoc)
	assert.False(t, days[0].Occurrences[1].AdHoc)
	assert.Equal(t, 2, days[0].Count(models.StatusCompleted))
}

func TestClassifyOmitsEmptyDays(t *testing.T) {
	s := weekly("BPC-157", 1)
	occ := Expand([]models.Schedule{s}, day(0), 7)

	days := Classify(occ, nil, sunday)

	require.Len(t, days, 1)
	assert.Equal(t, LocalDayKey(day(1), nil), days[0].Day)
}

func TestClassifyDaysSorted(t *testing.T) {
	s := weekly("BPC-157", 2, 4)
	occ := Expand([]models.Schedule{s}, day(0), 7)
	log := []models.DoseEntry{dose("Other", at(6, 9, 0)), dose("Other", at(0, 9, 0))}

	days := Classify(occ, log, sunday)

	require.Len(t, days, 4)
	for i := 1; i < len(days); i++ {
		assert.Less(t, days[i-1].Day, days[i].Day)
	}
}

func TestEntriesInWindow(t *testing.T) {
	log := []models.DoseEntry{
		dose("A", at(-1, 23, 59)),
		dose("B", at(0, 0, 0)),
		dose("C", at(6, 23, 59)),
		dose("D", at(7, 0, 0)),
	}

	got := EntriesInWindow(log, day(0), 7)

	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].PeptideName)
	assert.Equal(t, "C", got[1].PeptideName)
	assert.Empty(t, EntriesInWindow(log, day(0), 0))
}
