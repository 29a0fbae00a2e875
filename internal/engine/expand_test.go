// ABOUTME: Tests for the Occurrence Expander.
// ABOUTME: Covers weekday filtering, daily and disabled schedules, and ordering.
package engine

import (
	"testing"
	"time"

	"github.com/harperreed/dose/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandMonWedFri(t *testing.T) {
	s := weekly("BPC-157", 1, 3, 5)
	s.Time = "09:00"

	occ := Expand([]models.Schedule{s}, day(0), 7)

	require.Len(t, occ, 3)
	want := []time.Weekday{time.Monday, time.Wednesday, time.Friday}
	for i, o := range occ {
		assert.Equal(t, want[i], o.Date.Weekday())
		assert.Equal(t, "09:00", o.Time)
		assert.Equal(t, s.ID, o.ScheduleID)
		assert.Equal(t, LocalDayKey(o.Date, nil), o.Day)
	}
}

func TestExpandDailyIgnoresDaySet(t *testing.T) {
	s := *models.NewSchedule("Semaglutide", "0.25")
	s.DaysOfWeek = []int{2}

	occ := Expand([]models.Schedule{s}, day(0), 7)
	assert.Len(t, occ, 7)
}

func TestExpandDisabledEmitsNothing(t *testing.T) {
	s := weekly("TB-500", 0, 1, 2, 3, 4, 5, 6)
	s.Enabled = false

	assert.Empty(t, Expand([]models.Schedule{s}, day(0), 14))
}

func TestExpandEmptyWindow(t *testing.T) {
	s := weekly("TB-500", 1)

	assert.Empty(t, Expand([]models.Schedule{s}, day(0), 0))
	assert.Empty(t, Expand([]models.Schedule{s}, day(0), -3))
	assert.Empty(t, Expand(nil, day(0), 7))
}

func TestExpandHugeWindowWithoutActiveSchedules(t *testing.T) {
	off := weekly("TB-500", 1)
	off.Enabled = false
	noDays := weekly("BPC-157")

	assert.NotPanics(t, func() {
		assert.Empty(t, Expand([]models.Schedule{off, noDays}, day(0), 1<<50))
	})
}

func TestExpandLongWindow(t *testing.T) {
	s := weekly("Tirzepatide", 6)

	var occ []models.Occurrence
	require.NotPanics(t, func() {
		occ = Expand([]models.Schedule{s}, day(0), 7*5000)
	})
	require.Len(t, occ, 5000)
	assert.Equal(t, time.Saturday, occ[len(occ)-1].Date.Weekday())
}

func TestExpandOrdersByDayThenTime(t *testing.T) {
	evening := weekly("Evening", 1)
	evening.Time = "21:00"
	morning := weekly("Morning", 1, 2)
	morning.Time = "07:30"

	occ := Expand([]models.Schedule{evening, morning}, day(0), 3)

	require.Len(t, occ, 3)
	assert.Equal(t, "Morning", occ[0].PeptideName)
	assert.Equal(t, "Evening", occ[1].PeptideName)
	assert.Equal(t, "Morning", occ[2].PeptideName)
	assert.Equal(t, time.Tuesday, occ[2].Date.Weekday())
}

func TestExpandStartsAtCalendarDay(t *testing.T) {
	s := weekly("BPC-157", 0)

	// A window starting late on Sunday still includes Sunday.
	occ := Expand([]models.Schedule{s}, time.Date(2025, 6, 1, 23, 59, 0, 0, testZone), 1)

	require.Len(t, occ, 1)
	assert.Equal(t, "2025-06-01", occ[0].Day)
	assert.Equal(t, 0, occ[0].Date.Hour())
}

func TestExpandEmitsExactlyMatchingWeekdays(t *testing.T) {
	daySets := [][]int{{0}, {6}, {1, 3, 5}, {0, 2, 4, 6}, {0, 1, 2, 3, 4, 5, 6}}

	for _, days := range daySets {
		members := make(map[time.Weekday]bool)
		for _, d := range days {
			members[time.Weekday(d)] = true
		}
		s := weekly("X", days...)

		for offset := 0; offset < 7; offset++ {
			for _, window := range []int{1, 5, 7, 30} {
				occ := Expand([]models.Schedule{s}, day(offset), window)

				want := 0
				for i := 0; i < window; i++ {
					if members[day(offset+i).Weekday()] {
						want++
					}
				}
				assert.Len(t, occ, want, "days=%v offset=%d window=%d", days, offset, window)

				seen := make(map[string]bool)
				for _, o := range occ {
					assert.True(t, members[o.Date.Weekday()], "unexpected weekday %s", o.Date.Weekday())
					assert.False(t, seen[o.Day], "duplicate occurrence on %s", o.Day)
					seen[o.Day] = true
				}
			}
		}
	}
}
