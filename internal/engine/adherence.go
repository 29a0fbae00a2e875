// ABOUTME: Adherence & Streak Calculator over the dose log.
// ABOUTME: Day-level granularity: any logged dose satisfies a scheduled day.
package engine

import (
	"math"
	"sort"
	"time"

	"github.com/harperreed/dose/internal/models"
)

// DefaultAdherenceWindow is the number of days adherence looks back over.
const DefaultAdherenceWindow = 7

// StreakResult holds the current and best consecutive-day runs.
type StreakResult struct {
	Current int `json:"current"`
	Best    int `json:"best"`
}

// AdherenceReport is the adherence percentage with the counts behind it.
type AdherenceReport struct {
	WindowDays    int          `json:"windowDays"`
	ScheduledDays int          `json:"scheduledDays"`
	SatisfiedDays int          `json:"satisfiedDays"`
	Percent       int          `json:"percent"`
	Streak        StreakResult `json:"streak"`
}

// Adherence returns the rounded percentage of scheduled days among the last
// windowDays (today included) that have at least one logged dose. With no
// scheduled days it is 100. A non-positive window uses the default.
func Adherence(schedules []models.Schedule, log []models.DoseEntry, now time.Time, windowDays int) int {
	scheduled, satisfied := adherenceCounts(schedules, log, now, windowDays)
	return percent(scheduled, satisfied)
}

// Summary computes adherence counts and streaks together.
func Summary(schedules []models.Schedule, log []models.DoseEntry, now time.Time, windowDays int) AdherenceReport {
	if windowDays <= 0 {
		windowDays = DefaultAdherenceWindow
	}
	scheduled, satisfied := adherenceCounts(schedules, log, now, windowDays)
	return AdherenceReport{
		WindowDays:    windowDays,
		ScheduledDays: scheduled,
		SatisfiedDays: satisfied,
		Percent:       percent(scheduled, satisfied),
		Streak:        Streak(log, now),
	}
}

func adherenceCounts(schedules []models.Schedule, log []models.DoseEntry, now time.Time, windowDays int) (scheduled, satisfied int) {
	if windowDays <= 0 {
		windowDays = DefaultAdherenceWindow
	}
	logged := loggedDays(log, now.Location())
	today := StartOfDay(now, nil)

	for i := 0; i < windowDays; i++ {
		day := AddDays(today, -i)
		if !anyFires(schedules, day.Weekday()) {
			continue
		}
		scheduled++
		if logged[LocalDayKey(day, nil)] {
			satisfied++
		}
	}
	return scheduled, satisfied
}

func percent(scheduled, satisfied int) int {
	if scheduled == 0 {
		return 100
	}
	return int(math.Round(float64(satisfied) / float64(scheduled) * 100))
}

func anyFires(schedules []models.Schedule, weekday time.Weekday) bool {
	for i := range schedules {
		if schedules[i].FiresOn(weekday) {
			return true
		}
	}
	return false
}

// Streak counts consecutive days with at least one logged dose, walking back
// from today. If today has no dose yet the walk starts at yesterday. Best is
// the longest run anywhere in the log.
func Streak(log []models.DoseEntry, now time.Time) StreakResult {
	loc := now.Location()
	logged := loggedDays(log, loc)

	day := StartOfDay(now, nil)
	if !logged[LocalDayKey(day, nil)] {
		day = AddDays(day, -1)
	}
	current := 0
	for logged[LocalDayKey(day, nil)] {
		current++
		day = AddDays(day, -1)
	}

	best := longestRun(logged, loc)
	if current > best {
		best = current
	}
	return StreakResult{Current: current, Best: best}
}

func loggedDays(log []models.DoseEntry, loc *time.Location) map[string]bool {
	days := make(map[string]bool, len(log))
	for _, e := range log {
		days[LocalDayKey(e.Date, loc)] = true
	}
	return days
}

func longestRun(logged map[string]bool, loc *time.Location) int {
	keys := make([]string, 0, len(logged))
	for k := range logged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best, run := 0, 0
	var prev time.Time
	for i, k := range keys {
		day, err := ParseDayKey(k, loc)
		if err != nil {
			continue
		}
		if i > 0 && LocalDayKey(AddDays(prev, 1), nil) == k {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
		prev = day
	}
	return best
}
