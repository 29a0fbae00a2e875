// ABOUTME: Occurrence Expander: turns schedules into dated occurrences.
// ABOUTME: Pure and deterministic over any requested window.
package engine

import (
	"sort"
	"time"

	"github.com/harperreed/dose/internal/models"
)

// Expand materializes every enabled schedule on each day of
// [windowStart, windowStart+windowDays) whose weekday it fires on.
// Days are computed in windowStart's location. Output is ordered by day,
// then time of day, then input order.
func Expand(schedules []models.Schedule, windowStart time.Time, windowDays int) []models.Occurrence {
	if windowDays <= 0 || !anyActive(schedules) {
		return []models.Occurrence{}
	}

	start := StartOfDay(windowStart, nil)
	occurrences := make([]models.Occurrence, 0, len(schedules))

	for i := 0; i < windowDays; i++ {
		day := AddDays(start, i)
		key := LocalDayKey(day, nil)
		dayStart := len(occurrences)

		for j := range schedules {
			s := &schedules[j]
			if !s.FiresOn(day.Weekday()) {
				continue
			}
			occurrences = append(occurrences, models.Occurrence{
				ScheduleID:  s.ID,
				Date:        day,
				Day:         key,
				Time:        s.Time,
				PeptideName: s.PeptideName,
				CompoundID:  s.CompoundID,
				Amount:      s.Amount,
			})
		}

		today := occurrences[dayStart:]
		sort.SliceStable(today, func(a, b int) bool {
			return clockMinutes(today[a].Time) < clockMinutes(today[b].Time)
		})
	}

	return occurrences
}

// anyActive reports whether some schedule can fire on at least one weekday.
func anyActive(schedules []models.Schedule) bool {
	for i := range schedules {
		if schedules[i].Enabled && len(schedules[i].EffectiveDays()) > 0 {
			return true
		}
	}
	return false
}

// clockMinutes orders HH:MM strings; malformed times sort as midnight.
func clockMinutes(hhmm string) int {
	h, m, _ := models.ParseClock(hhmm)
	return h*60 + m
}
