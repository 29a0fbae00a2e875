// ABOUTME: Shared fixtures for engine tests.
// ABOUTME: Fixed dates and zones keep every test deterministic.
package engine

import (
	"time"

	"github.com/harperreed/dose/internal/models"
)

// sunday is 2025-06-01, a Sunday, at noon in a UTC-5 zone.
var (
	testZone = time.FixedZone("UTC-5", -5*3600)
	sunday   = time.Date(2025, 6, 1, 12, 0, 0, 0, testZone)
)

func day(offset int) time.Time {
	return AddDays(StartOfDay(sunday, nil), offset)
}

func at(offset, hour, minute int) time.Time {
	d := day(offset)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, testZone)
}

func weekly(name string, days ...int) models.Schedule {
	s := models.NewSchedule(name, "1").WithFrequency(models.FrequencyWeekly).WithDays(days...)
	return *s
}

func dose(name string, when time.Time) models.DoseEntry {
	return *models.NewDoseEntry(name, "1").WithDate(when)
}
