// ABOUTME: Day Classifier: labels occurrences completed, pending, or missed.
// ABOUTME: Unscheduled log entries are folded in as completed ad hoc items.
package engine

import (
	"sort"
	"time"

	"github.com/harperreed/dose/internal/models"
)

// Classify labels each occurrence against the dose log and groups the result
// by calendar day. An occurrence is completed when a matching dose was logged
// on its day, missed when its day is before reference's day, and pending
// otherwise. Log entries matching no occurrence on their day appear as
// completed ad hoc items. Days without any item are omitted.
//
// Occurrences and reference are expected to share a location; log entries are
// bucketed into days in reference's location.
func Classify(occurrences []models.Occurrence, log []models.DoseEntry, reference time.Time) []models.ClassifiedDay {
	loc := reference.Location()
	today := LocalDayKey(reference, nil)

	days := make(map[string]*models.ClassifiedDay)
	dayFor := func(key string, date time.Time) *models.ClassifiedDay {
		d, ok := days[key]
		if !ok {
			d = &models.ClassifiedDay{Date: StartOfDay(date, loc), Day: key}
			days[key] = d
		}
		return d
	}

	byDay := make(map[string][]models.Occurrence)
	for _, occ := range occurrences {
		key := occ.Day
		if key == "" {
			key = LocalDayKey(occ.Date, nil)
			occ.Day = key
		}
		byDay[key] = append(byDay[key], occ)

		item := models.ClassifiedOccurrence{Occurrence: occ}
		switch entry := FindMatch(occ, log); {
		case entry != nil:
			e := *entry
			item.Status = models.StatusCompleted
			item.Entry = &e
		case key < today:
			item.Status = models.StatusMissed
		default:
			item.Status = models.StatusPending
		}

		d := dayFor(key, occ.Date)
		d.Occurrences = append(d.Occurrences, item)
	}

	for i := range log {
		e := log[i]
		key := LocalDayKey(e.Date, loc)
		if matchesAny(e, byDay[key]) {
			continue
		}
		local := e.Date.In(loc)
		d := dayFor(key, local)
		d.Occurrences = append(d.Occurrences, models.ClassifiedOccurrence{
			Occurrence: models.Occurrence{
				Date:        StartOfDay(local, nil),
				Day:         key,
				Time:        local.Format("15:04"),
				PeptideName: e.PeptideName,
				CompoundID:  e.CompoundID,
				Amount:      e.Amount,
			},
			Status: models.StatusCompleted,
			AdHoc:  true,
			Entry:  &e,
		})
	}

	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]models.ClassifiedDay, 0, len(keys))
	for _, k := range keys {
		d := days[k]
		sort.SliceStable(d.Occurrences, func(a, b int) bool {
			return clockMinutes(d.Occurrences[a].Time) < clockMinutes(d.Occurrences[b].Time)
		})
		result = append(result, *d)
	}
	return result
}

func matchesAny(e models.DoseEntry, occurrences []models.Occurrence) bool {
	for _, occ := range occurrences {
		if refersTo(occ.CompoundID, occ.PeptideName, e.CompoundID, e.PeptideName) {
			return true
		}
	}
	return false
}

// EntriesInWindow returns the log entries whose calendar day in windowStart's
// location falls inside [windowStart, windowStart+windowDays).
func EntriesInWindow(log []models.DoseEntry, windowStart time.Time, windowDays int) []models.DoseEntry {
	out := make([]models.DoseEntry, 0, len(log))
	if windowDays <= 0 {
		return out
	}
	loc := windowStart.Location()
	first := LocalDayKey(windowStart, nil)
	last := LocalDayKey(AddDays(StartOfDay(windowStart, nil), windowDays-1), nil)

	for _, e := range log {
		key := LocalDayKey(e.Date, loc)
		if key >= first && key <= last {
			out = append(out, e)
		}
	}
	return out
}
