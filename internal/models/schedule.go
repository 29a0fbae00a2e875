// ABOUTME: Schedule model and Frequency enum for recurring dose rules.
// ABOUTME: Includes validation and tolerant decoding of persisted day lists.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Frequency describes how often a schedule fires. Weekly and biweekly are
// informational at expansion time; only the day set drives occurrences.
type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
)

// AllFrequencies returns all valid frequencies.
var AllFrequencies = []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyBiweekly}

// IsValidFrequency checks if a string is a valid frequency.
func IsValidFrequency(s string) bool {
	for _, f := range AllFrequencies {
		if string(f) == s {
			return true
		}
	}
	return false
}

// AllDays is every weekday, Sunday=0.
var AllDays = []int{0, 1, 2, 3, 4, 5, 6}

// ErrInvalidSchedule is returned by Validate.
var ErrInvalidSchedule = errors.New("invalid schedule")

// Schedule is a recurring dosing rule.
type Schedule struct {
	ID              string    `json:"id"`
	PeptideName     string    `json:"peptideName"`
	CompoundID      string    `json:"compoundId,omitempty"`
	Amount          string    `json:"amount"`
	Frequency       Frequency `json:"frequency"`
	DaysOfWeek      []int     `json:"daysOfWeek"`
	Time            string    `json:"time"`
	Enabled         bool      `json:"enabled"`
	NotificationIDs []string  `json:"notificationIds,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// NewSchedule creates an enabled daily schedule at 09:00 with a generated ID.
func NewSchedule(peptideName, amount string) *Schedule {
	return &Schedule{
		ID:          uuid.New().String(),
		PeptideName: peptideName,
		Amount:      amount,
		Frequency:   FrequencyDaily,
		DaysOfWeek:  append([]int(nil), AllDays...),
		Time:        "09:00",
		Enabled:     true,
		CreatedAt:   time.Now(),
	}
}

// WithFrequency sets the frequency.
func (s *Schedule) WithFrequency(f Frequency) *Schedule {
	s.Frequency = f
	return s
}

// WithDays sets the weekdays the schedule fires on.
func (s *Schedule) WithDays(days ...int) *Schedule {
	s.DaysOfWeek = NormalizeDays(days)
	return s
}

// WithTime sets the HH:MM time of day.
func (s *Schedule) WithTime(hhmm string) *Schedule {
	s.Time = hhmm
	return s
}

// WithCompoundID links the schedule to a tracked compound.
func (s *Schedule) WithCompoundID(id string) *Schedule {
	s.CompoundID = id
	return s
}

// WithEnabled sets whether the schedule fires.
func (s *Schedule) WithEnabled(enabled bool) *Schedule {
	s.Enabled = enabled
	return s
}

// EffectiveDays returns the weekdays the schedule fires on. Daily schedules
// fire every day regardless of the stored day set.
func (s *Schedule) EffectiveDays() []int {
	if s.Frequency == FrequencyDaily {
		return append([]int(nil), AllDays...)
	}
	return NormalizeDays(s.DaysOfWeek)
}

// FiresOn reports whether the schedule fires on the given weekday.
// Disabled schedules never fire.
func (s *Schedule) FiresOn(weekday time.Weekday) bool {
	if !s.Enabled {
		return false
	}
	if s.Frequency == FrequencyDaily {
		return true
	}
	for _, d := range s.DaysOfWeek {
		if d == int(weekday) {
			return true
		}
	}
	return false
}

// Clock returns the hour and minute of the schedule time. Malformed times
// report ok=false and 00:00.
func (s *Schedule) Clock() (hour, minute int, ok bool) {
	return ParseClock(s.Time)
}

// ScheduledAt returns the firing instant on the calendar day of day, in the
// location of day.
func (s *Schedule) ScheduledAt(day time.Time) time.Time {
	h, m, _ := s.Clock()
	y, mo, d := day.Date()
	return time.Date(y, mo, d, h, m, 0, 0, day.Location())
}

// Validate checks the schedule before it is persisted.
func (s *Schedule) Validate() error {
	if strings.TrimSpace(s.PeptideName) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidSchedule)
	}
	if !IsValidFrequency(string(s.Frequency)) {
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidSchedule, s.Frequency)
	}
	if _, _, ok := ParseClock(s.Time); !ok {
		return fmt.Errorf("%w: time must be HH:MM, got %q", ErrInvalidSchedule, s.Time)
	}
	for _, d := range s.DaysOfWeek {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: day %d out of range 0-6", ErrInvalidSchedule, d)
		}
	}
	if s.Enabled && s.Frequency != FrequencyDaily && len(s.DaysOfWeek) == 0 {
		return fmt.Errorf("%w: %s schedule needs at least one day", ErrInvalidSchedule, s.Frequency)
	}
	return nil
}

// UnmarshalJSON decodes a persisted schedule. Bad day entries are dropped
// and unknown frequencies decode as weekly; neither is an error.
func (s *Schedule) UnmarshalJSON(data []byte) error {
	type alias Schedule
	aux := struct {
		*alias
		Frequency  string          `json:"frequency"`
		DaysOfWeek json.RawMessage `json:"daysOfWeek"`
	}{alias: (*alias)(s)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	s.Frequency = FrequencyWeekly
	if IsValidFrequency(aux.Frequency) {
		s.Frequency = Frequency(aux.Frequency)
	}
	s.DaysOfWeek = SanitizeDays(aux.DaysOfWeek)
	return nil
}

// SanitizeDays decodes a JSON day list leniently. Integers, integral floats
// and numeric strings in 0-6 are kept; everything else is dropped.
func SanitizeDays(raw json.RawMessage) []int {
	if len(raw) == 0 {
		return []int{}
	}
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return []int{}
	}

	days := make([]int, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case float64:
			if v == math.Trunc(v) {
				days = append(days, int(v))
			}
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				days = append(days, n)
			}
		}
	}
	return NormalizeDays(days)
}

// NormalizeDays drops out-of-range days, removes duplicates and sorts.
func NormalizeDays(days []int) []int {
	seen := make(map[int]bool, len(days))
	out := make([]int, 0, len(days))
	for _, d := range days {
		if d < 0 || d > 6 || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}

// ParseClock parses a 24-hour HH:MM string.
func ParseClock(hhmm string) (hour, minute int, ok bool) {
	parts := strings.Split(strings.TrimSpace(hhmm), ":")
	if len(parts) != 2 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 || len(parts[1]) != 2 {
		return 0, 0, false
	}
	return h, m, true
}

// ScheduledDose is a schedule materialized at a concrete time on one day.
type ScheduledDose struct {
	Schedule      Schedule  `json:"schedule"`
	ScheduledTime time.Time `json:"scheduledTime"`
}
