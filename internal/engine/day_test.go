// ABOUTME: Tests for local day-key helpers.
// ABOUTME: Guards against the UTC day-shift near midnight.
package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalDayKeyUsesLocalComponents(t *testing.T) {
	lateEvening := time.Date(2025, 6, 1, 23, 30, 0, 0, testZone)

	assert.Equal(t, "2025-06-01", LocalDayKey(lateEvening, nil))
	assert.Equal(t, "2025-06-01", LocalDayKey(lateEvening, testZone))
	assert.Equal(t, "2025-06-02", LocalDayKey(lateEvening, time.UTC), "same instant is already tomorrow in UTC")
}

func TestStartOfDay(t *testing.T) {
	got := StartOfDay(time.Date(2025, 6, 1, 23, 30, 0, 0, testZone), nil)

	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, testZone), got)
	assert.Equal(t, testZone, got.Location())
}

func TestParseDayKey(t *testing.T) {
	got, err := ParseDayKey("2025-06-01", testZone)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, testZone), got)

	_, err = ParseDayKey("06/01/2025", testZone)
	assert.Error(t, err)
}

func TestAddDaysAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}

	// DST starts 2025-03-09 in New York; that day is 23 hours long.
	start := time.Date(2025, 3, 8, 0, 0, 0, 0, ny)
	next := AddDays(start, 2)

	assert.Equal(t, "2025-03-10", LocalDayKey(next, nil))
	assert.Equal(t, 0, next.Hour())
}

func TestWindowAround(t *testing.T) {
	start, days := WindowAround(sunday, 7, 14)

	assert.Equal(t, "2025-05-25", LocalDayKey(start, nil))
	assert.Equal(t, 22, days)

	start, days = WindowAround(sunday, -3, -1)
	assert.Equal(t, "2025-06-01", LocalDayKey(start, nil))
	assert.Equal(t, 1, days)
}
