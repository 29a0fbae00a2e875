// ABOUTME: Staleness policies deciding when a caller should reload snapshots.
// ABOUTME: Injected into callers; the engine itself keeps no load timestamps.
package engine

import "time"

// StalenessPolicy reports whether a snapshot loaded at lastLoad is stale at now.
type StalenessPolicy interface {
	Stale(lastLoad, now time.Time) bool
}

// AlwaysReload treats every snapshot as stale.
type AlwaysReload struct{}

// Stale always returns true.
func (AlwaysReload) Stale(time.Time, time.Time) bool { return true }

// MinInterval treats a snapshot as fresh for the given duration.
// A non-positive interval behaves like AlwaysReload.
type MinInterval time.Duration

// Stale reports whether at least the interval has passed since lastLoad.
func (d MinInterval) Stale(lastLoad, now time.Time) bool {
	if d <= 0 || lastLoad.IsZero() {
		return true
	}
	return now.Sub(lastLoad) >= time.Duration(d)
}
