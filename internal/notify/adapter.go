// ABOUTME: Notification sync adapter contract and a no-op implementation.
// ABOUTME: Callers write storage first, then ask the adapter to follow.
package notify

import "context"

// Adapter keeps platform reminders in step with stored schedules.
type Adapter interface {
	// CancelForSchedule drops every reminder belonging to the given schedules.
	CancelForSchedule(ctx context.Context, scheduleIDs []string) error
	// SyncAll recomputes reminders for every stored schedule.
	SyncAll(ctx context.Context) error
	// PauseForCompound cancels reminders of the compound's schedules.
	PauseForCompound(ctx context.Context, name string) error
	// ResumeForCompound restores reminders of the compound's schedules.
	ResumeForCompound(ctx context.Context, name string) error
}

// Nop is an Adapter that does nothing.
type Nop struct{}

var _ Adapter = Nop{}

// CancelForSchedule does nothing.
func (Nop) CancelForSchedule(context.Context, []string) error { return nil }

// SyncAll does nothing.
func (Nop) SyncAll(context.Context) error { return nil }

// PauseForCompound does nothing.
func (Nop) PauseForCompound(context.Context, string) error { return nil }

// ResumeForCompound does nothing.
func (Nop) ResumeForCompound(context.Context, string) error { return nil }
