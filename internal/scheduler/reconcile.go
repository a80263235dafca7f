package scheduler

import (
	"context"
	"time"

	"github.com/SkillNet-official/telegram-reminder-bot/internal/metrics"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/planner"
)

// Reconcile rebuilds the live timer set from the store. It runs once at
// startup, before any transport accepts requests: reminders whose event time
// already passed are removed, everything else is re-planned against now and
// re-armed. A future reminder whose offsets have both passed stays in the
// store with zero armed notifications.
func (e *Engine) Reconcile(ctx context.Context, now time.Time) error {
	reminders, err := e.store.LoadAll(ctx)
	if err != nil {
		return err
	}

	armed := 0
	expired := 0
	for _, reminder := range reminders {
		if !reminder.FireAt.After(now) {
			if _, err := e.store.Remove(ctx, reminder.ID); err != nil {
				e.log.Error("Failed to remove expired reminder", "error", err, "reminder_id", reminder.ID)
				continue
			}
			metrics.RemindersExpired.Inc()
			expired++
			continue
		}

		for _, n := range planner.Plan(reminder, now) {
			if err := e.Arm(n, now); err != nil {
				e.log.Error("Failed to arm notification during reconciliation", "error", err, "reminder_id", reminder.ID)
				continue
			}
			armed++
		}
	}

	e.log.Info("Reminder reconciliation complete",
		"reminders", len(reminders), "armed", armed, "expired", expired)
	return nil
}
