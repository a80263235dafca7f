// Package scheduler maintains the live set of armed notification timers and
// rebuilds it from the reminder store at startup.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SkillNet-official/telegram-reminder-bot/internal/delivery"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/domain"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/metrics"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/shared/logger"
)

const fireTimeout = 30 * time.Second

// Key identifies a single armed notification.
type Key struct {
	ReminderID string
	Offset     domain.OffsetKind
}

// ReminderSource is the slice of the reminder store the engine needs: the
// fire path re-reads the record, reconciliation loads and expires them.
type ReminderSource interface {
	FindByID(ctx context.Context, id string) (*domain.Reminder, error)
	LoadAll(ctx context.Context) ([]*domain.Reminder, error)
	Remove(ctx context.Context, id string) (bool, error)
}

// Engine owns the armed timers, one per (reminder, offset) pair. Timers are a
// derived projection of the store, never the source of truth: anything here
// can be rebuilt by Reconcile.
type Engine struct {
	mu     sync.Mutex
	timers map[Key]*time.Timer

	store    ReminderSource
	notifier delivery.Notifier
	log      *logger.Logger
}

// NewEngine creates a new scheduler engine. The notifier is a long-lived
// handle injected once; the engine never constructs transport itself.
func NewEngine(store ReminderSource, notifier delivery.Notifier, log *logger.Logger) *Engine {
	return &Engine{
		timers:   make(map[Key]*time.Timer),
		store:    store,
		notifier: notifier,
		log:      log,
	}
}

// Arm registers a timer for the notification. The planner already filters
// past instants, so receiving one here means the planner and engine disagree
// about now; that is reported as an error rather than silently dropped.
func (e *Engine) Arm(n domain.ScheduledNotification, now time.Time) error {
	if !n.FireAt.After(now) {
		return fmt.Errorf("refusing to arm %s/%s: instant %s is not after %s",
			n.ReminderID, n.Offset, n.FireAt, now)
	}

	key := Key{ReminderID: n.ReminderID, Offset: n.Offset}

	e.mu.Lock()
	defer e.mu.Unlock()

	// Re-arming the same pair replaces the old timer (idempotent overwrite
	// on the reminder id re-plans its notifications).
	if old, ok := e.timers[key]; ok {
		old.Stop()
		metrics.ArmedNotifications.Dec()
	}

	e.timers[key] = time.AfterFunc(n.FireAt.Sub(now), func() {
		e.fire(key)
	})
	metrics.ArmedNotifications.Inc()

	e.log.Debug("Armed notification", "reminder_id", n.ReminderID, "offset", n.Offset, "fire_at", n.FireAt)
	return nil
}

// CancelAll cancels every armed notification for the reminder. Calling it for
// an unknown id is a no-op. A fire already dispatched past the armed check
// completes; a fire not yet begun is skipped.
func (e *Engine) CancelAll(reminderID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, offset := range domain.Offsets() {
		key := Key{ReminderID: reminderID, Offset: offset}
		if t, ok := e.timers[key]; ok {
			t.Stop()
			delete(e.timers, key)
			metrics.ArmedNotifications.Dec()
		}
	}
}

// Armed returns the number of live timers for a reminder.
func (e *Engine) Armed(reminderID string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	count := 0
	for _, offset := range domain.Offsets() {
		if _, ok := e.timers[Key{ReminderID: reminderID, Offset: offset}]; ok {
			count++
		}
	}
	return count
}

// ArmedTotal returns the number of live timers across all reminders.
func (e *Engine) ArmedTotal() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.timers)
}

// Stop cancels every armed timer. Used on shutdown.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for key, t := range e.timers {
		t.Stop()
		delete(e.timers, key)
		metrics.ArmedNotifications.Dec()
	}
}

// fire runs on the timer's own goroutine. The entry leaves the live set
// exactly once: if CancelAll got there first the key is gone and the fire is
// skipped, so a cancelled entry never delivers.
func (e *Engine) fire(key Key) {
	e.mu.Lock()
	if _, ok := e.timers[key]; !ok {
		e.mu.Unlock()
		return
	}
	delete(e.timers, key)
	metrics.ArmedNotifications.Dec()
	e.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), fireTimeout)
	defer cancel()

	// The reminder may have been deleted while the timer was pending; the
	// store is the source of truth, so re-read it before delivering.
	reminder, err := e.store.FindByID(ctx, key.ReminderID)
	if err != nil {
		e.log.Error("Failed to load reminder for firing", "error", err, "reminder_id", key.ReminderID, "offset", key.Offset)
		metrics.NotificationsFailed.WithLabelValues(string(key.Offset), "store").Inc()
		return
	}
	if reminder == nil {
		e.log.Debug("Reminder deleted before firing", "reminder_id", key.ReminderID, "offset", key.Offset)
		return
	}

	event := domain.DeliverNotification{
		EventID:         uuid.NewString(),
		DeliveryChannel: reminder.DeliveryChannel,
		ReminderID:      reminder.ID,
		Offset:          key.Offset,
		Label:           reminder.Label,
		FireAt:          reminder.FireAt,
	}

	// Fire-once semantics: a failed delivery is logged, never retried.
	if err := e.notifier.Deliver(ctx, event); err != nil {
		e.log.Error("Failed to deliver notification", "error", err, "reminder_id", reminder.ID, "offset", key.Offset)
		metrics.NotificationsFailed.WithLabelValues(string(key.Offset), "delivery").Inc()
		return
	}

	metrics.NotificationsFired.WithLabelValues(string(key.Offset)).Inc()
	e.log.Info("Notification delivered", "reminder_id", reminder.ID, "offset", key.Offset, "channel", reminder.DeliveryChannel)
}
