// Package service implements the reminder use cases on top of the store,
// planner and scheduler engine.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/SkillNet-official/telegram-reminder-bot/internal/domain"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/metrics"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/planner"
	apperrors "github.com/SkillNet-official/telegram-reminder-bot/internal/shared/errors"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/shared/logger"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/timezone"
)

// ReminderStore is the durable reminder mapping the service mutates.
type ReminderStore interface {
	Put(ctx context.Context, reminder *domain.Reminder) error
	Remove(ctx context.Context, id string) (bool, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Reminder, error)
}

// PreferenceStore holds per-owner timezone preferences.
type PreferenceStore interface {
	GetTimezone(ctx context.Context, ownerID string) (string, error)
	SetTimezone(ctx context.Context, ownerID, tz string) error
}

// Scheduler is the slice of the engine the service drives.
type Scheduler interface {
	Arm(n domain.ScheduledNotification, now time.Time) error
	CancelAll(reminderID string)
}

// EventPublisher broadcasts lifecycle events after a mutation is durable.
// Broadcasting is best effort; a publish failure never fails the mutation.
type EventPublisher interface {
	ReminderCreated(reminder *domain.Reminder) error
	ReminderDeleted(reminderID string) error
}

// ReminderService handles reminder business logic. It is constructed
// explicitly and passed to every front-end; there is no ambient global state.
type ReminderService struct {
	reminders ReminderStore
	prefs     PreferenceStore
	engine    Scheduler
	events    EventPublisher // optional, nil disables broadcasting
	log       *logger.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewReminderService creates a new reminder service
func NewReminderService(reminders ReminderStore, prefs PreferenceStore, engine Scheduler, events EventPublisher, log *logger.Logger) *ReminderService {
	return &ReminderService{
		reminders: reminders,
		prefs:     prefs,
		engine:    engine,
		events:    events,
		log:       log,
		now:       time.Now,
	}
}

// Create validates the request, persists the reminder and arms its
// notifications. The reminder is durable before any timer exists, so a crash
// between the two can never leave a ghost timer without a backing record.
func (s *ReminderService) Create(ctx context.Context, req *domain.CreateReminderRequest) (*domain.Reminder, error) {
	// The HTTP layer enforces these through binding tags; checking here keeps
	// the AMQP path to the same contract.
	if req.OwnerID == "" || req.DeliveryChannel == "" {
		return nil, apperrors.NewValidationError("owner_id and delivery_channel are required", nil)
	}

	label := strings.TrimSpace(req.Label)
	if label == "" {
		return nil, apperrors.NewValidationError("reminder label must not be empty", nil)
	}

	tz := req.Timezone
	if tz == "" {
		stored, err := s.prefs.GetTimezone(ctx, req.OwnerID)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to load timezone preference", err)
		}
		tz = stored
	}

	loc, err := timezone.Resolve(tz)
	if err != nil {
		return nil, apperrors.NewInvalidTimezoneError("unrecognized timezone identifier", err)
	}

	fireAt, err := timezone.LocalToInstant(req.Date, req.Clock, loc)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid date or time format, expected YYYY-MM-DD and HH:MM", err)
	}

	now := s.now()
	if !fireAt.After(now) {
		return nil, apperrors.NewPastDateTimeError("reminder time must be in the future")
	}

	reminder := &domain.Reminder{
		ID:              domain.ReminderID(req.OwnerID, fireAt),
		OwnerID:         req.OwnerID,
		DeliveryChannel: req.DeliveryChannel,
		FireAt:          fireAt.UTC(),
		Label:           label,
		OriginTimezone:  loc.String(),
		CreatedAt:       now.UTC(),
	}

	if err := s.reminders.Put(ctx, reminder); err != nil {
		return nil, apperrors.NewInternalError("failed to persist reminder", err)
	}

	// Resubmission of the same (owner, time) pair overwrote the record;
	// drop any stale timers before arming the fresh plan.
	s.engine.CancelAll(reminder.ID)
	for _, n := range planner.Plan(reminder, now) {
		if err := s.engine.Arm(n, now); err != nil {
			s.log.Error("Failed to arm notification", "error", err, "reminder_id", reminder.ID, "offset", n.Offset)
		}
	}

	if s.events != nil {
		if err := s.events.ReminderCreated(reminder); err != nil {
			s.log.Warn("Failed to broadcast reminder creation", "error", err, "reminder_id", reminder.ID)
		}
	}

	metrics.RemindersCreated.Inc()
	s.log.Info("Reminder created", "reminder_id", reminder.ID, "owner_id", reminder.OwnerID, "fire_at", reminder.FireAt)
	return reminder, nil
}

// Delete cancels the reminder's timers and removes its record. Cancellation
// runs first so a timer cannot fire in the window between remove and cancel;
// for an unknown id it is a no-op and state is left unchanged.
func (s *ReminderService) Delete(ctx context.Context, id string) error {
	s.engine.CancelAll(id)

	removed, err := s.reminders.Remove(ctx, id)
	if err != nil {
		return apperrors.NewInternalError("failed to remove reminder", err)
	}
	if !removed {
		return apperrors.NewNotFoundError("reminder not found", nil)
	}

	if s.events != nil {
		if err := s.events.ReminderDeleted(id); err != nil {
			s.log.Warn("Failed to broadcast reminder deletion", "error", err, "reminder_id", id)
		}
	}

	metrics.RemindersDeleted.Inc()
	s.log.Info("Reminder deleted", "reminder_id", id)
	return nil
}

// List returns the owner's reminders ordered by fire time ascending.
func (s *ReminderService) List(ctx context.Context, ownerID string) ([]domain.ReminderListItem, error) {
	reminders, err := s.reminders.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list reminders", err)
	}

	items := make([]domain.ReminderListItem, 0, len(reminders))
	for _, r := range reminders {
		items = append(items, domain.ReminderListItem{
			ID:     r.ID,
			FireAt: r.FireAt,
			Label:  r.Label,
		})
	}
	return items, nil
}

// SetTimezone validates and stores the owner's timezone preference.
func (s *ReminderService) SetTimezone(ctx context.Context, ownerID, tz string) error {
	if !timezone.IsValid(tz) {
		return apperrors.NewInvalidTimezoneError("unrecognized timezone identifier", nil)
	}

	if err := s.prefs.SetTimezone(ctx, ownerID, tz); err != nil {
		return apperrors.NewInternalError("failed to store timezone preference", err)
	}

	s.log.Info("Timezone preference updated", "owner_id", ownerID, "timezone", tz)
	return nil
}

// GetTimezone returns the owner's current timezone preference.
func (s *ReminderService) GetTimezone(ctx context.Context, ownerID string) (string, error) {
	tz, err := s.prefs.GetTimezone(ctx, ownerID)
	if err != nil {
		return "", apperrors.NewInternalError("failed to load timezone preference", err)
	}
	return tz, nil
}
