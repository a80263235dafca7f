package domain

import "time"

// CreateReminderRequest represents a request to register a reminder. Date and
// Clock are wall-clock values in the owner's timezone (or the override).
type CreateReminderRequest struct {
	OwnerID         string `json:"owner_id" binding:"required"`
	DeliveryChannel string `json:"delivery_channel" binding:"required"`
	Date            string `json:"date" binding:"required"` // 2006-01-02
	Clock           string `json:"time" binding:"required"` // 15:04
	Timezone        string `json:"timezone,omitempty"`      // overrides the stored preference
	Label           string `json:"label" binding:"required"`
}

// SetTimezoneRequest represents a request to change an owner's timezone
// preference. Already-created reminders are not re-resolved.
type SetTimezoneRequest struct {
	Timezone string `json:"timezone" binding:"required"`
}

// ReminderListItem is the display projection returned by list requests.
type ReminderListItem struct {
	ID     string    `json:"id"`
	FireAt time.Time `json:"fire_at"`
	Label  string    `json:"label"`
}

// ReminderEventType represents the type of an inbound reminder event.
type ReminderEventType string

const (
	EventReminderCreate ReminderEventType = "reminder.create"
	EventReminderDelete ReminderEventType = "reminder.delete"
)

// ReminderEvent is an event consumed from RabbitMQ. Create events carry the
// full request; delete events carry only the reminder id.
type ReminderEvent struct {
	Type       ReminderEventType      `json:"type"`
	ReminderID string                 `json:"reminder_id,omitempty"`
	Request    *CreateReminderRequest `json:"request,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
}

const (
	LifecycleCreated = "created"
	LifecycleDeleted = "deleted"
)

// ReminderLifecycleEvent is broadcast to sibling services after a reminder
// mutation is durable. Created events carry the full record; deleted events
// carry only the id.
type ReminderLifecycleEvent struct {
	Type       string    `json:"type"`
	ReminderID string    `json:"reminder_id"`
	Reminder   *Reminder `json:"reminder,omitempty"`
	At         time.Time `json:"at"`
}
