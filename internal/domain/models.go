package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OffsetKind identifies which of the two fixed pre-event alerts a
// notification corresponds to.
type OffsetKind string

const (
	OffsetOneHour   OffsetKind = "1h"
	OffsetThirtyMin OffsetKind = "30m"
)

// Lead returns how far ahead of the event this offset fires.
func (k OffsetKind) Lead() time.Duration {
	switch k {
	case OffsetOneHour:
		return time.Hour
	case OffsetThirtyMin:
		return 30 * time.Minute
	}
	return 0
}

// Offsets lists the alert offsets in firing order (one hour before thirty
// minutes).
func Offsets() []OffsetKind {
	return []OffsetKind{OffsetOneHour, OffsetThirtyMin}
}

// Reminder represents a registered future event. FireAt is stored in UTC and
// is immutable once created; changing the time means delete and recreate.
type Reminder struct {
	ID              string    `json:"id" bson:"_id"`
	OwnerID         string    `json:"owner_id" bson:"owner_id"`
	DeliveryChannel string    `json:"delivery_channel" bson:"delivery_channel"`
	FireAt          time.Time `json:"fire_at" bson:"fire_at"`
	Label           string    `json:"label" bson:"label"`
	OriginTimezone  string    `json:"origin_timezone" bson:"origin_timezone"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
}

// reminderIDSpace namespaces the deterministic reminder ids.
var reminderIDSpace = uuid.MustParse("f2b9c0de-5c8a-4f6e-9d27-3b1a64c0e7d5")

// ReminderID derives the stable reminder identifier from its owner and event
// time. Identical resubmission produces the same id; distinct (owner, time)
// pairs cannot collide, the owner id is opaque and may contain any character.
// The timestamp sits after the last slash and contains none itself, so the
// hashed string decomposes uniquely.
func ReminderID(ownerID string, fireAt time.Time) string {
	return uuid.NewSHA1(reminderIDSpace, fmt.Appendf(nil, "%s/%d", ownerID, fireAt.Unix())).String()
}

// ScheduledNotification is the derived, rebuildable projection of a single
// pending alert. It is never persisted; the planner recomputes it from the
// reminder record at creation time and at startup reconciliation.
type ScheduledNotification struct {
	ReminderID string
	Offset     OffsetKind
	FireAt     time.Time // the notification instant, not the event instant
}

// UserTimezone maps an owner to their preferred IANA timezone identifier.
type UserTimezone struct {
	OwnerID   string    `json:"owner_id" bson:"_id"`
	Timezone  string    `json:"timezone" bson:"timezone"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// DeliverNotification is the outbound event handed to the delivery
// collaborator when a timer fires.
type DeliverNotification struct {
	EventID         string     `json:"event_id"`
	DeliveryChannel string     `json:"delivery_channel"`
	ReminderID      string     `json:"reminder_id"`
	Offset          OffsetKind `json:"offset_kind"`
	Label           string     `json:"label"`
	FireAt          time.Time  `json:"fire_at"`
}
