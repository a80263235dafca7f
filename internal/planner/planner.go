// Package planner computes the pending notification instants for a reminder.
package planner

import (
	"time"

	"github.com/SkillNet-official/telegram-reminder-bot/internal/domain"
)

// Plan returns the notifications still ahead of now for the given reminder,
// one per fixed offset, evaluated one-hour before thirty-minutes. Instants at
// or before now are discarded. Plan reads no clock besides the now argument.
func Plan(reminder *domain.Reminder, now time.Time) []domain.ScheduledNotification {
	var out []domain.ScheduledNotification
	for _, offset := range domain.Offsets() {
		at := reminder.FireAt.Add(-offset.Lead())
		if !at.After(now) {
			continue
		}
		out = append(out, domain.ScheduledNotification{
			ReminderID: reminder.ID,
			Offset:     offset,
			FireAt:     at,
		})
	}
	return out
}
