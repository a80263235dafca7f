// Package delivery sends fired notifications to their destination channel.
package delivery

import (
	"context"

	"github.com/SkillNet-official/telegram-reminder-bot/internal/domain"
)

// Notifier is the capability the scheduler engine uses to deliver a fired
// notification. Implementations own transport lifecycle; the engine does not.
type Notifier interface {
	Deliver(ctx context.Context, n domain.DeliverNotification) error
}
