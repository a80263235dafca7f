package consumer

import (
	"encoding/json"
	"time"

	"github.com/SkillNet-official/telegram-reminder-bot/internal/domain"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/shared/logger"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/shared/rabbitmq"
)

const (
	lifecycleCreatedKey = "lifecycle.created"
	lifecycleDeletedKey = "lifecycle.deleted"
)

// LifecyclePublisher broadcasts reminder lifecycle events on the reminders
// exchange. The lifecycle.* routing keys sit outside the reminder.* pattern
// the inbound queue is bound to, so the service never consumes its own
// broadcasts.
type LifecyclePublisher struct {
	client *rabbitmq.Client
	log    *logger.Logger
}

// NewLifecyclePublisher declares the exchange and returns a publisher bound
// to it.
func NewLifecyclePublisher(client *rabbitmq.Client, log *logger.Logger) (*LifecyclePublisher, error) {
	if err := client.DeclareTopic(reminderExchange); err != nil {
		return nil, err
	}
	return &LifecyclePublisher{client: client, log: log}, nil
}

// ReminderCreated broadcasts the full record of a newly durable reminder.
func (p *LifecyclePublisher) ReminderCreated(reminder *domain.Reminder) error {
	return p.publish(lifecycleCreatedKey, domain.ReminderLifecycleEvent{
		Type:       domain.LifecycleCreated,
		ReminderID: reminder.ID,
		Reminder:   reminder,
		At:         time.Now().UTC(),
	})
}

// ReminderDeleted broadcasts a deletion by id.
func (p *LifecyclePublisher) ReminderDeleted(reminderID string) error {
	return p.publish(lifecycleDeletedKey, domain.ReminderLifecycleEvent{
		Type:       domain.LifecycleDeleted,
		ReminderID: reminderID,
		At:         time.Now().UTC(),
	})
}

func (p *LifecyclePublisher) publish(routingKey string, event domain.ReminderLifecycleEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := p.client.Publish(reminderExchange, routingKey, body); err != nil {
		return err
	}
	p.log.Debug("Lifecycle event published", "routing_key", routingKey, "reminder_id", event.ReminderID)
	return nil
}
