package consumer

import (
	"context"
	"encoding/json"

	"github.com/SkillNet-official/telegram-reminder-bot/internal/domain"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/service"
	apperrors "github.com/SkillNet-official/telegram-reminder-bot/internal/shared/errors"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/shared/logger"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/shared/rabbitmq"
)

const (
	reminderExchange   = "reminders"
	reminderQueue      = "reminder_queue"
	reminderRoutingKey = "reminder.*"
	consumerTag        = "reminder-service"
)

// EventConsumer consumes reminder events from RabbitMQ, letting sibling
// services create and delete reminders without going through the HTTP API.
type EventConsumer struct {
	client  *rabbitmq.Client
	service *service.ReminderService
	log     *logger.Logger
}

// NewEventConsumer creates a new event consumer
func NewEventConsumer(client *rabbitmq.Client, service *service.ReminderService, log *logger.Logger) *EventConsumer {
	return &EventConsumer{
		client:  client,
		service: service,
		log:     log,
	}
}

// Start starts consuming events from RabbitMQ
func (c *EventConsumer) Start() error {
	c.log.Info("Starting event consumer", "queue", reminderQueue)

	if err := c.client.DeclareTopic(reminderExchange); err != nil {
		c.log.Error("Failed to declare exchange", "error", err)
		return err
	}

	if err := c.client.BindConsumerQueue(reminderQueue, reminderRoutingKey, reminderExchange); err != nil {
		c.log.Error("Failed to bind queue", "error", err)
		return err
	}

	messages, err := c.client.Consume(reminderQueue, consumerTag)
	if err != nil {
		c.log.Error("Failed to start consuming", "error", err)
		return err
	}

	for msg := range messages {
		var event domain.ReminderEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			c.log.Error("Failed to unmarshal event", "error", err, "routing_key", msg.RoutingKey)
			msg.Nack(false, false) // Don't requeue invalid messages
			continue
		}

		if err := c.processEvent(context.Background(), &event); err != nil {
			if apperrors.CodeOf(err) == apperrors.CodeInternal {
				c.log.Error("Failed to process event", "error", err, "type", event.Type)
				msg.Nack(false, true) // Requeue for retry
				continue
			}
			// User-input errors will not get better on redelivery.
			c.log.Warn("Rejected invalid event", "error", err, "type", event.Type)
			msg.Nack(false, false)
			continue
		}

		msg.Ack(false)
		c.log.Info("Event processed successfully", "type", event.Type, "routing_key", msg.RoutingKey)
	}

	return nil
}

func (c *EventConsumer) processEvent(ctx context.Context, event *domain.ReminderEvent) error {
	switch event.Type {
	case domain.EventReminderCreate:
		if event.Request == nil {
			return apperrors.NewValidationError("create event is missing its request payload", nil)
		}
		_, err := c.service.Create(ctx, event.Request)
		return err

	case domain.EventReminderDelete:
		err := c.service.Delete(ctx, event.ReminderID)
		if apperrors.IsNotFound(err) {
			// Deletion is idempotent across transports too.
			c.log.Debug("Delete event for unknown reminder", "reminder_id", event.ReminderID)
			return nil
		}
		return err

	default:
		c.log.Warn("Unknown event type", "type", event.Type)
		return nil
	}
}
