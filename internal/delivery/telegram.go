package delivery

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/SkillNet-official/telegram-reminder-bot/internal/domain"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/shared/logger"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/timezone"
)

// TelegramNotifier delivers notifications over a long-lived Telegram bot
// connection shared with the command front-end.
type TelegramNotifier struct {
	api *tgbotapi.BotAPI
	log *logger.Logger
}

// NewTelegramNotifier creates a new Telegram notifier
func NewTelegramNotifier(api *tgbotapi.BotAPI, log *logger.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		api: api,
		log: log,
	}
}

// Deliver sends the notification message to the reminder's chat. The
// delivery channel is the Telegram chat id.
func (t *TelegramNotifier) Deliver(ctx context.Context, n domain.DeliverNotification) error {
	chatID, err := strconv.ParseInt(n.DeliveryChannel, 10, 64)
	if err != nil {
		return fmt.Errorf("delivery channel %q is not a chat id: %w", n.DeliveryChannel, err)
	}

	msg := tgbotapi.NewMessage(chatID, formatMessage(n))
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("send to chat %d: %w", chatID, err)
	}

	t.log.Debug("Notification delivered", "event_id", n.EventID, "chat_id", chatID, "offset", n.Offset)
	return nil
}

func formatMessage(n domain.DeliverNotification) string {
	var header string
	switch n.Offset {
	case domain.OffsetOneHour:
		header = "⏰ *Reminder in 1 hour!*"
	case domain.OffsetThirtyMin:
		header = "🚨 *Reminder in 30 minutes!*"
	default:
		header = "⏰ *Reminder!*"
	}
	return fmt.Sprintf("%s\n\n📝 %s\n🕐 %s UTC", header, n.Label, timezone.FormatLocal(n.FireAt, timezone.Default))
}
