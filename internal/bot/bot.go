// Package bot implements the Telegram command front-end. It parses commands
// and free-text messages into normalized requests and hands them to the
// reminder service; all scheduling state lives behind the service.
package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/SkillNet-official/telegram-reminder-bot/internal/domain"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/service"
	apperrors "github.com/SkillNet-official/telegram-reminder-bot/internal/shared/errors"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/shared/logger"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/timezone"
)

const (
	deleteCallbackPrefix = "delete_"
	maxInlineDeletes     = 10
)

const helpText = `🤖 *Reminder bot*

I help you not to forget the things that matter.

*Commands:*
/add - Add a new reminder
/list - Show your active reminders
/timezone - Set your timezone
/help - Show this message

*Reminder format:*
` + "`Date: 2025-08-29`\n`Time: 14:30`\n`Text: Meet the client`" + `

I will remind you 1 hour and 30 minutes before the event! ⏰`

const addText = `📅 *Adding a reminder*

Send the details in this format:

` + "```\nDate: YYYY-MM-DD\nTime: HH:MM\nText: What to remind you about\n```" + `

I will create alerts 1 hour and 30 minutes before the event.`

// apiSender is the slice of the Telegram client the handlers depend on. The
// concrete *tgbotapi.BotAPI satisfies it; tests substitute a recorder.
type apiSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot polls Telegram updates and routes them to the reminder service.
type Bot struct {
	api         *tgbotapi.BotAPI
	client      apiSender
	service     *service.ReminderService
	log         *logger.Logger
	pollTimeout int
}

// New creates a new Telegram bot front-end
func New(api *tgbotapi.BotAPI, service *service.ReminderService, log *logger.Logger, pollTimeout int) *Bot {
	return &Bot{
		api:         api,
		client:      api,
		service:     service,
		log:         log,
		pollTimeout: pollTimeout,
	}
}

// Run polls for updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = b.pollTimeout
	updates := b.api.GetUpdatesChan(cfg)

	b.log.Info("Telegram bot started", "username", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	case update.Message != nil && update.Message.Text != "":
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start", "help":
		b.reply(msg.Chat.ID, helpText)
	case "add":
		b.reply(msg.Chat.ID, addText)
	case "list":
		b.sendList(ctx, msg)
	case "timezone":
		b.sendTimezonePrompt(ctx, msg)
	default:
		b.reply(msg.Chat.ID, "Unknown command, try /help.")
	}
}

// handleMessage processes free-text input: either a timezone update or a
// Date/Time/Text reminder definition.
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	ownerID := strconv.FormatInt(msg.From.ID, 10)

	if tz, ok := parseTimezoneMessage(msg.Text); ok {
		if err := b.service.SetTimezone(ctx, ownerID, tz); err != nil {
			b.reply(msg.Chat.ID, "❌ Invalid timezone! Use IANA names like `Europe/Moscow`.")
			return
		}
		b.reply(msg.Chat.ID, fmt.Sprintf("✅ Timezone set: %s", tz))
		return
	}

	in, err := parseReminderMessage(msg.Text)
	if err != nil {
		b.reply(msg.Chat.ID, "❌ Wrong format! Use /add to see an example.")
		return
	}

	reminder, err := b.service.Create(ctx, &domain.CreateReminderRequest{
		OwnerID:         ownerID,
		DeliveryChannel: strconv.FormatInt(msg.Chat.ID, 10),
		Date:            in.Date,
		Clock:           in.Clock,
		Label:           in.Label,
	})
	if err != nil {
		b.reply(msg.Chat.ID, createErrorText(err))
		return
	}

	b.reply(msg.Chat.ID, fmt.Sprintf(
		"✅ *Reminder created!*\n\n📅 *Date:* %s\n⏰ *Time:* %s\n📝 *Text:* %s\n\nI will remind you 1 hour and 30 minutes before the event!",
		in.Date, in.Clock, in.Label))
	b.log.Debug("Reminder created via bot", "reminder_id", reminder.ID)
}

func createErrorText(err error) string {
	switch apperrors.CodeOf(err) {
	case apperrors.CodePastDateTime:
		return "❌ The reminder time must be in the future!"
	case apperrors.CodeInvalidTimezone:
		return "❌ Invalid timezone! Set one with /timezone first."
	case apperrors.CodeValidation:
		return "❌ Invalid date or time! Use YYYY-MM-DD and HH:MM."
	default:
		return "❌ Something went wrong while creating the reminder."
	}
}

func (b *Bot) sendList(ctx context.Context, msg *tgbotapi.Message) {
	ownerID := strconv.FormatInt(msg.From.ID, 10)

	items, err := b.service.List(ctx, ownerID)
	if err != nil {
		b.log.Error("Failed to list reminders", "error", err, "owner_id", ownerID)
		b.reply(msg.Chat.ID, "❌ Could not load your reminders, try again later.")
		return
	}
	if len(items) == 0 {
		b.reply(msg.Chat.ID, "📝 You have no active reminders yet.")
		return
	}

	tz, err := b.service.GetTimezone(ctx, ownerID)
	if err != nil {
		tz = timezone.Default
	}

	var sb strings.Builder
	sb.WriteString("📋 *Your active reminders:*\n\n")
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("🔹 *%s* - %s\n", timezone.FormatLocal(item.FireAt, tz), item.Label))
	}

	out := tgbotapi.NewMessage(msg.Chat.ID, sb.String())
	out.ParseMode = tgbotapi.ModeMarkdown
	out.ReplyMarkup = deleteKeyboard(items, tz)
	if _, err := b.client.Send(out); err != nil {
		b.log.Error("Failed to send reminder list", "error", err)
	}
}

// deleteKeyboard builds one delete button per reminder, capped to keep the
// keyboard usable.
func deleteKeyboard(items []domain.ReminderListItem, tz string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, item := range items {
		if i == maxInlineDeletes {
			break
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("❌ %s", timezone.FormatLocal(item.FireAt, tz)),
				deleteCallbackPrefix+item.ID,
			),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) sendTimezonePrompt(ctx context.Context, msg *tgbotapi.Message) {
	ownerID := strconv.FormatInt(msg.From.ID, 10)
	current, err := b.service.GetTimezone(ctx, ownerID)
	if err != nil {
		current = timezone.Default
	}

	b.reply(msg.Chat.ID, fmt.Sprintf(`🌍 *Setting your timezone*

Send your timezone like this:
`+"`Timezone: Europe/Moscow`"+`

*Popular timezones:*
• `+"`Europe/Moscow`"+`
• `+"`Europe/Kiev`"+`
• `+"`Asia/Almaty`"+`
• `+"`Asia/Tashkent`"+`
• `+"`UTC`"+`

Current timezone: `+"`%s`", current))
}

func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	// Answer first so the button stops spinning even if deletion fails.
	if _, err := b.client.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		b.log.Warn("Failed to answer callback query", "error", err)
	}

	// Telegram omits Message on callbacks older than 48h; without it there
	// is no chat to report the outcome to.
	if query.Message == nil {
		b.log.Warn("Ignoring stale callback query", "callback_id", query.ID)
		return
	}

	if !strings.HasPrefix(query.Data, deleteCallbackPrefix) {
		return
	}
	reminderID := strings.TrimPrefix(query.Data, deleteCallbackPrefix)

	var text string
	if err := b.service.Delete(ctx, reminderID); err != nil {
		if apperrors.IsNotFound(err) {
			text = "❌ Reminder not found."
		} else {
			b.log.Error("Failed to delete reminder", "error", err, "reminder_id", reminderID)
			text = "❌ Could not delete the reminder, try again later."
		}
	} else {
		text = "✅ Reminder deleted."
	}

	edit := tgbotapi.NewEditMessageText(query.Message.Chat.ID, query.Message.MessageID, text)
	if _, err := b.client.Send(edit); err != nil {
		b.log.Error("Failed to edit message after delete", "error", err)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.client.Send(msg); err != nil {
		b.log.Error("Failed to send message", "error", err, "chat_id", chatID)
	}
}
