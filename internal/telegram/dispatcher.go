package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/HollaG/letsmeetup-bot/internal/domain"
	"github.com/HollaG/letsmeetup-bot/internal/store"
	"github.com/HollaG/letsmeetup-bot/internal/summary"
)

// Dispatcher delivers the notification engine's output to Telegram:
// it owns sending the creator's pinned summary, fanning edits out to
// every tracked message, and direct creator notifications.
type Dispatcher struct {
	bot      *tgbotapi.BotAPI
	log      *zap.Logger
	repo     store.Repo
	renderer *summary.Renderer

	botUsername string
	baseURL     string
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(bot *tgbotapi.BotAPI, log *zap.Logger, repo store.Repo, renderer *summary.Renderer, botUsername, baseURL string) *Dispatcher {
	return &Dispatcher{
		bot:         bot,
		log:         log,
		repo:        repo,
		renderer:    renderer,
		botUsername: botUsername,
		baseURL:     baseURL,
	}
}

// MeetupAdded sends the creator their info message, pins it, and
// registers it for future edits. Re-delivery of the added event after
// the message exists is a no-op.
func (d *Dispatcher) MeetupAdded(ctx context.Context, m *domain.Meetup) error {
	if m.CreatorMessageID != 0 {
		return nil
	}

	msg := tgbotapi.NewMessage(m.Creator.ID, d.renderer.Render(m, true))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	msg.ReplyMarkup = creatorKeyboard(d.baseURL, m)

	sent, err := d.bot.Send(msg)
	if err != nil {
		return fmt.Errorf("send creator message: %w", err)
	}

	if _, err := d.bot.Request(tgbotapi.PinChatMessageConfig{
		ChatID:              sent.Chat.ID,
		MessageID:           sent.MessageID,
		DisableNotification: true,
	}); err != nil {
		// The bot may lack pin rights in this chat; the summary still works unpinned.
		d.log.Warn("pin creator message failed", zap.Error(err), zap.String("meetup", m.ID))
	}

	if err := d.repo.SetCreatorMessage(ctx, m.ID, sent.MessageID); err != nil {
		return fmt.Errorf("record creator message: %w", err)
	}
	if err := d.repo.AddMessageRef(ctx, m.ID, domain.MessageRef{ChatID: sent.Chat.ID, MessageID: sent.MessageID}); err != nil {
		return fmt.Errorf("register creator message: %w", err)
	}
	return nil
}

// MeetupUpdated re-renders the summary into every tracked message.
// Individual edit failures are logged and skipped so one dead chat
// cannot block the rest of the fan-out.
func (d *Dispatcher) MeetupUpdated(_ context.Context, m *domain.Meetup) error {
	for _, ref := range m.Messages {
		if err := d.editRef(m, ref, ""); err != nil {
			d.log.Warn("edit summary failed", zap.Error(err),
				zap.String("meetup", m.ID), zap.Int64("chatID", ref.ChatID))
		}
	}
	return nil
}

// MeetupRemoved prefixes every tracked message with a deleted banner.
func (d *Dispatcher) MeetupRemoved(_ context.Context, m *domain.Meetup) error {
	banner := fmt.Sprintf("<b><u>❗️ %s</u></b>\n\n", deletedText)
	for _, ref := range m.Messages {
		if err := d.editRef(m, ref, banner); err != nil {
			d.log.Warn("mark deleted failed", zap.Error(err),
				zap.String("meetup", m.ID), zap.Int64("chatID", ref.ChatID))
		}
	}
	return nil
}

// NotifyCreator sends a standalone HTML message to the meetup creator.
func (d *Dispatcher) NotifyCreator(_ context.Context, m *domain.Meetup, text string) error {
	msg := tgbotapi.NewMessage(m.Creator.ID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := d.bot.Send(msg); err != nil {
		return fmt.Errorf("notify creator %d: %w", m.Creator.ID, err)
	}
	return nil
}

// editRef edits one tracked message with the current summary, using
// the admin variant in the creator's own chat.
func (d *Dispatcher) editRef(m *domain.Meetup, ref domain.MessageRef, prefix string) error {
	var edit tgbotapi.EditMessageTextConfig
	if ref.InlineMessageID != "" {
		markup := sharedKeyboard(d.botUsername, d.baseURL, m)
		edit = tgbotapi.EditMessageTextConfig{
			BaseEdit: tgbotapi.BaseEdit{
				InlineMessageID: ref.InlineMessageID,
				ReplyMarkup:     &markup,
			},
			Text: prefix + d.renderer.Render(m, false),
		}
	} else {
		admin := ref.ChatID == m.Creator.ID
		markup := sharedKeyboard(d.botUsername, d.baseURL, m)
		if admin {
			markup = creatorKeyboard(d.baseURL, m)
		}
		edit = tgbotapi.EditMessageTextConfig{
			BaseEdit: tgbotapi.BaseEdit{
				ChatID:      ref.ChatID,
				MessageID:   ref.MessageID,
				ReplyMarkup: &markup,
			},
			Text: prefix + d.renderer.Render(m, admin),
		}
	}
	edit.ParseMode = tgbotapi.ModeHTML
	edit.DisableWebPagePreview = true

	if _, err := d.bot.Request(edit); err != nil {
		// An edit with identical content is fine; Telegram reports it
		// as an error but nothing is wrong.
		if strings.Contains(err.Error(), "message is not modified") {
			return nil
		}
		return err
	}
	return nil
}

// messageRefForInline builds a MessageRef for an inline message.
func messageRefForInline(inlineMessageID string) domain.MessageRef {
	return domain.MessageRef{InlineMessageID: inlineMessageID}
}
