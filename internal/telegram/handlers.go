package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// indicatePrefix tags /start payloads and callback data that carry a
// meetup id from a deep link.
const (
	indicatePrefix = "indicate__"
	endPrefix      = "end__"
)

// inlineResultLimit caps how many articles one inline query answer can
// carry; Telegram rejects more than 50.
const inlineResultLimit = 45

// handleStart replies to /start, optionally following an indicate deep
// link straight to a meetup's availability page.
func (r *Router) handleStart(_ context.Context, chatID int64, payload string) {
	if strings.HasPrefix(payload, indicatePrefix) {
		meetupID := strings.TrimPrefix(payload, indicatePrefix)
		msg := tgbotapi.NewMessage(chatID, indicateText)
		msg.ReplyMarkup = indicateKeyboard(r.baseURL, meetupID)
		msg.DisableWebPagePreview = true
		if _, err := r.bot.Send(msg); err != nil {
			r.log.Error("send indicate prompt failed", zap.Error(err), zap.Int64("chatID", chatID))
		}
		return
	}

	msg := tgbotapi.NewMessage(chatID, startText)
	msg.ReplyMarkup = createKeyboard(r.baseURL)
	if _, err := r.bot.Send(msg); err != nil {
		r.log.Error("send start reply failed", zap.Error(err), zap.Int64("chatID", chatID))
	}
}

// handleInlineQuery answers with the sender's meetups whose title
// contains the query, newest first, rendered as shareable articles.
func (r *Router) handleInlineQuery(ctx context.Context, q *tgbotapi.InlineQuery) {
	search := strings.ToLower(strings.TrimSpace(q.Query))
	if len(search) < 2 {
		r.answerInline(q.ID, nil)
		return
	}

	meetups, err := r.repo.ListByCreator(ctx, q.From.ID)
	if err != nil {
		r.log.Error("inline query lookup failed", zap.Error(err), zap.Int64("userID", q.From.ID))
		r.answerInline(q.ID, nil)
		return
	}

	var results []interface{}
	for i := range meetups {
		m := &meetups[i]
		if !strings.Contains(strings.ToLower(strings.TrimSpace(m.Title)), search) {
			continue
		}
		article := tgbotapi.NewInlineQueryResultArticleHTML(m.ID, m.Title, r.renderer.Render(m, false))
		markup := sharedKeyboard(r.botUsername, r.baseURL, m)
		article.ReplyMarkup = &markup
		results = append(results, article)
		if len(results) == inlineResultLimit {
			break
		}
	}

	r.answerInline(q.ID, results)
}

func (r *Router) answerInline(queryID string, results []interface{}) {
	if _, err := r.bot.Request(tgbotapi.InlineConfig{
		InlineQueryID:     queryID,
		Results:           results,
		CacheTime:         0,
		IsPersonal:        true,
		SwitchPMText:      "Create a new meetup",
		SwitchPMParameter: "inline",
	}); err != nil {
		r.log.Error("answer inline query failed", zap.Error(err))
	}
}

// handleChosenInlineResult registers the inline message a user just
// shared so future changes edit it too.
func (r *Router) handleChosenInlineResult(ctx context.Context, chosen *tgbotapi.ChosenInlineResult) {
	if chosen.InlineMessageID == "" {
		return
	}
	meetupID := chosen.ResultID
	if err := r.repo.AddMessageRef(ctx, meetupID, messageRefForInline(chosen.InlineMessageID)); err != nil {
		r.log.Error("register inline message failed", zap.Error(err), zap.String("meetup", meetupID))
	}
}

// handleCallback processes inline-button presses; the only one today
// is the creator ending their meetup.
func (r *Router) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	data := cb.Data
	switch {
	case strings.HasPrefix(data, endPrefix):
		meetupID := strings.TrimPrefix(data, endPrefix)
		if err := r.repo.SetEnded(ctx, meetupID, true); err != nil {
			r.log.Error("end meetup failed", zap.Error(err), zap.String("meetup", meetupID))
			r.answerCallback(cb.ID, "Could not end the meetup. Please try again.")
			return
		}
		r.answerCallback(cb.ID, "Meetup ended.")
	default:
		// Unknown callback — ignore silently
	}
}

func (r *Router) answerCallback(id, text string) {
	if _, err := r.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		r.log.Warn("answer callback failed", zap.Error(err))
	}
}
