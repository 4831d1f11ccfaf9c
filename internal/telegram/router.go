package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/HollaG/letsmeetup-bot/internal/store"
	"github.com/HollaG/letsmeetup-bot/internal/summary"
)

// Router wires Telegram updates to handlers.
type Router struct {
	bot      *tgbotapi.BotAPI
	log      *zap.Logger
	repo     store.Repo
	renderer *summary.Renderer

	botUsername string
	baseURL     string
}

// NewRouter creates a new Telegram router.
func NewRouter(bot *tgbotapi.BotAPI, log *zap.Logger, repo store.Repo, renderer *summary.Renderer, botUsername, baseURL string) *Router {
	return &Router{
		bot:         bot,
		log:         log,
		repo:        repo,
		renderer:    renderer,
		botUsername: botUsername,
		baseURL:     baseURL,
	}
}

// HandleUpdate routes a single update to the appropriate handler.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	switch {
	case upd.Message != nil:
		msg := upd.Message
		text := strings.TrimSpace(msg.Text)
		if strings.HasPrefix(text, "/start") {
			r.handleStart(ctx, msg.Chat.ID, strings.TrimSpace(strings.TrimPrefix(text, "/start")))
		}

	case upd.InlineQuery != nil:
		r.handleInlineQuery(ctx, upd.InlineQuery)

	case upd.ChosenInlineResult != nil:
		r.handleChosenInlineResult(ctx, upd.ChosenInlineResult)

	case upd.CallbackQuery != nil:
		r.handleCallback(ctx, upd.CallbackQuery)
	}
}
