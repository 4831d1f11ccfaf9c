package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/HollaG/letsmeetup-bot/internal/config"
	"github.com/HollaG/letsmeetup-bot/internal/notify"
	"github.com/HollaG/letsmeetup-bot/internal/store"
	"github.com/HollaG/letsmeetup-bot/internal/summary"
	"github.com/HollaG/letsmeetup-bot/internal/telegram"
)

type App struct {
	cfg     config.Config
	log     *zap.Logger
	bot     *tgbotapi.BotAPI
	httpSrv *http.Server
	repo    store.Repo
	router  *telegram.Router
	engine  *notify.Engine
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	bot.Debug = false

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	return &App{cfg: cfg, log: log, bot: bot, httpSrv: srv}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting letsmeetup-bot",
		zap.String("http", a.cfg.HTTPAddr),
		zap.String("bot", a.cfg.BotUsername),
	)

	// Open SQLite and run migrations.
	repo, err := store.OpenSQLite(ctx, a.cfg.DBPath)
	if err != nil {
		a.log.Error("open sqlite failed", zap.Error(err))
		return err
	}
	a.repo = repo
	a.log.Info("sqlite ready")

	renderer := &summary.Renderer{BotUsername: a.cfg.BotUsername, BaseURL: a.cfg.BaseURL}
	dispatcher := telegram.NewDispatcher(a.bot, a.log, repo, renderer, a.cfg.BotUsername, a.cfg.BaseURL)
	a.engine = notify.NewEngine(notify.NewMapCache(), dispatcher, repo, a.cfg.BaseURL, a.log)
	a.router = telegram.NewRouter(a.bot, a.log, repo, renderer, a.cfg.BotUsername, a.cfg.BaseURL)

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Purge stale meetups on a schedule; deletions surface through the
	// feed so tracked messages get the deleted banner.
	purge := cron.New()
	if _, err := purge.AddFunc(a.cfg.PurgeSchedule, func() { a.runPurge(ctx) }); err != nil {
		a.log.Error("invalid purge schedule", zap.Error(err), zap.String("spec", a.cfg.PurgeSchedule))
		return err
	}
	purge.Start()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updCh := a.bot.GetUpdatesChan(u)
	events := repo.Subscribe(ctx)

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")

			<-purge.Stop().Done()

			// Create a short-lived shutdown context and cancel it immediately after use.
			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := a.httpSrv.Shutdown(shCtx)
			cancel()

			if err != nil {
				a.log.Warn("http server shutdown error", zap.Error(err))
			}
			if a.repo != nil {
				_ = a.repo.Close()
			}
			return nil

		case upd := <-updCh:
			a.router.HandleUpdate(ctx, upd)

		case ev, ok := <-events:
			if !ok {
				continue
			}
			if err := a.engine.HandleEvent(ctx, ev); err != nil {
				a.log.Error("change event failed", zap.Error(err),
					zap.String("kind", ev.Kind), zap.String("meetup", ev.Meetup.ID))
			}
		}
	}
}

// runPurge deletes meetups older than the configured retention window.
func (a *App) runPurge(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-a.cfg.PurgeAfter)
	n, err := a.repo.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		a.log.Error("purge failed", zap.Error(err))
		return
	}
	if n > 0 {
		a.log.Info("purged stale meetups", zap.Int("count", n), zap.Time("cutoff", cutoff))
	}
}
