package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	maxbot "github.com/max-messenger/max-bot-api-client-go"
	"github.com/max-messenger/max-bot-api-client-go/schemes"

	"github.com/gustavalldev/MAXAntispamBot/internal/config"
	"github.com/gustavalldev/MAXAntispamBot/internal/handler"
	"github.com/gustavalldev/MAXAntispamBot/internal/maxapi"
	"github.com/gustavalldev/MAXAntispamBot/internal/metrics"
	"github.com/gustavalldev/MAXAntispamBot/internal/repository"
	"github.com/gustavalldev/MAXAntispamBot/internal/service"
	"github.com/gustavalldev/MAXAntispamBot/internal/transport/polling"
	"github.com/gustavalldev/MAXAntispamBot/internal/transport/webhook"
)

type App struct {
	cfg    *config.Config
	logger *slog.Logger
	bot    *maxbot.Api
}

func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	bot, err := maxbot.New(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot client: %w", err)
	}

	return &App{
		cfg:    cfg,
		logger: logger,
		bot:    bot,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a.logger.Info("Starting MAX Antispam Bot")

	botInfo, err := a.bot.Bots.GetBot(ctx)
	if err != nil {
		return fmt.Errorf("failed to get bot info: %w", err)
	}
	a.logger.Info("Bot connected", "username", botInfo.Username, "id", botInfo.UserId)

	db, err := repository.NewPostgresDB(a.cfg.GetDSN())
	if err != nil {
		return fmt.Errorf("failed to init db: %w", err)
	}

	chatRepo := repository.NewChatRepository(db)
	tempMessageRepo := repository.NewTemporaryMessageRepository(db)

	actions := maxapi.NewClient(a.logger, a.bot, a.cfg.BotToken)

	svc := service.NewModerationService(a.logger, chatRepo, tempMessageRepo, actions,
		a.cfg.BannedWords, a.cfg.CaptchaTimeout)
	svc.StartMetricsUpdater(ctx)
	svc.StartCleanupTask(ctx)

	h := handler.NewHandler(a.logger, svc, actions, a.cfg)

	metricsSrv := metrics.NewServer(a.logger, a.cfg.MetricsAddr)
	go func() {
		if err := metricsSrv.Listen(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("Metrics server failed", "error", err)
		}
	}()

	var updates <-chan schemes.UpdateInterface

	if a.cfg.WebhookHost != "" {
		a.logger.Info("Starting in Webhook mode", "host", a.cfg.WebhookHost)
		srv := webhook.NewServer(a.logger, a.bot, a.cfg.WebhookHost, a.cfg.Port)

		var cleanup func() error
		updates, cleanup, err = srv.Start(ctx)
		if err != nil {
			return fmt.Errorf("failed to start webhook server: %w", err)
		}
		if cleanup != nil {
			defer func() {
				if err := cleanup(); err != nil {
					a.logger.Error("Cleanup failed", "error", err)
				}
			}()
		}
	} else {
		a.logger.Info("Starting in Long Polling mode")
		poller := polling.NewPoller(a.logger, a.bot)
		updates = poller.Start(ctx)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case upd, ok := <-updates:
				if !ok {
					return
				}
				h.HandleUpdate(ctx, upd)
			}
		}
	}()

	<-ctx.Done()
	a.logger.Info("Shutting down...")

	return nil
}
