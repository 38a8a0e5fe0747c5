package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/max-messenger/max-bot-api-client-go/schemes"
	"go.opentelemetry.io/otel/attribute"

	"github.com/gustavalldev/MAXAntispamBot/internal/metrics"
)

func (h *Handler) handleMessageCreated(ctx context.Context, logger *slog.Logger, upd *schemes.MessageCreatedUpdate) {
	start := time.Now()
	defer func() {
		metrics.ObserveUpdateProcessing("message_created", time.Since(start).Seconds(), nil)
	}()

	ctx, span := h.tracer.Start(ctx, "handleMessageCreated")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("chat_id", upd.Message.Recipient.ChatId),
		attribute.Int64("user_id", upd.Message.Sender.UserId),
	)

	logger.Debug("Dispatching message",
		"chat_id", upd.Message.Recipient.ChatId,
		"sender_id", upd.Message.Sender.UserId,
	)

	isPrivateChat := upd.Message.Recipient.ChatId > 0

	if isPrivateChat {
		h.handlePrivateMessage(ctx, logger, upd)
	} else {
		h.handleGroupMessage(ctx, logger, upd)
	}
}

func (h *Handler) handleBotStarted(ctx context.Context, logger *slog.Logger, upd *schemes.BotStartedUpdate) {
	start := time.Now()
	defer func() {
		metrics.ObserveUpdateProcessing("bot_started", time.Since(start).Seconds(), nil)
	}()

	logger.Info("Bot started by user", "user_id", upd.User.UserId)
	h.sendMainMenu(ctx, logger, upd.User.UserId)
}
