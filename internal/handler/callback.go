package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/max-messenger/max-bot-api-client-go/schemes"

	"github.com/gustavalldev/MAXAntispamBot/internal/metrics"
)

func (h *Handler) handleCallback(ctx context.Context, logger *slog.Logger, upd *schemes.MessageCallbackUpdate) {
	start := time.Now()
	defer func() {
		metrics.ObserveUpdateProcessing("message_callback", time.Since(start).Seconds(), nil)
	}()

	ctx, span := h.tracer.Start(ctx, "handleCallback")
	defer span.End()

	logger.Debug("Received callback",
		"payload", upd.Callback.Payload,
		"user_id", upd.Callback.User.UserId,
	)

	err := h.callbackHandler.Handle(ctx, upd.Message.Recipient.ChatId, upd.Callback.User.UserId, upd.Callback.Payload)
	if err != nil {
		logger.Error("Failed to handle callback",
			"payload", upd.Callback.Payload,
			"user_id", upd.Callback.User.UserId,
			"error", err,
		)
	}
}
