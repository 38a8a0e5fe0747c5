package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/gustavalldev/MAXAntispamBot/internal/metrics"
)

const autoDeleteAfter = 1 * time.Minute

func (h *Handler) deleteMessage(ctx context.Context, logger *slog.Logger, messageID string, reason string) error {
	if err := h.actions.DeleteMessage(ctx, messageID); err != nil {
		logger.Error("Failed to delete message", "message_id", messageID, "error", err)
		return err
	}
	logger.Info("Deleted message", "message_id", messageID, "reason", reason)
	metrics.IncDeletedMessages(reason)
	return nil
}

func (h *Handler) sendAutoDeleteMessage(ctx context.Context, logger *slog.Logger, chatID int64, text string) {
	mid, err := h.actions.SendChatMessage(ctx, chatID, text, nil)
	if err != nil {
		logger.Error("Failed to send notice", "chat_id", chatID, "error", err)
		return
	}
	if mid == "" {
		logger.Warn("Message sent but ID is missing in response")
		return
	}
	if err := h.svc.ScheduleDeletion(ctx, chatID, mid, autoDeleteAfter); err != nil {
		logger.Error("Failed to schedule deletion in DB", "error", err)
	}
}
