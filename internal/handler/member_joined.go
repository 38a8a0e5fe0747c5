package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/max-messenger/max-bot-api-client-go/schemes"

	"github.com/gustavalldev/MAXAntispamBot/internal/messages"
	"github.com/gustavalldev/MAXAntispamBot/internal/metrics"
)

// handleUserAdded runs when a member joins a managed group: the chat
// record is created on first contact, its title is refreshed, and the
// newcomer is put through the captcha gate.
func (h *Handler) handleUserAdded(ctx context.Context, logger *slog.Logger, upd *schemes.UserAddedToChatUpdate) {
	start := time.Now()
	defer func() {
		metrics.ObserveUpdateProcessing("user_added", time.Since(start).Seconds(), nil)
	}()

	ctx, span := h.tracer.Start(ctx, "handleUserAdded")
	defer span.End()

	chatID := upd.ChatId
	userID := upd.User.UserId

	logger.Info("Member joined chat", "chat_id", chatID, "user_id", userID)

	title, err := h.actions.GetChatTitle(ctx, chatID)
	if err != nil {
		logger.Warn("Failed to fetch chat title", "chat_id", chatID, "error", err)
		title = messages.MsgUntitledChat
	}

	if err := h.svc.RegisterChat(ctx, userID, chatID, title); err != nil {
		logger.Error("Failed to register chat", "chat_id", chatID, "error", err)
	}

	if err := h.svc.BeginVerification(ctx, chatID, userID); err != nil {
		logger.Error("Failed to begin verification", "chat_id", chatID, "user_id", userID, "error", err)
	}
}
