package handler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/max-messenger/max-bot-api-client-go/schemes"

	"github.com/gustavalldev/MAXAntispamBot/internal/handler/callbacks"
	"github.com/gustavalldev/MAXAntispamBot/internal/maxapi"
	"github.com/gustavalldev/MAXAntispamBot/internal/messages"
)

func (h *Handler) handlePrivateMessage(ctx context.Context, logger *slog.Logger, upd *schemes.MessageCreatedUpdate) {
	logger.Info("Received private message",
		"text", upd.Message.Body.Text,
		"sender", upd.Message.Sender.UserId,
	)

	text := strings.TrimSpace(upd.Message.Body.Text)

	if strings.HasPrefix(text, "/help") {
		if _, err := h.actions.SendUserMessage(ctx, upd.Message.Sender.UserId, messages.MsgHelp, nil); err != nil {
			logger.Error("Failed to send help", "error", err)
		}
		return
	}

	// /start and any free-form text land on the main menu.
	h.sendMainMenu(ctx, logger, upd.Message.Sender.UserId)
}

func (h *Handler) sendMainMenu(ctx context.Context, logger *slog.Logger, userID int64) {
	buttons := [][]maxapi.Button{{
		{
			Text:    messages.BtnMyChats,
			Payload: callbacks.ShowChatsPayload(userID),
			Intent:  maxapi.IntentDefault,
		},
	}}
	if _, err := h.actions.SendUserMessage(ctx, userID, messages.MsgWelcome, buttons); err != nil {
		logger.Error("Failed to send main menu", "user_id", userID, "error", err)
	}
}
