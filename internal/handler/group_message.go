package handler

import (
	"context"
	"log/slog"

	"github.com/max-messenger/max-bot-api-client-go/schemes"

	"github.com/gustavalldev/MAXAntispamBot/internal/messages"
)

func (h *Handler) handleGroupMessage(ctx context.Context, logger *slog.Logger, upd *schemes.MessageCreatedUpdate) {
	chatID := upd.Message.Recipient.ChatId
	senderID := upd.Message.Sender.UserId

	res, err := h.svc.ModerateMessage(ctx, chatID, senderID, upd.Message.Body.Text)
	if err != nil {
		logger.Error("Failed to moderate message", "chat_id", chatID, "error", err)
		return
	}
	if res.IsAllowed {
		logger.Debug("Message allowed", "chat_id", chatID)
		return
	}

	logger.Info("Message blocked",
		"chat_id", chatID,
		"sender_id", senderID,
		"reason", res.Reason,
		"filter", res.FilterName,
	)

	// The notice is only worth posting once the offending message is
	// actually gone.
	if err := h.deleteMessage(ctx, logger, upd.Message.Body.Mid, res.FilterName); err != nil {
		return
	}
	h.sendAutoDeleteMessage(ctx, logger, chatID, messages.MsgContentRemoved)
}
