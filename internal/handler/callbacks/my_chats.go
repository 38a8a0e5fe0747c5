package callbacks

import (
	"context"
	"fmt"

	"github.com/gustavalldev/MAXAntispamBot/internal/maxapi"
	"github.com/gustavalldev/MAXAntispamBot/internal/messages"
	"github.com/gustavalldev/MAXAntispamBot/internal/repository"
)

func (h *CallbackHandler) handleShowChats(ctx context.Context, clickerID int64, action Action) error {
	if action.OwnerID != clickerID {
		h.logger.Warn("Chat list requested for another owner",
			"owner_id", action.OwnerID, "clicker_id", clickerID)
		return nil
	}

	chats, err := h.svc.ListManagedChats(ctx, clickerID)
	if err != nil {
		return fmt.Errorf("failed to list chats: %w", err)
	}

	if len(chats) == 0 {
		_, err = h.actions.SendUserMessage(ctx, clickerID, messages.MsgNoChats, nil)
		return err
	}

	buttons := make([][]maxapi.Button, 0, len(chats))
	for _, chat := range chats {
		buttons = append(buttons, []maxapi.Button{{
			Text:    chatButtonLabel(chat),
			Payload: SettingsPayload(chat.ChatID),
			Intent:  maxapi.IntentDefault,
		}})
	}

	_, err = h.actions.SendUserMessage(ctx, clickerID, messages.MsgYourChats, buttons)
	return err
}

func chatButtonLabel(chat repository.ManagedChat) string {
	title := chat.Title
	if title == "" {
		title = messages.MsgUntitledChat
	}
	if chat.Enabled {
		return title + " ✅"
	}
	return title + " ❌"
}
