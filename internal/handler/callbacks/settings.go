package callbacks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gustavalldev/MAXAntispamBot/internal/maxapi"
	"github.com/gustavalldev/MAXAntispamBot/internal/messages"
	"github.com/gustavalldev/MAXAntispamBot/internal/repository"
)

var filterLabels = map[string]string{
	repository.FieldCaptcha:  messages.BtnCaptcha,
	repository.FieldBadWords: messages.BtnBadWords,
	repository.FieldLinks:    messages.BtnLinks,
}

func (h *CallbackHandler) handleOpenSettings(ctx context.Context, clickerID int64, action Action) error {
	owns, err := h.verifyOwnership(ctx, clickerID, action.ChatID)
	if err != nil {
		return err
	}
	if !owns {
		h.logger.Warn("Settings requested for foreign chat", "chat_id", action.ChatID, "clicker_id", clickerID)
		return nil
	}
	return h.sendSettingsMenu(ctx, clickerID, action.ChatID)
}

func (h *CallbackHandler) handleToggle(ctx context.Context, clickerID int64, action Action) error {
	owns, err := h.verifyOwnership(ctx, clickerID, action.ChatID)
	if err != nil {
		return err
	}
	if !owns {
		h.logger.Warn("Toggle requested for foreign chat", "chat_id", action.ChatID, "clicker_id", clickerID)
		return nil
	}

	if _, err := h.svc.ToggleFilter(ctx, action.ChatID, action.Field); err != nil {
		if errors.Is(err, repository.ErrUnknownField) || errors.Is(err, repository.ErrChatNotFound) {
			h.logger.Warn("Dropping invalid toggle", "chat_id", action.ChatID, "field", action.Field, "error", err)
			return nil
		}
		return fmt.Errorf("failed to toggle filter: %w", err)
	}

	confirmation := fmt.Sprintf(messages.MsgFilterToggled, filterName(action.Field))
	if _, err := h.actions.SendUserMessage(ctx, clickerID, confirmation, nil); err != nil {
		h.logger.Warn("Failed to send toggle confirmation", "error", err)
	}

	// Re-render so the buttons show the new state.
	return h.sendSettingsMenu(ctx, clickerID, action.ChatID)
}

func (h *CallbackHandler) sendSettingsMenu(ctx context.Context, clickerID, chatID int64) error {
	chat, err := h.svc.GetChatSettings(ctx, chatID)
	if err != nil {
		return fmt.Errorf("failed to load chat settings: %w", err)
	}

	buttons := [][]maxapi.Button{
		{
			settingsButton(messages.BtnCaptcha, repository.FieldCaptcha, chat.Captcha, chatID),
			settingsButton(messages.BtnBadWords, repository.FieldBadWords, chat.BadWords, chatID),
		},
		{
			settingsButton(messages.BtnLinks, repository.FieldLinks, chat.Links, chatID),
		},
	}

	title := chat.Title
	if title == "" {
		title = messages.MsgUntitledChat
	}
	text := fmt.Sprintf("%s\n%s", title, messages.MsgSettingsTitle)

	_, err = h.actions.SendUserMessage(ctx, clickerID, text, buttons)
	return err
}

func settingsButton(label, field string, enabled bool, chatID int64) maxapi.Button {
	mark := "❌"
	intent := maxapi.IntentNegative
	if enabled {
		mark = "✅"
		intent = maxapi.IntentPositive
	}
	return maxapi.Button{
		Text:    fmt.Sprintf(label, mark),
		Payload: TogglePayload(field, chatID),
		Intent:  intent,
	}
}

func filterName(field string) string {
	label, ok := filterLabels[field]
	if !ok {
		return field
	}
	// Labels carry a %s slot for the state mark; the confirmation
	// wants the bare name.
	return strings.TrimSpace(fmt.Sprintf(label, ""))
}
