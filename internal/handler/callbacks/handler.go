package callbacks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gustavalldev/MAXAntispamBot/internal/maxapi"
	"github.com/gustavalldev/MAXAntispamBot/internal/metrics"
	"github.com/gustavalldev/MAXAntispamBot/internal/service"
	"github.com/gustavalldev/MAXAntispamBot/internal/verification"
)

// CallbackHandler routes decoded button presses to the moderation service.
type CallbackHandler struct {
	logger  *slog.Logger
	svc     service.Service
	actions maxapi.API
}

func NewCallbackHandler(logger *slog.Logger, svc service.Service, actions maxapi.API) *CallbackHandler {
	return &CallbackHandler{
		logger:  logger,
		svc:     svc,
		actions: actions,
	}
}

// Handle dispatches a single callback press. chatID is the chat holding
// the message with the keyboard, clickerID is who pressed the button.
// Malformed payloads and presses by the wrong user are dropped, not
// returned as errors: a stale or forged button must not fail the update.
func (h *CallbackHandler) Handle(ctx context.Context, chatID, clickerID int64, payload string) error {
	action, err := Parse(payload)
	if err != nil {
		h.logger.Warn("Dropping unparseable callback", "payload", payload, "user_id", clickerID)
		return nil
	}

	metrics.IncBotAction("callback_" + string(action.Kind))

	switch action.Kind {
	case KindVerify:
		return h.handleVerify(ctx, chatID, clickerID, action)
	case KindShowChats:
		return h.handleShowChats(ctx, clickerID, action)
	case KindOpenSettings:
		return h.handleOpenSettings(ctx, clickerID, action)
	case KindToggle:
		return h.handleToggle(ctx, clickerID, action)
	}
	return nil
}

// handleVerify completes the captcha for the member the challenge was
// addressed to. Presses by anyone else are ignored so another member
// cannot verify a newcomer.
func (h *CallbackHandler) handleVerify(ctx context.Context, chatID, clickerID int64, action Action) error {
	if action.UserID != clickerID {
		h.logger.Debug("Verify pressed by another member",
			"chat_id", chatID, "target_user_id", action.UserID, "clicker_id", clickerID)
		return nil
	}

	err := h.svc.CompleteVerification(ctx, chatID, clickerID)
	if errors.Is(err, verification.ErrNotPending) {
		h.logger.Debug("Verify press without pending challenge", "chat_id", chatID, "user_id", clickerID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to complete verification: %w", err)
	}
	return nil
}

// verifyOwnership checks that clickerID manages chatID before any
// settings action. Payloads are attacker-controlled, the DB is not.
func (h *CallbackHandler) verifyOwnership(ctx context.Context, clickerID, chatID int64) (bool, error) {
	chats, err := h.svc.ListManagedChats(ctx, clickerID)
	if err != nil {
		return false, fmt.Errorf("failed to check chat ownership: %w", err)
	}
	for _, c := range chats {
		if c.ChatID == chatID {
			return true, nil
		}
	}
	return false, nil
}
