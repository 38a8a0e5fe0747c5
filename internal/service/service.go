package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/gustavalldev/MAXAntispamBot/internal/maxapi"
	"github.com/gustavalldev/MAXAntispamBot/internal/messages"
	"github.com/gustavalldev/MAXAntispamBot/internal/metrics"
	"github.com/gustavalldev/MAXAntispamBot/internal/pipeline"
	"github.com/gustavalldev/MAXAntispamBot/internal/pipeline/filters"
	"github.com/gustavalldev/MAXAntispamBot/internal/repository"
	"github.com/gustavalldev/MAXAntispamBot/internal/verification"
)

const noticeTTL = 1 * time.Minute

type Service interface {
	RegisterChat(ctx context.Context, ownerUserID, chatID int64, title string) error
	BeginVerification(ctx context.Context, chatID, userID int64) error
	CompleteVerification(ctx context.Context, chatID, userID int64) error
	ModerateMessage(ctx context.Context, chatID, senderID int64, text string) (*pipeline.Result, error)
	GetChatSettings(ctx context.Context, chatID int64) (*repository.ManagedChat, error)
	ListManagedChats(ctx context.Context, ownerUserID int64) ([]repository.ManagedChat, error)
	ToggleFilter(ctx context.Context, chatID int64, field string) (bool, error)
	ScheduleDeletion(ctx context.Context, chatID int64, messageID string, duration time.Duration) error
	StartCleanupTask(ctx context.Context)
	StartMetricsUpdater(ctx context.Context)
}

type ModerationService struct {
	logger          *slog.Logger
	chatRepo        repository.ChatRepository
	tempMessageRepo repository.TemporaryMessageRepository
	actions         maxapi.API
	pipeline        *pipeline.Manager
	tracker         *verification.Tracker
	tracer          trace.Tracer
}

func NewModerationService(
	logger *slog.Logger,
	chatRepo repository.ChatRepository,
	tempMessageRepo repository.TemporaryMessageRepository,
	actions maxapi.API,
	bannedWords []string,
	captchaTimeout time.Duration,
) Service {

	wordFilter := filters.NewWordFilter(bannedWords)
	linkFilter := filters.NewLinkFilter()
	pm := pipeline.NewManager(wordFilter, linkFilter)

	s := &ModerationService{
		logger:          logger,
		chatRepo:        chatRepo,
		tempMessageRepo: tempMessageRepo,
		actions:         actions,
		pipeline:        pm,
		tracer:          otel.Tracer("service"),
	}
	s.tracker = verification.NewTracker(logger, captchaTimeout, s.sendChallenge, s.handleExpiry)
	return s
}

func (s *ModerationService) RegisterChat(ctx context.Context, ownerUserID, chatID int64, title string) error {
	ctx, span := s.tracer.Start(ctx, "RegisterChat")
	defer span.End()

	if err := s.chatRepo.EnsureOwnerAndChat(ctx, ownerUserID, chatID, title); err != nil {
		return err
	}
	// Inserts ignore conflicts, so renamed chats need an explicit refresh.
	if title != "" {
		if err := s.chatRepo.UpdateTitle(ctx, chatID, title); err != nil {
			s.logger.Warn("Failed to refresh chat title", "chat_id", chatID, "error", err)
		}
	}
	return nil
}

// BeginVerification mutes the joined member and issues a captcha challenge.
// Muting comes first so the member cannot post before the gate is active;
// if muting fails no challenge is issued.
func (s *ModerationService) BeginVerification(ctx context.Context, chatID, userID int64) error {
	ctx, span := s.tracer.Start(ctx, "BeginVerification")
	defer span.End()

	chat, err := s.chatRepo.GetChat(ctx, chatID)
	if err != nil {
		return fmt.Errorf("failed to load chat for verification: %w", err)
	}
	if !chat.Enabled || !chat.Captcha {
		s.logger.Debug("Captcha disabled, skipping challenge", "chat_id", chatID, "user_id", userID)
		return nil
	}
	if s.tracker.IsPending(userID) {
		s.logger.Debug("Verification already pending", "chat_id", chatID, "user_id", userID)
		return nil
	}

	if err := s.actions.SetMemberCanSend(ctx, chatID, userID, false); err != nil {
		return fmt.Errorf("failed to mute joined member: %w", err)
	}

	if err := s.tracker.Issue(ctx, chatID, userID); err != nil {
		if errors.Is(err, verification.ErrAlreadyPending) {
			s.logger.Debug("Duplicate join event ignored", "chat_id", chatID, "user_id", userID)
			return nil
		}
		return fmt.Errorf("failed to issue challenge: %w", err)
	}

	metrics.IncBotAction("challenge_issued")
	return nil
}

// CompleteVerification handles a verify button press. Returns
// verification.ErrNotPending when there is nothing to resolve — a benign
// signal on duplicate clicks or clicks after expiry.
func (s *ModerationService) CompleteVerification(ctx context.Context, chatID, userID int64) error {
	ctx, span := s.tracer.Start(ctx, "CompleteVerification")
	defer span.End()

	ch, err := s.tracker.Resolve(userID)
	if err != nil {
		return err
	}

	if ch.ChatID != chatID {
		s.logger.Warn("Verify callback from unexpected chat",
			"expected_chat_id", ch.ChatID, "chat_id", chatID, "user_id", userID)
	}

	if err := s.actions.SetMemberCanSend(ctx, ch.ChatID, userID, true); err != nil {
		return fmt.Errorf("failed to unmute verified member: %w", err)
	}
	if err := s.actions.DeleteMessage(ctx, ch.MessageID); err != nil {
		s.logger.Warn("Failed to delete challenge message", "message_id", ch.MessageID, "error", err)
	}
	s.sendNotice(ctx, ch.ChatID, messages.MsgVerifySuccess)

	metrics.IncBotAction("verified")
	s.logger.Info("Member verified", "chat_id", ch.ChatID, "user_id", userID)
	return nil
}

func (s *ModerationService) ModerateMessage(ctx context.Context, chatID, senderID int64, text string) (*pipeline.Result, error) {
	ctx, span := s.tracer.Start(ctx, "ModerateMessage")
	defer span.End()

	// Settings are read fresh on every message so a toggle takes effect
	// on the very next one.
	chat, err := s.chatRepo.GetChat(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrChatNotFound) {
			return &pipeline.Result{IsAllowed: true}, nil
		}
		return nil, err
	}
	if !chat.Enabled {
		return &pipeline.Result{IsAllowed: true}, nil
	}

	return s.pipeline.Process(ctx, pipeline.Payload{
		ChatID:       chatID,
		SenderID:     senderID,
		Text:         text,
		Settings:     chat.FilterSettings,
		BlockedWords: chat.BlockedWords,
	})
}

func (s *ModerationService) GetChatSettings(ctx context.Context, chatID int64) (*repository.ManagedChat, error) {
	ctx, span := s.tracer.Start(ctx, "GetChatSettings")
	defer span.End()
	return s.chatRepo.GetChat(ctx, chatID)
}

func (s *ModerationService) ListManagedChats(ctx context.Context, ownerUserID int64) ([]repository.ManagedChat, error) {
	ctx, span := s.tracer.Start(ctx, "ListManagedChats")
	defer span.End()
	return s.chatRepo.ListChats(ctx, ownerUserID)
}

func (s *ModerationService) ToggleFilter(ctx context.Context, chatID int64, field string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "ToggleFilter")
	defer span.End()

	val, err := s.chatRepo.Toggle(ctx, chatID, field)
	if err != nil {
		return false, err
	}
	metrics.IncBotAction("toggle_filter")
	s.logger.Info("Filter toggled", "chat_id", chatID, "field", field, "new_value", val)
	return val, nil
}

func (s *ModerationService) StartMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Minute)

	update := func() {
		metrics.SetPendingVerifications(float64(s.tracker.Len()))
	}

	go update()

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				update()
			}
		}
	}()
}

func (s *ModerationService) sendChallenge(ctx context.Context, chatID, userID int64) (string, error) {
	buttons := [][]maxapi.Button{{
		{
			Text:    messages.BtnVerify,
			Payload: fmt.Sprintf("verify_%d", userID),
			Intent:  maxapi.IntentPositive,
		},
	}}
	return s.actions.SendChatMessage(ctx, chatID, messages.MsgCaptchaPrompt, buttons)
}

// handleExpiry runs in the tracker's timer goroutine after an unanswered
// challenge. Message cleanup and the notice are best-effort; the removal is
// the terminal action and always runs, even if an admin restored the
// member's permissions in the meantime.
func (s *ModerationService) handleExpiry(ch verification.Challenge) {
	ctx, span := s.tracer.Start(context.Background(), "VerificationExpired")
	defer span.End()

	s.logger.Info("Removing member after expired challenge", "chat_id", ch.ChatID, "user_id", ch.UserID)

	if err := s.actions.DeleteMessage(ctx, ch.MessageID); err != nil {
		s.logger.Warn("Failed to delete expired challenge message",
			"message_id", ch.MessageID, "error", err)
	}
	s.sendNotice(ctx, ch.ChatID, fmt.Sprintf(messages.MsgVerifyFailed, ch.UserID))

	if err := s.actions.RemoveMember(ctx, ch.ChatID, ch.UserID); err != nil {
		s.logger.Error("Failed to remove unverified member",
			"chat_id", ch.ChatID, "user_id", ch.UserID, "error", err)
		return
	}
	metrics.IncBotAction("kicked")
}

func (s *ModerationService) sendNotice(ctx context.Context, chatID int64, text string) {
	mid, err := s.actions.SendChatMessage(ctx, chatID, text, nil)
	if err != nil {
		s.logger.Error("Failed to send notice", "chat_id", chatID, "error", err)
		return
	}
	if mid != "" {
		if err := s.ScheduleDeletion(ctx, chatID, mid, noticeTTL); err != nil {
			s.logger.Error("Failed to schedule notice deletion", "error", err)
		}
	}
}
