package service

import (
	"context"
	"time"

	"github.com/gustavalldev/MAXAntispamBot/internal/metrics"
)

func (s *ModerationService) StartCleanupTask(ctx context.Context) {
	ticker := time.NewTicker(2 * time.Second)

	cleanup := func() {
		expired, err := s.tempMessageRepo.GetExpired(50)
		if err != nil {
			s.logger.Error("Failed to get expired messages", "error", err)
			return
		}
		if len(expired) == 0 {
			return
		}

		s.logger.Debug("Found expired notices to delete", "count", len(expired))

		var toDeleteIDs []int64
		for _, msg := range expired {
			if err := s.actions.DeleteMessage(ctx, msg.MessageID); err != nil {
				s.logger.Warn("Failed to delete expired notice from chat (will drop from DB)",
					"msg_id", msg.MessageID, "chat_id", msg.ChatID, "error", err)
			} else {
				metrics.IncDeletedMessages("notice_expired")
			}
			toDeleteIDs = append(toDeleteIDs, msg.ID)
		}

		if len(toDeleteIDs) > 0 {
			if err := s.tempMessageRepo.Delete(toDeleteIDs); err != nil {
				s.logger.Error("Failed to delete notices from DB", "error", err)
			}
		}
	}

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cleanup()
			}
		}
	}()
}

func (s *ModerationService) ScheduleDeletion(_ context.Context, chatID int64, messageID string, duration time.Duration) error {
	return s.tempMessageRepo.Add(chatID, messageID, duration)
}
