package pipeline

import (
	"github.com/gustavalldev/MAXAntispamBot/internal/repository"
)

// Payload carries one group message together with a snapshot of the chat's
// filter settings, taken by the orchestrator right before processing.
type Payload struct {
	ChatID       int64
	SenderID     int64
	Text         string
	Settings     repository.FilterSettings
	BlockedWords []string
}
