package maxapi

import "context"

type ButtonIntent string

const (
	IntentDefault  ButtonIntent = "default"
	IntentPositive ButtonIntent = "positive"
	IntentNegative ButtonIntent = "negative"
)

type Button struct {
	Text    string
	Payload string
	Intent  ButtonIntent
}

// API is the outbound moderation surface of the MAX platform. Calls are
// single-shot: a failed call is reported to the caller and never retried.
type API interface {
	// SendChatMessage posts to a group chat and returns the new message id.
	SendChatMessage(ctx context.Context, chatID int64, text string, buttons [][]Button) (string, error)
	// SendUserMessage posts to a user's dialog and returns the new message id.
	SendUserMessage(ctx context.Context, userID int64, text string, buttons [][]Button) (string, error)
	DeleteMessage(ctx context.Context, messageID string) error
	// SetMemberCanSend restricts or restores a member's ability to post.
	SetMemberCanSend(ctx context.Context, chatID, userID int64, canSend bool) error
	RemoveMember(ctx context.Context, chatID, userID int64) error
	GetChatTitle(ctx context.Context, chatID int64) (string, error)
}
