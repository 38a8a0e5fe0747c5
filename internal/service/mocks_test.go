package service

import (
	"context"
	"time"

	"github.com/gustavalldev/MAXAntispamBot/internal/maxapi"
	"github.com/gustavalldev/MAXAntispamBot/internal/repository"
)

type MockChatRepository struct {
	EnsureOwnerAndChatFunc func(ctx context.Context, ownerUserID, chatID int64, title string) error
	GetChatFunc            func(ctx context.Context, chatID int64) (*repository.ManagedChat, error)
	ListChatsFunc          func(ctx context.Context, ownerUserID int64) ([]repository.ManagedChat, error)
	ToggleFunc             func(ctx context.Context, chatID int64, field string) (bool, error)
	UpdateTitleFunc        func(ctx context.Context, chatID int64, title string) error
}

func (m *MockChatRepository) EnsureOwnerAndChat(ctx context.Context, ownerUserID, chatID int64, title string) error {
	if m.EnsureOwnerAndChatFunc != nil {
		return m.EnsureOwnerAndChatFunc(ctx, ownerUserID, chatID, title)
	}
	return nil
}

func (m *MockChatRepository) GetChat(ctx context.Context, chatID int64) (*repository.ManagedChat, error) {
	if m.GetChatFunc != nil {
		return m.GetChatFunc(ctx, chatID)
	}
	return nil, repository.ErrChatNotFound
}

func (m *MockChatRepository) ListChats(ctx context.Context, ownerUserID int64) ([]repository.ManagedChat, error) {
	if m.ListChatsFunc != nil {
		return m.ListChatsFunc(ctx, ownerUserID)
	}
	return nil, nil
}

func (m *MockChatRepository) Toggle(ctx context.Context, chatID int64, field string) (bool, error) {
	if m.ToggleFunc != nil {
		return m.ToggleFunc(ctx, chatID, field)
	}
	return false, nil
}

func (m *MockChatRepository) UpdateTitle(ctx context.Context, chatID int64, title string) error {
	if m.UpdateTitleFunc != nil {
		return m.UpdateTitleFunc(ctx, chatID, title)
	}
	return nil
}

type MockTemporaryMessageRepository struct {
	AddFunc        func(chatID int64, messageID string, duration time.Duration) error
	GetExpiredFunc func(limit int) ([]repository.TemporaryMessage, error)
	DeleteFunc     func(ids []int64) error
}

func (m *MockTemporaryMessageRepository) Add(chatID int64, messageID string, duration time.Duration) error {
	if m.AddFunc != nil {
		return m.AddFunc(chatID, messageID, duration)
	}
	return nil
}

func (m *MockTemporaryMessageRepository) GetExpired(limit int) ([]repository.TemporaryMessage, error) {
	if m.GetExpiredFunc != nil {
		return m.GetExpiredFunc(limit)
	}
	return nil, nil
}

func (m *MockTemporaryMessageRepository) Delete(ids []int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ids)
	}
	return nil
}

type MockActions struct {
	SendChatMessageFunc  func(ctx context.Context, chatID int64, text string, buttons [][]maxapi.Button) (string, error)
	SendUserMessageFunc  func(ctx context.Context, userID int64, text string, buttons [][]maxapi.Button) (string, error)
	DeleteMessageFunc    func(ctx context.Context, messageID string) error
	SetMemberCanSendFunc func(ctx context.Context, chatID, userID int64, canSend bool) error
	RemoveMemberFunc     func(ctx context.Context, chatID, userID int64) error
	GetChatTitleFunc     func(ctx context.Context, chatID int64) (string, error)
}

func (m *MockActions) SendChatMessage(ctx context.Context, chatID int64, text string, buttons [][]maxapi.Button) (string, error) {
	if m.SendChatMessageFunc != nil {
		return m.SendChatMessageFunc(ctx, chatID, text, buttons)
	}
	return "mid", nil
}

func (m *MockActions) SendUserMessage(ctx context.Context, userID int64, text string, buttons [][]maxapi.Button) (string, error) {
	if m.SendUserMessageFunc != nil {
		return m.SendUserMessageFunc(ctx, userID, text, buttons)
	}
	return "mid", nil
}

func (m *MockActions) DeleteMessage(ctx context.Context, messageID string) error {
	if m.DeleteMessageFunc != nil {
		return m.DeleteMessageFunc(ctx, messageID)
	}
	return nil
}

func (m *MockActions) SetMemberCanSend(ctx context.Context, chatID, userID int64, canSend bool) error {
	if m.SetMemberCanSendFunc != nil {
		return m.SetMemberCanSendFunc(ctx, chatID, userID, canSend)
	}
	return nil
}

func (m *MockActions) RemoveMember(ctx context.Context, chatID, userID int64) error {
	if m.RemoveMemberFunc != nil {
		return m.RemoveMemberFunc(ctx, chatID, userID)
	}
	return nil
}

func (m *MockActions) GetChatTitle(ctx context.Context, chatID int64) (string, error) {
	if m.GetChatTitleFunc != nil {
		return m.GetChatTitleFunc(ctx, chatID)
	}
	return "", nil
}
