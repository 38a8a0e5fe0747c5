package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/gustavalldev/MAXAntispamBot/internal/maxapi"
	"github.com/gustavalldev/MAXAntispamBot/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func newTestService(chatRepo *MockChatRepository, actions *MockActions, timeout time.Duration) Service {
	return NewModerationService(testLogger(), chatRepo, &MockTemporaryMessageRepository{}, actions,
		[]string{"bad", "spam"}, timeout)
}

func TestModerationService_ModerateMessage(t *testing.T) {
	tests := []struct {
		name        string
		chat        *repository.ManagedChat
		chatErr     error
		text        string
		wantAllowed bool
		wantFilter  string
		wantErr     bool
	}{
		{
			name:        "Unknown chat is a no-op",
			chatErr:     repository.ErrChatNotFound,
			text:        "bad http://x.com",
			wantAllowed: true,
		},
		{
			name: "Disabled chat never filters",
			chat: &repository.ManagedChat{
				ChatID:         -1,
				Enabled:        false,
				FilterSettings: repository.FilterSettings{BadWords: true, Links: true},
			},
			text:        "bad http://x.com",
			wantAllowed: true,
		},
		{
			name: "Word violation",
			chat: &repository.ManagedChat{
				ChatID:         -1,
				Enabled:        true,
				FilterSettings: repository.FilterSettings{BadWords: true},
			},
			text:        "this is bad",
			wantAllowed: false,
			wantFilter:  "word_filter",
		},
		{
			name: "Link violation",
			chat: &repository.ManagedChat{
				ChatID:         -1,
				Enabled:        true,
				FilterSettings: repository.FilterSettings{Links: true},
			},
			text:        "see http://x.com",
			wantAllowed: false,
			wantFilter:  "link_filter",
		},
		{
			name: "Link allowed while toggle off",
			chat: &repository.ManagedChat{
				ChatID:         -1,
				Enabled:        true,
				FilterSettings: repository.FilterSettings{Links: false},
			},
			text:        "see http://x.com",
			wantAllowed: true,
		},
		{
			name:    "Store error propagates",
			chatErr: errors.New("db down"),
			text:    "hello",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chatRepo := &MockChatRepository{
				GetChatFunc: func(_ context.Context, _ int64) (*repository.ManagedChat, error) {
					if tt.chatErr != nil {
						return nil, tt.chatErr
					}
					return tt.chat, nil
				},
			}
			svc := newTestService(chatRepo, &MockActions{}, time.Minute)

			res, err := svc.ModerateMessage(context.Background(), -1, 42, tt.text)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ModerateMessage() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if res.IsAllowed != tt.wantAllowed {
				t.Errorf("ModerateMessage() allowed = %v, want %v", res.IsAllowed, tt.wantAllowed)
			}
			if !tt.wantAllowed && res.FilterName != tt.wantFilter {
				t.Errorf("ModerateMessage() filter = %q, want %q", res.FilterName, tt.wantFilter)
			}
		})
	}
}

func TestModerationService_ToggleFilter(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		toggle  func(ctx context.Context, chatID int64, field string) (bool, error)
		want    bool
		wantErr error
	}{
		{
			name:  "Success",
			field: repository.FieldLinks,
			toggle: func(_ context.Context, _ int64, _ string) (bool, error) {
				return true, nil
			},
			want: true,
		},
		{
			name:  "Unknown field",
			field: "something_else",
			toggle: func(_ context.Context, _ int64, field string) (bool, error) {
				return false, repository.ErrUnknownField
			},
			wantErr: repository.ErrUnknownField,
		},
		{
			name:  "Missing chat",
			field: repository.FieldCaptcha,
			toggle: func(_ context.Context, _ int64, _ string) (bool, error) {
				return false, repository.ErrChatNotFound
			},
			wantErr: repository.ErrChatNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&MockChatRepository{ToggleFunc: tt.toggle}, &MockActions{}, time.Minute)

			got, err := svc.ToggleFilter(context.Background(), -1, tt.field)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ToggleFilter() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ToggleFilter() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ToggleFilter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestModerationService_BeginVerification_MuteFailureAbortsChallenge(t *testing.T) {
	muteErr := errors.New("api unavailable")
	challengeSent := false
	chatRepo := &MockChatRepository{
		GetChatFunc: func(_ context.Context, chatID int64) (*repository.ManagedChat, error) {
			return &repository.ManagedChat{
				ChatID:         chatID,
				Enabled:        true,
				FilterSettings: repository.FilterSettings{Captcha: true},
			}, nil
		},
	}
	actions := &MockActions{
		SetMemberCanSendFunc: func(_ context.Context, _, _ int64, canSend bool) error {
			if canSend {
				t.Error("expected mute, got unmute")
			}
			return muteErr
		},
		SendChatMessageFunc: func(_ context.Context, _ int64, _ string, _ [][]maxapi.Button) (string, error) {
			challengeSent = true
			return "mid", nil
		},
	}
	svc := newTestService(chatRepo, actions, time.Minute)

	if err := svc.BeginVerification(context.Background(), -1, 42); !errors.Is(err, muteErr) {
		t.Fatalf("BeginVerification() error = %v, want mute error", err)
	}
	if challengeSent {
		t.Error("challenge was issued even though muting failed")
	}
}

func TestModerationService_BeginVerification_CaptchaDisabled(t *testing.T) {
	chatRepo := &MockChatRepository{
		GetChatFunc: func(_ context.Context, chatID int64) (*repository.ManagedChat, error) {
			return &repository.ManagedChat{
				ChatID:         chatID,
				Enabled:        true,
				FilterSettings: repository.FilterSettings{Captcha: false},
			}, nil
		},
	}
	actions := &MockActions{
		SetMemberCanSendFunc: func(_ context.Context, _, _ int64, _ bool) error {
			t.Error("member must not be touched with captcha off")
			return nil
		},
	}
	svc := newTestService(chatRepo, actions, time.Minute)

	if err := svc.BeginVerification(context.Background(), -1, 42); err != nil {
		t.Fatalf("BeginVerification() error = %v", err)
	}
}
