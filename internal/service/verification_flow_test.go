package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gustavalldev/MAXAntispamBot/internal/maxapi"
	"github.com/gustavalldev/MAXAntispamBot/internal/repository"
	"github.com/gustavalldev/MAXAntispamBot/internal/verification"
)

// recorder collects action-API calls in order so scenario tests can assert
// on side effects and their sequence.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func captchaChatRepo() *MockChatRepository {
	return &MockChatRepository{
		GetChatFunc: func(_ context.Context, chatID int64) (*repository.ManagedChat, error) {
			return &repository.ManagedChat{
				ChatID:         chatID,
				Enabled:        true,
				FilterSettings: repository.FilterSettings{Captcha: true},
			}, nil
		},
	}
}

func recordingActions(rec *recorder) *MockActions {
	return &MockActions{
		SetMemberCanSendFunc: func(_ context.Context, _, _ int64, canSend bool) error {
			if canSend {
				rec.add("unmute")
			} else {
				rec.add("mute")
			}
			return nil
		},
		SendChatMessageFunc: func(_ context.Context, _ int64, _ string, buttons [][]maxapi.Button) (string, error) {
			if len(buttons) > 0 {
				rec.add("challenge")
				return "challenge-mid", nil
			}
			rec.add("notice")
			return "notice-mid", nil
		},
		DeleteMessageFunc: func(_ context.Context, messageID string) error {
			rec.add("delete:" + messageID)
			return nil
		},
		RemoveMemberFunc: func(_ context.Context, _, _ int64) error {
			rec.add("kick")
			return nil
		},
	}
}

func TestVerificationFlow_SuccessfulVerify(t *testing.T) {
	rec := &recorder{}
	svc := newTestService(captchaChatRepo(), recordingActions(rec), time.Minute)

	if err := svc.BeginVerification(context.Background(), -1, 42); err != nil {
		t.Fatalf("BeginVerification() error = %v", err)
	}

	calls := rec.snapshot()
	if len(calls) != 2 || calls[0] != "mute" || calls[1] != "challenge" {
		t.Fatalf("after join calls = %v, want [mute challenge]", calls)
	}

	if err := svc.CompleteVerification(context.Background(), -1, 42); err != nil {
		t.Fatalf("CompleteVerification() error = %v", err)
	}

	calls = rec.snapshot()
	want := []string{"mute", "challenge", "unmute", "delete:challenge-mid", "notice"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", calls, want)
		}
	}

	// A second click is a silent no-op.
	err := svc.CompleteVerification(context.Background(), -1, 42)
	if !errors.Is(err, verification.ErrNotPending) {
		t.Fatalf("second CompleteVerification() error = %v, want ErrNotPending", err)
	}
	if got := rec.snapshot(); len(got) != len(want) {
		t.Errorf("duplicate click produced extra calls: %v", got)
	}
}

func TestVerificationFlow_ExpiryKicksOnce(t *testing.T) {
	rec := &recorder{}
	kicked := make(chan struct{}, 1)
	actions := recordingActions(rec)
	base := actions.RemoveMemberFunc
	actions.RemoveMemberFunc = func(ctx context.Context, chatID, userID int64) error {
		err := base(ctx, chatID, userID)
		kicked <- struct{}{}
		return err
	}

	svc := newTestService(captchaChatRepo(), actions, 25*time.Millisecond)

	if err := svc.BeginVerification(context.Background(), -1, 42); err != nil {
		t.Fatalf("BeginVerification() error = %v", err)
	}

	select {
	case <-kicked:
	case <-time.After(time.Second):
		t.Fatal("member was never removed after the timeout")
	}

	calls := rec.snapshot()
	want := []string{"mute", "challenge", "delete:challenge-mid", "notice", "kick"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", calls, want)
		}
	}

	// A verify click after expiry resolves nothing and triggers no unmute.
	err := svc.CompleteVerification(context.Background(), -1, 42)
	if !errors.Is(err, verification.ErrNotPending) {
		t.Fatalf("post-expiry CompleteVerification() error = %v, want ErrNotPending", err)
	}
	if got := rec.snapshot(); len(got) != len(want) {
		t.Errorf("post-expiry click produced extra calls: %v", got)
	}
}

func TestVerificationFlow_DuplicateJoinIsNoOp(t *testing.T) {
	rec := &recorder{}
	svc := newTestService(captchaChatRepo(), recordingActions(rec), time.Minute)

	if err := svc.BeginVerification(context.Background(), -1, 42); err != nil {
		t.Fatalf("first BeginVerification() error = %v", err)
	}
	if err := svc.BeginVerification(context.Background(), -1, 42); err != nil {
		t.Fatalf("duplicate BeginVerification() error = %v", err)
	}

	calls := rec.snapshot()
	if len(calls) != 2 {
		t.Errorf("duplicate join produced extra calls: %v", calls)
	}
}
