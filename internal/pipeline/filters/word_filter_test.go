package filters

import (
	"context"
	"testing"

	"github.com/gustavalldev/MAXAntispamBot/internal/messages"
	"github.com/gustavalldev/MAXAntispamBot/internal/pipeline"
	"github.com/gustavalldev/MAXAntispamBot/internal/repository"
)

func TestWordFilter_Process(t *testing.T) {
	f := NewWordFilter([]string{"bad", " SPAM "})
	enabled := repository.FilterSettings{BadWords: true}

	tests := []struct {
		name         string
		message      string
		settings     repository.FilterSettings
		blockedWords []string
		wantAllowed  bool
	}{
		{
			name:        "Clean message",
			message:     "Hello world",
			settings:    enabled,
			wantAllowed: true,
		},
		{
			name:        "Exact match",
			message:     "bad",
			settings:    enabled,
			wantAllowed: false,
		},
		{
			name:        "Case insensitive",
			message:     "Some BAD word",
			settings:    enabled,
			wantAllowed: false,
		},
		{
			name:        "Substring match",
			message:     "notbadword",
			settings:    enabled,
			wantAllowed: false,
		},
		{
			name:        "Normalized config word",
			message:     "this is spam",
			settings:    enabled,
			wantAllowed: false,
		},
		{
			name:        "Toggle off skips evaluation",
			message:     "very bad spam",
			settings:    repository.FilterSettings{BadWords: false},
			wantAllowed: true,
		},
		{
			name:         "Chat-specific word",
			message:      "купите крипту",
			settings:     enabled,
			blockedWords: []string{"крипту"},
			wantAllowed:  false,
		},
		{
			name:         "Chat-specific word absent",
			message:      "обычное сообщение",
			settings:     enabled,
			blockedWords: []string{"крипту"},
			wantAllowed:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.Process(context.Background(), pipeline.Payload{
				ChatID:       123,
				Text:         tt.message,
				Settings:     tt.settings,
				BlockedWords: tt.blockedWords,
			})
			if err != nil {
				t.Errorf("Process() error = %v", err)
				return
			}
			if res.IsAllowed != tt.wantAllowed {
				t.Errorf("Process() allowed = %v, want %v", res.IsAllowed, tt.wantAllowed)
			}
			if !tt.wantAllowed && res.Reason != messages.MsgReasonProhibitedWord {
				t.Errorf("Process() reason = %q, want %q", res.Reason, messages.MsgReasonProhibitedWord)
			}
		})
	}
}
