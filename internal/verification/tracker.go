// Package verification tracks outstanding captcha challenges for newly
// joined members. State is process-local: a restart forgets pending
// challenges, leaving affected members muted until they rejoin.
package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const DefaultTimeout = 3 * time.Minute

var (
	ErrAlreadyPending = errors.New("verification already pending for user")
	ErrNotPending     = errors.New("no pending verification")
)

// Challenge is one outstanding verification for a (chat, user) pair.
type Challenge struct {
	ChatID    int64
	UserID    int64
	MessageID string
	IssuedAt  time.Time
	Deadline  time.Time
}

// SendFunc delivers the challenge message and returns its id.
type SendFunc func(ctx context.Context, chatID, userID int64) (string, error)

// ExpireFunc runs the terminal expiry action for an unresolved challenge.
type ExpireFunc func(ch Challenge)

type entry struct {
	ch    Challenge
	timer *time.Timer
	// ready flips once the challenge message has been delivered; until
	// then the entry is only a reservation and cannot be resolved.
	ready bool
}

// Tracker holds at most one pending challenge per user. Resolve is the
// single atomic take-and-clear used by both the verify path and the expiry
// timer, which guarantees exactly one terminal action per challenge.
type Tracker struct {
	logger  *slog.Logger
	timeout time.Duration
	send    SendFunc
	expire  ExpireFunc

	mu      sync.Mutex
	pending map[int64]*entry
}

func NewTracker(logger *slog.Logger, timeout time.Duration, send SendFunc, expire ExpireFunc) *Tracker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Tracker{
		logger:  logger,
		timeout: timeout,
		send:    send,
		expire:  expire,
		pending: make(map[int64]*entry),
	}
}

// Issue reserves the user's slot, delivers the challenge message and arms
// the expiry timer. The reservation is taken before sending so two racing
// join events produce a single challenge; a failed delivery releases it.
func (t *Tracker) Issue(ctx context.Context, chatID, userID int64) error {
	t.mu.Lock()
	if _, ok := t.pending[userID]; ok {
		t.mu.Unlock()
		return ErrAlreadyPending
	}
	e := &entry{}
	t.pending[userID] = e
	t.mu.Unlock()

	messageID, err := t.send(ctx, chatID, userID)
	if err != nil {
		t.mu.Lock()
		delete(t.pending, userID)
		t.mu.Unlock()
		return fmt.Errorf("failed to deliver challenge: %w", err)
	}

	now := time.Now()
	t.mu.Lock()
	e.ch = Challenge{
		ChatID:    chatID,
		UserID:    userID,
		MessageID: messageID,
		IssuedAt:  now,
		Deadline:  now.Add(t.timeout),
	}
	e.ready = true
	e.timer = time.AfterFunc(t.timeout, func() { t.expireUser(userID) })
	t.mu.Unlock()

	t.logger.Info("Issued verification challenge",
		"chat_id", chatID, "user_id", userID, "deadline", e.ch.Deadline)
	return nil
}

// Resolve atomically removes and returns the user's pending challenge,
// cancelling its expiry timer. Returns ErrNotPending if there is none, so
// duplicate callbacks and verify-vs-expiry races settle on one winner.
func (t *Tracker) Resolve(userID int64) (Challenge, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.pending[userID]
	if !ok || !e.ready {
		return Challenge{}, ErrNotPending
	}
	delete(t.pending, userID)
	e.timer.Stop()
	return e.ch, nil
}

func (t *Tracker) IsPending(userID int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.pending[userID]
	return ok
}

func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

// Stop cancels all expiry timers without firing their terminal actions.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for userID, e := range t.pending {
		if e.timer != nil {
			e.timer.Stop()
		}
		delete(t.pending, userID)
	}
}

func (t *Tracker) expireUser(userID int64) {
	ch, err := t.Resolve(userID)
	if err != nil {
		// Lost the race against a successful verification.
		return
	}
	t.logger.Info("Verification challenge expired", "chat_id", ch.ChatID, "user_id", ch.UserID)
	t.expire(ch)
}
