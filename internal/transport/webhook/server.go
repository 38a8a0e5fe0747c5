package webhook

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	maxbot "github.com/max-messenger/max-bot-api-client-go"
	"github.com/max-messenger/max-bot-api-client-go/schemes"
)

const shutdownTimeout = 5 * time.Second

// Server receives updates pushed by the messenger to a public HTTPS
// endpoint and feeds them into a channel.
type Server struct {
	logger *slog.Logger
	bot    *maxbot.Api
	host   string
	port   string
}

func NewServer(logger *slog.Logger, bot *maxbot.Api, host, port string) *Server {
	return &Server{
		logger: logger,
		bot:    bot,
		host:   host,
		port:   port,
	}
}

// Start drops stale subscriptions, registers the webhook and begins
// serving. The returned cleanup shuts the HTTP server down.
func (s *Server) Start(ctx context.Context) (<-chan schemes.UpdateInterface, func() error, error) {
	updates := make(chan schemes.UpdateInterface, 100)

	s.dropStaleSubscriptions(ctx)

	webhookURL := fmt.Sprintf("%s/webhook", s.host)
	if _, err := s.bot.Subscriptions.Subscribe(ctx, webhookURL, []string{}, "secret"); err != nil {
		return nil, nil, fmt.Errorf("failed to subscribe webhook: %w", err)
	}
	s.logger.Info("Subscribed to webhook", "url", webhookURL)

	mux := http.NewServeMux()
	mux.HandleFunc("/webhook", s.bot.GetHandler(updates))

	server := &http.Server{
		Addr:    ":" + s.port,
		Handler: mux,
	}

	go func() {
		s.logger.Info("Webhook server listening", "port", s.port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Webhook server failed", "error", err)
		}
	}()

	cleanup := func() error {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil
	}

	return updates, cleanup, nil
}

// dropStaleSubscriptions removes webhooks left over from previous runs
// so the messenger does not deliver updates to a dead endpoint.
func (s *Server) dropStaleSubscriptions(ctx context.Context) {
	subs, err := s.bot.Subscriptions.GetSubscriptions(ctx)
	if err != nil {
		s.logger.Warn("Failed to list existing subscriptions", "error", err)
		return
	}
	for _, sub := range subs.Subscriptions {
		if _, err := s.bot.Subscriptions.Unsubscribe(ctx, sub.Url); err != nil {
			s.logger.Warn("Failed to unsubscribe old webhook", "url", sub.Url, "error", err)
		}
	}
}
