package handler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/max-messenger/max-bot-api-client-go/schemes"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/gustavalldev/MAXAntispamBot/internal/config"
	"github.com/gustavalldev/MAXAntispamBot/internal/handler/callbacks"
	"github.com/gustavalldev/MAXAntispamBot/internal/maxapi"
	"github.com/gustavalldev/MAXAntispamBot/internal/service"
)

type Handler struct {
	logger          *slog.Logger
	svc             service.Service
	actions         maxapi.API
	tracer          trace.Tracer
	config          *config.Config
	callbackHandler *callbacks.CallbackHandler
}

func NewHandler(logger *slog.Logger, svc service.Service, actions maxapi.API, cfg *config.Config) *Handler {
	return &Handler{
		logger:          logger,
		svc:             svc,
		actions:         actions,
		tracer:          otel.Tracer("handler"),
		config:          cfg,
		callbackHandler: callbacks.NewCallbackHandler(logger, svc, actions),
	}
}

func (h *Handler) HandleUpdate(ctx context.Context, upd schemes.UpdateInterface) {
	var span trace.Span
	if h.config.EnableTelemetry {
		ctx, span = h.tracer.Start(ctx, "HandleUpdate")
		defer span.End()
	}

	// Every update gets its own correlation id so all log lines for one
	// update can be pulled together.
	logger := h.logger.With("update_id", uuid.NewString())

	switch u := upd.(type) {
	case *schemes.MessageCreatedUpdate:
		if h.config.EnableTelemetry {
			span.SetAttributes(attribute.String("update_type", "message_created"))
		}
		h.handleMessageCreated(ctx, logger, u)
	case *schemes.MessageCallbackUpdate:
		if h.config.EnableTelemetry {
			span.SetAttributes(attribute.String("update_type", "message_callback"))
		}
		h.handleCallback(ctx, logger, u)
	case *schemes.UserAddedToChatUpdate:
		if h.config.EnableTelemetry {
			span.SetAttributes(attribute.String("update_type", "user_added"))
		}
		h.handleUserAdded(ctx, logger, u)
	case *schemes.BotStartedUpdate:
		if h.config.EnableTelemetry {
			span.SetAttributes(attribute.String("update_type", "bot_started"))
		}
		h.handleBotStarted(ctx, logger, u)
	default:
		logger.Debug("Received unhandled update type", "type", fmt.Sprintf("%T", u))
	}
}
