// Package notification reacts to domain events with email. It subscribes to
// the user events topic under its own consumer group and sends a welcome
// email for each user.created event.
package notification

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/PorePranav/CloudCart/internal/event"
	"github.com/PorePranav/CloudCart/internal/notification/mailer"
	"github.com/PorePranav/CloudCart/internal/notification/metrics"
	"github.com/PorePranav/CloudCart/internal/platform/kafka"
)

// EventHandler implements kafka.Handler for the user events topic.
//
// Error policy: a returned error leaves the offset uncommitted, so it is
// reserved for failures that a retry can fix (SMTP relay down). Records
// that can never succeed, like undecodable payloads, are logged and
// acknowledged so they cannot wedge the partition.
type EventHandler struct {
	mailer       mailer.Mailer
	dashboardURL string
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

// NewEventHandler wires the handler.
func NewEventHandler(m mailer.Mailer, dashboardURL string, logger *slog.Logger, mx *metrics.Metrics) *EventHandler {
	return &EventHandler{mailer: m, dashboardURL: dashboardURL, logger: logger, metrics: mx}
}

// Handle processes one delivered record.
func (h *EventHandler) Handle(ctx context.Context, msg *kafka.Message) error {
	var envelope event.Envelope
	if err := json.Unmarshal(msg.Value, &envelope); err != nil {
		h.logger.ErrorContext(ctx, "discarding undecodable event",
			"topic", msg.Topic, "offset", msg.Offset, "error", err)
		h.metrics.EventsSkipped.Inc()
		return nil
	}

	h.metrics.EventsConsumed.WithLabelValues(string(envelope.Type)).Inc()

	switch envelope.Type {
	case event.TypeUserCreated:
		return h.handleUserCreated(ctx, envelope)
	default:
		h.logger.WarnContext(ctx, "ignoring unknown event type",
			"event_type", envelope.Type, "event_id", envelope.EventID)
		h.metrics.EventsSkipped.Inc()
		return nil
	}
}

func (h *EventHandler) handleUserCreated(ctx context.Context, envelope event.Envelope) error {
	user, err := event.DecodeUserCreated(envelope)
	if err != nil {
		h.logger.ErrorContext(ctx, "discarding malformed user.created event",
			"event_id", envelope.EventID, "error", err)
		h.metrics.EventsSkipped.Inc()
		return nil
	}

	email, err := mailer.RenderWelcome(user.Email, user.Name, h.dashboardURL)
	if err != nil {
		h.logger.ErrorContext(ctx, "discarding unrenderable welcome email",
			"event_id", envelope.EventID, "error", err)
		h.metrics.EventsSkipped.Inc()
		return nil
	}

	if err := h.mailer.Send(ctx, email); err != nil {
		// Retryable: leave the offset uncommitted.
		h.metrics.MailFailed.Inc()
		return err
	}

	h.metrics.MailSent.Inc()
	h.logger.InfoContext(ctx, "welcome email sent",
		"event_id", envelope.EventID, "user_id", user.ID)
	return nil
}
