package services

import (
	"context"
	"time"

	"foodgram/internal/metrics"
	"foodgram/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// EventPublisher delivers domain events to the outside world.
type EventPublisher interface {
	Publish(ctx context.Context, event models.Event) error
}

// publishEvent is best-effort: a failed publish is logged and counted but
// never fails the write that produced it. A nil publisher disables events.
func publishEvent(ctx context.Context, pub EventPublisher, eventType string, payload map[string]interface{}) {
	if pub == nil {
		return
	}
	event := models.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
	if err := pub.Publish(ctx, event); err != nil {
		metrics.EventPublishFailures.WithLabelValues(eventType).Inc()
		log.Warn().Err(err).Str("event_type", eventType).Str("event_id", event.ID).Msg("failed to publish domain event")
	}
}
