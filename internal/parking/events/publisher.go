package events

import (
	"context"
	"parkdeck/pkg/kafka"
	"parkdeck/pkg/logger"
	"time"
)

const (
	EventSessionOpened        = "session_opened"
	EventSessionClosed        = "session_closed"
	EventReservationCreated   = "reservation_created"
	EventReservationCancelled = "reservation_cancelled"
	EventSpotStatusChanged    = "spot_status_changed"

	SchemaVersion = "1"
)

// Publisher emits domain events to the parking events topic. Publishing is
// best-effort: a broker failure is logged and swallowed so it never fails
// the operation that produced the event.
type Publisher struct {
	producer *kafka.Producer
	source   string
	log      *logger.Logger
}

// NewPublisher wraps a producer. A nil producer yields a no-op publisher,
// used when Kafka is not configured.
func NewPublisher(producer *kafka.Producer, source string, log *logger.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		source:   source,
		log:      log,
	}
}

type envelope struct {
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

func (p *Publisher) Publish(ctx context.Context, eventType, key string, payload any) {
	if p == nil || p.producer == nil {
		return
	}

	msg := kafka.NewMessage().
		WithKey(key).
		WithEventType(eventType).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		WithValue(envelope{
			EventType:  eventType,
			OccurredAt: time.Now().UTC(),
			Payload:    payload,
		}).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Warn("Failed to publish event",
			"event_type", eventType,
			"key", key,
			"error", err,
		)
		return
	}

	p.log.Debug("Event published", "event_type", eventType, "key", key)
}

func (p *Publisher) Close() error {
	if p == nil || p.producer == nil {
		return nil
	}
	return p.producer.Close()
}
