package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/enuda-labs/summit-BE/internal/core/domain"
	"github.com/enuda-labs/summit-BE/internal/core/port"
	"github.com/enuda-labs/summit-BE/internal/infra/config"
	"github.com/enuda-labs/summit-BE/internal/infra/logger"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	UserID    string           `json:"user_id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, userID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	if requestID := logger.RequestIDFromContext(ctx); requestID != "" {
		metadata["request_id"] = requestID
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		UserID:    userID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishUserRegistered publishes summit.user.registered events.
func (p *EventPublisher) PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error {
	payload := struct {
		UserID       string         `json:"user_id"`
		Username     string         `json:"username"`
		Email        string         `json:"email"`
		RegisteredAt time.Time      `json:"registered_at"`
		Metadata     map[string]any `json:"metadata,omitempty"`
	}{
		UserID:       event.UserID,
		Username:     event.Username,
		Email:        event.Email,
		RegisteredAt: event.RegisteredAt.UTC(),
		Metadata:     event.Metadata,
	}

	return p.publish(ctx, event.EventID, "summit.user.registered", event.UserID, event.RegisteredAt, payload)
}

// PublishUserActivated publishes summit.user.activated events.
func (p *EventPublisher) PublishUserActivated(ctx context.Context, event domain.UserActivatedEvent) error {
	payload := struct {
		UserID      string         `json:"user_id"`
		Email       string         `json:"email"`
		ActivatedAt time.Time      `json:"activated_at"`
		Metadata    map[string]any `json:"metadata,omitempty"`
	}{
		UserID:      event.UserID,
		Email:       event.Email,
		ActivatedAt: event.ActivatedAt.UTC(),
		Metadata:    event.Metadata,
	}

	return p.publish(ctx, event.EventID, "summit.user.activated", event.UserID, event.ActivatedAt, payload)
}

// PublishSubscriptionUpdated publishes summit.subscription.updated events.
func (p *EventPublisher) PublishSubscriptionUpdated(ctx context.Context, event domain.SubscriptionUpdatedEvent) error {
	payload := struct {
		UserID               string         `json:"user_id"`
		Plan                 string         `json:"plan"`
		Frequency            string         `json:"frequency"`
		Price                float64        `json:"price"`
		StripeSubscriptionID string         `json:"stripe_subscription_id,omitempty"`
		PeriodStart          time.Time      `json:"period_start"`
		PeriodEnd            time.Time      `json:"period_end"`
		UpdatedAt            time.Time      `json:"updated_at"`
		Metadata             map[string]any `json:"metadata,omitempty"`
	}{
		UserID:               event.UserID,
		Plan:                 event.Plan,
		Frequency:            event.Frequency,
		Price:                event.Price,
		StripeSubscriptionID: event.StripeSubscriptionID,
		PeriodStart:          event.PeriodStart.UTC(),
		PeriodEnd:            event.PeriodEnd.UTC(),
		UpdatedAt:            event.UpdatedAt.UTC(),
		Metadata:             event.Metadata,
	}

	return p.publish(ctx, event.EventID, "summit.subscription.updated", event.UserID, event.UpdatedAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
