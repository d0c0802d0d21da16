package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/enuda-labs/summit-BE/internal/core/domain"
	"github.com/enuda-labs/summit-BE/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for development environments.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, userID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.String("user_id", userID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishUserRegistered logs summit.user.registered events.
func (p *StubPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	payload := map[string]any{
		"user_id":       event.UserID,
		"username":      event.Username,
		"email":         event.Email,
		"registered_at": event.RegisteredAt,
		"metadata":      event.Metadata,
	}
	p.logEvent("summit.user.registered", event.UserID, event.RegisteredAt, payload)
	return nil
}

// PublishUserActivated logs summit.user.activated events.
func (p *StubPublisher) PublishUserActivated(_ context.Context, event domain.UserActivatedEvent) error {
	payload := map[string]any{
		"user_id":      event.UserID,
		"email":        event.Email,
		"activated_at": event.ActivatedAt,
		"metadata":     event.Metadata,
	}
	p.logEvent("summit.user.activated", event.UserID, event.ActivatedAt, payload)
	return nil
}

// PublishSubscriptionUpdated logs summit.subscription.updated events.
func (p *StubPublisher) PublishSubscriptionUpdated(_ context.Context, event domain.SubscriptionUpdatedEvent) error {
	payload := map[string]any{
		"user_id":                event.UserID,
		"plan":                   event.Plan,
		"frequency":              event.Frequency,
		"price":                  event.Price,
		"stripe_subscription_id": event.StripeSubscriptionID,
		"period_start":           event.PeriodStart,
		"period_end":             event.PeriodEnd,
		"updated_at":             event.UpdatedAt,
		"metadata":               event.Metadata,
	}
	p.logEvent("summit.subscription.updated", event.UserID, event.UpdatedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
