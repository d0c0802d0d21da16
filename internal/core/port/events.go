package port

import (
	"context"

	"github.com/enuda-labs/summit-BE/internal/core/domain"
)

// EventPublisher publishes domain events to the message bus.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error
	PublishUserActivated(ctx context.Context, event domain.UserActivatedEvent) error
	PublishSubscriptionUpdated(ctx context.Context, event domain.SubscriptionUpdatedEvent) error
}
