package port

import (
	"context"

	"github.com/enuda-labs/summit-BE/internal/core/domain"
)

// SubscriptionRepository persists the current subscription row per user.
type SubscriptionRepository interface {
	// Upsert creates the row for the user or updates it in place.
	// Replaying the same reconciliation is idempotent for steady state.
	Upsert(ctx context.Context, sub domain.Subscription) error
	GetByUser(ctx context.Context, userID string) (*domain.Subscription, error)
}

// QuotaRepository persists per-user resource accounting records.
type QuotaRepository interface {
	// UpsertTotal sets the quota total for the user, creating the row
	// with used=0 when absent and preserving used otherwise.
	UpsertTotal(ctx context.Context, userID string, total int) error
	GetByUser(ctx context.Context, userID string) (*domain.Quota, error)
}
