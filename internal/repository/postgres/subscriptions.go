package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/enuda-labs/summit-BE/internal/core/domain"
	"github.com/enuda-labs/summit-BE/internal/core/port"
	"github.com/enuda-labs/summit-BE/internal/repository"
)

// SubscriptionRepository implements port.SubscriptionRepository using
// PostgreSQL. The user_id unique constraint makes the upsert race-free:
// concurrent reconciliations for the same user end with one current row.
type SubscriptionRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

func NewSubscriptionRepository(exec pgExecutor) *SubscriptionRepository {
	return &SubscriptionRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Upsert inserts the subscription or overwrites the user's existing row.
func (r *SubscriptionRepository) Upsert(ctx context.Context, sub domain.Subscription) error {
	stmt, args, err := r.builder.Insert("subscriptions").
		Columns(
			"id",
			"user_id",
			"plan",
			"frequency",
			"price",
			"is_active",
			"start_date",
			"end_date",
			"stripe_subscription_id",
			"updated_at",
		).
		Values(
			sub.ID,
			sub.UserID,
			sub.Plan,
			sub.Frequency,
			sub.Price,
			sub.IsActive,
			sub.StartDate,
			sub.EndDate,
			sub.StripeSubscriptionID,
			sub.UpdatedAt,
		).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET
			plan = EXCLUDED.plan,
			frequency = EXCLUDED.frequency,
			price = EXCLUDED.price,
			is_active = EXCLUDED.is_active,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			stripe_subscription_id = EXCLUDED.stripe_subscription_id,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert subscription sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}

	return nil
}

// GetByUser returns the user's current subscription row.
func (r *SubscriptionRepository) GetByUser(ctx context.Context, userID string) (*domain.Subscription, error) {
	stmt, args, err := r.builder.
		Select(
			"id",
			"user_id",
			"plan",
			"frequency",
			"price",
			"is_active",
			"start_date",
			"end_date",
			"stripe_subscription_id",
			"updated_at",
		).
		From("subscriptions").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select subscription sql: %w", err)
	}

	var sub domain.Subscription
	row := r.exec.QueryRow(ctx, stmt, args...)
	if err := row.Scan(
		&sub.ID,
		&sub.UserID,
		&sub.Plan,
		&sub.Frequency,
		&sub.Price,
		&sub.IsActive,
		&sub.StartDate,
		&sub.EndDate,
		&sub.StripeSubscriptionID,
		&sub.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan subscription: %w", err)
	}

	return &sub, nil
}

var _ port.SubscriptionRepository = (*SubscriptionRepository)(nil)
