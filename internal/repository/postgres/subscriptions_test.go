package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/enuda-labs/summit-BE/internal/core/domain"
	"github.com/enuda-labs/summit-BE/internal/repository"
)

func TestSubscriptionRepository_Upsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewSubscriptionRepository(mock)

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	stripeID := "sub_123"

	mock.ExpectExec(`INSERT INTO subscriptions .+ ON CONFLICT \(user_id\) DO UPDATE SET`).
		WithArgs("s1", "u1", domain.PlanLight, domain.FrequencyMonthly, 9.99, true, start, &end, &stripeID, start).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	sub := domain.Subscription{
		ID:                   "s1",
		UserID:               "u1",
		Plan:                 domain.PlanLight,
		Frequency:            domain.FrequencyMonthly,
		Price:                9.99,
		IsActive:             true,
		StartDate:            start,
		EndDate:              &end,
		StripeSubscriptionID: &stripeID,
		UpdatedAt:            start,
	}
	if err := repo.Upsert(context.Background(), sub); err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSubscriptionRepository_GetByUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewSubscriptionRepository(mock)

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	stripeID := "sub_123"

	rows := pgxmock.NewRows([]string{
		"id", "user_id", "plan", "frequency", "price", "is_active",
		"start_date", "end_date", "stripe_subscription_id", "updated_at",
	}).AddRow("s1", "u1", domain.PlanLight, domain.FrequencyMonthly, 9.99, true, start, &end, &stripeID, start)

	mock.ExpectQuery(`SELECT .+ FROM subscriptions WHERE user_id = \$1`).
		WithArgs("u1").
		WillReturnRows(rows)

	sub, err := repo.GetByUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetByUser returned error: %v", err)
	}
	if sub.Plan != domain.PlanLight || sub.Price != 9.99 {
		t.Fatalf("unexpected subscription %+v", sub)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSubscriptionRepository_GetByUser_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewSubscriptionRepository(mock)

	mock.ExpectQuery(`SELECT .+ FROM subscriptions WHERE user_id = \$1`).
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "user_id", "plan", "frequency", "price", "is_active",
			"start_date", "end_date", "stripe_subscription_id", "updated_at",
		}))

	if _, err := repo.GetByUser(context.Background(), "u1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
