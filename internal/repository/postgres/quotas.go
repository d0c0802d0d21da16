package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/enuda-labs/summit-BE/internal/core/domain"
	"github.com/enuda-labs/summit-BE/internal/core/port"
	"github.com/enuda-labs/summit-BE/internal/repository"
)

// QuotaRepository implements port.QuotaRepository using PostgreSQL.
type QuotaRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

func NewQuotaRepository(exec pgExecutor) *QuotaRepository {
	return &QuotaRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// UpsertTotal sets the quota total for the user. A fresh row starts with
// used=0; an existing row keeps its used count so mid-cycle consumption
// survives plan changes.
func (r *QuotaRepository) UpsertTotal(ctx context.Context, userID string, total int) error {
	now := time.Now().UTC()

	stmt, args, err := r.builder.Insert("quotas").
		Columns("id", "user_id", "total", "used", "created_at", "updated_at").
		Values(uuid.NewString(), userID, total, 0, now, now).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET
			total = EXCLUDED.total,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert quota sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("upsert quota: %w", err)
	}

	return nil
}

// GetByUser returns the user's quota row.
func (r *QuotaRepository) GetByUser(ctx context.Context, userID string) (*domain.Quota, error) {
	stmt, args, err := r.builder.
		Select("id", "user_id", "total", "used", "created_at", "updated_at").
		From("quotas").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select quota sql: %w", err)
	}

	var quota domain.Quota
	row := r.exec.QueryRow(ctx, stmt, args...)
	if err := row.Scan(
		&quota.ID,
		&quota.UserID,
		&quota.Total,
		&quota.Used,
		&quota.CreatedAt,
		&quota.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan quota: %w", err)
	}

	return &quota, nil
}

var _ port.QuotaRepository = (*QuotaRepository)(nil)
