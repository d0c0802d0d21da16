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

// OTPRepository implements port.OTPRepository using PostgreSQL. Codes are
// plain rows with no mutable state; consumption is deletion, which lets
// RowsAffected decide a single winner among concurrent verifications.
type OTPRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

func NewOTPRepository(exec pgExecutor) *OTPRepository {
	return &OTPRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *OTPRepository) Create(ctx context.Context, code domain.OTPCode) error {
	stmt, args, err := r.builder.Insert("otp_codes").
		Columns("id", "user_id", "code", "created_at").
		Values(code.ID, code.UserID, code.Code, code.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert otp sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert otp: %w", err)
	}

	return nil
}

// GetLatestByUser returns the most recently issued code for the user.
func (r *OTPRepository) GetLatestByUser(ctx context.Context, userID string) (*domain.OTPCode, error) {
	stmt, args, err := r.builder.
		Select("id", "user_id", "code", "created_at").
		From("otp_codes").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select otp sql: %w", err)
	}

	var code domain.OTPCode
	row := r.exec.QueryRow(ctx, stmt, args...)
	if err := row.Scan(&code.ID, &code.UserID, &code.Code, &code.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan otp: %w", err)
	}

	return &code, nil
}

// Consume deletes the code by id. ErrNotFound signals the row was already
// consumed (or never existed), so exactly one caller observes success.
func (r *OTPRepository) Consume(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("otp_codes").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete otp sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete otp: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// DeleteByUser purges all codes for the user. Used before issuing a fresh
// code on resend so only one code is ever live.
func (r *OTPRepository) DeleteByUser(ctx context.Context, userID string) error {
	stmt, args, err := r.builder.Delete("otp_codes").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete otps sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("delete otps: %w", err)
	}

	return nil
}

var _ port.OTPRepository = (*OTPRepository)(nil)
