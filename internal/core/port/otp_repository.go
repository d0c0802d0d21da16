package port

import (
	"context"

	"github.com/enuda-labs/summit-BE/internal/core/domain"
)

// OTPRepository persists one-time codes keyed by user, ordered by creation time.
type OTPRepository interface {
	Create(ctx context.Context, code domain.OTPCode) error
	// GetLatestByUser returns the most recently created code for the
	// user, or repository.ErrNotFound when none exists.
	GetLatestByUser(ctx context.Context, userID string) (*domain.OTPCode, error)
	// Consume deletes the code row, enforcing single-use semantics.
	// Returns repository.ErrNotFound when the row is already gone, which
	// lets concurrent verifications agree on exactly one winner.
	Consume(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}
