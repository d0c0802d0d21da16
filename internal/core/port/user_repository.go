package port

import (
	"context"

	"github.com/enuda-labs/summit-BE/internal/core/domain"
)

// UserRepository exposes persistence behavior for users.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user domain.User) error
	// Activate flips is_active to true. Activating an already active
	// user is not an error.
	Activate(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
