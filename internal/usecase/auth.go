package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/enuda-labs/summit-BE/internal/core/domain"
	"github.com/enuda-labs/summit-BE/internal/core/port"
	"github.com/enuda-labs/summit-BE/internal/infra/logger"
	"github.com/enuda-labs/summit-BE/internal/infra/security"
	"github.com/enuda-labs/summit-BE/internal/repository"
)

var (
	// ErrInvalidCredentials indicates the email or password is wrong.
	// One sentinel for both keeps the response free of account probing hints.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountNotActive indicates the account has not completed OTP verification.
	ErrAccountNotActive = errors.New("account not verified")
)

// AuthService handles password login for verified accounts.
type AuthService struct {
	users  port.UserRepository
	issuer *security.TokenIssuer
	log    *zap.Logger
}

// NewAuthService constructs an auth service.
func NewAuthService(users port.UserRepository, issuer *security.TokenIssuer, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{users: users, issuer: issuer, log: log}
}

// LoginResult carries the issued access token and its expiry.
type LoginResult struct {
	User        domain.User
	AccessToken string
	ExpiresAt   time.Time
}

// Login authenticates by email and password and issues an access token.
// Inactive accounts are rejected even with a correct password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		s.log.Info("login rejected",
			zap.String("email", logger.MaskEmail(email)))
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountNotActive
	}

	token, expiresAt, err := s.issuer.Issue(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &LoginResult{User: *user, AccessToken: token, ExpiresAt: expiresAt}, nil
}
