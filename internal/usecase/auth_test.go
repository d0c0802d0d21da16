package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/enuda-labs/summit-BE/internal/core/domain"
	"github.com/enuda-labs/summit-BE/internal/infra/security"
)

func newAuthFixture(t *testing.T, users *mockUserRepository) *AuthService {
	t.Helper()
	issuer, err := security.NewTokenIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	return NewAuthService(users, issuer, nil)
}

func activeUser(t *testing.T, password string) domain.User {
	t.Helper()
	hash, err := security.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	return domain.User{
		ID:           "u1",
		Email:        "climber@summit.guide",
		Username:     "climber",
		PasswordHash: hash,
		PasswordAlgo: security.PasswordAlgo,
		IsActive:     true,
	}
}

func TestLogin_IssuesToken(t *testing.T) {
	users := newMockUserRepository(activeUser(t, strongTestPassword))
	svc := newAuthFixture(t, users)

	result, err := svc.Login(context.Background(), "Climber@Summit.Guide", strongTestPassword)
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if result.AccessToken == "" {
		t.Fatal("expected an access token")
	}
	if result.User.ID != "u1" {
		t.Fatalf("unexpected user %q", result.User.ID)
	}
	if !result.ExpiresAt.After(time.Now()) {
		t.Fatal("expected a future expiry")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	users := newMockUserRepository(activeUser(t, strongTestPassword))
	svc := newAuthFixture(t, users)

	if _, err := svc.Login(context.Background(), "climber@summit.guide", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := newAuthFixture(t, newMockUserRepository())

	if _, err := svc.Login(context.Background(), "ghost@summit.guide", strongTestPassword); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_InactiveAccountRejected(t *testing.T) {
	user := activeUser(t, strongTestPassword)
	user.IsActive = false
	svc := newAuthFixture(t, newMockUserRepository(user))

	if _, err := svc.Login(context.Background(), "climber@summit.guide", strongTestPassword); !errors.Is(err, ErrAccountNotActive) {
		t.Fatalf("expected ErrAccountNotActive, got %v", err)
	}
}
