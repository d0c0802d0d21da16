package security

import (
	"testing"
	"time"
)

func TestTokenIssuer_IssueAndParse(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}

	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer.WithClock(func() time.Time { return issuedAt })

	token, expiresAt, err := issuer.Issue("u1", "climber")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if !expiresAt.Equal(issuedAt.Add(time.Hour)) {
		t.Fatalf("unexpected expiry %v", expiresAt)
	}

	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if claims.Subject != "u1" {
		t.Fatalf("unexpected subject %q", claims.Subject)
	}
	if claims.Username != "climber" {
		t.Fatalf("unexpected username %q", claims.Username)
	}
}

func TestTokenIssuer_RejectsExpiredToken(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret", time.Minute)
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}

	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer.WithClock(func() time.Time { return issuedAt })

	token, _, err := issuer.Issue("u1", "climber")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	issuer.WithClock(func() time.Time { return issuedAt.Add(2 * time.Minute) })
	if _, err := issuer.Parse(token); err == nil {
		t.Fatal("expected expired token to fail parsing")
	}
}

func TestTokenIssuer_RejectsForeignSecret(t *testing.T) {
	issuer, _ := NewTokenIssuer("test-secret", time.Minute)
	other, _ := NewTokenIssuer("other-secret", time.Minute)

	token, _, err := other.Issue("u1", "climber")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := issuer.Parse(token); err == nil {
		t.Fatal("expected token signed with a foreign secret to fail")
	}
}

func TestNewTokenIssuer_RequiresSecret(t *testing.T) {
	if _, err := NewTokenIssuer("", time.Minute); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
