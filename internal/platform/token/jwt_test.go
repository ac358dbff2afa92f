package token

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/thudson/golf-scorecard/internal/domain/user"
)

func TestJWTManager_IssueVerifyRoundTrip(t *testing.T) {
	mgr, err := NewJWTManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	principal := user.Principal{
		ID:        "user-1",
		Email:     "sam@example.com",
		FirstName: "Sam",
		LastName:  "Hill",
	}

	raw, err := mgr.Issue(principal)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	got, err := mgr.VerifyAccessToken(context.Background(), raw)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if got != principal {
		t.Fatalf("unexpected principal: got=%+v want=%+v", got, principal)
	}
}

func TestJWTManager_RejectsExpiredToken(t *testing.T) {
	mgr, err := NewJWTManager("test-secret", time.Minute)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	issuedAt := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	mgr.now = func() time.Time { return issuedAt }

	raw, err := mgr.Issue(user.Principal{ID: "user-1", Email: "sam@example.com"})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	mgr.now = func() time.Time { return issuedAt.Add(2 * time.Minute) }
	if _, err := mgr.VerifyAccessToken(context.Background(), raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTManager_RejectsForeignSignature(t *testing.T) {
	issuer, err := NewJWTManager("secret-a", time.Hour)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	verifier, err := NewJWTManager("secret-b", time.Hour)
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	raw, err := issuer.Issue(user.Principal{ID: "user-1", Email: "sam@example.com"})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	if _, err := verifier.VerifyAccessToken(context.Background(), raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestNewJWTManager_RejectsEmptySecret(t *testing.T) {
	if _, err := NewJWTManager("   ", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
	if _, err := NewJWTManager("ok", 0); err == nil {
		t.Fatal("expected error for non-positive ttl")
	}
}
