package usecase

import (
	"errors"
	"testing"
)

func TestAuthService_Register(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.auth.Register(t.Context(), RegisterInput{
		Email:     "Casey@Example.com",
		Password:  "password123",
		FirstName: "Casey",
		LastName:  "Jordan",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected a signed token")
	}
	if result.User.Email != "casey@example.com" {
		t.Fatalf("email not normalized: %s", result.User.Email)
	}

	stored, found, err := env.userRepo.GetByEmail(t.Context(), "casey@example.com")
	if err != nil || !found {
		t.Fatalf("registered user not stored: found=%t err=%v", found, err)
	}
	if stored.PasswordHash == "password123" {
		t.Fatal("password stored in plain text")
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "user-1", "casey@example.com", "Casey", "Jordan")

	_, err := env.auth.Register(t.Context(), RegisterInput{
		Email:    "casey@example.com",
		Password: "password123",
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestAuthService_Register_ShortPassword(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Register(t.Context(), RegisterInput{
		Email:    "casey@example.com",
		Password: "short",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "user-1", "casey@example.com", "Casey", "Jordan")

	result, err := env.auth.Login(t.Context(), LoginInput{
		Email:    "casey@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.User.ID != "user-1" {
		t.Fatalf("unexpected user id: %s", result.User.ID)
	}
	if result.Token == "" {
		t.Fatal("expected a signed token")
	}
}

func TestAuthService_Login_BadCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "user-1", "casey@example.com", "Casey", "Jordan")

	_, err := env.auth.Login(t.Context(), LoginInput{
		Email:    "casey@example.com",
		Password: "wrong-password",
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for wrong password, got %v", err)
	}

	_, err = env.auth.Login(t.Context(), LoginInput{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for unknown email, got %v", err)
	}
}

func TestAuthService_Profile_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Profile(t.Context(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
