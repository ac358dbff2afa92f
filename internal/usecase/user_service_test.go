package usecase

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestUserService_GetProfile(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "user-1", "casey@example.com", "Casey", "Jordan")
	env.seedUser(t, "user-2", "alex@example.com", "Alex", "Reed")
	env.seedCourse(t, "course-1", owner.ID, []int{3, 3, 3})

	if _, err := env.rounds.CreateRound(t.Context(), owner, CreateRoundInput{
		CourseID:       "course-1",
		ParticipantIDs: []string{"user-2"},
	}); err != nil {
		t.Fatalf("create round: %v", err)
	}

	profile, err := env.users.GetProfile(t.Context(), owner.ID)
	if err != nil {
		t.Fatalf("get profile failed: %v", err)
	}
	if profile.Counts.CoursesCreated != 1 {
		t.Fatalf("courses created = %d, want 1", profile.Counts.CoursesCreated)
	}
	if profile.Counts.RoundsOwned != 1 {
		t.Fatalf("rounds owned = %d, want 1", profile.Counts.RoundsOwned)
	}
	if profile.Counts.PlayerAppearances != 1 {
		t.Fatalf("player appearances = %d, want 1", profile.Counts.PlayerAppearances)
	}

	other, err := env.users.GetProfile(t.Context(), "user-2")
	if err != nil {
		t.Fatalf("get profile failed: %v", err)
	}
	if other.Counts.RoundsOwned != 0 || other.Counts.RoundsParticipated != 1 {
		t.Fatalf("participant counts = %+v", other.Counts)
	}
}

func TestUserService_UpdateProfile_EmailConflict(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "user-1", "casey@example.com", "Casey", "Jordan")
	env.seedUser(t, "user-2", "alex@example.com", "Alex", "Reed")

	taken := "casey@example.com"
	_, err := env.users.UpdateProfile(t.Context(), "user-2", UpdateProfileInput{Email: &taken})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "user-1", "casey@example.com", "Casey", "Jordan")

	first := "Kelly"
	updated, err := env.users.UpdateProfile(t.Context(), "user-1", UpdateProfileInput{FirstName: &first})
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if updated.FirstName != "Kelly" || updated.LastName != "Jordan" {
		t.Fatalf("unexpected name: %s %s", updated.FirstName, updated.LastName)
	}
}

func TestUserService_ChangePassword(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "user-1", "casey@example.com", "Casey", "Jordan")

	err := env.users.ChangePassword(t.Context(), "user-1", ChangePasswordInput{
		CurrentPassword: "wrong",
		NewPassword:     "new-password-1",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for wrong current password, got %v", err)
	}

	err = env.users.ChangePassword(t.Context(), "user-1", ChangePasswordInput{
		CurrentPassword: "password123",
		NewPassword:     "new-password-1",
	})
	if err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	stored, _, err := env.userRepo.GetByID(t.Context(), "user-1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("new-password-1")) != nil {
		t.Fatal("new password does not verify")
	}
}
