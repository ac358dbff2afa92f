package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/thudson/golf-scorecard/internal/domain/user"
)

// Profile is an account together with its activity footprint.
type Profile struct {
	User   user.User
	Counts user.ActivityCounts
}

// UpdateProfileInput carries the mutable account fields. Nil pointers leave
// the stored value untouched.
type UpdateProfileInput struct {
	Email     *string
	FirstName *string
	LastName  *string
}

type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

type UserService struct {
	userRepo   user.Repository
	bcryptCost int
}

func NewUserService(userRepo user.Repository, bcryptCost int) *UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}

	return &UserService{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
	}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "UserService.GetProfile")
	defer span.End()

	u, found, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return Profile{}, fmt.Errorf("get user: %w", err)
	}
	if !found {
		return Profile{}, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	counts, err := s.userRepo.ActivityCounts(ctx, userID)
	if err != nil {
		return Profile{}, fmt.Errorf("count user activity: %w", err)
	}

	return Profile{User: u, Counts: counts}, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "UserService.UpdateProfile")
	defer span.End()

	u, found, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	if !found {
		return user.User{}, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email == "" {
			return user.User{}, fmt.Errorf("%w: email cannot be empty", ErrInvalidInput)
		}
		u.Email = email
	}
	if input.FirstName != nil {
		u.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		u.LastName = strings.TrimSpace(*input.LastName)
	}

	if err := s.userRepo.Update(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return user.User{}, fmt.Errorf("%w: email %s is already registered", ErrConflict, u.Email)
		}
		return user.User{}, fmt.Errorf("update user: %w", err)
	}

	return u, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID string, input ChangePasswordInput) error {
	ctx, span := startUsecaseSpan(ctx, "UserService.ChangePassword")
	defer span.End()

	if len(input.NewPassword) < 8 {
		return fmt.Errorf("%w: new password must be at least 8 characters", ErrInvalidInput)
	}

	u, found, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(input.CurrentPassword)); err != nil {
		return fmt.Errorf("%w: current password is incorrect", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	u.PasswordHash = string(hash)
	if err := s.userRepo.Update(ctx, u); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}
