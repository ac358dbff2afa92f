package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/thudson/golf-scorecard/internal/domain/user"
	idgen "github.com/thudson/golf-scorecard/internal/platform/id"
	"github.com/thudson/golf-scorecard/internal/platform/logging"
	"github.com/thudson/golf-scorecard/internal/platform/token"
)

// RegisterInput is the incoming payload for account creation.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// LoginInput carries the credentials for a login attempt.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult is a signed access token plus the account it identifies.
type AuthResult struct {
	Token string
	User  user.User
}

type AuthService struct {
	userRepo   user.Repository
	tokens     *token.JWTManager
	idGen      idgen.Generator
	bcryptCost int
	logger     *logging.Logger
	now        func() time.Time
}

func NewAuthService(
	userRepo user.Repository,
	tokens *token.JWTManager,
	idGen idgen.Generator,
	bcryptCost int,
	logger *logging.Logger,
) *AuthService {
	if logger == nil {
		logger = logging.Default()
	}
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}

	return &AuthService{
		userRepo:   userRepo,
		tokens:     tokens,
		idGen:      idGen,
		bcryptCost: bcryptCost,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	ctx, span := startUsecaseSpan(ctx, "AuthService.Register")
	defer span.End()

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)

	if input.Email == "" {
		return AuthResult{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if len(input.Password) < 8 {
		return AuthResult{}, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	userID, err := s.idGen.NewID()
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate user id: %w", err)
	}

	u := user.User{
		ID:           userID,
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return AuthResult{}, fmt.Errorf("%w: email %s is already registered", ErrConflict, input.Email)
		}
		return AuthResult{}, fmt.Errorf("create user: %w", err)
	}

	signed, err := s.tokens.Issue(principalOf(u))
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", u.ID)
	return AuthResult{Token: signed, User: u}, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	ctx, span := startUsecaseSpan(ctx, "AuthService.Login")
	defer span.End()

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Email == "" || input.Password == "" {
		return AuthResult{}, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	u, found, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return AuthResult{}, fmt.Errorf("get user by email: %w", err)
	}
	if !found {
		// Same failure as a wrong password so login does not leak which
		// emails are registered.
		return AuthResult{}, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(input.Password)); err != nil {
		return AuthResult{}, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	signed, err := s.tokens.Issue(principalOf(u))
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}

	return AuthResult{Token: signed, User: u}, nil
}

// Profile returns the account behind an authenticated principal.
func (s *AuthService) Profile(ctx context.Context, userID string) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "AuthService.Profile")
	defer span.End()

	u, found, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	if !found {
		return user.User{}, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	return u, nil
}

func principalOf(u user.User) user.Principal {
	return user.Principal{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
