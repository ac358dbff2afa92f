package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/thudson/golf-scorecard/internal/domain/user"
)

type userTableModel struct {
	ID           int64     `db:"id"`
	PublicID     string    `db:"public_id"`
	Email        string    `db:"email"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (m userTableModel) toDomain() user.User {
	return user.User{
		ID:           m.PublicID,
		Email:        m.Email,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
	}
}

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u user.User) error {
	const query = `
INSERT INTO users (public_id, email, first_name, last_name, password_hash, created_at)
VALUES (:public_id, :email, :first_name, :last_name, :password_hash, :created_at)`

	args := map[string]any{
		"public_id":     u.ID,
		"email":         u.Email,
		"first_name":    u.FirstName,
		"last_name":     u.LastName,
		"password_hash": u.PasswordHash,
		"created_at":    u.CreatedAt,
	}
	query2, queryArgs, err := sqlx.Named(query, args)
	if err != nil {
		return fmt.Errorf("bind insert user query: %w", err)
	}
	query2 = r.db.Rebind(query2)

	if _, err := r.db.ExecContext(ctx, query2, queryArgs...); err != nil {
		if isUniqueViolation(err) {
			return user.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.User, bool, error) {
	const query = `
SELECT id, public_id, email, first_name, last_name, password_hash, created_at, updated_at
FROM users
WHERE public_id = $1`

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("get user by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, bool, error) {
	const query = `
SELECT id, public_id, email, first_name, last_name, password_hash, created_at, updated_at
FROM users
WHERE lower(email) = lower($1)`

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, email); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("get user by email: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *UserRepository) Update(ctx context.Context, u user.User) error {
	const query = `
UPDATE users
SET email = :email,
    first_name = :first_name,
    last_name = :last_name,
    password_hash = :password_hash,
    updated_at = NOW()
WHERE public_id = :public_id`

	args := map[string]any{
		"public_id":     u.ID,
		"email":         u.Email,
		"first_name":    u.FirstName,
		"last_name":     u.LastName,
		"password_hash": u.PasswordHash,
	}
	query2, queryArgs, err := sqlx.Named(query, args)
	if err != nil {
		return fmt.Errorf("bind update user query: %w", err)
	}
	query2 = r.db.Rebind(query2)

	if _, err := r.db.ExecContext(ctx, query2, queryArgs...); err != nil {
		if isUniqueViolation(err) {
			return user.ErrEmailTaken
		}
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

func (r *UserRepository) ActivityCounts(ctx context.Context, userID string) (user.ActivityCounts, error) {
	const query = `
SELECT
  (SELECT COUNT(*) FROM courses WHERE owner_public_id = $1)                  AS courses_created,
  (SELECT COUNT(*) FROM rounds WHERE owner_public_id = $1)                   AS rounds_owned,
  (SELECT COUNT(*) FROM round_participants WHERE user_public_id = $1)        AS rounds_participated,
  (SELECT COUNT(*) FROM players WHERE user_public_id = $1)                   AS player_appearances`

	var row struct {
		CoursesCreated     int `db:"courses_created"`
		RoundsOwned        int `db:"rounds_owned"`
		RoundsParticipated int `db:"rounds_participated"`
		PlayerAppearances  int `db:"player_appearances"`
	}
	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		return user.ActivityCounts{}, fmt.Errorf("count user activity: %w", err)
	}

	return user.ActivityCounts{
		CoursesCreated:     row.CoursesCreated,
		RoundsOwned:        row.RoundsOwned,
		RoundsParticipated: row.RoundsParticipated,
		PlayerAppearances:  row.PlayerAppearances,
	}, nil
}
