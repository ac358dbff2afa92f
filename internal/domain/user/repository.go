package user

import (
	"context"
	"errors"
)

// ErrEmailTaken is returned by repositories when a create or update would
// violate email uniqueness.
var ErrEmailTaken = errors.New("email is already in use")

// Repository describes user persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, userID string) (User, bool, error)
	GetByEmail(ctx context.Context, email string) (User, bool, error)
	Update(ctx context.Context, u User) error
	ActivityCounts(ctx context.Context, userID string) (ActivityCounts, error)
}
