package course

import "context"

// Repository describes course persistence needs from use cases. Create
// persists the course together with its holes; GetByID returns holes ordered
// by hole number.
type Repository interface {
	Create(ctx context.Context, c Course) error
	List(ctx context.Context) ([]Course, error)
	Search(ctx context.Context, filter SearchFilter) ([]Course, error)
	GetByID(ctx context.Context, courseID string) (Course, bool, error)
	Update(ctx context.Context, c Course) error
	Delete(ctx context.Context, courseID string) error
	GetHoleByNumber(ctx context.Context, courseID string, number int) (Hole, bool, error)
	UpdateHole(ctx context.Context, h Hole) error
}
