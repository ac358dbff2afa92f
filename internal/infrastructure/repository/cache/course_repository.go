// Package cache provides read-through caching decorators over the persistence
// repositories. Mutations invalidate the affected keys so readers never see
// stale data past one TTL window.
package cache

import (
	"context"

	"github.com/thudson/golf-scorecard/internal/domain/course"
	basecache "github.com/thudson/golf-scorecard/internal/platform/cache"
)

const (
	courseKeyPrefix = "course:"
	courseListKey   = courseKeyPrefix + "list"
)

type cachedCourseByID struct {
	value  course.Course
	exists bool
}

// CourseRepository is a read-through cache over another course.Repository.
// Courses are read on every round creation and score update, so GetByID and
// List are cached; Search stays uncached because its filter space is open.
type CourseRepository struct {
	next  course.Repository
	cache *basecache.Store
}

func NewCourseRepository(next course.Repository, cache *basecache.Store) *CourseRepository {
	return &CourseRepository{next: next, cache: cache}
}

func (r *CourseRepository) Create(ctx context.Context, c course.Course) error {
	if err := r.next.Create(ctx, c); err != nil {
		return err
	}
	r.cache.Delete(ctx, courseListKey)
	return nil
}

func (r *CourseRepository) List(ctx context.Context) ([]course.Course, error) {
	v, err := r.cache.GetOrLoad(ctx, courseListKey, func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]course.Course(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]course.Course)
	return append([]course.Course(nil), items...), nil
}

func (r *CourseRepository) Search(ctx context.Context, filter course.SearchFilter) ([]course.Course, error) {
	return r.next.Search(ctx, filter)
}

func (r *CourseRepository) GetByID(ctx context.Context, courseID string) (course.Course, bool, error) {
	key := courseKeyPrefix + "id:" + courseID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, courseID)
		if err != nil {
			return nil, err
		}
		return cachedCourseByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return course.Course{}, false, err
	}

	cached, _ := v.(cachedCourseByID)
	return cached.value, cached.exists, nil
}

func (r *CourseRepository) Update(ctx context.Context, c course.Course) error {
	if err := r.next.Update(ctx, c); err != nil {
		return err
	}
	r.invalidateCourse(ctx, c.ID)
	return nil
}

func (r *CourseRepository) Delete(ctx context.Context, courseID string) error {
	if err := r.next.Delete(ctx, courseID); err != nil {
		return err
	}
	r.invalidateCourse(ctx, courseID)
	return nil
}

func (r *CourseRepository) GetHoleByNumber(ctx context.Context, courseID string, number int) (course.Hole, bool, error) {
	return r.next.GetHoleByNumber(ctx, courseID, number)
}

func (r *CourseRepository) UpdateHole(ctx context.Context, h course.Hole) error {
	if err := r.next.UpdateHole(ctx, h); err != nil {
		return err
	}
	r.invalidateCourse(ctx, h.CourseID)
	return nil
}

func (r *CourseRepository) invalidateCourse(ctx context.Context, courseID string) {
	r.cache.Delete(ctx, courseKeyPrefix+"id:"+courseID)
	r.cache.Delete(ctx, courseListKey)
}
