package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/thudson/golf-scorecard/internal/domain/course"
)

type CourseRepository struct {
	mu     sync.RWMutex
	items  map[string]course.Course
	orders []string
}

func NewCourseRepository() *CourseRepository {
	return &CourseRepository{items: make(map[string]course.Course)}
}

func (r *CourseRepository) Create(_ context.Context, c course.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[c.ID] = cloneCourse(c)
	r.orders = append(r.orders, c.ID)
	return nil
}

func (r *CourseRepository) List(_ context.Context) ([]course.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]course.Course, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, cloneCourse(r.items[id]))
	}

	return out, nil
}

func (r *CourseRepository) Search(_ context.Context, filter course.SearchFilter) ([]course.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := strings.ToLower(strings.TrimSpace(filter.Query))

	out := make([]course.Course, 0, len(r.orders))
	for _, id := range r.orders {
		c := r.items[id]
		if query != "" &&
			!strings.Contains(strings.ToLower(c.Name), query) &&
			!strings.Contains(strings.ToLower(c.Location), query) {
			continue
		}
		if filter.MinHoles > 0 && c.HoleCount < filter.MinHoles {
			continue
		}
		if filter.MaxHoles > 0 && c.HoleCount > filter.MaxHoles {
			continue
		}
		out = append(out, cloneCourse(c))
	}

	sortCourses(out, filter.SortBy, filter.SortDesc)
	return out, nil
}

func (r *CourseRepository) GetByID(_ context.Context, courseID string) (course.Course, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[courseID]
	if !ok {
		return course.Course{}, false, nil
	}

	return cloneCourse(c), true, nil
}

func (r *CourseRepository) Update(_ context.Context, c course.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[c.ID]
	if !ok {
		return nil
	}

	// Course updates never touch holes; keep the stored set.
	updated := cloneCourse(c)
	updated.Holes = current.Holes
	updated.HoleCount = current.HoleCount
	r.items[c.ID] = updated
	return nil
}

func (r *CourseRepository) Delete(_ context.Context, courseID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[courseID]; !ok {
		return nil
	}

	delete(r.items, courseID)
	for i, id := range r.orders {
		if id == courseID {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			break
		}
	}
	return nil
}

func (r *CourseRepository) GetHoleByNumber(_ context.Context, courseID string, number int) (course.Hole, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[courseID]
	if !ok {
		return course.Hole{}, false, nil
	}

	for _, h := range c.Holes {
		if h.Number == number {
			return h, true, nil
		}
	}
	return course.Hole{}, false, nil
}

func (r *CourseRepository) UpdateHole(_ context.Context, h course.Hole) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[h.CourseID]
	if !ok {
		return nil
	}

	for i := range c.Holes {
		if c.Holes[i].ID == h.ID {
			c.Holes[i] = h
			break
		}
	}
	r.items[c.ID] = c
	return nil
}

func (r *CourseRepository) countByOwner(ownerID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, c := range r.items {
		if c.OwnerID == ownerID {
			n++
		}
	}
	return n
}

func sortCourses(items []course.Course, field course.SortField, desc bool) {
	less := func(a, b course.Course) bool {
		switch field {
		case course.SortByName:
			return a.Name < b.Name
		case course.SortByLocation:
			return a.Location < b.Location
		case course.SortByHoleCount:
			return a.HoleCount < b.HoleCount
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}

func cloneCourse(c course.Course) course.Course {
	copied := c
	copied.Holes = append([]course.Hole(nil), c.Holes...)
	return copied
}
