package cache

import (
	"testing"
	"time"

	"github.com/thudson/golf-scorecard/internal/domain/course"
	"github.com/thudson/golf-scorecard/internal/infrastructure/repository/memory"
	basecache "github.com/thudson/golf-scorecard/internal/platform/cache"
)

func seedCourse(t *testing.T, repo course.Repository, id string) course.Course {
	t.Helper()

	c := course.Course{
		ID:        id,
		Name:      "Sunset Pines",
		OwnerID:   "owner-1",
		HoleCount: 2,
		CreatedAt: time.Now(),
		Holes: []course.Hole{
			{ID: id + "-hole-1", CourseID: id, Number: 1, Par: 3},
			{ID: id + "-hole-2", CourseID: id, Number: 2, Par: 4},
		},
	}
	if err := repo.Create(t.Context(), c); err != nil {
		t.Fatalf("create course: %v", err)
	}
	return c
}

func TestCourseRepository_GetByIDServesFromCache(t *testing.T) {
	backing := memory.NewCourseRepository()
	cached := NewCourseRepository(backing, basecache.NewStore(time.Minute))

	seedCourse(t, cached, "course-1")

	first, found, err := cached.GetByID(t.Context(), "course-1")
	if err != nil || !found {
		t.Fatalf("expected cached course, found=%v err=%v", found, err)
	}

	// Mutate the backing store directly; the cache must keep serving the
	// earlier read until invalidated.
	direct := first
	direct.Name = "Renamed Behind Cache"
	if err := backing.Update(t.Context(), direct); err != nil {
		t.Fatalf("update backing store: %v", err)
	}

	again, _, err := cached.GetByID(t.Context(), "course-1")
	if err != nil {
		t.Fatalf("get cached course: %v", err)
	}
	if again.Name != "Sunset Pines" {
		t.Fatalf("expected cached name, got %q", again.Name)
	}
}

func TestCourseRepository_UpdateInvalidates(t *testing.T) {
	backing := memory.NewCourseRepository()
	cached := NewCourseRepository(backing, basecache.NewStore(time.Minute))

	c := seedCourse(t, cached, "course-1")
	if _, _, err := cached.GetByID(t.Context(), "course-1"); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	c.Name = "Renamed"
	if err := cached.Update(t.Context(), c); err != nil {
		t.Fatalf("update course: %v", err)
	}

	got, found, err := cached.GetByID(t.Context(), "course-1")
	if err != nil || !found {
		t.Fatalf("expected course after update, found=%v err=%v", found, err)
	}
	if got.Name != "Renamed" {
		t.Fatalf("expected updated name, got %q", got.Name)
	}
}

func TestCourseRepository_DeleteInvalidatesList(t *testing.T) {
	backing := memory.NewCourseRepository()
	cached := NewCourseRepository(backing, basecache.NewStore(time.Minute))

	seedCourse(t, cached, "course-1")
	if items, err := cached.List(t.Context()); err != nil || len(items) != 1 {
		t.Fatalf("expected 1 course in list, got %d err=%v", len(items), err)
	}

	if err := cached.Delete(t.Context(), "course-1"); err != nil {
		t.Fatalf("delete course: %v", err)
	}

	items, err := cached.List(t.Context())
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty list after delete, got %d", len(items))
	}
}
