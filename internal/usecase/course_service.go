package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/thudson/golf-scorecard/internal/domain/course"
	idgen "github.com/thudson/golf-scorecard/internal/platform/id"
)

// CreateCourseInput is the incoming payload for course creation. HoleCount
// defaults to 18; every hole starts at par 3. HoleLengths, when given, sets
// the length of hole i+1 from element i.
type CreateCourseInput struct {
	Name        string
	Location    string
	Description string
	HoleCount   int
	HoleLengths []int
}

// UpdateCourseInput carries the mutable course fields. Nil pointers leave
// the stored value untouched. Holes are edited through UpdateHole, never
// here.
type UpdateCourseInput struct {
	Name        *string
	Location    *string
	Description *string
}

// UpdateHoleInput edits a single hole's par or length.
type UpdateHoleInput struct {
	Par        *int
	LengthFeet *int
}

type CourseService struct {
	courseRepo course.Repository
	guard      Guard
	idGen      idgen.Generator
	now        func() time.Time
}

func NewCourseService(courseRepo course.Repository, idGen idgen.Generator) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
		idGen:      idGen,
		now:        time.Now,
	}
}

func (s *CourseService) CreateCourse(ctx context.Context, ownerID string, input CreateCourseInput) (course.Course, error) {
	ctx, span := startUsecaseSpan(ctx, "CourseService.CreateCourse")
	defer span.End()

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return course.Course{}, fmt.Errorf("%w: course name is required", ErrInvalidInput)
	}
	if input.HoleCount == 0 {
		input.HoleCount = 18
	}
	if input.HoleCount < course.MinHoleCount || input.HoleCount > course.MaxHoleCount {
		return course.Course{}, fmt.Errorf("%w: hole count must be between %d and %d",
			ErrInvalidInput, course.MinHoleCount, course.MaxHoleCount)
	}
	if len(input.HoleLengths) > 0 && len(input.HoleLengths) != input.HoleCount {
		return course.Course{}, fmt.Errorf("%w: hole lengths must cover all %d holes", ErrInvalidInput, input.HoleCount)
	}

	courseID, err := s.idGen.NewID()
	if err != nil {
		return course.Course{}, fmt.Errorf("generate course id: %w", err)
	}

	c := course.Course{
		ID:          courseID,
		Name:        input.Name,
		Location:    strings.TrimSpace(input.Location),
		Description: strings.TrimSpace(input.Description),
		HoleCount:   input.HoleCount,
		OwnerID:     ownerID,
		CreatedAt:   s.now().UTC(),
		Holes:       make([]course.Hole, 0, input.HoleCount),
	}

	for i := 0; i < input.HoleCount; i++ {
		holeID, err := s.idGen.NewID()
		if err != nil {
			return course.Course{}, fmt.Errorf("generate hole id: %w", err)
		}
		h := course.Hole{
			ID:       holeID,
			CourseID: c.ID,
			Number:   i + 1,
			Par:      course.DefaultPar,
		}
		if len(input.HoleLengths) > 0 {
			h.LengthFeet = input.HoleLengths[i]
		}
		c.Holes = append(c.Holes, h)
	}

	if err := c.Validate(); err != nil {
		return course.Course{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	if err := s.courseRepo.Create(ctx, c); err != nil {
		return course.Course{}, fmt.Errorf("create course: %w", err)
	}

	return c, nil
}

func (s *CourseService) ListCourses(ctx context.Context) ([]course.Course, error) {
	ctx, span := startUsecaseSpan(ctx, "CourseService.ListCourses")
	defer span.End()

	courses, err := s.courseRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	return courses, nil
}

// SearchCourses is the one read that requires no authenticated actor.
func (s *CourseService) SearchCourses(ctx context.Context, filter course.SearchFilter) ([]course.Course, error) {
	ctx, span := startUsecaseSpan(ctx, "CourseService.SearchCourses")
	defer span.End()

	if filter.MinHoles < 0 || filter.MaxHoles < 0 {
		return nil, fmt.Errorf("%w: hole bounds must be positive", ErrInvalidInput)
	}
	if filter.MinHoles > 0 && filter.MaxHoles > 0 && filter.MinHoles > filter.MaxHoles {
		return nil, fmt.Errorf("%w: minimum holes exceeds maximum", ErrInvalidInput)
	}
	if filter.SortBy == "" {
		filter.SortBy = course.SortByCreatedAt
	}

	courses, err := s.courseRepo.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search courses: %w", err)
	}

	return courses, nil
}

func (s *CourseService) GetCourse(ctx context.Context, courseID string) (course.Course, error) {
	ctx, span := startUsecaseSpan(ctx, "CourseService.GetCourse")
	defer span.End()

	c, found, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return course.Course{}, fmt.Errorf("get course: %w", err)
	}
	if !found {
		return course.Course{}, fmt.Errorf("%w: course %s", ErrNotFound, courseID)
	}

	return c, nil
}

func (s *CourseService) UpdateCourse(ctx context.Context, actorID, courseID string, input UpdateCourseInput) (course.Course, error) {
	ctx, span := startUsecaseSpan(ctx, "CourseService.UpdateCourse")
	defer span.End()

	c, err := s.authorizeCourseMutation(ctx, actorID, courseID)
	if err != nil {
		return course.Course{}, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return course.Course{}, fmt.Errorf("%w: course name cannot be empty", ErrInvalidInput)
		}
		c.Name = name
	}
	if input.Location != nil {
		c.Location = strings.TrimSpace(*input.Location)
	}
	if input.Description != nil {
		c.Description = strings.TrimSpace(*input.Description)
	}

	if err := s.courseRepo.Update(ctx, c); err != nil {
		return course.Course{}, fmt.Errorf("update course: %w", err)
	}

	return c, nil
}

// DeleteCourse removes the course and its holes.
func (s *CourseService) DeleteCourse(ctx context.Context, actorID, courseID string) error {
	ctx, span := startUsecaseSpan(ctx, "CourseService.DeleteCourse")
	defer span.End()

	if _, err := s.authorizeCourseMutation(ctx, actorID, courseID); err != nil {
		return err
	}

	if err := s.courseRepo.Delete(ctx, courseID); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}

	return nil
}

func (s *CourseService) UpdateHole(ctx context.Context, actorID, courseID string, holeNumber int, input UpdateHoleInput) (course.Hole, error) {
	ctx, span := startUsecaseSpan(ctx, "CourseService.UpdateHole")
	defer span.End()

	if _, err := s.authorizeCourseMutation(ctx, actorID, courseID); err != nil {
		return course.Hole{}, err
	}

	h, found, err := s.courseRepo.GetHoleByNumber(ctx, courseID, holeNumber)
	if err != nil {
		return course.Hole{}, fmt.Errorf("get hole: %w", err)
	}
	if !found {
		return course.Hole{}, fmt.Errorf("%w: hole %d on course %s", ErrNotFound, holeNumber, courseID)
	}

	if input.Par != nil {
		if *input.Par < course.MinPar || *input.Par > course.MaxPar {
			return course.Hole{}, fmt.Errorf("%w: par must be between %d and %d",
				ErrInvalidInput, course.MinPar, course.MaxPar)
		}
		h.Par = *input.Par
	}
	if input.LengthFeet != nil {
		if *input.LengthFeet < 0 {
			return course.Hole{}, fmt.Errorf("%w: hole length must be positive", ErrInvalidInput)
		}
		h.LengthFeet = *input.LengthFeet
	}

	if err := s.courseRepo.UpdateHole(ctx, h); err != nil {
		return course.Hole{}, fmt.Errorf("update hole: %w", err)
	}

	return h, nil
}

func (s *CourseService) authorizeCourseMutation(ctx context.Context, actorID, courseID string) (course.Course, error) {
	c, found, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return course.Course{}, fmt.Errorf("get course: %w", err)
	}
	if !found {
		return course.Course{}, fmt.Errorf("%w: course %s", ErrNotFound, courseID)
	}
	if !s.guard.CanMutateCourse(actorID, c) {
		return course.Course{}, fmt.Errorf("%w: only the course owner may modify it", ErrForbidden)
	}

	return c, nil
}
