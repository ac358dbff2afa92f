package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/thudson/golf-scorecard/internal/domain/course"
	qb "github.com/thudson/golf-scorecard/internal/platform/querybuilder"
)

type courseTableModel struct {
	ID          int64     `db:"id"`
	PublicID    string    `db:"public_id"`
	Name        string    `db:"name"`
	Location    string    `db:"location"`
	Description string    `db:"description"`
	HoleCount   int       `db:"hole_count"`
	OwnerID     string    `db:"owner_public_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (m courseTableModel) toDomain() course.Course {
	return course.Course{
		ID:          m.PublicID,
		Name:        m.Name,
		Location:    m.Location,
		Description: m.Description,
		HoleCount:   m.HoleCount,
		OwnerID:     m.OwnerID,
		CreatedAt:   m.CreatedAt,
	}
}

type holeTableModel struct {
	ID         int64  `db:"id"`
	PublicID   string `db:"public_id"`
	CourseID   string `db:"course_public_id"`
	HoleNumber int    `db:"hole_number"`
	Par        int    `db:"par"`
	LengthFeet int    `db:"length_feet"`
}

func (m holeTableModel) toDomain() course.Hole {
	return course.Hole{
		ID:         m.PublicID,
		CourseID:   m.CourseID,
		Number:     m.HoleNumber,
		Par:        m.Par,
		LengthFeet: m.LengthFeet,
	}
}

// sortColumns whitelists search sort keys against the courses table.
var sortColumns = map[course.SortField]string{
	course.SortByName:      "name",
	course.SortByLocation:  "location",
	course.SortByHoleCount: "hole_count",
	course.SortByCreatedAt: "created_at",
}

type CourseRepository struct {
	db *sqlx.DB
}

func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// Create inserts the course and every hole in one transaction.
func (r *CourseRepository) Create(ctx context.Context, c course.Course) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for course create: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const courseQuery = `
INSERT INTO courses (public_id, name, location, description, hole_count, owner_public_id, created_at)
VALUES (:public_id, :name, :location, :description, :hole_count, :owner_public_id, :created_at)`

	courseSQL, courseArgs, err := sqlx.Named(courseQuery, map[string]any{
		"public_id":       c.ID,
		"name":            c.Name,
		"location":        c.Location,
		"description":     c.Description,
		"hole_count":      c.HoleCount,
		"owner_public_id": c.OwnerID,
		"created_at":      c.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("bind insert course query: %w", err)
	}
	courseSQL = tx.Rebind(courseSQL)
	if _, err := tx.ExecContext(ctx, courseSQL, courseArgs...); err != nil {
		return fmt.Errorf("insert course: %w", err)
	}

	holesInsert := qb.InsertInto("holes").
		Columns("public_id", "course_public_id", "hole_number", "par", "length_feet")
	for _, h := range c.Holes {
		holesInsert.Values(h.ID, c.ID, h.Number, h.Par, h.LengthFeet)
	}
	holesSQL, holesArgs, err := holesInsert.ToSQL()
	if err != nil {
		return fmt.Errorf("build insert holes query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, holesSQL, holesArgs...); err != nil {
		return fmt.Errorf("insert holes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit course create: %w", err)
	}

	return nil
}

func (r *CourseRepository) List(ctx context.Context) ([]course.Course, error) {
	const query = `
SELECT id, public_id, name, location, description, hole_count, owner_public_id, created_at, updated_at
FROM courses
ORDER BY created_at ASC, id ASC`

	var rows []courseTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select courses: %w", err)
	}

	return r.attachHoles(ctx, rows)
}

func (r *CourseRepository) Search(ctx context.Context, filter course.SearchFilter) ([]course.Course, error) {
	builder := qb.Select(
		"id", "public_id", "name", "location", "description",
		"hole_count", "owner_public_id", "created_at", "updated_at",
	).From("courses")

	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		builder.Where(qb.Expr("(name ILIKE ? OR location ILIKE ?)", pattern, pattern))
	}
	if filter.MinHoles > 0 {
		builder.Where(qb.Gte("hole_count", filter.MinHoles))
	}
	if filter.MaxHoles > 0 {
		builder.Where(qb.Lte("hole_count", filter.MaxHoles))
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}
	builder.OrderBy(column+" "+direction, "id ASC")

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build search courses query: %w", err)
	}

	var rows []courseTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("search courses: %w", err)
	}

	return r.attachHoles(ctx, rows)
}

func (r *CourseRepository) GetByID(ctx context.Context, courseID string) (course.Course, bool, error) {
	const query = `
SELECT id, public_id, name, location, description, hole_count, owner_public_id, created_at, updated_at
FROM courses
WHERE public_id = $1`

	var row courseTableModel
	if err := r.db.GetContext(ctx, &row, query, courseID); err != nil {
		if isNotFound(err) {
			return course.Course{}, false, nil
		}
		return course.Course{}, false, fmt.Errorf("get course by id: %w", err)
	}

	courses, err := r.attachHoles(ctx, []courseTableModel{row})
	if err != nil {
		return course.Course{}, false, err
	}

	return courses[0], true, nil
}

func (r *CourseRepository) Update(ctx context.Context, c course.Course) error {
	const query = `
UPDATE courses
SET name = :name,
    location = :location,
    description = :description,
    updated_at = NOW()
WHERE public_id = :public_id`

	query2, args, err := sqlx.Named(query, map[string]any{
		"public_id":   c.ID,
		"name":        c.Name,
		"location":    c.Location,
		"description": c.Description,
	})
	if err != nil {
		return fmt.Errorf("bind update course query: %w", err)
	}
	query2 = r.db.Rebind(query2)

	if _, err := r.db.ExecContext(ctx, query2, args...); err != nil {
		return fmt.Errorf("update course: %w", err)
	}

	return nil
}

// Delete removes the course; holes go with it through the FK cascade.
func (r *CourseRepository) Delete(ctx context.Context, courseID string) error {
	const query = `DELETE FROM courses WHERE public_id = $1`

	if _, err := r.db.ExecContext(ctx, query, courseID); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}

	return nil
}

func (r *CourseRepository) GetHoleByNumber(ctx context.Context, courseID string, number int) (course.Hole, bool, error) {
	const query = `
SELECT id, public_id, course_public_id, hole_number, par, length_feet
FROM holes
WHERE course_public_id = $1 AND hole_number = $2`

	var row holeTableModel
	if err := r.db.GetContext(ctx, &row, query, courseID, number); err != nil {
		if isNotFound(err) {
			return course.Hole{}, false, nil
		}
		return course.Hole{}, false, fmt.Errorf("get hole by number: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *CourseRepository) UpdateHole(ctx context.Context, h course.Hole) error {
	const query = `
UPDATE holes
SET par = :par,
    length_feet = :length_feet
WHERE public_id = :public_id`

	query2, args, err := sqlx.Named(query, map[string]any{
		"public_id":   h.ID,
		"par":         h.Par,
		"length_feet": h.LengthFeet,
	})
	if err != nil {
		return fmt.Errorf("bind update hole query: %w", err)
	}
	query2 = r.db.Rebind(query2)

	if _, err := r.db.ExecContext(ctx, query2, args...); err != nil {
		return fmt.Errorf("update hole: %w", err)
	}

	return nil
}

// attachHoles loads every course's holes in a single query, ordered by hole
// number.
func (r *CourseRepository) attachHoles(ctx context.Context, rows []courseTableModel) ([]course.Course, error) {
	out := make([]course.Course, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	courseIDs := make([]any, 0, len(rows))
	for _, row := range rows {
		courseIDs = append(courseIDs, row.PublicID)
	}

	query, args, err := qb.Select("id", "public_id", "course_public_id", "hole_number", "par", "length_feet").
		From("holes").
		Where(qb.In("course_public_id", courseIDs)).
		OrderBy("course_public_id", "hole_number ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select holes query: %w", err)
	}

	var holeRows []holeTableModel
	if err := r.db.SelectContext(ctx, &holeRows, query, args...); err != nil {
		return nil, fmt.Errorf("select holes: %w", err)
	}

	holesByCourse := make(map[string][]course.Hole, len(rows))
	for _, h := range holeRows {
		holesByCourse[h.CourseID] = append(holesByCourse[h.CourseID], h.toDomain())
	}

	for _, row := range rows {
		c := row.toDomain()
		c.Holes = holesByCourse[row.PublicID]
		out = append(out, c)
	}

	return out, nil
}
