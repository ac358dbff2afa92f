package usecase

import (
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/thudson/golf-scorecard/internal/domain/course"
	"github.com/thudson/golf-scorecard/internal/domain/user"
	"github.com/thudson/golf-scorecard/internal/infrastructure/repository/memory"
	idgen "github.com/thudson/golf-scorecard/internal/platform/id"
	"github.com/thudson/golf-scorecard/internal/platform/logging"
	"github.com/thudson/golf-scorecard/internal/platform/token"
)

// testEnv wires every service against shared in-memory repositories.
type testEnv struct {
	userRepo   *memory.UserRepository
	courseRepo *memory.CourseRepository
	roundRepo  *memory.RoundRepository

	auth    *AuthService
	users   *UserService
	courses *CourseService
	rounds  *RoundService
	stats   *StatsService
	imports *ImportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	courseRepo := memory.NewCourseRepository()
	roundRepo := memory.NewRoundRepository(courseRepo)
	userRepo := memory.NewUserRepository(courseRepo, roundRepo)

	tokens, err := token.NewJWTManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new jwt manager: %v", err)
	}

	gen := idgen.NewRandomGenerator()
	logger := logging.NewNop()

	roundSvc := NewRoundService(roundRepo, courseRepo, userRepo, gen, logger)

	return &testEnv{
		userRepo:   userRepo,
		courseRepo: courseRepo,
		roundRepo:  roundRepo,
		auth:       NewAuthService(userRepo, tokens, gen, bcrypt.MinCost, logger),
		users:      NewUserService(userRepo, bcrypt.MinCost),
		courses:    NewCourseService(courseRepo, gen),
		rounds:     roundSvc,
		stats:      NewStatsService(roundRepo),
		imports:    NewImportService(roundSvc, 2, logger),
	}
}

func (e *testEnv) seedUser(t *testing.T, id, email, firstName, lastName string) user.Principal {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	u := user.User{
		ID:           id,
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := e.userRepo.Create(t.Context(), u); err != nil {
		t.Fatalf("seed user %s: %v", id, err)
	}

	return user.Principal{ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName}
}

// seedCourse stores a course owned by ownerID with the given pars, one hole
// per entry.
func (e *testEnv) seedCourse(t *testing.T, id, ownerID string, pars []int) course.Course {
	t.Helper()

	c := course.Course{
		ID:        id,
		Name:      "Course " + id,
		Location:  "Testville",
		HoleCount: len(pars),
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}
	for i, par := range pars {
		c.Holes = append(c.Holes, course.Hole{
			ID:       fmt.Sprintf("%s-hole-%d", id, i+1),
			CourseID: id,
			Number:   i + 1,
			Par:      par,
		})
	}

	if err := e.courseRepo.Create(t.Context(), c); err != nil {
		t.Fatalf("seed course %s: %v", id, err)
	}

	return c
}
