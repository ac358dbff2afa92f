package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/thudson/golf-scorecard/internal/domain/user"
)

// UserRepository keeps accounts in process memory. Activity counts are
// computed from the sibling course and round repositories when those are
// wired in; a nil sibling contributes zero.
type UserRepository struct {
	mu      sync.RWMutex
	items   map[string]user.User
	byEmail map[string]string

	courses *CourseRepository
	rounds  *RoundRepository
}

func NewUserRepository(courses *CourseRepository, rounds *RoundRepository) *UserRepository {
	return &UserRepository{
		items:   make(map[string]user.User),
		byEmail: make(map[string]string),
		courses: courses,
		rounds:  rounds,
	}
}

func (r *UserRepository) Create(_ context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := emailKey(u.Email)
	if _, taken := r.byEmail[key]; taken {
		return user.ErrEmailTaken
	}

	r.items[u.ID] = u
	r.byEmail[key] = u.ID
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, userID string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[userID]
	if !ok {
		return user.User{}, false, nil
	}

	return u, true, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[emailKey(email)]
	if !ok {
		return user.User{}, false, nil
	}

	return r.items[id], true, nil
}

func (r *UserRepository) Update(_ context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[u.ID]
	if !ok {
		return nil
	}

	key := emailKey(u.Email)
	if owner, taken := r.byEmail[key]; taken && owner != u.ID {
		return user.ErrEmailTaken
	}

	delete(r.byEmail, emailKey(current.Email))
	r.items[u.ID] = u
	r.byEmail[key] = u.ID
	return nil
}

func (r *UserRepository) ActivityCounts(_ context.Context, userID string) (user.ActivityCounts, error) {
	var counts user.ActivityCounts

	if r.courses != nil {
		counts.CoursesCreated = r.courses.countByOwner(userID)
	}
	if r.rounds != nil {
		counts.RoundsOwned, counts.RoundsParticipated = r.rounds.countRoundsForUser(userID)
		counts.PlayerAppearances = r.rounds.countPlayerAppearances(userID)
	}

	return counts, nil
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
