package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/thudson/golf-scorecard/internal/domain/course"
	"github.com/thudson/golf-scorecard/internal/domain/round"
)

// RoundRepository stores full round aggregates: the round, its participants,
// players, and per-hole scores. Writes replace the stored aggregate under one
// lock, so readers always see a complete score skeleton. The course graph is
// resolved from the course repository on every read, so hole edits made after
// a round was created show up in that round immediately.
type RoundRepository struct {
	mu      sync.RWMutex
	courses *CourseRepository
	items   map[string]round.Round
	orders  []string
}

func NewRoundRepository(courses *CourseRepository) *RoundRepository {
	return &RoundRepository{courses: courses, items: make(map[string]round.Round)}
}

func (r *RoundRepository) Create(_ context.Context, item round.Round) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = cloneRound(item)
	r.orders = append(r.orders, item.ID)
	return nil
}

func (r *RoundRepository) GetByID(ctx context.Context, roundID string) (round.Round, bool, error) {
	r.mu.RLock()
	item, ok := r.items[roundID]
	if ok {
		item = cloneRound(item)
	}
	r.mu.RUnlock()

	if !ok {
		return round.Round{}, false, nil
	}

	return r.hydrate(ctx, item), true, nil
}

func (r *RoundRepository) ListByUser(ctx context.Context, userID string) ([]round.Round, error) {
	r.mu.RLock()
	out := make([]round.Round, 0)
	for _, id := range r.orders {
		item := r.items[id]
		if item.HasParticipant(userID) {
			out = append(out, cloneRound(item))
		}
	}
	r.mu.RUnlock()

	for i := range out {
		out[i] = r.hydrate(ctx, out[i])
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[j].Date.Before(out[i].Date)
	})
	return out, nil
}

func (r *RoundRepository) UpdateStatus(_ context.Context, roundID string, status round.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[roundID]
	if !ok {
		return nil
	}

	item.Status = status
	r.items[roundID] = item
	return nil
}

func (r *RoundRepository) CreatePlayer(_ context.Context, p round.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[p.RoundID]
	if !ok {
		return nil
	}

	item = cloneRound(item)
	if p.UserID != "" && !item.HasParticipant(p.UserID) {
		item.ParticipantIDs = append(item.ParticipantIDs, p.UserID)
	}
	item.Players = append(item.Players, clonePlayer(p))
	r.items[p.RoundID] = item
	return nil
}

func (r *RoundRepository) GetPlayer(ctx context.Context, roundID, playerID string) (round.Player, bool, error) {
	r.mu.RLock()
	item, ok := r.items[roundID]
	var p round.Player
	if ok {
		p, ok = item.PlayerByID(playerID)
		if ok {
			p = clonePlayer(p)
		}
	}
	courseID := item.CourseID
	r.mu.RUnlock()

	if !ok {
		return round.Player{}, false, nil
	}

	if c, found, err := r.courses.GetByID(ctx, courseID); err == nil && found {
		stampHoles(&p, c)
	}
	return p, true, nil
}

func (r *RoundRepository) ListPlayerRounds(ctx context.Context, userID string, status round.Status) ([]round.PlayerRound, error) {
	r.mu.RLock()
	out := make([]round.PlayerRound, 0)
	for _, id := range r.orders {
		item := r.items[id]
		if status != "" && item.Status != status {
			continue
		}
		for _, p := range item.Players {
			if p.UserID != userID {
				continue
			}
			out = append(out, round.PlayerRound{
				Player:      clonePlayer(p),
				RoundID:     item.ID,
				RoundDate:   item.Date,
				RoundStatus: item.Status,
				CourseID:    item.CourseID,
				CourseName:  item.Course.Name,
			})
		}
	}
	r.mu.RUnlock()

	for i := range out {
		c, found, err := r.courses.GetByID(ctx, out[i].CourseID)
		if err != nil || !found {
			continue
		}
		out[i].CourseName = c.Name
		stampHoles(&out[i].Player, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RoundDate.Before(out[j].RoundDate)
	})
	return out, nil
}

func (r *RoundRepository) GetScore(_ context.Context, playerID, holeID string) (round.Score, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		for _, p := range item.Players {
			if p.ID != playerID {
				continue
			}
			for _, s := range p.Scores {
				if s.HoleID == holeID {
					return s, true, nil
				}
			}
			return round.Score{}, false, nil
		}
	}
	return round.Score{}, false, nil
}

func (r *RoundRepository) CreateScore(_ context.Context, s round.Score) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, item := range r.items {
		for i := range item.Players {
			if item.Players[i].ID != s.PlayerID {
				continue
			}
			item = cloneRound(item)
			item.Players[i].Scores = append(item.Players[i].Scores, s)
			r.items[id] = item
			return nil
		}
	}
	return nil
}

func (r *RoundRepository) UpdateScoreStrokes(_ context.Context, scoreID string, strokes int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, item := range r.items {
		for i := range item.Players {
			for j := range item.Players[i].Scores {
				if item.Players[i].Scores[j].ID != scoreID {
					continue
				}
				item = cloneRound(item)
				item.Players[i].Scores[j].Strokes = strokes
				r.items[id] = item
				return nil
			}
		}
	}
	return nil
}

func (r *RoundRepository) countRoundsForUser(userID string) (owned, participated int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.OwnerID == userID {
			owned++
		}
		if item.HasParticipant(userID) {
			participated++
		}
	}
	return owned, participated
}

func (r *RoundRepository) countPlayerAppearances(userID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, item := range r.items {
		for _, p := range item.Players {
			if p.UserID == userID {
				n++
			}
		}
	}
	return n
}

// hydrate swaps the stored course snapshot for the live course and restamps
// every score's hole from it. A deleted course leaves the snapshot in place.
func (r *RoundRepository) hydrate(ctx context.Context, item round.Round) round.Round {
	c, found, err := r.courses.GetByID(ctx, item.CourseID)
	if err != nil || !found {
		return item
	}

	item.Course = c
	for i := range item.Players {
		stampHoles(&item.Players[i], c)
	}
	return item
}

func stampHoles(p *round.Player, c course.Course) {
	for i := range p.Scores {
		if h, ok := c.HoleByID(p.Scores[i].HoleID); ok {
			p.Scores[i].Hole = h
		}
	}
}

func cloneRound(item round.Round) round.Round {
	copied := item
	copied.ParticipantIDs = append([]string(nil), item.ParticipantIDs...)
	copied.Course = cloneCourse(item.Course)
	copied.Players = make([]round.Player, 0, len(item.Players))
	for _, p := range item.Players {
		copied.Players = append(copied.Players, clonePlayer(p))
	}
	return copied
}

func clonePlayer(p round.Player) round.Player {
	copied := p
	copied.Scores = append([]round.Score(nil), p.Scores...)
	return copied
}
