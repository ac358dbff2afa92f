package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/thudson/golf-scorecard/internal/domain/course"
	"github.com/thudson/golf-scorecard/internal/domain/round"
	"github.com/thudson/golf-scorecard/internal/domain/user"
	idgen "github.com/thudson/golf-scorecard/internal/platform/id"
	"github.com/thudson/golf-scorecard/internal/platform/logging"
)

// CreateRoundInput is the incoming payload for round creation. A zero Date
// means "now". PlayerNames become guest players; ParticipantIDs become
// registered players with view and mutate rights.
type CreateRoundInput struct {
	CourseID       string
	Date           time.Time
	PlayerNames    []string
	ParticipantIDs []string
}

// AddPlayerInput adds one scorecard line: either a guest by name or a
// registered user by id.
type AddPlayerInput struct {
	Name   string
	UserID string
}

type RoundService struct {
	roundRepo  round.Repository
	courseRepo course.Repository
	userRepo   user.Repository
	guard      Guard
	idGen      idgen.Generator
	logger     *logging.Logger
	now        func() time.Time
}

func NewRoundService(
	roundRepo round.Repository,
	courseRepo course.Repository,
	userRepo user.Repository,
	idGen idgen.Generator,
	logger *logging.Logger,
) *RoundService {
	if logger == nil {
		logger = logging.Default()
	}

	return &RoundService{
		roundRepo:  roundRepo,
		courseRepo: courseRepo,
		userRepo:   userRepo,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateRound materializes a round from a course: the owner's player line,
// one line per guest name, one line per extra participant, and a zero-stroke
// score for every player and hole pair. The whole aggregate is persisted as
// one unit so no reader sees a partial skeleton.
func (s *RoundService) CreateRound(ctx context.Context, actor user.Principal, input CreateRoundInput) (round.Round, error) {
	ctx, span := startUsecaseSpan(ctx, "RoundService.CreateRound")
	defer span.End()

	input.CourseID = strings.TrimSpace(input.CourseID)
	if input.CourseID == "" {
		return round.Round{}, fmt.Errorf("%w: course id is required", ErrInvalidInput)
	}

	c, found, err := s.courseRepo.GetByID(ctx, input.CourseID)
	if err != nil {
		return round.Round{}, fmt.Errorf("get course: %w", err)
	}
	if !found {
		return round.Round{}, fmt.Errorf("%w: course %s", ErrNotFound, input.CourseID)
	}

	date := input.Date
	if date.IsZero() {
		date = s.now()
	}

	roundID, err := s.idGen.NewID()
	if err != nil {
		return round.Round{}, fmt.Errorf("generate round id: %w", err)
	}

	r := round.Round{
		ID:             roundID,
		CourseID:       c.ID,
		OwnerID:        actor.ID,
		Date:           date.UTC(),
		Status:         round.StatusInProgress,
		ParticipantIDs: []string{actor.ID},
		Course:         c,
		CreatedAt:      s.now().UTC(),
	}

	ownerPlayer, err := s.newPlayer(roundID, actor.DisplayName(), actor.ID, c.Holes)
	if err != nil {
		return round.Round{}, err
	}
	r.Players = append(r.Players, ownerPlayer)

	for _, name := range input.PlayerNames {
		name = strings.TrimSpace(name)
		if name == "" {
			return round.Round{}, fmt.Errorf("%w: player name cannot be empty", ErrInvalidInput)
		}
		p, err := s.newPlayer(roundID, name, "", c.Holes)
		if err != nil {
			return round.Round{}, err
		}
		r.Players = append(r.Players, p)
	}

	for _, participantID := range input.ParticipantIDs {
		participantID = strings.TrimSpace(participantID)
		if participantID == "" || participantID == actor.ID || r.HasParticipant(participantID) {
			continue
		}

		u, found, err := s.userRepo.GetByID(ctx, participantID)
		if err != nil {
			return round.Round{}, fmt.Errorf("get participant: %w", err)
		}
		if !found {
			return round.Round{}, fmt.Errorf("%w: user %s", ErrNotFound, participantID)
		}

		p, err := s.newPlayer(roundID, u.DisplayName(), u.ID, c.Holes)
		if err != nil {
			return round.Round{}, err
		}
		r.ParticipantIDs = append(r.ParticipantIDs, u.ID)
		r.Players = append(r.Players, p)
	}

	if err := r.Validate(); err != nil {
		return round.Round{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	if err := s.roundRepo.Create(ctx, r); err != nil {
		return round.Round{}, fmt.Errorf("create round: %w", err)
	}

	s.logger.InfoContext(ctx, "round created",
		"round_id", r.ID, "course_id", c.ID, "players", len(r.Players))
	return r, nil
}

func (s *RoundService) ListRounds(ctx context.Context, actorID string) ([]round.Round, error) {
	ctx, span := startUsecaseSpan(ctx, "RoundService.ListRounds")
	defer span.End()

	rounds, err := s.roundRepo.ListByUser(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}

	return rounds, nil
}

func (s *RoundService) GetRound(ctx context.Context, actorID, roundID string) (round.Round, error) {
	ctx, span := startUsecaseSpan(ctx, "RoundService.GetRound")
	defer span.End()

	r, err := s.loadRound(ctx, roundID)
	if err != nil {
		return round.Round{}, err
	}
	if !s.guard.CanViewRound(actorID, r) {
		return round.Round{}, fmt.Errorf("%w: not a participant of round %s", ErrForbidden, roundID)
	}

	return r, nil
}

func (s *RoundService) UpdateRoundStatus(ctx context.Context, actorID, roundID string, rawStatus string) (round.Round, error) {
	ctx, span := startUsecaseSpan(ctx, "RoundService.UpdateRoundStatus")
	defer span.End()

	status, err := round.ParseStatus(rawStatus)
	if err != nil {
		return round.Round{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	r, err := s.loadRound(ctx, roundID)
	if err != nil {
		return round.Round{}, err
	}
	if !s.guard.CanMutateRound(actorID, r) {
		return round.Round{}, fmt.Errorf("%w: not a participant of round %s", ErrForbidden, roundID)
	}

	if err := s.roundRepo.UpdateStatus(ctx, roundID, status); err != nil {
		return round.Round{}, fmt.Errorf("update round status: %w", err)
	}

	r.Status = status
	return r, nil
}

// AddPlayerToRound appends one scorecard line plus its zero-stroke score
// skeleton. Adding a registered user also grants them participant rights;
// the repository persists the line and the grant as one unit.
func (s *RoundService) AddPlayerToRound(ctx context.Context, actorID, roundID string, input AddPlayerInput) (round.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "RoundService.AddPlayerToRound")
	defer span.End()

	r, err := s.loadRound(ctx, roundID)
	if err != nil {
		return round.Player{}, err
	}
	if !s.guard.CanMutateRound(actorID, r) {
		return round.Player{}, fmt.Errorf("%w: not a participant of round %s", ErrForbidden, roundID)
	}

	name := strings.TrimSpace(input.Name)
	userID := strings.TrimSpace(input.UserID)

	if userID != "" {
		u, found, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return round.Player{}, fmt.Errorf("get user: %w", err)
		}
		if !found {
			return round.Player{}, fmt.Errorf("%w: user %s", ErrNotFound, userID)
		}
		name = u.DisplayName()
	} else if name == "" {
		return round.Player{}, fmt.Errorf("%w: player name or user id is required", ErrInvalidInput)
	}

	p, err := s.newPlayer(roundID, name, userID, r.Course.Holes)
	if err != nil {
		return round.Player{}, err
	}

	if err := s.roundRepo.CreatePlayer(ctx, p); err != nil {
		return round.Player{}, fmt.Errorf("create player: %w", err)
	}

	return p, nil
}

// UpdateScore records strokes for one player on one hole. The skeleton
// normally guarantees the score row exists; when it does not, the row is
// created rather than failing.
func (s *RoundService) UpdateScore(ctx context.Context, actorID, roundID, playerID, holeID string, strokes int) (round.Score, error) {
	ctx, span := startUsecaseSpan(ctx, "RoundService.UpdateScore")
	defer span.End()

	if strokes < round.StrokesUnplayed || strokes > round.MaxStrokes {
		return round.Score{}, fmt.Errorf("%w: strokes must be between %d and %d",
			ErrInvalidInput, round.StrokesUnplayed, round.MaxStrokes)
	}

	r, err := s.loadRound(ctx, roundID)
	if err != nil {
		return round.Score{}, err
	}
	if !s.guard.CanMutateRound(actorID, r) {
		return round.Score{}, fmt.Errorf("%w: not a participant of round %s", ErrForbidden, roundID)
	}

	if _, ok := r.PlayerByID(playerID); !ok {
		return round.Score{}, fmt.Errorf("%w: player %s is not part of round %s", ErrNotFound, playerID, roundID)
	}
	hole, ok := r.Course.HoleByID(holeID)
	if !ok {
		return round.Score{}, fmt.Errorf("%w: hole %s is not part of course %s", ErrNotFound, holeID, r.CourseID)
	}

	existing, found, err := s.roundRepo.GetScore(ctx, playerID, holeID)
	if err != nil {
		return round.Score{}, fmt.Errorf("get score: %w", err)
	}
	if found {
		if err := s.roundRepo.UpdateScoreStrokes(ctx, existing.ID, strokes); err != nil {
			return round.Score{}, fmt.Errorf("update score: %w", err)
		}
		existing.Strokes = strokes
		existing.Hole = hole
		return existing, nil
	}

	scoreID, err := s.idGen.NewID()
	if err != nil {
		return round.Score{}, fmt.Errorf("generate score id: %w", err)
	}

	created := round.Score{
		ID:       scoreID,
		PlayerID: playerID,
		HoleID:   holeID,
		Strokes:  strokes,
		Hole:     hole,
	}
	if err := s.roundRepo.CreateScore(ctx, created); err != nil {
		return round.Score{}, fmt.Errorf("create score: %w", err)
	}

	return created, nil
}

func (s *RoundService) loadRound(ctx context.Context, roundID string) (round.Round, error) {
	r, found, err := s.roundRepo.GetByID(ctx, roundID)
	if err != nil {
		return round.Round{}, fmt.Errorf("get round: %w", err)
	}
	if !found {
		return round.Round{}, fmt.Errorf("%w: round %s", ErrNotFound, roundID)
	}

	return r, nil
}

// newPlayer builds one scorecard line with a zero-stroke score per hole.
func (s *RoundService) newPlayer(roundID, name, userID string, holes []course.Hole) (round.Player, error) {
	playerID, err := s.idGen.NewID()
	if err != nil {
		return round.Player{}, fmt.Errorf("generate player id: %w", err)
	}

	p := round.Player{
		ID:      playerID,
		RoundID: roundID,
		Name:    name,
		UserID:  userID,
		Scores:  make([]round.Score, 0, len(holes)),
	}

	for _, h := range holes {
		scoreID, err := s.idGen.NewID()
		if err != nil {
			return round.Player{}, fmt.Errorf("generate score id: %w", err)
		}
		p.Scores = append(p.Scores, round.Score{
			ID:       scoreID,
			PlayerID: playerID,
			HoleID:   h.ID,
			Strokes:  round.StrokesUnplayed,
			Hole:     h,
		})
	}

	return p, nil
}
