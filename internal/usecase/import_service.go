package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/thudson/golf-scorecard/internal/domain/round"
	"github.com/thudson/golf-scorecard/internal/domain/user"
	"github.com/thudson/golf-scorecard/internal/platform/logging"
)

// ImportPlayerInput is one scorecard line of a historical round. Strokes[i]
// is the stroke count on hole i+1; zero entries stay unplayed.
type ImportPlayerInput struct {
	Name    string
	UserID  string
	Strokes []int
}

// ImportRoundInput is one historical round to backfill.
type ImportRoundInput struct {
	CourseID string
	Date     time.Time
	Status   string
	Players  []ImportPlayerInput
}

// ImportInput is a batch of historical rounds. MaxWorkers caps pool size;
// zero falls back to the service default.
type ImportInput struct {
	Rounds     []ImportRoundInput
	MaxWorkers int
}

// ImportRoundResult is the per-round outcome of a batch import.
type ImportRoundResult struct {
	Index      int
	RoundID    string
	CourseID   string
	Status     string
	Message    string
	DurationMs int64
}

type ImportResult struct {
	RoundCount   int
	SuccessCount int
	FailedCount  int
	WorkerCount  int
	Rounds       []ImportRoundResult
}

const (
	importStatusSuccess = "success"
	importStatusFailed  = "failed"

	defaultImportWorkers = 4
	maxImportWorkers     = 32
	maxImportBatch       = 500
)

// ImportService backfills historical rounds through the regular lifecycle
// operations, fanning rounds out over a worker pool. Per-round failures are
// reported without aborting the batch.
type ImportService struct {
	rounds         *RoundService
	defaultWorkers int
	logger         *logging.Logger
}

func NewImportService(rounds *RoundService, defaultWorkers int, logger *logging.Logger) *ImportService {
	if defaultWorkers <= 0 {
		defaultWorkers = defaultImportWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &ImportService{
		rounds:         rounds,
		defaultWorkers: defaultWorkers,
		logger:         logger,
	}
}

func (s *ImportService) ImportRounds(ctx context.Context, actor user.Principal, input ImportInput) (ImportResult, error) {
	ctx, span := startUsecaseSpan(ctx, "ImportService.ImportRounds")
	defer span.End()

	if len(input.Rounds) == 0 {
		return ImportResult{}, fmt.Errorf("%w: rounds are required", ErrInvalidInput)
	}
	if len(input.Rounds) > maxImportBatch {
		return ImportResult{}, fmt.Errorf("%w: at most %d rounds per batch", ErrInvalidInput, maxImportBatch)
	}

	workerCount := input.MaxWorkers
	if workerCount <= 0 {
		workerCount = s.defaultWorkers
	}
	if workerCount > maxImportWorkers {
		workerCount = maxImportWorkers
	}
	if workerCount > len(input.Rounds) {
		workerCount = len(input.Rounds)
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return ImportResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan ImportRoundResult, len(input.Rounds))

	var successCount atomic.Int32
	var failedCount atomic.Int32

	var workers sync.WaitGroup
	for i, item := range input.Rounds {
		i, item := i, item
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := ImportRoundResult{Index: i, CourseID: item.CourseID}

			roundID, err := s.importRound(ctx, actor, item)
			row.RoundID = roundID
			row.DurationMs = time.Since(start).Milliseconds()
			if err != nil {
				row.Status = importStatusFailed
				row.Message = err.Error()
				failedCount.Add(1)
			} else {
				row.Status = importStatusSuccess
				successCount.Add(1)
			}

			results <- row
		}); err != nil {
			workers.Done()
			return ImportResult{}, fmt.Errorf("submit round to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	result := ImportResult{
		RoundCount:  len(input.Rounds),
		WorkerCount: workerCount,
		Rounds:      make([]ImportRoundResult, 0, len(input.Rounds)),
	}
	for row := range results {
		result.Rounds = append(result.Rounds, row)
	}
	sort.SliceStable(result.Rounds, func(i, j int) bool {
		return result.Rounds[i].Index < result.Rounds[j].Index
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())

	s.logger.InfoContext(ctx, "round import finished",
		"rounds", result.RoundCount, "succeeded", result.SuccessCount, "failed", result.FailedCount)
	return result, nil
}

// importRound replays one historical round: create, score every given hole,
// then move the round to its final status.
func (s *ImportService) importRound(ctx context.Context, actor user.Principal, item ImportRoundInput) (string, error) {
	status := strings.TrimSpace(item.Status)
	if status == "" {
		status = string(round.StatusCompleted)
	}
	if _, err := round.ParseStatus(status); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	create := CreateRoundInput{CourseID: item.CourseID, Date: item.Date}
	for _, p := range item.Players {
		if strings.TrimSpace(p.UserID) != "" {
			create.ParticipantIDs = append(create.ParticipantIDs, p.UserID)
		} else {
			create.PlayerNames = append(create.PlayerNames, p.Name)
		}
	}

	r, err := s.rounds.CreateRound(ctx, actor, create)
	if err != nil {
		return "", err
	}

	used := make(map[string]bool, len(r.Players))
	for _, p := range item.Players {
		if len(p.Strokes) > len(r.Course.Holes) {
			return r.ID, fmt.Errorf("%w: player %q has %d scores for %d holes",
				ErrInvalidInput, p.Name, len(p.Strokes), len(r.Course.Holes))
		}

		target, ok := matchImportedPlayer(r, p, used)
		if !ok {
			return r.ID, fmt.Errorf("%w: player %q not found in created round", ErrNotFound, p.Name)
		}
		used[target.ID] = true

		for i, strokes := range p.Strokes {
			if strokes == round.StrokesUnplayed {
				continue
			}
			hole := r.Course.Holes[i]
			if _, err := s.rounds.UpdateScore(ctx, actor.ID, r.ID, target.ID, hole.ID, strokes); err != nil {
				return r.ID, err
			}
		}
	}

	if _, err := s.rounds.UpdateRoundStatus(ctx, actor.ID, r.ID, status); err != nil {
		return r.ID, err
	}

	return r.ID, nil
}

// matchImportedPlayer finds the created scorecard line for one imported
// player, skipping lines already claimed. Guest lines keep creation order, so
// duplicate guest names resolve positionally instead of piling onto the first
// match.
func matchImportedPlayer(r round.Round, p ImportPlayerInput, used map[string]bool) (round.Player, bool) {
	userID := strings.TrimSpace(p.UserID)
	name := strings.TrimSpace(p.Name)

	for _, candidate := range r.Players {
		if used[candidate.ID] {
			continue
		}
		if userID != "" && candidate.UserID == userID {
			return candidate, true
		}
		if userID == "" && candidate.UserID == "" && candidate.Name == name {
			return candidate, true
		}
	}
	return round.Player{}, false
}
