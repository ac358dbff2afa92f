package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/thudson/golf-scorecard/internal/domain/round"
)

// HoleScore classifies one played hole relative to its par.
type HoleScore struct {
	HoleNumber    int
	Par           int
	Strokes       int
	RelativeToPar int
	ScoreName     string
}

// ScoreTypeTally buckets a player's played holes by outcome.
type ScoreTypeTally struct {
	BirdiesOrBetter    int
	Pars               int
	Bogeys             int
	DoubleBogeyOrWorse int
}

// PlayerRoundStats is one leaderboard row of a round.
type PlayerRoundStats struct {
	PlayerID      string
	PlayerName    string
	UserID        string
	TotalScore    int
	RelativeToPar int
	ScoreTypes    ScoreTypeTally
	HoleScores    []HoleScore
}

// RoundStats is a round's leaderboard, players ordered by total strokes.
type RoundStats struct {
	RoundID    string
	Date       time.Time
	Status     round.Status
	CourseID   string
	CourseName string
	Players    []PlayerRoundStats
}

// BestRound is a player's lowest round relative to par.
type BestRound struct {
	Date          time.Time
	CourseName    string
	Score         int
	Par           int
	RelativeToPar int
}

// CourseBreakdown aggregates one player's history on one course.
type CourseBreakdown struct {
	CourseID       string
	CourseName     string
	Rounds         int
	AveragePerHole float64
	RelativeToPar  int
}

// PlayerStats aggregates a user's completed rounds.
type PlayerStats struct {
	TotalRounds   int
	CoursesPlayed int
	AverageScore  float64
	BestRound     *BestRound
	CourseStats   []CourseBreakdown
}

type StatsService struct {
	roundRepo round.Repository
	guard     Guard
}

func NewStatsService(roundRepo round.Repository) *StatsService {
	return &StatsService{roundRepo: roundRepo}
}

// GetRoundStats builds the round leaderboard. Unplayed holes (zero strokes)
// never appear in hole scores or aggregates.
func (s *StatsService) GetRoundStats(ctx context.Context, actorID, roundID string) (RoundStats, error) {
	ctx, span := startUsecaseSpan(ctx, "StatsService.GetRoundStats")
	defer span.End()

	r, found, err := s.roundRepo.GetByID(ctx, roundID)
	if err != nil {
		return RoundStats{}, fmt.Errorf("get round: %w", err)
	}
	if !found {
		return RoundStats{}, fmt.Errorf("%w: round %s", ErrNotFound, roundID)
	}
	if !s.guard.CanViewRound(actorID, r) {
		return RoundStats{}, fmt.Errorf("%w: not a participant of round %s", ErrForbidden, roundID)
	}

	stats := RoundStats{
		RoundID:    r.ID,
		Date:       r.Date,
		Status:     r.Status,
		CourseID:   r.Course.ID,
		CourseName: r.Course.Name,
		Players:    make([]PlayerRoundStats, 0, len(r.Players)),
	}

	for _, p := range r.Players {
		row := PlayerRoundStats{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			UserID:     p.UserID,
			HoleScores: make([]HoleScore, 0, len(r.Course.Holes)),
		}

		scoreByHole := make(map[string]round.Score, len(p.Scores))
		for _, sc := range p.Scores {
			scoreByHole[sc.HoleID] = sc
		}

		totalPar := 0
		for _, h := range r.Course.Holes {
			sc, ok := scoreByHole[h.ID]
			if !ok || sc.Strokes <= round.StrokesUnplayed {
				continue
			}

			relative := sc.Strokes - h.Par
			row.TotalScore += sc.Strokes
			totalPar += h.Par
			row.HoleScores = append(row.HoleScores, HoleScore{
				HoleNumber:    h.Number,
				Par:           h.Par,
				Strokes:       sc.Strokes,
				RelativeToPar: relative,
				ScoreName:     ScoreName(relative),
			})

			switch {
			case relative < 0:
				row.ScoreTypes.BirdiesOrBetter++
			case relative == 0:
				row.ScoreTypes.Pars++
			case relative == 1:
				row.ScoreTypes.Bogeys++
			default:
				row.ScoreTypes.DoubleBogeyOrWorse++
			}
		}
		row.RelativeToPar = row.TotalScore - totalPar

		stats.Players = append(stats.Players, row)
	}

	sort.SliceStable(stats.Players, func(i, j int) bool {
		return stats.Players[i].TotalScore < stats.Players[j].TotalScore
	})

	return stats, nil
}

// GetPlayerStats aggregates the actor's completed rounds: totals, best round
// relative to par (first encountered wins ties), and a per-course breakdown
// in first-played order.
func (s *StatsService) GetPlayerStats(ctx context.Context, actorID string) (PlayerStats, error) {
	ctx, span := startUsecaseSpan(ctx, "StatsService.GetPlayerStats")
	defer span.End()

	playerRounds, err := s.roundRepo.ListPlayerRounds(ctx, actorID, round.StatusCompleted)
	if err != nil {
		return PlayerStats{}, fmt.Errorf("list player rounds: %w", err)
	}
	if len(playerRounds) == 0 {
		return PlayerStats{}, nil
	}

	stats := PlayerStats{TotalRounds: len(playerRounds)}

	totalStrokes := 0
	totalHoles := 0
	bestPerformance := math.MaxInt

	type courseAgg struct {
		name    string
		rounds  int
		strokes int
		par     int
		holes   int
	}
	courseOrder := make([]string, 0)
	courses := make(map[string]*courseAgg)

	for _, pr := range playerRounds {
		roundStrokes := 0
		roundPar := 0
		holesPlayed := 0
		for _, sc := range pr.Player.Scores {
			if sc.Strokes <= round.StrokesUnplayed {
				continue
			}
			roundStrokes += sc.Strokes
			roundPar += sc.Hole.Par
			holesPlayed++
		}

		totalStrokes += roundStrokes
		totalHoles += holesPlayed

		if holesPlayed > 0 {
			if performance := roundStrokes - roundPar; performance < bestPerformance {
				bestPerformance = performance
				stats.BestRound = &BestRound{
					Date:          pr.RoundDate,
					CourseName:    pr.CourseName,
					Score:         roundStrokes,
					Par:           roundPar,
					RelativeToPar: performance,
				}
			}
		}

		agg, ok := courses[pr.CourseID]
		if !ok {
			agg = &courseAgg{name: pr.CourseName}
			courses[pr.CourseID] = agg
			courseOrder = append(courseOrder, pr.CourseID)
		}
		agg.rounds++
		agg.strokes += roundStrokes
		agg.par += roundPar
		agg.holes += holesPlayed
	}

	stats.CoursesPlayed = len(courses)
	if totalHoles > 0 {
		stats.AverageScore = round2(float64(totalStrokes) / float64(totalHoles))
	}

	stats.CourseStats = make([]CourseBreakdown, 0, len(courseOrder))
	for _, courseID := range courseOrder {
		agg := courses[courseID]
		breakdown := CourseBreakdown{
			CourseID:   courseID,
			CourseName: agg.name,
			Rounds:     agg.rounds,
		}
		if agg.holes > 0 {
			breakdown.AveragePerHole = round2(float64(agg.strokes) / float64(agg.holes))
			breakdown.RelativeToPar = agg.strokes - agg.par
		}
		stats.CourseStats = append(stats.CourseStats, breakdown)
	}

	return stats, nil
}

// ScoreName maps strokes-minus-par to its golf name.
func ScoreName(relativeToPar int) string {
	switch relativeToPar {
	case -3:
		return "Albatross"
	case -2:
		return "Eagle"
	case -1:
		return "Birdie"
	case 0:
		return "Par"
	case 1:
		return "Bogey"
	case 2:
		return "Double Bogey"
	case 3:
		return "Triple Bogey"
	}
	if relativeToPar < 0 {
		return fmt.Sprintf("%d Under Par", -relativeToPar)
	}
	return fmt.Sprintf("%d Over Par", relativeToPar)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
