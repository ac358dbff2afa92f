package httpapi

import (
	"context"
	"time"

	"github.com/thudson/golf-scorecard/internal/domain/course"
	"github.com/thudson/golf-scorecard/internal/domain/round"
	"github.com/thudson/golf-scorecard/internal/domain/user"
	"github.com/thudson/golf-scorecard/internal/usecase"
)

type userDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
}

type authResultDTO struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

type activityCountsDTO struct {
	CoursesCreated     int `json:"coursesCreated"`
	RoundsOwned        int `json:"roundsOwned"`
	RoundsParticipated int `json:"roundsParticipated"`
	PlayerAppearances  int `json:"playerAppearances"`
}

type profileDTO struct {
	User   userDTO           `json:"user"`
	Counts activityCountsDTO `json:"counts"`
}

type holeDTO struct {
	ID         string `json:"id"`
	CourseID   string `json:"courseId"`
	HoleNumber int    `json:"holeNumber"`
	Par        int    `json:"par"`
	LengthFeet int    `json:"lengthFeet,omitempty"`
}

type courseDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	HoleCount   int       `json:"holeCount"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
	Holes       []holeDTO `json:"holes"`
}

type scoreDTO struct {
	ID       string  `json:"id"`
	PlayerID string  `json:"playerId"`
	HoleID   string  `json:"holeId"`
	Strokes  int     `json:"strokes"`
	Hole     holeDTO `json:"hole"`
}

type playerDTO struct {
	ID      string     `json:"id"`
	RoundID string     `json:"roundId"`
	Name    string     `json:"name"`
	UserID  string     `json:"userId,omitempty"`
	Scores  []scoreDTO `json:"scores"`
}

type roundDTO struct {
	ID             string      `json:"id"`
	CourseID       string      `json:"courseId"`
	OwnerID        string      `json:"ownerId"`
	Date           time.Time   `json:"date"`
	Status         string      `json:"status"`
	ParticipantIDs []string    `json:"participantIds"`
	CreatedAt      time.Time   `json:"createdAt"`
	Course         courseDTO   `json:"course"`
	Players        []playerDTO `json:"players"`
}

type holeScoreDTO struct {
	HoleNumber    int    `json:"holeNumber"`
	Par           int    `json:"par"`
	Strokes       int    `json:"strokes"`
	RelativeToPar int    `json:"relativeToPar"`
	ScoreName     string `json:"scoreName"`
}

type scoreTypesDTO struct {
	BirdiesOrBetter    int `json:"birdiesOrBetter"`
	Pars               int `json:"pars"`
	Bogeys             int `json:"bogeys"`
	DoubleBogeyOrWorse int `json:"doubleBogeyOrWorse"`
}

type playerRoundStatsDTO struct {
	PlayerID      string         `json:"playerId"`
	PlayerName    string         `json:"playerName"`
	UserID        string         `json:"userId,omitempty"`
	TotalScore    int            `json:"totalScore"`
	RelativeToPar int            `json:"relativeToPar"`
	ScoreTypes    scoreTypesDTO  `json:"scoreTypes"`
	HoleScores    []holeScoreDTO `json:"holeScores"`
}

type roundStatsDTO struct {
	RoundID    string                `json:"roundId"`
	Date       time.Time             `json:"date"`
	Status     string                `json:"status"`
	CourseID   string                `json:"courseId"`
	CourseName string                `json:"courseName"`
	Players    []playerRoundStatsDTO `json:"players"`
}

type bestRoundDTO struct {
	Date          time.Time `json:"date"`
	CourseName    string    `json:"courseName"`
	Score         int       `json:"score"`
	Par           int       `json:"par"`
	RelativeToPar int       `json:"relativeToPar"`
}

type courseStatsDTO struct {
	CourseID       string  `json:"courseId"`
	CourseName     string  `json:"courseName"`
	Rounds         int     `json:"rounds"`
	AveragePerHole float64 `json:"averagePerHole"`
	RelativeToPar  int     `json:"relativeToPar"`
}

type playerStatsDTO struct {
	TotalRounds   int              `json:"totalRounds"`
	CoursesPlayed int              `json:"coursesPlayed"`
	AverageScore  float64          `json:"averageScore"`
	BestRound     *bestRoundDTO    `json:"bestRound"`
	CourseStats   []courseStatsDTO `json:"courseStats"`
}

type importRoundResultDTO struct {
	Index      int    `json:"index"`
	RoundID    string `json:"roundId,omitempty"`
	CourseID   string `json:"courseId"`
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"durationMs"`
}

type importResultDTO struct {
	RoundCount   int                    `json:"roundCount"`
	SuccessCount int                    `json:"successCount"`
	FailedCount  int                    `json:"failedCount"`
	WorkerCount  int                    `json:"workerCount"`
	Rounds       []importRoundResultDTO `json:"rounds"`
}

func userToDTO(v user.User) userDTO {
	return userDTO{
		ID:        v.ID,
		Email:     v.Email,
		FirstName: v.FirstName,
		LastName:  v.LastName,
		CreatedAt: v.CreatedAt,
	}
}

func activityCountsToDTO(v user.ActivityCounts) activityCountsDTO {
	return activityCountsDTO{
		CoursesCreated:     v.CoursesCreated,
		RoundsOwned:        v.RoundsOwned,
		RoundsParticipated: v.RoundsParticipated,
		PlayerAppearances:  v.PlayerAppearances,
	}
}

func holeToDTO(v course.Hole) holeDTO {
	return holeDTO{
		ID:         v.ID,
		CourseID:   v.CourseID,
		HoleNumber: v.Number,
		Par:        v.Par,
		LengthFeet: v.LengthFeet,
	}
}

func courseToDTO(ctx context.Context, v course.Course) courseDTO {
	ctx, span := startSpan(ctx, "httpapi.courseToDTO")
	defer span.End()

	holes := make([]holeDTO, 0, len(v.Holes))
	for _, h := range v.Holes {
		holes = append(holes, holeToDTO(h))
	}

	return courseDTO{
		ID:          v.ID,
		Name:        v.Name,
		Location:    v.Location,
		Description: v.Description,
		HoleCount:   v.HoleCount,
		OwnerID:     v.OwnerID,
		CreatedAt:   v.CreatedAt,
		Holes:       holes,
	}
}

func scoreToDTO(v round.Score) scoreDTO {
	return scoreDTO{
		ID:       v.ID,
		PlayerID: v.PlayerID,
		HoleID:   v.HoleID,
		Strokes:  v.Strokes,
		Hole:     holeToDTO(v.Hole),
	}
}

func playerToDTO(v round.Player) playerDTO {
	scores := make([]scoreDTO, 0, len(v.Scores))
	for _, sc := range v.Scores {
		scores = append(scores, scoreToDTO(sc))
	}

	return playerDTO{
		ID:      v.ID,
		RoundID: v.RoundID,
		Name:    v.Name,
		UserID:  v.UserID,
		Scores:  scores,
	}
}

func roundToDTO(ctx context.Context, v round.Round) roundDTO {
	ctx, span := startSpan(ctx, "httpapi.roundToDTO")
	defer span.End()

	players := make([]playerDTO, 0, len(v.Players))
	for _, p := range v.Players {
		players = append(players, playerToDTO(p))
	}

	participants := v.ParticipantIDs
	if participants == nil {
		participants = []string{}
	}

	return roundDTO{
		ID:             v.ID,
		CourseID:       v.CourseID,
		OwnerID:        v.OwnerID,
		Date:           v.Date,
		Status:         string(v.Status),
		ParticipantIDs: participants,
		CreatedAt:      v.CreatedAt,
		Course:         courseToDTO(ctx, v.Course),
		Players:        players,
	}
}

func roundStatsToDTO(ctx context.Context, v usecase.RoundStats) roundStatsDTO {
	ctx, span := startSpan(ctx, "httpapi.roundStatsToDTO")
	defer span.End()

	players := make([]playerRoundStatsDTO, 0, len(v.Players))
	for _, p := range v.Players {
		holeScores := make([]holeScoreDTO, 0, len(p.HoleScores))
		for _, hs := range p.HoleScores {
			holeScores = append(holeScores, holeScoreDTO{
				HoleNumber:    hs.HoleNumber,
				Par:           hs.Par,
				Strokes:       hs.Strokes,
				RelativeToPar: hs.RelativeToPar,
				ScoreName:     hs.ScoreName,
			})
		}
		players = append(players, playerRoundStatsDTO{
			PlayerID:      p.PlayerID,
			PlayerName:    p.PlayerName,
			UserID:        p.UserID,
			TotalScore:    p.TotalScore,
			RelativeToPar: p.RelativeToPar,
			ScoreTypes: scoreTypesDTO{
				BirdiesOrBetter:    p.ScoreTypes.BirdiesOrBetter,
				Pars:               p.ScoreTypes.Pars,
				Bogeys:             p.ScoreTypes.Bogeys,
				DoubleBogeyOrWorse: p.ScoreTypes.DoubleBogeyOrWorse,
			},
			HoleScores: holeScores,
		})
	}

	return roundStatsDTO{
		RoundID:    v.RoundID,
		Date:       v.Date,
		Status:     string(v.Status),
		CourseID:   v.CourseID,
		CourseName: v.CourseName,
		Players:    players,
	}
}

func playerStatsToDTO(ctx context.Context, v usecase.PlayerStats) playerStatsDTO {
	ctx, span := startSpan(ctx, "httpapi.playerStatsToDTO")
	defer span.End()

	courseStats := make([]courseStatsDTO, 0, len(v.CourseStats))
	for _, cs := range v.CourseStats {
		courseStats = append(courseStats, courseStatsDTO{
			CourseID:       cs.CourseID,
			CourseName:     cs.CourseName,
			Rounds:         cs.Rounds,
			AveragePerHole: cs.AveragePerHole,
			RelativeToPar:  cs.RelativeToPar,
		})
	}

	var best *bestRoundDTO
	if v.BestRound != nil {
		best = &bestRoundDTO{
			Date:          v.BestRound.Date,
			CourseName:    v.BestRound.CourseName,
			Score:         v.BestRound.Score,
			Par:           v.BestRound.Par,
			RelativeToPar: v.BestRound.RelativeToPar,
		}
	}

	return playerStatsDTO{
		TotalRounds:   v.TotalRounds,
		CoursesPlayed: v.CoursesPlayed,
		AverageScore:  v.AverageScore,
		BestRound:     best,
		CourseStats:   courseStats,
	}
}

func importResultToDTO(v usecase.ImportResult) importResultDTO {
	rounds := make([]importRoundResultDTO, 0, len(v.Rounds))
	for _, row := range v.Rounds {
		rounds = append(rounds, importRoundResultDTO{
			Index:      row.Index,
			RoundID:    row.RoundID,
			CourseID:   row.CourseID,
			Status:     row.Status,
			Message:    row.Message,
			DurationMs: row.DurationMs,
		})
	}

	return importResultDTO{
		RoundCount:   v.RoundCount,
		SuccessCount: v.SuccessCount,
		FailedCount:  v.FailedCount,
		WorkerCount:  v.WorkerCount,
		Rounds:       rounds,
	}
}
