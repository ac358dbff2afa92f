package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/thudson/golf-scorecard/internal/domain/round"
)

func TestScoreName(t *testing.T) {
	cases := []struct {
		relative int
		want     string
	}{
		{-4, "4 Under Par"},
		{-3, "Albatross"},
		{-2, "Eagle"},
		{-1, "Birdie"},
		{0, "Par"},
		{1, "Bogey"},
		{2, "Double Bogey"},
		{3, "Triple Bogey"},
		{5, "5 Over Par"},
	}

	for _, tc := range cases {
		if got := ScoreName(tc.relative); got != tc.want {
			t.Fatalf("ScoreName(%d) = %q, want %q", tc.relative, got, tc.want)
		}
	}
}

func TestStatsService_GetRoundStats(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "user-1", "casey@example.com", "Casey", "Jordan")
	env.seedCourse(t, "course-1", owner.ID, []int{4, 4, 5})

	r, err := env.rounds.CreateRound(t.Context(), owner, CreateRoundInput{
		CourseID:    "course-1",
		PlayerNames: []string{"Alex"},
	})
	if err != nil {
		t.Fatalf("create round: %v", err)
	}

	alex, _ := r.PlayerByID(r.Players[1].ID)
	for i, strokes := range []int{4, 3, 6} {
		hole := r.Course.Holes[i]
		if _, err := env.rounds.UpdateScore(t.Context(), owner.ID, r.ID, alex.ID, hole.ID, strokes); err != nil {
			t.Fatalf("set strokes on hole %d: %v", i+1, err)
		}
	}

	stats, err := env.stats.GetRoundStats(t.Context(), owner.ID, r.ID)
	if err != nil {
		t.Fatalf("get round stats failed: %v", err)
	}
	if stats.CourseName != "Course course-1" || stats.Status != round.StatusInProgress {
		t.Fatalf("round metadata = %+v", stats)
	}
	if len(stats.Players) != 2 {
		t.Fatalf("player rows = %d, want 2", len(stats.Players))
	}

	// The owner has no played holes, so they lead the ascending sort with 0.
	ownerRow := stats.Players[0]
	if ownerRow.PlayerID == alex.ID {
		t.Fatal("expected the scoreless owner row first")
	}
	if len(ownerRow.HoleScores) != 0 || ownerRow.TotalScore != 0 {
		t.Fatalf("scoreless row = %+v", ownerRow)
	}

	alexRow := stats.Players[1]
	if alexRow.TotalScore != 13 {
		t.Fatalf("total score = %d, want 13", alexRow.TotalScore)
	}
	if alexRow.RelativeToPar != 0 {
		t.Fatalf("relative to par = %d, want 0", alexRow.RelativeToPar)
	}
	want := ScoreTypeTally{BirdiesOrBetter: 1, Pars: 1, Bogeys: 1, DoubleBogeyOrWorse: 0}
	if alexRow.ScoreTypes != want {
		t.Fatalf("score types = %+v, want %+v", alexRow.ScoreTypes, want)
	}
	if len(alexRow.HoleScores) != 3 {
		t.Fatalf("hole scores = %d, want 3", len(alexRow.HoleScores))
	}
	if got := alexRow.HoleScores[1].ScoreName; got != "Birdie" {
		t.Fatalf("hole 2 score name = %q, want Birdie", got)
	}

	tallied := alexRow.ScoreTypes.BirdiesOrBetter + alexRow.ScoreTypes.Pars +
		alexRow.ScoreTypes.Bogeys + alexRow.ScoreTypes.DoubleBogeyOrWorse
	if tallied != len(alexRow.HoleScores) {
		t.Fatalf("score type tally %d != hole scores %d", tallied, len(alexRow.HoleScores))
	}
}

func TestStatsService_GetRoundStats_ExcludesUnplayedHoles(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "user-1", "casey@example.com", "Casey", "Jordan")
	env.seedCourse(t, "course-1", owner.ID, []int{4, 4})

	r, err := env.rounds.CreateRound(t.Context(), owner, CreateRoundInput{CourseID: "course-1"})
	if err != nil {
		t.Fatalf("create round: %v", err)
	}
	p := r.Players[0]
	if _, err := env.rounds.UpdateScore(t.Context(), owner.ID, r.ID, p.ID, r.Course.Holes[0].ID, 4); err != nil {
		t.Fatalf("update score: %v", err)
	}

	stats, err := env.stats.GetRoundStats(t.Context(), owner.ID, r.ID)
	if err != nil {
		t.Fatalf("get round stats failed: %v", err)
	}

	row := stats.Players[0]
	if len(row.HoleScores) != 1 {
		t.Fatalf("hole scores = %d, want only the played hole", len(row.HoleScores))
	}
	for _, hs := range row.HoleScores {
		if hs.Strokes == 0 {
			t.Fatal("unplayed hole leaked into hole scores")
		}
	}
}

func TestStatsService_GetRoundStats_ReflectsHoleEdits(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "user-1", "casey@example.com", "Casey", "Jordan")
	env.seedCourse(t, "course-1", owner.ID, []int{4})

	r, err := env.rounds.CreateRound(t.Context(), owner, CreateRoundInput{CourseID: "course-1"})
	if err != nil {
		t.Fatalf("create round: %v", err)
	}
	if _, err := env.rounds.UpdateScore(t.Context(), owner.ID, r.ID, r.Players[0].ID, r.Course.Holes[0].ID, 4); err != nil {
		t.Fatalf("update score: %v", err)
	}

	stats, err := env.stats.GetRoundStats(t.Context(), owner.ID, r.ID)
	if err != nil {
		t.Fatalf("get round stats failed: %v", err)
	}
	if got := stats.Players[0].HoleScores[0].ScoreName; got != "Par" {
		t.Fatalf("score name before hole edit = %q, want Par", got)
	}

	newPar := 5
	if _, err := env.courses.UpdateHole(t.Context(), owner.ID, "course-1", 1, UpdateHoleInput{Par: &newPar}); err != nil {
		t.Fatalf("update hole: %v", err)
	}

	stats, err = env.stats.GetRoundStats(t.Context(), owner.ID, r.ID)
	if err != nil {
		t.Fatalf("get round stats failed: %v", err)
	}
	hs := stats.Players[0].HoleScores[0]
	if hs.Par != 5 || hs.RelativeToPar != -1 || hs.ScoreName != "Birdie" {
		t.Fatalf("hole score after par edit = %+v, want par 5 Birdie", hs)
	}
	if stats.Players[0].RelativeToPar != -1 {
		t.Fatalf("player relative to par = %d, want -1", stats.Players[0].RelativeToPar)
	}

	// Player history reads the edited par as well.
	if _, err := env.rounds.UpdateRoundStatus(t.Context(), owner.ID, r.ID, "COMPLETED"); err != nil {
		t.Fatalf("update status: %v", err)
	}
	playerStats, err := env.stats.GetPlayerStats(t.Context(), owner.ID)
	if err != nil {
		t.Fatalf("get player stats failed: %v", err)
	}
	if playerStats.BestRound == nil || playerStats.BestRound.Par != 5 || playerStats.BestRound.RelativeToPar != -1 {
		t.Fatalf("best round after par edit = %+v", playerStats.BestRound)
	}
}

func TestStatsService_GetRoundStats_Access(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "user-1", "casey@example.com", "Casey", "Jordan")
	env.seedCourse(t, "course-1", owner.ID, []int{4})

	r, err := env.rounds.CreateRound(t.Context(), owner, CreateRoundInput{CourseID: "course-1"})
	if err != nil {
		t.Fatalf("create round: %v", err)
	}

	if _, err := env.stats.GetRoundStats(t.Context(), "user-9", r.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := env.stats.GetRoundStats(t.Context(), "user-9", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStatsService_GetPlayerStats_ZeroState(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "user-1", "casey@example.com", "Casey", "Jordan")

	stats, err := env.stats.GetPlayerStats(t.Context(), "user-1")
	if err != nil {
		t.Fatalf("get player stats failed: %v", err)
	}
	if stats.TotalRounds != 0 || stats.CoursesPlayed != 0 || stats.AverageScore != 0 {
		t.Fatalf("zero state = %+v", stats)
	}
	if stats.BestRound != nil {
		t.Fatalf("best round = %+v, want nil", stats.BestRound)
	}
}

func TestStatsService_GetPlayerStats(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "user-1", "casey@example.com", "Casey", "Jordan")
	env.seedCourse(t, "course-1", owner.ID, []int{4, 4})
	env.seedCourse(t, "course-2", owner.ID, []int{3, 3})

	// Two completed rounds on course-1 and one on course-2; one abandoned
	// round that must not count.
	playRound := func(courseID string, date time.Time, strokes []int, status round.Status) {
		t.Helper()
		r, err := env.rounds.CreateRound(t.Context(), owner, CreateRoundInput{CourseID: courseID, Date: date})
		if err != nil {
			t.Fatalf("create round: %v", err)
		}
		for i, s := range strokes {
			if s == 0 {
				continue
			}
			if _, err := env.rounds.UpdateScore(t.Context(), owner.ID, r.ID, r.Players[0].ID, r.Course.Holes[i].ID, s); err != nil {
				t.Fatalf("update score: %v", err)
			}
		}
		if _, err := env.rounds.UpdateRoundStatus(t.Context(), owner.ID, r.ID, string(status)); err != nil {
			t.Fatalf("update status: %v", err)
		}
	}

	day := func(d int) time.Time { return time.Date(2026, 5, d, 8, 0, 0, 0, time.UTC) }

	playRound("course-1", day(1), []int{5, 5}, round.StatusCompleted)   // +2
	playRound("course-1", day(2), []int{4, 3}, round.StatusCompleted)   // -1, best
	playRound("course-2", day(3), []int{3, 0}, round.StatusCompleted)   // even, one hole unplayed
	playRound("course-2", day(4), []int{2, 2}, round.StatusCanceled)    // ignored

	stats, err := env.stats.GetPlayerStats(t.Context(), owner.ID)
	if err != nil {
		t.Fatalf("get player stats failed: %v", err)
	}

	if stats.TotalRounds != 3 {
		t.Fatalf("total rounds = %d, want 3", stats.TotalRounds)
	}
	if stats.CoursesPlayed != 2 {
		t.Fatalf("courses played = %d, want 2", stats.CoursesPlayed)
	}
	// (5+5+4+3+3) / 5 played holes = 4.00
	if stats.AverageScore != 4.00 {
		t.Fatalf("average score = %v, want 4.00", stats.AverageScore)
	}

	if stats.BestRound == nil {
		t.Fatal("best round missing")
	}
	if stats.BestRound.RelativeToPar != -1 || stats.BestRound.Score != 7 {
		t.Fatalf("best round = %+v", stats.BestRound)
	}

	if len(stats.CourseStats) != 2 {
		t.Fatalf("course stats = %d entries, want 2", len(stats.CourseStats))
	}
	first := stats.CourseStats[0]
	if first.CourseID != "course-1" {
		t.Fatalf("course order: first = %s, want course-1", first.CourseID)
	}
	if first.Rounds != 2 || first.AveragePerHole != 4.25 || first.RelativeToPar != 1 {
		t.Fatalf("course-1 breakdown = %+v", first)
	}
	second := stats.CourseStats[1]
	if second.Rounds != 1 || second.AveragePerHole != 3.00 || second.RelativeToPar != 0 {
		t.Fatalf("course-2 breakdown = %+v", second)
	}
}

func TestStatsService_GetPlayerStats_BestRoundTieKeepsFirst(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "user-1", "casey@example.com", "Casey", "Jordan")
	env.seedCourse(t, "course-1", owner.ID, []int{4})
	env.seedCourse(t, "course-2", owner.ID, []int{4})

	play := func(courseID string, date time.Time) {
		t.Helper()
		r, err := env.rounds.CreateRound(t.Context(), owner, CreateRoundInput{CourseID: courseID, Date: date})
		if err != nil {
			t.Fatalf("create round: %v", err)
		}
		if _, err := env.rounds.UpdateScore(t.Context(), owner.ID, r.ID, r.Players[0].ID, r.Course.Holes[0].ID, 4); err != nil {
			t.Fatalf("update score: %v", err)
		}
		if _, err := env.rounds.UpdateRoundStatus(t.Context(), owner.ID, r.ID, "COMPLETED"); err != nil {
			t.Fatalf("update status: %v", err)
		}
	}

	play("course-1", time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC))
	play("course-2", time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC))

	stats, err := env.stats.GetPlayerStats(t.Context(), owner.ID)
	if err != nil {
		t.Fatalf("get player stats failed: %v", err)
	}
	if stats.BestRound == nil || stats.BestRound.CourseName != "Course course-1" {
		t.Fatalf("best round = %+v, want the earlier round kept on a tie", stats.BestRound)
	}
}

func TestStatsService_GuestScoresDoNotReachUserStats(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "user-1", "casey@example.com", "Casey", "Jordan")
	env.seedCourse(t, "course-1", owner.ID, []int{4})

	r, err := env.rounds.CreateRound(t.Context(), owner, CreateRoundInput{
		CourseID:    "course-1",
		PlayerNames: []string{"Alex"},
	})
	if err != nil {
		t.Fatalf("create round: %v", err)
	}
	if _, err := env.rounds.UpdateRoundStatus(t.Context(), owner.ID, r.ID, "COMPLETED"); err != nil {
		t.Fatalf("update status: %v", err)
	}

	// The guest has no account, so no user accumulates their history.
	stats, err := env.stats.GetPlayerStats(t.Context(), "Alex")
	if err != nil {
		t.Fatalf("get player stats failed: %v", err)
	}
	if stats.TotalRounds != 0 {
		t.Fatalf("guest name resolved to stats: %+v", stats)
	}
}
