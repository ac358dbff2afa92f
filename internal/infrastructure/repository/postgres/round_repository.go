package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/thudson/golf-scorecard/internal/domain/course"
	"github.com/thudson/golf-scorecard/internal/domain/round"
	qb "github.com/thudson/golf-scorecard/internal/platform/querybuilder"
)

type roundTableModel struct {
	ID        int64     `db:"id"`
	PublicID  string    `db:"public_id"`
	CourseID  string    `db:"course_public_id"`
	OwnerID   string    `db:"owner_public_id"`
	Date      time.Time `db:"date"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

type playerTableModel struct {
	ID       int64          `db:"id"`
	PublicID string         `db:"public_id"`
	RoundID  string         `db:"round_public_id"`
	Name     string         `db:"name"`
	UserID   sql.NullString `db:"user_public_id"`
}

func (m playerTableModel) toDomain() round.Player {
	return round.Player{
		ID:      m.PublicID,
		RoundID: m.RoundID,
		Name:    m.Name,
		UserID:  m.UserID.String,
	}
}

type scoreWithHoleModel struct {
	PublicID   string `db:"public_id"`
	PlayerID   string `db:"player_public_id"`
	HoleID     string `db:"hole_public_id"`
	Strokes    int    `db:"strokes"`
	HoleNumber int    `db:"hole_number"`
	Par        int    `db:"par"`
	LengthFeet int    `db:"length_feet"`
	CourseID   string `db:"course_public_id"`
}

func (m scoreWithHoleModel) toDomain() round.Score {
	return round.Score{
		ID:       m.PublicID,
		PlayerID: m.PlayerID,
		HoleID:   m.HoleID,
		Strokes:  m.Strokes,
		Hole: course.Hole{
			ID:         m.HoleID,
			CourseID:   m.CourseID,
			Number:     m.HoleNumber,
			Par:        m.Par,
			LengthFeet: m.LengthFeet,
		},
	}
}

// RoundRepository persists round aggregates. Create and CreatePlayer write
// the whole aggregate, score skeleton included, inside one transaction so a
// concurrent reader never sees a partial score set.
type RoundRepository struct {
	db      *sqlx.DB
	courses *CourseRepository
}

func NewRoundRepository(db *sqlx.DB) *RoundRepository {
	return &RoundRepository{db: db, courses: NewCourseRepository(db)}
}

func (r *RoundRepository) Create(ctx context.Context, item round.Round) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for round create: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const roundQuery = `
INSERT INTO rounds (public_id, course_public_id, owner_public_id, date, status, created_at)
VALUES (:public_id, :course_public_id, :owner_public_id, :date, :status, :created_at)`

	roundSQL, roundArgs, err := sqlx.Named(roundQuery, map[string]any{
		"public_id":        item.ID,
		"course_public_id": item.CourseID,
		"owner_public_id":  item.OwnerID,
		"date":             item.Date,
		"status":           string(item.Status),
		"created_at":       item.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("bind insert round query: %w", err)
	}
	roundSQL = tx.Rebind(roundSQL)
	if _, err := tx.ExecContext(ctx, roundSQL, roundArgs...); err != nil {
		return fmt.Errorf("insert round: %w", err)
	}

	if len(item.ParticipantIDs) > 0 {
		participantsInsert := qb.InsertInto("round_participants").
			Columns("round_public_id", "user_public_id").
			Suffix("ON CONFLICT DO NOTHING")
		for _, userID := range item.ParticipantIDs {
			participantsInsert.Values(item.ID, userID)
		}
		participantsSQL, participantsArgs, err := participantsInsert.ToSQL()
		if err != nil {
			return fmt.Errorf("build insert participants query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, participantsSQL, participantsArgs...); err != nil {
			return fmt.Errorf("insert participants: %w", err)
		}
	}

	for _, p := range item.Players {
		if err := insertPlayerTx(ctx, tx, p); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit round create: %w", err)
	}

	return nil
}

func (r *RoundRepository) GetByID(ctx context.Context, roundID string) (round.Round, bool, error) {
	const query = `
SELECT id, public_id, course_public_id, owner_public_id, date, status, created_at
FROM rounds
WHERE public_id = $1`

	var row roundTableModel
	if err := r.db.GetContext(ctx, &row, query, roundID); err != nil {
		if isNotFound(err) {
			return round.Round{}, false, nil
		}
		return round.Round{}, false, fmt.Errorf("get round by id: %w", err)
	}

	item, err := r.hydrateRound(ctx, row)
	if err != nil {
		return round.Round{}, false, err
	}

	return item, true, nil
}

func (r *RoundRepository) ListByUser(ctx context.Context, userID string) ([]round.Round, error) {
	const query = `
SELECT r.id, r.public_id, r.course_public_id, r.owner_public_id, r.date, r.status, r.created_at
FROM rounds r
WHERE r.owner_public_id = $1
   OR EXISTS (
        SELECT 1 FROM round_participants rp
        WHERE rp.round_public_id = r.public_id AND rp.user_public_id = $1
      )
ORDER BY r.date DESC, r.id DESC`

	var rows []roundTableModel
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("select rounds by user: %w", err)
	}

	out := make([]round.Round, 0, len(rows))
	for _, row := range rows {
		item, err := r.hydrateRound(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}

	return out, nil
}

func (r *RoundRepository) UpdateStatus(ctx context.Context, roundID string, status round.Status) error {
	const query = `UPDATE rounds SET status = $1 WHERE public_id = $2`

	if _, err := r.db.ExecContext(ctx, query, string(status), roundID); err != nil {
		return fmt.Errorf("update round status: %w", err)
	}

	return nil
}

// CreatePlayer writes the player, their score skeleton, and for registered
// users the participant grant in one transaction, so a failed insert never
// leaves a participant without a scorecard line.
func (r *RoundRepository) CreatePlayer(ctx context.Context, p round.Player) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for player create: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if p.UserID != "" {
		const participantQuery = `
INSERT INTO round_participants (round_public_id, user_public_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING`
		if _, err := tx.ExecContext(ctx, participantQuery, p.RoundID, p.UserID); err != nil {
			return fmt.Errorf("insert participant: %w", err)
		}
	}

	if err := insertPlayerTx(ctx, tx, p); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit player create: %w", err)
	}

	return nil
}

func (r *RoundRepository) GetPlayer(ctx context.Context, roundID, playerID string) (round.Player, bool, error) {
	const query = `
SELECT id, public_id, round_public_id, name, user_public_id
FROM players
WHERE public_id = $1 AND round_public_id = $2`

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, playerID, roundID); err != nil {
		if isNotFound(err) {
			return round.Player{}, false, nil
		}
		return round.Player{}, false, fmt.Errorf("get player: %w", err)
	}

	scoresByPlayer, err := r.loadScores(ctx, []any{row.PublicID})
	if err != nil {
		return round.Player{}, false, err
	}

	p := row.toDomain()
	p.Scores = scoresByPlayer[p.ID]
	return p, true, nil
}

func (r *RoundRepository) ListPlayerRounds(ctx context.Context, userID string, status round.Status) ([]round.PlayerRound, error) {
	query := `
SELECT p.id, p.public_id, p.round_public_id, p.name, p.user_public_id,
       r.date AS round_date, r.status AS round_status,
       c.public_id AS course_public_id, c.name AS course_name
FROM players p
JOIN rounds r ON r.public_id = p.round_public_id
JOIN courses c ON c.public_id = r.course_public_id
WHERE p.user_public_id = $1`
	args := []any{userID}
	if status != "" {
		query += ` AND r.status = $2`
		args = append(args, string(status))
	}
	query += ` ORDER BY r.date ASC, r.id ASC, p.id ASC`

	var rows []struct {
		playerTableModel
		RoundDate   time.Time `db:"round_date"`
		RoundStatus string    `db:"round_status"`
		CourseID    string    `db:"course_public_id"`
		CourseName  string    `db:"course_name"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select player rounds: %w", err)
	}

	playerIDs := make([]any, 0, len(rows))
	for _, row := range rows {
		playerIDs = append(playerIDs, row.PublicID)
	}
	scoresByPlayer, err := r.loadScores(ctx, playerIDs)
	if err != nil {
		return nil, err
	}

	out := make([]round.PlayerRound, 0, len(rows))
	for _, row := range rows {
		p := row.playerTableModel.toDomain()
		p.Scores = scoresByPlayer[p.ID]
		out = append(out, round.PlayerRound{
			Player:      p,
			RoundID:     row.RoundID,
			RoundDate:   row.RoundDate,
			RoundStatus: round.Status(row.RoundStatus),
			CourseID:    row.CourseID,
			CourseName:  row.CourseName,
		})
	}

	return out, nil
}

func (r *RoundRepository) GetScore(ctx context.Context, playerID, holeID string) (round.Score, bool, error) {
	const query = `
SELECT s.public_id, s.player_public_id, s.hole_public_id, s.strokes,
       h.hole_number, h.par, h.length_feet, h.course_public_id
FROM scores s
JOIN holes h ON h.public_id = s.hole_public_id
WHERE s.player_public_id = $1 AND s.hole_public_id = $2`

	var row scoreWithHoleModel
	if err := r.db.GetContext(ctx, &row, query, playerID, holeID); err != nil {
		if isNotFound(err) {
			return round.Score{}, false, nil
		}
		return round.Score{}, false, fmt.Errorf("get score: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *RoundRepository) CreateScore(ctx context.Context, s round.Score) error {
	const query = `
INSERT INTO scores (public_id, player_public_id, hole_public_id, strokes)
VALUES ($1, $2, $3, $4)`

	if _, err := r.db.ExecContext(ctx, query, s.ID, s.PlayerID, s.HoleID, s.Strokes); err != nil {
		return fmt.Errorf("insert score: %w", err)
	}

	return nil
}

func (r *RoundRepository) UpdateScoreStrokes(ctx context.Context, scoreID string, strokes int) error {
	const query = `UPDATE scores SET strokes = $1 WHERE public_id = $2`

	if _, err := r.db.ExecContext(ctx, query, strokes, scoreID); err != nil {
		return fmt.Errorf("update score strokes: %w", err)
	}

	return nil
}

// insertPlayerTx writes one player and their score skeleton inside the
// caller's transaction.
func insertPlayerTx(ctx context.Context, tx *sqlx.Tx, p round.Player) error {
	const playerQuery = `
INSERT INTO players (public_id, round_public_id, name, user_public_id)
VALUES (:public_id, :round_public_id, :name, :user_public_id)`

	var userID any
	if p.UserID != "" {
		userID = p.UserID
	}
	playerSQL, playerArgs, err := sqlx.Named(playerQuery, map[string]any{
		"public_id":       p.ID,
		"round_public_id": p.RoundID,
		"name":            p.Name,
		"user_public_id":  userID,
	})
	if err != nil {
		return fmt.Errorf("bind insert player query: %w", err)
	}
	playerSQL = tx.Rebind(playerSQL)
	if _, err := tx.ExecContext(ctx, playerSQL, playerArgs...); err != nil {
		return fmt.Errorf("insert player %s: %w", p.ID, err)
	}

	if len(p.Scores) == 0 {
		return nil
	}

	scoresInsert := qb.InsertInto("scores").
		Columns("public_id", "player_public_id", "hole_public_id", "strokes")
	for _, s := range p.Scores {
		scoresInsert.Values(s.ID, p.ID, s.HoleID, s.Strokes)
	}
	scoresSQL, scoresArgs, err := scoresInsert.ToSQL()
	if err != nil {
		return fmt.Errorf("build insert scores query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, scoresSQL, scoresArgs...); err != nil {
		return fmt.Errorf("insert scores for player %s: %w", p.ID, err)
	}

	return nil
}

// hydrateRound attaches participants, players with scores, and the course
// graph to a round row.
func (r *RoundRepository) hydrateRound(ctx context.Context, row roundTableModel) (round.Round, error) {
	item := round.Round{
		ID:        row.PublicID,
		CourseID:  row.CourseID,
		OwnerID:   row.OwnerID,
		Date:      row.Date,
		Status:    round.Status(row.Status),
		CreatedAt: row.CreatedAt,
	}

	const participantsQuery = `
SELECT user_public_id
FROM round_participants
WHERE round_public_id = $1
ORDER BY id ASC`
	if err := r.db.SelectContext(ctx, &item.ParticipantIDs, participantsQuery, row.PublicID); err != nil {
		return round.Round{}, fmt.Errorf("select participants: %w", err)
	}

	c, found, err := r.courses.GetByID(ctx, row.CourseID)
	if err != nil {
		return round.Round{}, err
	}
	if found {
		item.Course = c
	}

	const playersQuery = `
SELECT id, public_id, round_public_id, name, user_public_id
FROM players
WHERE round_public_id = $1
ORDER BY id ASC`
	var playerRows []playerTableModel
	if err := r.db.SelectContext(ctx, &playerRows, playersQuery, row.PublicID); err != nil {
		return round.Round{}, fmt.Errorf("select players: %w", err)
	}

	playerIDs := make([]any, 0, len(playerRows))
	for _, p := range playerRows {
		playerIDs = append(playerIDs, p.PublicID)
	}
	scoresByPlayer, err := r.loadScores(ctx, playerIDs)
	if err != nil {
		return round.Round{}, err
	}

	item.Players = make([]round.Player, 0, len(playerRows))
	for _, pr := range playerRows {
		p := pr.toDomain()
		p.Scores = scoresByPlayer[p.ID]
		item.Players = append(item.Players, p)
	}

	return item, nil
}

// loadScores fetches scores with their holes for a set of players, keyed by
// player id and ordered by hole number.
func (r *RoundRepository) loadScores(ctx context.Context, playerIDs []any) (map[string][]round.Score, error) {
	out := make(map[string][]round.Score, len(playerIDs))
	if len(playerIDs) == 0 {
		return out, nil
	}

	query, args, err := qb.Select(
		"s.public_id", "s.player_public_id", "s.hole_public_id", "s.strokes",
		"h.hole_number", "h.par", "h.length_feet", "h.course_public_id",
	).From("scores s JOIN holes h ON h.public_id = s.hole_public_id").
		Where(qb.In("s.player_public_id", playerIDs)).
		OrderBy("s.player_public_id", "h.hole_number ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select scores query: %w", err)
	}

	var rows []scoreWithHoleModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select scores: %w", err)
	}

	for _, row := range rows {
		out[row.PlayerID] = append(out[row.PlayerID], row.toDomain())
	}

	return out, nil
}
