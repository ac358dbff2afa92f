package round

import "context"

// Repository describes round persistence needs from use cases.
//
// Create and CreatePlayer persist the aggregate they are given atomically:
// the round (or player) together with its full zero-stroke score skeleton,
// and for a player with a user id, the participant grant as well. A
// concurrent reader must never observe a round whose score set does not
// cover the cartesian product of its players and course holes, nor a
// registered player line without its participant row.
type Repository interface {
	Create(ctx context.Context, r Round) error
	GetByID(ctx context.Context, roundID string) (Round, bool, error)
	ListByUser(ctx context.Context, userID string) ([]Round, error)
	UpdateStatus(ctx context.Context, roundID string, status Status) error

	CreatePlayer(ctx context.Context, p Player) error
	GetPlayer(ctx context.Context, roundID, playerID string) (Player, bool, error)
	ListPlayerRounds(ctx context.Context, userID string, status Status) ([]PlayerRound, error)

	GetScore(ctx context.Context, playerID, holeID string) (Score, bool, error)
	CreateScore(ctx context.Context, s Score) error
	UpdateScoreStrokes(ctx context.Context, scoreID string, strokes int) error
}
