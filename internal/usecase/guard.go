package usecase

import (
	"github.com/thudson/golf-scorecard/internal/domain/course"
	"github.com/thudson/golf-scorecard/internal/domain/round"
)

// Guard decides whether an acting user may read or mutate a course or round.
// Existence is checked by callers before the guard runs, so a missing
// resource surfaces as ErrNotFound rather than ErrForbidden.
type Guard struct{}

// CanViewRound permits the owner and named participants. Being listed as a
// guest player grants no rights.
func (Guard) CanViewRound(actorID string, r round.Round) bool {
	return r.HasParticipant(actorID)
}

// CanMutateRound mirrors CanViewRound: the round's member set both reads and
// writes.
func (Guard) CanMutateRound(actorID string, r round.Round) bool {
	return r.HasParticipant(actorID)
}

// CanMutateCourse permits only the course owner.
func (Guard) CanMutateCourse(actorID string, c course.Course) bool {
	return actorID != "" && c.OwnerID == actorID
}
