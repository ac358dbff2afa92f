package usecase

import (
	"testing"

	"github.com/thudson/golf-scorecard/internal/domain/course"
	"github.com/thudson/golf-scorecard/internal/domain/round"
)

func TestGuard_RoundAccess(t *testing.T) {
	r := round.Round{
		ID:             "round-1",
		OwnerID:        "owner-1",
		ParticipantIDs: []string{"owner-1", "friend-1"},
		Players: []round.Player{
			{ID: "p1", Name: "Owner", UserID: "owner-1"},
			{ID: "p2", Name: "Alex"}, // guest, no account
		},
	}

	var guard Guard

	cases := []struct {
		name    string
		actorID string
		want    bool
	}{
		{name: "owner", actorID: "owner-1", want: true},
		{name: "participant", actorID: "friend-1", want: true},
		{name: "stranger", actorID: "stranger-1", want: false},
		{name: "empty actor", actorID: "", want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := guard.CanViewRound(tc.actorID, r); got != tc.want {
				t.Fatalf("CanViewRound(%q) = %t, want %t", tc.actorID, got, tc.want)
			}
			if got := guard.CanMutateRound(tc.actorID, r); got != tc.want {
				t.Fatalf("CanMutateRound(%q) = %t, want %t", tc.actorID, got, tc.want)
			}
		})
	}
}

func TestGuard_GuestPlayerHasNoRights(t *testing.T) {
	// A user referenced by a player record but absent from participants must
	// not see the round.
	r := round.Round{
		ID:             "round-1",
		OwnerID:        "owner-1",
		ParticipantIDs: []string{"owner-1"},
		Players: []round.Player{
			{ID: "p1", Name: "Owner", UserID: "owner-1"},
			{ID: "p2", Name: "Casey", UserID: "casey-1"},
		},
	}

	var guard Guard
	if guard.CanViewRound("casey-1", r) {
		t.Fatal("player-only user must not view the round")
	}
}

func TestGuard_CourseMutation(t *testing.T) {
	c := course.Course{ID: "course-1", OwnerID: "owner-1"}

	var guard Guard
	if !guard.CanMutateCourse("owner-1", c) {
		t.Fatal("owner must be able to mutate the course")
	}
	if guard.CanMutateCourse("other-1", c) {
		t.Fatal("non-owner must not mutate the course")
	}
	if guard.CanMutateCourse("", c) {
		t.Fatal("empty actor must not mutate the course")
	}
}
