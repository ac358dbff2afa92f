package round

import (
	"fmt"
	"strings"
	"time"

	"github.com/thudson/golf-scorecard/internal/domain/course"
)

// Status is the lifecycle state of a round. Any status may move to any other;
// there is deliberately no forward-only state machine.
type Status string

const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCanceled   Status = "CANCELED"
)

func ParseStatus(raw string) (Status, error) {
	switch Status(strings.TrimSpace(raw)) {
	case StatusInProgress:
		return StatusInProgress, nil
	case StatusCompleted:
		return StatusCompleted, nil
	case StatusCanceled:
		return StatusCanceled, nil
	}
	return "", fmt.Errorf("unknown round status %q", raw)
}

const (
	// StrokesUnplayed marks a hole that has not been scored yet. It is a
	// sentinel, not a legal stroke count, and is excluded from aggregates.
	StrokesUnplayed = 0
	MaxStrokes      = 99
)

// Round is a single playing session of one course. Participants are
// registered users with view/mutate rights; players are the scorecard lines.
type Round struct {
	ID             string
	CourseID       string
	OwnerID        string
	Date           time.Time
	Status         Status
	ParticipantIDs []string
	Players        []Player
	Course         course.Course
	CreatedAt      time.Time
}

// Player is one line of the scorecard. UserID is empty for guests.
type Player struct {
	ID      string
	RoundID string
	Name    string
	UserID  string
	Scores  []Score
}

// Score is the stroke count for one player on one hole.
type Score struct {
	ID       string
	PlayerID string
	HoleID   string
	Strokes  int
	Hole     course.Hole
}

// HasParticipant reports whether the given user is the owner or a named
// participant of the round.
func (r Round) HasParticipant(userID string) bool {
	if userID == "" {
		return false
	}
	if r.OwnerID == userID {
		return true
	}
	for _, id := range r.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// PlayerByID returns the round's player with the given id, if present.
func (r Round) PlayerByID(playerID string) (Player, bool) {
	for _, p := range r.Players {
		if p.ID == playerID {
			return p, true
		}
	}
	return Player{}, false
}

func (r Round) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("round id is required")
	}
	if strings.TrimSpace(r.CourseID) == "" {
		return fmt.Errorf("round course id is required")
	}
	if strings.TrimSpace(r.OwnerID) == "" {
		return fmt.Errorf("round owner id is required")
	}
	if _, err := ParseStatus(string(r.Status)); err != nil {
		return err
	}
	if !r.HasParticipant(r.OwnerID) {
		return fmt.Errorf("round owner must be a participant")
	}

	return nil
}

// PlayerRound is a player's appearance in one round, flattened for history
// queries: the scorecard line plus the round and course context it belongs to.
type PlayerRound struct {
	Player      Player
	RoundID     string
	RoundDate   time.Time
	RoundStatus Status
	CourseID    string
	CourseName  string
}
