package course

import (
	"fmt"
	"strings"
	"time"
)

const (
	MinHoleCount = 1
	MaxHoleCount = 36
	MinPar       = 2
	MaxPar       = 8
	DefaultPar   = 3
)

// Course is a golf course owned by a user, with an ordered set of holes
// numbered 1..HoleCount.
type Course struct {
	ID          string
	Name        string
	Location    string
	Description string
	HoleCount   int
	OwnerID     string
	CreatedAt   time.Time
	Holes       []Hole
}

// Hole belongs to exactly one course. LengthFeet is 0 when unknown.
type Hole struct {
	ID         string
	CourseID   string
	Number     int
	Par        int
	LengthFeet int
}

func (c Course) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("course id is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("course name is required")
	}
	if strings.TrimSpace(c.OwnerID) == "" {
		return fmt.Errorf("course owner is required")
	}
	if c.HoleCount < MinHoleCount || c.HoleCount > MaxHoleCount {
		return fmt.Errorf("course hole count must be between %d and %d", MinHoleCount, MaxHoleCount)
	}
	if len(c.Holes) != c.HoleCount {
		return fmt.Errorf("course must have exactly %d holes, got %d", c.HoleCount, len(c.Holes))
	}
	for i, h := range c.Holes {
		if h.Number != i+1 {
			return fmt.Errorf("hole numbers must be contiguous from 1, got %d at position %d", h.Number, i)
		}
		if h.Par < MinPar || h.Par > MaxPar {
			return fmt.Errorf("hole %d par must be between %d and %d", h.Number, MinPar, MaxPar)
		}
	}

	return nil
}

// HoleByID returns the hole with the given id, if present.
func (c Course) HoleByID(holeID string) (Hole, bool) {
	for _, h := range c.Holes {
		if h.ID == holeID {
			return h, true
		}
	}
	return Hole{}, false
}

// SortField is a whitelisted course search sort key.
type SortField string

const (
	SortByName      SortField = "name"
	SortByLocation  SortField = "location"
	SortByHoleCount SortField = "holeCount"
	SortByCreatedAt SortField = "createdAt"
)

func ParseSortField(raw string) (SortField, error) {
	switch SortField(strings.TrimSpace(raw)) {
	case SortByName:
		return SortByName, nil
	case SortByLocation:
		return SortByLocation, nil
	case SortByHoleCount:
		return SortByHoleCount, nil
	case SortByCreatedAt, "":
		return SortByCreatedAt, nil
	}
	return "", fmt.Errorf("unknown sort field %q", raw)
}

// SearchFilter narrows and orders course search results.
type SearchFilter struct {
	Query    string
	MinHoles int
	MaxHoles int
	SortBy   SortField
	SortDesc bool
}
