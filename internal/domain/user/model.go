package user

import (
	"fmt"
	"strings"
	"time"
)

// User is a registered account. Users own courses and rounds and may appear
// in rounds as participants or named players.
type User struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	CreatedAt    time.Time
}

// DisplayName is the name shown on scorecards: "First Last" trimmed, falling
// back to the email address when both name parts are blank.
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

func (u User) Validate() error {
	if strings.TrimSpace(u.ID) == "" {
		return fmt.Errorf("user id is required")
	}
	if strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("user email is required")
	}
	if u.PasswordHash == "" {
		return fmt.Errorf("user password hash is required")
	}

	return nil
}

// Principal is the already-authenticated actor identity handed to domain
// operations. It never carries credentials.
type Principal struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
}

func (p Principal) DisplayName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return p.Email
	}
	return name
}

// ActivityCounts summarizes a user's footprint across the system.
type ActivityCounts struct {
	CoursesCreated     int
	RoundsOwned        int
	RoundsParticipated int
	PlayerAppearances  int
}
