package models

// Project is a collaborative scope for shared expenses.
type Project struct {
	// ID is the unique identifier for the project (UUID format).
	ID string

	// Name is the display name of the project (e.g., "Roommates", "Ski trip").
	Name string

	// Description is optional free text.
	Description string

	// CreatedBy is the user ID of the project creator.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the project was created.
	CreatedAt int64

	// Participants lists every user who ever joined, active or not.
	Participants []Participant
}

// Participant is a user's membership in a project.
type Participant struct {
	UserID string

	// Name is the user's current display name.
	Name string

	// Active is false after the user left or was removed. The row is kept
	// so their historical purchases and payments stay attributable.
	Active bool

	// JoinedAt is the Unix timestamp of the first join.
	JoinedAt int64
}

// IsActiveParticipant reports whether userID is an active participant.
func (p *Project) IsActiveParticipant(userID string) bool {
	for _, part := range p.Participants {
		if part.UserID == userID {
			return part.Active
		}
	}
	return false
}

// ActiveCount returns the number of active participants.
func (p *Project) ActiveCount() int {
	n := 0
	for _, part := range p.Participants {
		if part.Active {
			n++
		}
	}
	return n
}
