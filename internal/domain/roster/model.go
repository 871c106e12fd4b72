package roster

import "time"

// Event is a competition/academic event owning teams.
type Event struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Team belongs to an event and groups members.
type Team struct {
	ID      string `json:"id"`
	EventID string `json:"event_id"`
	Name    string `json:"name"`

	// Members is populated on reads that resolve the full roster.
	Members []Member `json:"members,omitempty"`
}

// Member is one registered participant of a team. Email is optional; members
// without one still receive archive entries but no delivery.
type Member struct {
	ID            string `json:"id"`
	TeamID        string `json:"team_id"`
	Name          string `json:"name"`
	ControlNumber string `json:"control_number,omitempty"`
	Email         string `json:"email,omitempty"`
}

// CreateEventRequest is the payload for creating an event.
type CreateEventRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateTeamRequest is the payload for creating a team.
type CreateTeamRequest struct {
	EventID string `json:"event_id" binding:"required"`
	Name    string `json:"name" binding:"required"`
}

// CreateMemberRequest is the payload for registering a member.
type CreateMemberRequest struct {
	TeamID        string `json:"team_id" binding:"required"`
	Name          string `json:"name" binding:"required"`
	ControlNumber string `json:"control_number"`
	Email         string `json:"email"`
}
