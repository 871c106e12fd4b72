package roster

import "context"

// Store defines the contract for the events/teams/members collections.
// Implementations live in infra/store.
type Store interface {
	ListEvents(ctx context.Context) ([]*Event, error)
	GetEvent(ctx context.Context, id string) (*Event, error)
	CreateEvent(ctx context.Context, ev *Event) error
	DeleteEvent(ctx context.Context, id string) error

	// ListTeamsByEvent returns the event's teams in stored order, without
	// members.
	ListTeamsByEvent(ctx context.Context, eventID string) ([]*Team, error)
	CreateTeam(ctx context.Context, t *Team) error
	DeleteTeam(ctx context.Context, id string) error

	// ListMembersByTeam returns the team's members in stored order.
	ListMembersByTeam(ctx context.Context, teamID string) ([]*Member, error)
	CreateMember(ctx context.Context, m *Member) error
	DeleteMember(ctx context.Context, id string) error
}
