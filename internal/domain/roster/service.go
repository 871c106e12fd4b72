package roster

import (
	"context"
	"fmt"
	"strings"

	"certigen/internal/common"
	"certigen/internal/domain/certificate"

	"github.com/google/uuid"
)

// Service wraps the roster store with validation and supplies resolved team
// rosters to the certificate pipeline.
type Service struct {
	store Store
}

// NewService creates a new roster service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

var _ certificate.RosterResolver = (*Service)(nil)

// ResolveTeams loads an event's teams with members, in stored order, and
// marks the selection. An empty teamIDs selects every team (the UI defaults
// all checkboxes to checked).
func (s *Service) ResolveTeams(ctx context.Context, eventID string, teamIDs []string) ([]certificate.Team, error) {
	ev, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("fetching event: %w", err)
	}
	if ev == nil {
		return nil, common.NewNotFoundError("event", eventID)
	}

	teams, err := s.store.ListTeamsByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}

	selected := make(map[string]bool, len(teamIDs))
	for _, id := range teamIDs {
		selected[id] = true
	}

	resolved := make([]certificate.Team, 0, len(teams))
	for _, t := range teams {
		members, err := s.store.ListMembersByTeam(ctx, t.ID)
		if err != nil {
			return nil, fmt.Errorf("listing members of team %s: %w", t.ID, err)
		}

		ct := certificate.Team{
			ID:       t.ID,
			Name:     t.Name,
			Selected: len(teamIDs) == 0 || selected[t.ID],
		}
		for _, m := range members {
			ct.Members = append(ct.Members, certificate.Participant{
				ID:             m.ID,
				DisplayName:    m.Name,
				TeamName:       t.Name,
				ContactAddress: m.Email,
			})
		}
		resolved = append(resolved, ct)
	}

	return resolved, nil
}

// ListEvents returns all events.
func (s *Service) ListEvents(ctx context.Context) ([]*Event, error) {
	events, err := s.store.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return events, nil
}

// CreateEvent validates and persists a new event.
func (s *Service) CreateEvent(ctx context.Context, req *CreateEventRequest) (*Event, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, common.NewValidationError("event name is required")
	}

	ev := &Event{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}
	if err := s.store.CreateEvent(ctx, ev); err != nil {
		return nil, fmt.Errorf("creating event: %w", err)
	}
	return ev, nil
}

// DeleteEvent removes an event.
func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	if err := s.store.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}
	return nil
}

// ListTeams returns an event's teams with members resolved.
func (s *Service) ListTeams(ctx context.Context, eventID string) ([]*Team, error) {
	teams, err := s.store.ListTeamsByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	for _, t := range teams {
		members, err := s.store.ListMembersByTeam(ctx, t.ID)
		if err != nil {
			return nil, fmt.Errorf("listing members of team %s: %w", t.ID, err)
		}
		for _, m := range members {
			t.Members = append(t.Members, *m)
		}
	}
	return teams, nil
}

// CreateTeam validates and persists a new team.
func (s *Service) CreateTeam(ctx context.Context, req *CreateTeamRequest) (*Team, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, common.NewValidationError("team name is required")
	}

	ev, err := s.store.GetEvent(ctx, req.EventID)
	if err != nil {
		return nil, fmt.Errorf("fetching event: %w", err)
	}
	if ev == nil {
		return nil, common.NewNotFoundError("event", req.EventID)
	}

	t := &Team{
		ID:      uuid.New().String(),
		EventID: req.EventID,
		Name:    strings.TrimSpace(req.Name),
	}
	if err := s.store.CreateTeam(ctx, t); err != nil {
		return nil, fmt.Errorf("creating team: %w", err)
	}
	return t, nil
}

// DeleteTeam removes a team.
func (s *Service) DeleteTeam(ctx context.Context, id string) error {
	if err := s.store.DeleteTeam(ctx, id); err != nil {
		return fmt.Errorf("deleting team: %w", err)
	}
	return nil
}

// CreateMember validates and registers a new member.
func (s *Service) CreateMember(ctx context.Context, req *CreateMemberRequest) (*Member, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, common.NewValidationError("member name is required")
	}

	m := &Member{
		ID:            uuid.New().String(),
		TeamID:        req.TeamID,
		Name:          strings.TrimSpace(req.Name),
		ControlNumber: req.ControlNumber,
		Email:         strings.TrimSpace(req.Email),
	}
	if err := s.store.CreateMember(ctx, m); err != nil {
		return nil, fmt.Errorf("creating member: %w", err)
	}
	return m, nil
}

// DeleteMember removes a member.
func (s *Service) DeleteMember(ctx context.Context, id string) error {
	if err := s.store.DeleteMember(ctx, id); err != nil {
		return fmt.Errorf("deleting member: %w", err)
	}
	return nil
}
