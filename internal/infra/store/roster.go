package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"certigen/internal/domain/roster"

	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"
)

const (
	eventTable  = "eventos"
	teamTable   = "equipos"
	memberTable = "integrantes"
)

var _ roster.Store = (*SupabaseRosterStore)(nil)

// SupabaseRosterStore implements the roster Store using the Supabase Go SDK.
// Table and column names match the pre-existing schema of the registration
// frontend.
type SupabaseRosterStore struct {
	client *supa.Client
}

// NewSupabaseRosterStore creates a new Supabase-backed roster store.
func NewSupabaseRosterStore(supabaseURL, serviceKey string) (*SupabaseRosterStore, error) {
	client, err := supa.NewClient(supabaseURL, serviceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating supabase client: %w", err)
	}
	return &SupabaseRosterStore{client: client}, nil
}

type eventRow struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"nombre"`
	Description *string `json:"descripcion,omitempty"`
	CreatedAt   string  `json:"created_at,omitempty"`
}

type teamRow struct {
	ID      string `json:"id,omitempty"`
	EventID string `json:"evento_id"`
	Name    string `json:"nombre"`
}

type memberRow struct {
	ID            string  `json:"id,omitempty"`
	TeamID        string  `json:"equipo_id"`
	Name          string  `json:"nombre"`
	ControlNumber *string `json:"num_control,omitempty"`
	Email         *string `json:"correo,omitempty"`
}

// ListEvents returns all events, newest first.
func (s *SupabaseRosterStore) ListEvents(ctx context.Context) ([]*roster.Event, error) {
	data, _, err := s.client.From(eventTable).
		Select("*", "exact", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}

	var rows []eventRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing events: %w", err)
	}

	events := make([]*roster.Event, len(rows))
	for i, row := range rows {
		events[i] = rowToEvent(&row)
	}
	return events, nil
}

// GetEvent retrieves an event by ID. Returns nil, nil if no record is found.
func (s *SupabaseRosterStore) GetEvent(ctx context.Context, id string) (*roster.Event, error) {
	data, _, err := s.client.From(eventTable).Select("*", "exact", false).Eq("id", id).Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching event: %w", err)
	}

	var rows []eventRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing event: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}
	return rowToEvent(&rows[0]), nil
}

// CreateEvent inserts a new event.
func (s *SupabaseRosterStore) CreateEvent(ctx context.Context, ev *roster.Event) error {
	row := eventRow{ID: ev.ID, Name: ev.Name}
	if ev.Description != "" {
		row.Description = &ev.Description
	}

	var results []eventRow
	data, _, err := s.client.From(eventTable).Insert(row, false, "", "representation", "").Execute()
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	if err := json.Unmarshal(data, &results); err != nil {
		return fmt.Errorf("parsing insert response: %w", err)
	}

	if len(results) > 0 && results[0].CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339Nano, results[0].CreatedAt); err == nil {
			ev.CreatedAt = t
		}
	}
	return nil
}

// DeleteEvent removes an event. Teams and members cascade via FK constraints.
func (s *SupabaseRosterStore) DeleteEvent(ctx context.Context, id string) error {
	_, _, err := s.client.From(eventTable).Delete("", "").Eq("id", id).Execute()
	if err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}
	return nil
}

// ListTeamsByEvent returns the event's teams in stored order, without members.
func (s *SupabaseRosterStore) ListTeamsByEvent(ctx context.Context, eventID string) ([]*roster.Team, error) {
	data, _, err := s.client.From(teamTable).
		Select("*", "exact", false).
		Eq("evento_id", eventID).
		Order("nombre", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}

	var rows []teamRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing teams: %w", err)
	}

	teams := make([]*roster.Team, len(rows))
	for i, row := range rows {
		teams[i] = &roster.Team{ID: row.ID, EventID: row.EventID, Name: row.Name}
	}
	return teams, nil
}

// CreateTeam inserts a new team.
func (s *SupabaseRosterStore) CreateTeam(ctx context.Context, t *roster.Team) error {
	row := teamRow{ID: t.ID, EventID: t.EventID, Name: t.Name}

	_, _, err := s.client.From(teamTable).Insert(row, false, "", "representation", "").Execute()
	if err != nil {
		return fmt.Errorf("inserting team: %w", err)
	}
	return nil
}

// DeleteTeam removes a team.
func (s *SupabaseRosterStore) DeleteTeam(ctx context.Context, id string) error {
	_, _, err := s.client.From(teamTable).Delete("", "").Eq("id", id).Execute()
	if err != nil {
		return fmt.Errorf("deleting team: %w", err)
	}
	return nil
}

// ListMembersByTeam returns the team's members in stored order.
func (s *SupabaseRosterStore) ListMembersByTeam(ctx context.Context, teamID string) ([]*roster.Member, error) {
	data, _, err := s.client.From(memberTable).
		Select("*", "exact", false).
		Eq("equipo_id", teamID).
		Order("nombre", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}

	var rows []memberRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing members: %w", err)
	}

	members := make([]*roster.Member, len(rows))
	for i, row := range rows {
		members[i] = rowToMember(&row)
	}
	return members, nil
}

// CreateMember inserts a new member.
func (s *SupabaseRosterStore) CreateMember(ctx context.Context, m *roster.Member) error {
	row := memberRow{ID: m.ID, TeamID: m.TeamID, Name: m.Name}
	if m.ControlNumber != "" {
		row.ControlNumber = &m.ControlNumber
	}
	if m.Email != "" {
		row.Email = &m.Email
	}

	_, _, err := s.client.From(memberTable).Insert(row, false, "", "representation", "").Execute()
	if err != nil {
		return fmt.Errorf("inserting member: %w", err)
	}
	return nil
}

// DeleteMember removes a member.
func (s *SupabaseRosterStore) DeleteMember(ctx context.Context, id string) error {
	_, _, err := s.client.From(memberTable).Delete("", "").Eq("id", id).Execute()
	if err != nil {
		return fmt.Errorf("deleting member: %w", err)
	}
	return nil
}

func rowToEvent(row *eventRow) *roster.Event {
	ev := &roster.Event{ID: row.ID, Name: row.Name}
	if row.Description != nil {
		ev.Description = *row.Description
	}
	if row.CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339Nano, row.CreatedAt); err == nil {
			ev.CreatedAt = t
		}
	}
	return ev
}

func rowToMember(row *memberRow) *roster.Member {
	m := &roster.Member{ID: row.ID, TeamID: row.TeamID, Name: row.Name}
	if row.ControlNumber != nil {
		m.ControlNumber = *row.ControlNumber
	}
	if row.Email != nil {
		m.Email = *row.Email
	}
	return m
}
