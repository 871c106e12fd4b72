package certificate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArchiveFileName(t *testing.T) {
	tests := []struct {
		name     string
		p        Participant
		expected string
	}{
		{
			name:     "simple",
			p:        Participant{DisplayName: "Ana", TeamName: "Robotica"},
			expected: "Constancia_Robotica_Ana.pdf",
		},
		{
			name:     "spaces become underscores",
			p:        Participant{DisplayName: "Juan Pérez López", TeamName: "Los Bits"},
			expected: "Constancia_Los_Bits_Juan_Pérez_López.pdf",
		},
		{
			name:     "whitespace runs collapse to one underscore",
			p:        Participant{DisplayName: "Ana\t  María", TeamName: "Equipo   Uno"},
			expected: "Constancia_Equipo_Uno_Ana_María.pdf",
		},
		{
			name:     "surrounding whitespace trimmed",
			p:        Participant{DisplayName: "  Ana  ", TeamName: " Alfa "},
			expected: "Constancia_Alfa_Ana.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ArchiveFileName(tt.p))
		})
	}
}

func TestFlatten(t *testing.T) {
	teams := []Team{
		{
			ID: "t1", Name: "Alfa", Selected: true,
			Members: []Participant{
				{ID: "m1", DisplayName: "Ana"},
				{ID: "m2", DisplayName: "Beto"},
			},
		},
		{
			ID: "t2", Name: "Beta", Selected: false,
			Members: []Participant{
				{ID: "m3", DisplayName: "Carla"},
			},
		},
		{
			ID: "t3", Name: "Gamma", Selected: true,
			Members: []Participant{
				{ID: "m4", DisplayName: "Dino"},
			},
		},
	}

	got := Flatten(teams)

	assert.Len(t, got, 3, "unselected teams contribute no participants")
	assert.Equal(t, []string{"Ana", "Beto", "Dino"}, []string{got[0].DisplayName, got[1].DisplayName, got[2].DisplayName}, "team then member order is preserved")

	// Every participant is stamped with its team's name.
	assert.Equal(t, "Alfa", got[0].TeamName)
	assert.Equal(t, "Alfa", got[1].TeamName)
	assert.Equal(t, "Gamma", got[2].TeamName)
}

func TestFlattenEmpty(t *testing.T) {
	assert.Empty(t, Flatten(nil))
	assert.Empty(t, Flatten([]Team{{ID: "t1", Name: "Alfa", Selected: false, Members: []Participant{{DisplayName: "Ana"}}}}))
	assert.Empty(t, Flatten([]Team{{ID: "t1", Name: "Alfa", Selected: true}}), "selected team with no members")
}
