package certificate

import (
	"fmt"
	"regexp"
	"strings"
)

// Participant is one person receiving a certificate. Participants are built
// by flattening team rosters at batch start and are not persisted by this
// package.
type Participant struct {
	ID             string         `json:"id,omitempty"`
	DisplayName    string         `json:"display_name"`
	TeamName       string         `json:"team_name"`
	ContactAddress string         `json:"contact_address,omitempty"`
	Attributes     map[string]any `json:"attributes,omitempty"`
}

// Team is a selectable group of participants. A team with Selected == false
// contributes no participants to a batch.
type Team struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Members  []Participant `json:"members"`
	Selected bool          `json:"selected"`
}

// RenderedCertificate is one finished document for one participant.
// Immutable once produced.
type RenderedCertificate struct {
	Participant       Participant
	DocumentBytes     []byte
	SuggestedFileName string
}

// Failure records one participant whose certificate could not be produced.
type Failure struct {
	Participant Participant
	ErrorKind   string
	Err         error
}

// Error kinds recorded in batch failures.
const (
	FailureKindValidation = "validation"
	FailureKindRender     = "render"
)

// BatchResult aggregates the outcome of one batch run. Certificate order
// always matches the flattened participant order.
type BatchResult struct {
	Certificates []RenderedCertificate
	Failures     []Failure
}

// RenderOptions carries per-batch rendering knobs.
type RenderOptions struct {
	// Message is an optional personalized text drawn beneath the name in the
	// draw strategy, word-wrapped to fit the page.
	Message string
}

// DeliveryReport aggregates the outcome of dispatching a batch to the mail
// relay. Participants without a contact address are skipped, not failed.
type DeliveryReport struct {
	Attempted int `json:"attempted"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// ArchiveFileName derives the deterministic archive entry name for a
// participant: Constancia_{team}_{name}.pdf with whitespace runs replaced by
// underscores.
func ArchiveFileName(p Participant) string {
	team := whitespaceRun.ReplaceAllString(strings.TrimSpace(p.TeamName), "_")
	name := whitespaceRun.ReplaceAllString(strings.TrimSpace(p.DisplayName), "_")
	return fmt.Sprintf("Constancia_%s_%s.pdf", team, name)
}

// Flatten expands the selected teams into a single participant list,
// preserving team order and member order within each team. Each member is
// stamped with its team's name.
func Flatten(teams []Team) []Participant {
	var participants []Participant
	for _, team := range teams {
		if !team.Selected {
			continue
		}
		for _, m := range team.Members {
			p := m
			p.TeamName = team.Name
			participants = append(participants, p)
		}
	}
	return participants
}
