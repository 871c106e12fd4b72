package certificate

import (
	"context"
	"errors"
	"strings"

	"certigen/internal/common"
)

// Renderer produces one finished certificate per participant. It enforces
// the render preconditions (non-empty trimmed name and team) and the
// postcondition that the output is a complete, plausible PDF.
type Renderer struct {
	engine   Engine
	minBytes int
}

// DefaultMinPDFBytes is the smallest output accepted as a complete document.
// Anything shorter is treated as a truncated render, not a success.
const DefaultMinPDFBytes = 512

// NewRenderer creates a renderer over the given engine. minBytes <= 0 selects
// the default minimum output size.
func NewRenderer(engine Engine, minBytes int) *Renderer {
	if minBytes <= 0 {
		minBytes = DefaultMinPDFBytes
	}
	return &Renderer{engine: engine, minBytes: minBytes}
}

// Render validates the participant, renders the document and checks the
// output. Failures carry the participant's display name; they are contained
// per participant by the batch orchestrator and never abort sibling renders.
func (r *Renderer) Render(ctx context.Context, tmpl *Template, strategy Strategy, p Participant, opts RenderOptions) (RenderedCertificate, error) {
	name := strings.TrimSpace(p.DisplayName)
	team := strings.TrimSpace(p.TeamName)
	if name == "" {
		return RenderedCertificate{}, common.NewValidationError("participant is missing a display name")
	}
	if team == "" {
		return RenderedCertificate{}, common.NewValidationError("participant '" + name + "' is missing a team name")
	}

	out, err := r.engine.Render(ctx, tmpl, strategy, p, opts)
	if err != nil {
		return RenderedCertificate{}, common.NewRenderError(name, err.Error())
	}

	if len(out) < r.minBytes || !HasPDFHeader(out) {
		return RenderedCertificate{}, common.NewRenderError(name, "output is not a complete PDF document")
	}

	return RenderedCertificate{
		Participant:       p,
		DocumentBytes:     out,
		SuggestedFileName: ArchiveFileName(p),
	}, nil
}

// failureKind classifies a render failure for the batch result.
func failureKind(err error) string {
	var validation *common.ValidationError
	if errors.As(err, &validation) {
		return FailureKindValidation
	}
	return FailureKindRender
}
