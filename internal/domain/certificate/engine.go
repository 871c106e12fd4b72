package certificate

import "context"

// StrategyKind identifies how participant data is injected into a template.
type StrategyKind string

const (
	// StrategyFields binds named form fields on the template.
	StrategyFields StrategyKind = "fields"

	// StrategyDraw draws centered text on the first page.
	StrategyDraw StrategyKind = "draw"
)

// Strategy is the resolved field/drawing plan for a template. Resolved once
// per batch, before any participant is rendered.
type Strategy struct {
	Kind StrategyKind `json:"kind"`

	// Bound form field names, set when Kind == StrategyFields. An unmatched
	// category is left empty and that value is not injected.
	NameField string `json:"name_field,omitempty"`
	TeamField string `json:"team_field,omitempty"`

	// First page geometry, set when Kind == StrategyDraw.
	Page       int     `json:"page,omitempty"`
	PageWidth  float64 `json:"page_width,omitempty"`
	PageHeight float64 `json:"page_height,omitempty"`
}

// Engine is the PDF manipulation port. Implementations live in infra/pdf.
type Engine interface {
	// Resolve inspects the template's form fields and decides the injection
	// strategy for the whole batch.
	Resolve(ctx context.Context, tmpl *Template) (Strategy, error)

	// Render produces one finished document for one participant. The
	// template bytes are cloned per call; output is independent of any other
	// render.
	Render(ctx context.Context, tmpl *Template, strategy Strategy, p Participant, opts RenderOptions) ([]byte, error)
}

// Packager accumulates rendered certificates into a single downloadable
// archive. Implementations live in infra/archive.
type Packager interface {
	Package(certs []RenderedCertificate) ([]byte, error)
}
