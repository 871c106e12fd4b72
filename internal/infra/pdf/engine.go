package pdf

import (
	"context"
	"fmt"
	"strings"

	"certigen/internal/domain/certificate"
)

var _ certificate.Engine = (*Engine)(nil)

// Config holds rendering knobs for the PDF engine.
type Config struct {
	// FontPath is an optional TTF embedded into drawn certificates. When
	// empty or unreadable the engine falls back to the built-in Helvetica.
	FontPath    string
	NameSize    float64
	TeamSize    float64
	MessageSize float64
}

// Engine implements the certificate rendering port. Templates with named
// form fields are populated and locked via pdfcpu; templates without fields
// get centered text drawn over the imported first page via gofpdf/gofpdi.
type Engine struct {
	fontPath    string
	nameSize    float64
	teamSize    float64
	messageSize float64
}

// NewEngine creates a PDF engine. Zero sizes select the template's observed
// conventions (35pt name, 18pt team, 12pt message).
func NewEngine(cfg Config) *Engine {
	if cfg.NameSize <= 0 {
		cfg.NameSize = 35
	}
	if cfg.TeamSize <= 0 {
		cfg.TeamSize = 18
	}
	if cfg.MessageSize <= 0 {
		cfg.MessageSize = 12
	}
	return &Engine{
		fontPath:    cfg.FontPath,
		nameSize:    cfg.NameSize,
		teamSize:    cfg.TeamSize,
		messageSize: cfg.MessageSize,
	}
}

// Resolve enumerates the template's form fields and decides the injection
// strategy for the whole batch. Zero fields selects the draw strategy with
// the first page's dimensions.
func (e *Engine) Resolve(ctx context.Context, tmpl *certificate.Template) (certificate.Strategy, error) {
	names, err := listFieldNames(tmpl.Bytes())
	if err != nil {
		return certificate.Strategy{}, fmt.Errorf("inspecting form fields: %w", err)
	}

	match := MatchFields(names)
	if match.NameField != "" || match.TeamField != "" {
		return certificate.Strategy{
			Kind:      certificate.StrategyFields,
			NameField: match.NameField,
			TeamField: match.TeamField,
		}, nil
	}

	w, h, err := e.pageDims(tmpl)
	if err != nil {
		return certificate.Strategy{}, fmt.Errorf("reading page dimensions: %w", err)
	}

	return certificate.Strategy{
		Kind:       certificate.StrategyDraw,
		Page:       1,
		PageWidth:  w,
		PageHeight: h,
	}, nil
}

// Render produces one finished document. The template bytes are cloned by
// the Template accessor, so nothing here can leak state across participants.
func (e *Engine) Render(ctx context.Context, tmpl *certificate.Template, strategy certificate.Strategy, p certificate.Participant, opts certificate.RenderOptions) ([]byte, error) {
	name := strings.TrimSpace(p.DisplayName)
	team := strings.TrimSpace(p.TeamName)

	switch strategy.Kind {
	case certificate.StrategyFields:
		// Names go in upper case per the template convention; team as-is.
		return e.renderFields(tmpl, strategy, strings.ToUpper(name), team)
	case certificate.StrategyDraw:
		return e.renderDraw(tmpl, strategy, name, team, strings.TrimSpace(opts.Message))
	default:
		return nil, fmt.Errorf("unknown strategy kind: %s", strategy.Kind)
	}
}
