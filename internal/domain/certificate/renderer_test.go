package certificate

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"certigen/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEngine returns canned output, or an error, for every render.
type stubEngine struct {
	strategy   Strategy
	resolveErr error
	out        []byte
	renderErr  error
	renderFn   func(p Participant) ([]byte, error)
	renders    []Participant
}

func (e *stubEngine) Resolve(ctx context.Context, tmpl *Template) (Strategy, error) {
	return e.strategy, e.resolveErr
}

func (e *stubEngine) Render(ctx context.Context, tmpl *Template, strategy Strategy, p Participant, opts RenderOptions) ([]byte, error) {
	e.renders = append(e.renders, p)
	if e.renderFn != nil {
		return e.renderFn(p)
	}
	return e.out, e.renderErr
}

// validPDF builds output that passes the renderer's completeness check.
func validPDF() []byte {
	out := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("x"), DefaultMinPDFBytes)...)
	return out
}

func testTemplate(t *testing.T) *Template {
	t.Helper()
	tmpl, err := LoadTemplate([]byte("%PDF-1.4 test template"))
	require.NoError(t, err)
	return tmpl
}

func TestRendererRender(t *testing.T) {
	engine := &stubEngine{out: validPDF()}
	r := NewRenderer(engine, 0)

	p := Participant{DisplayName: "Ana López", TeamName: "Alfa"}
	cert, err := r.Render(context.Background(), testTemplate(t), Strategy{Kind: StrategyDraw}, p, RenderOptions{})
	require.NoError(t, err)

	assert.Equal(t, p, cert.Participant)
	assert.Equal(t, "Constancia_Alfa_Ana_López.pdf", cert.SuggestedFileName)
	assert.True(t, HasPDFHeader(cert.DocumentBytes))
}

func TestRendererRejectsBlankNameOrTeam(t *testing.T) {
	engine := &stubEngine{out: validPDF()}
	r := NewRenderer(engine, 0)
	tmpl := testTemplate(t)

	_, err := r.Render(context.Background(), tmpl, Strategy{}, Participant{DisplayName: "   ", TeamName: "Alfa"}, RenderOptions{})
	var validationErr *common.ValidationError
	require.ErrorAs(t, err, &validationErr)

	_, err = r.Render(context.Background(), tmpl, Strategy{}, Participant{DisplayName: "Ana", TeamName: ""}, RenderOptions{})
	require.ErrorAs(t, err, &validationErr)

	assert.Empty(t, engine.renders, "engine is never invoked for invalid participants")
}

func TestRendererWrapsEngineErrors(t *testing.T) {
	engine := &stubEngine{renderErr: errors.New("font table corrupt")}
	r := NewRenderer(engine, 0)

	_, err := r.Render(context.Background(), testTemplate(t), Strategy{}, Participant{DisplayName: "Ana", TeamName: "Alfa"}, RenderOptions{})

	var renderErr *common.RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, "Ana", renderErr.Participant)
	assert.Contains(t, renderErr.Message, "font table corrupt")
}

func TestRendererRejectsIncompleteOutput(t *testing.T) {
	tests := []struct {
		name string
		out  []byte
	}{
		{"too short", []byte("%PDF-1.4 tiny")},
		{"missing header", bytes.Repeat([]byte("x"), DefaultMinPDFBytes+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRenderer(&stubEngine{out: tt.out}, 0)

			_, err := r.Render(context.Background(), testTemplate(t), Strategy{}, Participant{DisplayName: "Ana", TeamName: "Alfa"}, RenderOptions{})

			var renderErr *common.RenderError
			require.ErrorAs(t, err, &renderErr)
		})
	}
}

func TestFailureKind(t *testing.T) {
	assert.Equal(t, FailureKindValidation, failureKind(common.NewValidationError("missing name")))
	assert.Equal(t, FailureKindRender, failureKind(common.NewRenderError("Ana", "boom")))
	assert.Equal(t, FailureKindRender, failureKind(errors.New("anything else")))
}
