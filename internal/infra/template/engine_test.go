package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCertificateMail(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)

	subject, html, text, err := e.Render(map[string]any{
		"Nombre": "Ana López",
		"Equipo": "Los Bits",
	})
	require.NoError(t, err)

	assert.Equal(t, "Tu constancia de participación", subject)
	assert.Contains(t, html, "Ana López")
	assert.Contains(t, html, "Los Bits")

	// Plain-text fallback has no markup.
	assert.Contains(t, text, "Ana López")
	assert.NotContains(t, text, "<")
}

func TestRenderSubjectOverride(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)

	subject, _, _, err := e.Render(map[string]any{
		"Nombre":  "Ana",
		"Equipo":  "Alfa",
		"Subject": "Constancia HackMX",
	})
	require.NoError(t, err)
	assert.Equal(t, "Constancia HackMX", subject)
}

func TestRenderEscapesHTML(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)

	_, html, _, err := e.Render(map[string]any{
		"Nombre": "<script>alert(1)</script>",
		"Equipo": "Alfa",
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}
