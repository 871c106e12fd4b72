package certificate

import (
	"testing"

	"certigen/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTemplate(t *testing.T) {
	tmpl, err := LoadTemplate([]byte("%PDF-1.4\nsome content"))
	require.NoError(t, err)
	assert.Equal(t, len("%PDF-1.4\nsome content"), tmpl.Size())
}

func TestLoadTemplateRejectsNonPDF(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short", []byte("%PD")},
		{"html", []byte("<!DOCTYPE html><html></html>")},
		{"magic not at start", []byte("garbage%PDF-1.4")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTemplate(tt.data)
			require.Error(t, err)

			var invalidErr *common.InvalidTemplateError
			assert.ErrorAs(t, err, &invalidErr)
		})
	}
}

func TestTemplateBytesIsACopy(t *testing.T) {
	original := []byte("%PDF-1.4 original")
	tmpl, err := LoadTemplate(original)
	require.NoError(t, err)

	// Mutating the input after loading must not affect the template.
	original[0] = 'X'
	assert.True(t, HasPDFHeader(tmpl.Bytes()))

	// Mutating a returned copy must not affect later copies.
	b := tmpl.Bytes()
	b[0] = 'X'
	assert.True(t, HasPDFHeader(tmpl.Bytes()))
}

func TestHasPDFHeader(t *testing.T) {
	assert.True(t, HasPDFHeader([]byte("%PDF-1.7")))
	assert.False(t, HasPDFHeader([]byte("PDF-1.7")))
	assert.False(t, HasPDFHeader(nil))
}
