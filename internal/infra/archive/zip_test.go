package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"certigen/internal/domain/certificate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readEntries(t *testing.T, data []byte) map[string][]byte {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	entries := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		entries[f.Name] = content
	}
	return entries
}

func TestPackage(t *testing.T) {
	certs := []certificate.RenderedCertificate{
		{
			Participant:       certificate.Participant{DisplayName: "Ana", TeamName: "Alfa"},
			DocumentBytes:     []byte("%PDF-ana"),
			SuggestedFileName: "Constancia_Alfa_Ana.pdf",
		},
		{
			Participant:       certificate.Participant{DisplayName: "Beto", TeamName: "Beta"},
			DocumentBytes:     []byte("%PDF-beto"),
			SuggestedFileName: "Constancia_Beta_Beto.pdf",
		},
	}

	data, err := NewZipPackager().Package(certs)
	require.NoError(t, err)

	entries := readEntries(t, data)
	require.Len(t, entries, 2)
	assert.Equal(t, []byte("%PDF-ana"), entries["Constancia_Alfa_Ana.pdf"])
	assert.Equal(t, []byte("%PDF-beto"), entries["Constancia_Beta_Beto.pdf"])
}

func TestPackageDuplicateNames(t *testing.T) {
	certs := []certificate.RenderedCertificate{
		{DocumentBytes: []byte("first"), SuggestedFileName: "Constancia_Alfa_Ana.pdf"},
		{DocumentBytes: []byte("second"), SuggestedFileName: "Constancia_Alfa_Ana.pdf"},
		{DocumentBytes: []byte("third"), SuggestedFileName: "Constancia_Alfa_Ana.pdf"},
	}

	data, err := NewZipPackager().Package(certs)
	require.NoError(t, err)

	entries := readEntries(t, data)
	require.Len(t, entries, 3, "duplicates never overwrite")
	assert.Equal(t, []byte("first"), entries["Constancia_Alfa_Ana.pdf"])
	assert.Equal(t, []byte("second"), entries["Constancia_Alfa_Ana_2.pdf"])
	assert.Equal(t, []byte("third"), entries["Constancia_Alfa_Ana_3.pdf"])
}

func TestPackageEmpty(t *testing.T) {
	data, err := NewZipPackager().Package(nil)
	require.NoError(t, err)

	// A batch with zero rendered certificates still produces a readable,
	// empty archive.
	entries := readEntries(t, data)
	assert.Empty(t, entries)
}

func TestDedupeKeepsExtension(t *testing.T) {
	seen := map[string]int{}
	assert.Equal(t, "a.pdf", dedupe("a.pdf", seen))
	assert.Equal(t, "a_2.pdf", dedupe("a.pdf", seen))
	assert.Equal(t, "noext", dedupe("noext", seen))
	assert.Equal(t, "noext_2", dedupe("noext", seen))
}
