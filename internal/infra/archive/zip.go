package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"

	"certigen/internal/domain/certificate"
)

var _ certificate.Packager = (*ZipPackager)(nil)

// ZipPackager bundles rendered certificates into a single zip archive, in
// batch order. Entry names come from each certificate's suggested file name;
// duplicates get a numeric suffix instead of silently overwriting.
type ZipPackager struct{}

// NewZipPackager creates a new zip packager.
func NewZipPackager() *ZipPackager {
	return &ZipPackager{}
}

// Package writes all certificates into one in-memory zip. Produced once per
// batch, never incrementally streamed.
func (z *ZipPackager) Package(certs []certificate.RenderedCertificate) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	seen := make(map[string]int, len(certs))
	for _, cert := range certs {
		name := dedupe(cert.SuggestedFileName, seen)

		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("creating archive entry %s: %w", name, err)
		}
		if _, err := w.Write(cert.DocumentBytes); err != nil {
			return nil, fmt.Errorf("writing archive entry %s: %w", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing archive: %w", err)
	}
	return buf.Bytes(), nil
}

// dedupe appends _2, _3… before the extension when two participants derive
// the same entry name.
func dedupe(name string, seen map[string]int) string {
	seen[name]++
	if seen[name] == 1 {
		return name
	}

	ext := ""
	base := name
	if i := strings.LastIndex(name, "."); i > 0 {
		base, ext = name[:i], name[i:]
	}
	return fmt.Sprintf("%s_%d%s", base, seen[name], ext)
}
