package certificate

import (
	"bytes"

	"certigen/internal/common"
)

// pdfMagic is the required header of a certificate template.
var pdfMagic = []byte("%PDF-")

// Template is an immutable certificate template document. The full document
// structure is parsed lazily by the rendering engine; loading only checks the
// header so a bad upload is rejected before a batch starts.
type Template struct {
	data []byte
}

// LoadTemplate validates the supplied bytes and wraps them as a Template.
func LoadTemplate(b []byte) (*Template, error) {
	if len(b) < len(pdfMagic) || !bytes.HasPrefix(b, pdfMagic) {
		return nil, common.NewInvalidTemplateError("file does not start with a PDF header")
	}
	data := make([]byte, len(b))
	copy(data, b)
	return &Template{data: data}, nil
}

// Bytes returns a fresh copy of the template bytes. Renders receive their own
// copy so no mutation can leak across participants.
func (t *Template) Bytes() []byte {
	out := make([]byte, len(t.data))
	copy(out, t.data)
	return out
}

// Size returns the template length in bytes.
func (t *Template) Size() int {
	return len(t.data)
}

// HasPDFHeader reports whether b begins with the PDF magic header.
func HasPDFHeader(b []byte) bool {
	return bytes.HasPrefix(b, pdfMagic)
}
