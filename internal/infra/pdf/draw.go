package pdf

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"certigen/internal/domain/certificate"

	"github.com/phpdave11/gofpdf"
	"github.com/phpdave11/gofpdf/contrib/gofpdi"
)

// Vertical layout of the draw strategy, in points, in gofpdf's top-left
// origin coordinates. The name baseline sits at half the page height; the
// team name 50 points further down the page. A personalized message pushes
// the team baseline further down still.
const (
	teamOffset     = 50
	messageGap     = 30
	messageLineGap = 1.4
	messageTeamGap = 20
	messageMaxFrac = 0.8
)

// contrib/gofpdi routes every call through a package-global importer, so
// page imports from concurrent renders must be serialized.
var importMu sync.Mutex

// pageDims probes the template's first page dimensions by importing it into
// a throwaway document.
func (e *Engine) pageDims(tmpl *certificate.Template) (w, h float64, err error) {
	importMu.Lock()
	defer importMu.Unlock()

	defer func() {
		// gofpdi panics on malformed input; surface it as an error.
		if r := recover(); r != nil {
			err = fmt.Errorf("importing template page: %v", r)
		}
	}()

	probe := gofpdf.New("P", "pt", "A4", "")
	var rs io.ReadSeeker = bytes.NewReader(tmpl.Bytes())
	gofpdi.ImportPageFromStream(probe, &rs, 1, "/MediaBox")

	box, ok := gofpdi.GetPageSizes()[1]["/MediaBox"]
	if !ok {
		return 0, 0, fmt.Errorf("template has no page media box")
	}
	return box["w"], box["h"], nil
}

// renderDraw imports the template's first page and draws the participant
// data horizontally centered, in black.
func (e *Engine) renderDraw(tmpl *certificate.Template, strategy certificate.Strategy, name, team, message string) (out []byte, err error) {
	importMu.Lock()
	defer importMu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("drawing certificate: %v", r)
		}
	}()

	w, h := strategy.PageWidth, strategy.PageHeight
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetAutoPageBreak(false, 0)

	family := e.loadFont(pdf)

	var rs io.ReadSeeker = bytes.NewReader(tmpl.Bytes())
	tplID := gofpdi.ImportPageFromStream(pdf, &rs, strategy.Page, "/MediaBox")
	pdf.AddPage()
	gofpdi.UseImportedTemplate(pdf, tplID, 0, 0, w, h)

	pdf.SetTextColor(0, 0, 0)

	// Name, centered at half the page height.
	pdf.SetFont(family, "", e.nameSize)
	nameY := h / 2
	pdf.Text((w-pdf.GetStringWidth(name))/2, nameY, name)

	teamY := nameY + teamOffset

	if message != "" {
		pdf.SetFont(family, "", e.messageSize)
		lines := pdf.SplitText(message, messageMaxFrac*w)
		lineHeight := e.messageSize * messageLineGap

		y := nameY + messageGap
		for _, line := range lines {
			pdf.Text((w-pdf.GetStringWidth(line))/2, y, line)
			y += lineHeight
		}
		// The team baseline shifts below the wrapped message.
		teamY = y + messageTeamGap
	}

	pdf.SetFont(family, "", e.teamSize)
	pdf.Text((w-pdf.GetStringWidth(team))/2, teamY, team)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("saving document: %w", err)
	}
	return buf.Bytes(), nil
}

// loadFont embeds the configured TTF and returns its family name. Any
// failure falls back to the built-in Helvetica; the fallback is logged and
// never aborts a render.
func (e *Engine) loadFont(pdf *gofpdf.Fpdf) string {
	if e.fontPath == "" {
		return "Helvetica"
	}

	fontBytes, err := os.ReadFile(e.fontPath)
	if err != nil {
		slog.Warn("custom font unavailable, falling back to Helvetica",
			"path", e.fontPath,
			"error", err,
		)
		return "Helvetica"
	}

	pdf.AddUTF8FontFromBytes("certfont", "", fontBytes)
	if err := pdf.Error(); err != nil {
		slog.Warn("custom font rejected, falling back to Helvetica",
			"path", e.fontPath,
			"error", err,
		)
		pdf.ClearError()
		return "Helvetica"
	}
	return "certfont"
}
