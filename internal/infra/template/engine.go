package template

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"certigen/internal/domain/relay"
)

//go:embed templates/*.html
var templateFS embed.FS

var _ relay.BodyRenderer = (*Engine)(nil)

const certificateSubject = "Tu constancia de participación"

// Engine renders the certificate email body using Go's html/template package,
// from templates embedded at build time.
type Engine struct {
	templates *template.Template
}

// NewEngine creates a new template engine from the embedded templates.
func NewEngine() (*Engine, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing embedded templates: %w", err)
	}

	return &Engine{templates: tmpl}, nil
}

// Render produces a subject line, HTML body, and plain-text fallback for the
// certificate email.
func (e *Engine) Render(data map[string]any) (subject, html, text string, err error) {
	// Allow subject override via data
	subject = certificateSubject
	if customSubject, ok := data["Subject"].(string); ok && customSubject != "" {
		subject = customSubject
	}

	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, "certificate.html", data); err != nil {
		return "", "", "", fmt.Errorf("executing certificate template: %w", err)
	}
	html = buf.String()

	// Generate plain-text fallback by stripping HTML tags
	text = stripHTML(html)

	return subject, html, text, nil
}

// stripHTML removes HTML tags and collapses whitespace to produce a plain-text version.
func stripHTML(s string) string {
	// Remove HTML tags
	re := regexp.MustCompile(`<[^>]*>`)
	text := re.ReplaceAllString(s, "")

	// Decode common HTML entities
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = strings.ReplaceAll(text, "&quot;", `"`)
	text = strings.ReplaceAll(text, "&#39;", "'")
	text = strings.ReplaceAll(text, "&nbsp;", " ")

	// Collapse whitespace
	wsRe := regexp.MustCompile(`\s+`)
	text = wsRe.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}
