package pdf

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"certigen/internal/domain/certificate"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// FieldMatch holds the form field names bound to each injection category.
type FieldMatch struct {
	NameField string
	TeamField string
}

// MatchFields scans form field names for the participant-name and team-name
// categories using case-insensitive substring matching ("nombre"/"equipo").
// The first match per category wins; later candidates are ignored. A single
// field whose name contains both substrings binds to both categories.
func MatchFields(names []string) FieldMatch {
	var m FieldMatch
	for _, n := range names {
		ln := strings.ToLower(n)
		if m.NameField == "" && strings.Contains(ln, "nombre") {
			m.NameField = n
		}
		if m.TeamField == "" && strings.Contains(ln, "equipo") {
			m.TeamField = n
		}
	}
	return m
}

// formData mirrors pdfcpu's form export/fill JSON.
type formData struct {
	Forms []formGroup `json:"forms"`
}

type formGroup struct {
	TextFields []textField `json:"textfield,omitempty"`
}

type textField struct {
	Pages  []int  `json:"pages,omitempty"`
	ID     string `json:"id,omitempty"`
	Name   string `json:"name,omitempty"`
	Value  string `json:"value"`
	Locked bool   `json:"locked"`
}

// relaxedConf returns a pdfcpu configuration tolerant of the slightly
// off-spec templates produced by office tools.
func relaxedConf() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// listFieldNames returns the names of the template's text form fields, in
// enumeration order. A template without an AcroForm yields an empty list.
func listFieldNames(templateBytes []byte) ([]string, error) {
	dir, err := os.MkdirTemp("", "certigen-inspect-")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "template.pdf")
	out := filepath.Join(dir, "form.json")
	if err := os.WriteFile(in, templateBytes, 0o600); err != nil {
		return nil, fmt.Errorf("writing template: %w", err)
	}

	if err := api.ExportFormFile(in, out, relaxedConf()); err != nil {
		// pdfcpu reports an error for documents with no form at all; the
		// template header was already validated, so treat this as a
		// field-less template and let the draw path take over. Genuine
		// corruption still fails at render time.
		slog.Debug("form export failed, assuming field-less template", "error", err)
		return nil, nil
	}

	raw, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("reading form export: %w", err)
	}

	var export formData
	if err := json.Unmarshal(raw, &export); err != nil {
		return nil, fmt.Errorf("parsing form export: %w", err)
	}

	var names []string
	for _, group := range export.Forms {
		for _, f := range group.TextFields {
			if f.Name != "" {
				names = append(names, f.Name)
			}
		}
	}
	return names, nil
}

// renderFields populates the bound text fields and locks the whole form so
// the result is static content. Filled values keep the appearance defined by
// the template's DA string: the fill JSON of pdfcpu v0.8 carries no font
// attribute, so text sizing in this path is template-controlled.
func (e *Engine) renderFields(tmpl *certificate.Template, strategy certificate.Strategy, name, team string) ([]byte, error) {
	fields := make([]textField, 0, 2)
	if strategy.NameField != "" {
		fields = append(fields, textField{Name: strategy.NameField, Value: name, Locked: true})
	}
	// A field matching both categories is bound once; the name wins.
	if strategy.TeamField != "" && strategy.TeamField != strategy.NameField {
		fields = append(fields, textField{Name: strategy.TeamField, Value: team, Locked: true})
	}

	fill, err := json.Marshal(formData{Forms: []formGroup{{TextFields: fields}}})
	if err != nil {
		return nil, fmt.Errorf("marshaling fill data: %w", err)
	}

	dir, err := os.MkdirTemp("", "certigen-render-")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "template.pdf")
	fillJSON := filepath.Join(dir, "fill.json")
	filled := filepath.Join(dir, "filled.pdf")
	flat := filepath.Join(dir, "flat.pdf")

	if err := os.WriteFile(in, tmpl.Bytes(), 0o600); err != nil {
		return nil, fmt.Errorf("writing template: %w", err)
	}
	if err := os.WriteFile(fillJSON, fill, 0o600); err != nil {
		return nil, fmt.Errorf("writing fill data: %w", err)
	}

	conf := relaxedConf()
	if err := api.FillFormFile(in, fillJSON, filled, conf); err != nil {
		return nil, fmt.Errorf("filling form: %w", err)
	}

	// Lock every field, not only the bound ones, so nothing stays editable.
	if err := api.LockFormFieldsFile(filled, flat, nil, conf); err != nil {
		return nil, fmt.Errorf("locking form: %w", err)
	}

	return os.ReadFile(flat)
}
