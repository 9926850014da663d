// Package template renders maintenance documents as Markdown runbooks.
package template

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc"
)

//go:embed runbook.md
var defaultRunbookContent string

// ErrTemplateLoad indicates that a runbook template could not be read or parsed.
var ErrTemplateLoad = errors.New("failed to load runbook template")

// RunbookData is the value passed to runbook templates.
type RunbookData struct {
	Path        string
	Language    string
	Coverage    float64
	GeneratedAt time.Time
	Document    *maintdoc.MaintenanceDocument
}

// NewRunbookData builds the template input for one extracted file.
func NewRunbookData(result maintdoc.FileResult, generatedAt time.Time) *RunbookData {
	return &RunbookData{
		Path:        result.Path,
		Language:    result.Language,
		Coverage:    result.Coverage,
		GeneratedAt: generatedAt,
		Document:    result.Document,
	}
}

// RunbookExecutor renders a runbook.
//
// Stability: Public Stable API - Implementations can be provided externally.
type RunbookExecutor interface {
	// Execute renders data with tmpl. A nil tmpl uses the embedded default runbook.
	Execute(writer io.Writer, tmpl *template.Template, data *RunbookData) error
}

// GoRunbookExecutor implements RunbookExecutor with text/template.
type GoRunbookExecutor struct{}

// NewGoRunbookExecutor creates a new GoRunbookExecutor.
func NewGoRunbookExecutor() *GoRunbookExecutor {
	return &GoRunbookExecutor{}
}

// Execute implements RunbookExecutor.
func (e *GoRunbookExecutor) Execute(writer io.Writer, tmpl *template.Template, data *RunbookData) error {
	if tmpl == nil {
		defaultTmpl, err := LoadDefaultTemplate()
		if err != nil {
			return err
		}
		tmpl = defaultTmpl
	}
	if err := tmpl.Execute(writer, data); err != nil {
		return fmt.Errorf("template execution failed for %q: %w", tmpl.Name(), err)
	}
	return nil
}

var runbookFuncs = template.FuncMap{
	"percent": func(f float64) string {
		return fmt.Sprintf("%.0f%%", f*100)
	},
	"formatDate": func(t time.Time, layout string) string {
		if layout == "" {
			layout = time.RFC3339
		}
		return t.Format(layout)
	},
	"inc": func(i int) int { return i + 1 },
	"yesno": func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	},
	// title turns "permission_troubleshooting" into "Permission troubleshooting".
	"title": func(s string) string {
		s = strings.ReplaceAll(s, "_", " ")
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	},
}

// LoadDefaultTemplate parses the embedded default runbook.
func LoadDefaultTemplate() (*template.Template, error) {
	return parse("runbook", defaultRunbookContent)
}

// LoadTemplateFile parses a custom runbook template. The runbook helper functions are available to it.
func LoadTemplateFile(path string) (*template.Template, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplateLoad, err)
	}
	return parse(path, string(content))
}

func parse(name, content string) (*template.Template, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: %s is empty", ErrTemplateLoad, name)
	}
	tmpl, err := template.New(name).Funcs(runbookFuncs).Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplateLoad, err)
	}
	return tmpl, nil
}
