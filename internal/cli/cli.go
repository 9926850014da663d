// Package cli holds the command-line run logic: it assembles the extractor registry,
// runs the batch engine and renders the report in the configured output format.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	gotemplate "text/template"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/catdotbashrc/docs-generator-sub000/internal/cli/ui"
	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc"
	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/automation"
	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/businessrules"
	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/sourcetree/java"
	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/template"
)

// ErrFilesFailed is returned when the run finished but at least one file could not be processed.
var ErrFilesFailed = errors.New("one or more files failed to process")

// runbookSeparator separates runbooks printed to stdout.
const runbookSeparator = "\n---\n\n"

// DefaultRegistry binds the built-in extractors: automation scripts (Python) and
// business code (Java).
func DefaultRegistry() *maintdoc.Registry {
	r := maintdoc.NewRegistry()
	r.Register("python", func(h slog.Handler) maintdoc.Extractor {
		return automation.NewExtractor(h)
	})
	r.Register("java", func(h slog.Handler) maintdoc.Extractor {
		return businessrules.NewExtractor(java.NewParser(h), h)
	})
	return r
}

// Run executes one extraction run with validated options and writes the result to
// opts.OutputPath, or to stdout when no output path is configured.
func Run(ctx context.Context, opts maintdoc.Options, logger *slog.Logger, stdout io.Writer) error {
	if opts.Registry == nil {
		opts.Registry = DefaultRegistry()
	}

	report, runErr := maintdoc.GenerateDocs(ctx, opts)
	if runErr != nil {
		logger.Error("Extraction run failed", slog.Any("error", runErr))
		if report.Summary.Timestamp.IsZero() {
			// Nothing ran; there is no report to render.
			return runErr
		}
	}

	if err := render(opts, report, stdout); err != nil {
		logger.Error("Failed to write output", slog.Any("error", err))
		return errors.Join(runErr, err)
	}
	if runErr != nil {
		return runErr
	}

	logger.Info("Extraction finished",
		slog.Int("processed", report.Summary.ProcessedCount),
		slog.Int("skipped", report.Summary.SkippedCount),
		slog.Int("errors", report.Summary.ErrorCount),
	)
	if report.Summary.ErrorCount > 0 {
		return fmt.Errorf("%w: %d error(s)", ErrFilesFailed, report.Summary.ErrorCount)
	}
	return nil
}

func render(opts maintdoc.Options, report maintdoc.Report, stdout io.Writer) error {
	if opts.OutputFormat == maintdoc.OutputFormatMarkdown {
		return renderRunbooks(opts, report, stdout)
	}

	w, closeFn, err := openOutput(opts.OutputPath, stdout)
	if err != nil {
		return err
	}
	defer closeFn()

	switch opts.OutputFormat {
	case maintdoc.OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encoding JSON report: %w", err)
		}
	case maintdoc.OutputFormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encoding YAML report: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encoding YAML report: %w", err)
		}
	default:
		if err := ui.RenderSummary(w, report); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
	}
	return nil
}

// renderRunbooks writes one Markdown runbook per document. With an output path each runbook
// goes to <output>/<relative source path>.md; otherwise all runbooks are printed to stdout.
func renderRunbooks(opts maintdoc.Options, report maintdoc.Report, stdout io.Writer) error {
	var tmpl *gotemplate.Template
	var err error
	if opts.TemplatePath != "" {
		tmpl, err = template.LoadTemplateFile(opts.TemplatePath)
	} else {
		tmpl, err = template.LoadDefaultTemplate()
	}
	if err != nil {
		return err
	}

	executor := template.NewGoRunbookExecutor()
	generatedAt := report.Summary.Timestamp
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}

	for i, result := range report.Documents {
		data := template.NewRunbookData(result, generatedAt)
		if opts.OutputPath == "" {
			if i > 0 {
				if _, err := io.WriteString(stdout, runbookSeparator); err != nil {
					return err
				}
			}
			if err := executor.Execute(stdout, tmpl, data); err != nil {
				return err
			}
			continue
		}

		target := filepath.Join(opts.OutputPath, filepath.FromSlash(result.Path)+".md")
		if err := writeRunbook(target, executor, tmpl, data); err != nil {
			return err
		}
	}
	return nil
}

func writeRunbook(target string, executor template.RunbookExecutor, tmpl *gotemplate.Template, data *template.RunbookData) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating output directory for %s: %w", target, err)
	}
	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("creating runbook %s: %w", target, err)
	}
	if err := executor.Execute(f, tmpl, data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func openOutput(path string, stdout io.Writer) (io.Writer, func(), error) {
	if path == "" {
		return stdout, func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating output directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file %s: %w", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}
