// Package ui renders the human-readable summary printed at the end of a maintdoc run.
package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc"
)

const (
	ColorHeaderFg = lipgloss.Color("252")
	ColorHeaderBg = lipgloss.Color("62")
	ColorLabelFg  = lipgloss.Color("244")

	ColorStatusSuccess = lipgloss.Color("40")
	ColorStatusFailed  = lipgloss.Color("196")
	ColorStatusSkipped = lipgloss.Color("214")
)

// styles are bound to the renderer of one output so colors are dropped when it is not a terminal.
type styles struct {
	header  lipgloss.Style
	label   lipgloss.Style
	success lipgloss.Style
	failed  lipgloss.Style
	skipped lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		header:  r.NewStyle().Bold(true).Foreground(ColorHeaderFg).Background(ColorHeaderBg).Padding(0, 1),
		label:   r.NewStyle().Foreground(ColorLabelFg).Width(12),
		success: r.NewStyle().Foreground(ColorStatusSuccess),
		failed:  r.NewStyle().Foreground(ColorStatusFailed),
		skipped: r.NewStyle().Foreground(ColorStatusSkipped),
	}
}

// RenderSummary writes the run summary for report to w.
func RenderSummary(w io.Writer, report maintdoc.Report) error {
	st := newStyles(lipgloss.NewRenderer(w))
	s := report.Summary

	var b strings.Builder
	b.WriteString(st.header.Render("maintdoc summary"))
	b.WriteString("\n")

	row := func(label, value string) {
		b.WriteString(st.label.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}
	row("Input", s.InputPath)
	if s.ConfigFilePath != "" {
		row("Config", s.ConfigFilePath)
	}
	row("Scanned", fmt.Sprintf("%d", s.TotalFilesScanned))
	row("Processed", st.success.Render(fmt.Sprintf("%d", s.ProcessedCount)))
	row("Skipped", st.skipped.Render(fmt.Sprintf("%d", s.SkippedCount)))
	errCount := fmt.Sprintf("%d", s.ErrorCount)
	if s.ErrorCount > 0 {
		errCount = st.failed.Render(errCount)
	}
	row("Errors", errCount)
	row("Coverage", formatPercent(s.AverageCoverage))
	row("Duration", formatDuration(time.Duration(s.DurationSeconds*float64(time.Second))))

	if len(report.Documents) > 0 {
		b.WriteString("\n")
		for _, d := range report.Documents {
			fmt.Fprintf(&b, "%s %s (%s) %s\n", st.success.Render("[✓]"), d.Path, d.Language, formatPercent(d.Coverage))
		}
	}
	if len(report.SkippedFiles) > 0 {
		b.WriteString("\n")
		for _, sk := range report.SkippedFiles {
			fmt.Fprintf(&b, "%s %s %s\n", st.skipped.Render("[S]"), sk.Path, skipDetails(sk))
		}
	}
	if len(report.Errors) > 0 {
		b.WriteString("\n")
		for _, e := range report.Errors {
			icon := "[✗]"
			if e.IsFatal {
				icon = "[FATAL]"
			}
			fmt.Fprintf(&b, "%s %s: %s\n", st.failed.Render(icon), e.Path, e.Error)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func skipDetails(sk maintdoc.SkippedInfo) string {
	if sk.Details == "" {
		return sk.Reason
	}
	return sk.Reason + ": " + sk.Details
}

func formatPercent(f float64) string {
	return fmt.Sprintf("%.0f%%", f*100)
}

// formatDuration formats duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		if d == 0 {
			return "0s"
		}
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
