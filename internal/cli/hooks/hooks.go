// Package hooks bridges engine events to the CLI's logger and terminal progress bar.
package hooks

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc"
)

// ProgressBar is the subset of github.com/schollz/progressbar/v3 used by CLIHooks.
type ProgressBar interface {
	Add(num int) error
	Describe(description string)
	Close() error
}

// CLIHooks implements maintdoc.Hooks for the command-line front end.
//
// In verbose mode every event is logged. Otherwise failures are logged and, when a
// progress bar is attached (stderr is a TTY), it advances once per file that reached
// a final state.
type CLIHooks struct {
	logger   *slog.Logger
	verbose  bool
	progress ProgressBar

	mu         sync.Mutex // Protects the counters and progress bar
	discovered int
	finished   int
}

// NewCLIHooks creates hooks logging through logger. Pass a nil progress bar to disable it.
func NewCLIHooks(logger *slog.Logger, verbose bool, progress ProgressBar) *CLIHooks {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CLIHooks{
		logger:   logger.With(slog.String("component", "hooks")),
		verbose:  verbose,
		progress: progress,
	}
}

// OnFileDiscovered implements maintdoc.Hooks.
func (h *CLIHooks) OnFileDiscovered(path string) error {
	h.mu.Lock()
	h.discovered++
	h.mu.Unlock()

	if h.verbose {
		h.logger.Debug("File discovered", slog.String("path", path))
	}
	return nil
}

// OnFileStatusUpdate implements maintdoc.Hooks. It is safe for concurrent use.
func (h *CLIHooks) OnFileStatusUpdate(path string, status maintdoc.Status, message string, duration time.Duration) error {
	final := isFinal(status)
	if final {
		h.mu.Lock()
		h.finished++
		h.mu.Unlock()
	}

	if h.verbose {
		level := slog.LevelDebug
		logMsg := "File status updated"
		attrs := []slog.Attr{
			slog.String("path", path),
			slog.String("status", string(status)),
		}
		if duration > 0 {
			attrs = append(attrs, slog.Duration("duration", duration))
		}
		if message != "" {
			key := "message"
			if status == maintdoc.StatusFailed {
				key = "error"
			}
			attrs = append(attrs, slog.String(key, message))
		}
		switch status {
		case maintdoc.StatusSuccess, maintdoc.StatusSkipped:
			level = slog.LevelInfo
		case maintdoc.StatusFailed:
			level = slog.LevelError
			logMsg = "File processing failed"
		}
		h.logger.LogAttrs(context.Background(), level, logMsg, attrs...)
		return nil
	}

	if status == maintdoc.StatusFailed {
		h.logger.Error("File processing failed", slog.String("path", path), slog.String("error", message))
	}
	if final && h.progress != nil {
		h.mu.Lock()
		h.progress.Describe(path)
		_ = h.progress.Add(1)
		h.mu.Unlock()
	}
	return nil
}

// OnRunComplete implements maintdoc.Hooks. It closes the progress bar.
func (h *CLIHooks) OnRunComplete(report maintdoc.Report) error {
	if h.progress != nil {
		h.mu.Lock()
		_ = h.progress.Close()
		h.mu.Unlock()
	}

	h.logger.Debug("Run complete",
		slog.Int("processed", report.Summary.ProcessedCount),
		slog.Int("skipped", report.Summary.SkippedCount),
		slog.Int("errors", report.Summary.ErrorCount),
	)
	return nil
}

// Counts returns the number of discovered files and of files that reached a final status.
func (h *CLIHooks) Counts() (discovered, finished int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.discovered, h.finished
}

func isFinal(status maintdoc.Status) bool {
	return status == maintdoc.StatusSuccess || status == maintdoc.StatusFailed || status == maintdoc.StatusSkipped
}

var _ maintdoc.Hooks = (*CLIHooks)(nil)
