package maintdoc

import (
	"log/slog"
	"time"

	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/encoding"
	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/language"
)

// Hooks defines callbacks for status updates during a batch run.
// Implementations MUST be thread-safe as methods may be called concurrently.
//
// Stability: Public Stable API - Implementations can be provided externally.
type Hooks interface {
	OnFileDiscovered(path string) error
	OnFileStatusUpdate(path string, status Status, message string, duration time.Duration) error
	OnRunComplete(report Report) error
}

// NoOpHooks provides a default, do-nothing implementation of the Hooks interface.
type NoOpHooks struct{}

// OnFileDiscovered implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnFileDiscovered(path string) error { return nil }

// OnFileStatusUpdate implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnFileStatusUpdate(path string, status Status, message string, duration time.Duration) error {
	return nil
}

// OnRunComplete implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnRunComplete(report Report) error { return nil }

// Options holds all configuration for an Engine run.
type Options struct {
	// InputPath is a source file or a directory to walk. Required.
	InputPath string `mapstructure:"input"`
	// OutputPath receives rendered documents. Empty means the CLI prints to stdout.
	OutputPath     string       `mapstructure:"output"`
	OutputFormat   OutputFormat `mapstructure:"outputFormat"`
	TemplatePath   string       `mapstructure:"templateFile"`
	ConfigFilePath string       `mapstructure:"-"`
	Verbose        bool         `mapstructure:"verbose"`
	OnErrorMode    OnErrorMode  `mapstructure:"onError"`
	Concurrency    int          `mapstructure:"concurrency"`

	IgnorePatterns           []string          `mapstructure:"ignore"`
	DefaultEncoding          string            `mapstructure:"defaultEncoding"`
	LanguageMappingsOverride map[string]string `mapstructure:"languageMappings"`

	// Injected dependencies.
	EventHooks            Hooks                     `mapstructure:"-"`
	Logger                slog.Handler              `mapstructure:"-"` // Required
	Registry              *Registry                 `mapstructure:"-"` // Required
	LanguageDetector      language.LanguageDetector `mapstructure:"-"`
	Decoder               encoding.Decoder          `mapstructure:"-"`
	Reader                SourceReader              `mapstructure:"-"`
	WalkerFactory         WalkerFactory             `mapstructure:"-"`
	DispatchWarnThreshold time.Duration             `mapstructure:"-"`
}
