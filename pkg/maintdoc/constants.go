package maintdoc

import "time"

// Default values for Options. They are also registered as viper defaults by the CLI.
const (
	// DefaultConcurrency determines the default number of workers. 0 means runtime.NumCPU().
	DefaultConcurrency = 0
	// DefaultOnErrorMode is the default behavior on non-fatal file errors.
	DefaultOnErrorMode = OnErrorContinue
	// DefaultOutputFormat is the default rendering of the run result.
	DefaultOutputFormat = OutputFormatText
	// DefaultVerbose is the default state for verbose logging.
	DefaultVerbose = false
	// DefaultDispatchWarnThreshold is how long the walker waits on a busy worker pool before warning.
	DefaultDispatchWarnThreshold = time.Second
)

// DefaultIgnorePatterns is the CLI default of the ignore key. Configuring ignore patterns replaces them.
var DefaultIgnorePatterns = []string{".git/", "__pycache__/", "node_modules/", "target/", ".venv/"}

// IgnoreFileName is looked up from the input path upwards; its lines are gitignore-style patterns.
const IgnoreFileName = ".maintdocignore"

// ReportSchemaVersion indicates the version of the serialized Report structure.
const ReportSchemaVersion = "1.0"

// Skip reasons used in SkippedInfo.
const (
	SkipReasonBinary      = "binary_file"
	SkipReasonUnsupported = "unsupported_language"
)
