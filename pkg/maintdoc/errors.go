package maintdoc

import "errors"

// These errors represent the categories of failure returned by Pipeline.Extract,
// the model constructors and the batch Engine. Library users can check against
// them using errors.Is.

var (
	// ErrNotFound indicates that the source path handed to the extractor does not exist.
	// Returned wrapped by Pipeline.Extract; a partially populated document is never returned with it.
	ErrNotFound = errors.New("source file not found")

	// ErrIO indicates that the source path exists but cannot be read as a file:
	// it is a directory, permissions deny access, or the read failed midway.
	ErrIO = errors.New("failed to read source file")

	// ErrBinaryFile indicates that the source content was detected as binary data.
	// The Engine reports such files as skipped rather than failed.
	ErrBinaryFile = errors.New("binary file encountered")

	// ErrInvalidScenario indicates an attempt to build a MaintenanceScenario with
	// empty diagnostic or resolution steps.
	ErrInvalidScenario = errors.New("invalid maintenance scenario")

	// ErrInvalidSeverity indicates an attempt to build an ErrorPattern with a severity
	// outside low/medium/high/critical.
	ErrInvalidSeverity = errors.New("invalid error pattern severity")

	// ErrInvalidErrorType indicates an attempt to build an ErrorPattern with an
	// unknown error type.
	ErrInvalidErrorType = errors.New("invalid error pattern type")

	// ErrUnsupportedLanguage indicates that no extractor is registered for the
	// detected language of a file. The Engine reports such files as skipped.
	ErrUnsupportedLanguage = errors.New("no extractor registered for language")

	// ErrConfigValidation indicates that the provided Options failed validation checks
	// performed by NewEngine or the CLI configuration loader.
	// This is typically returned directly as a fatal error.
	ErrConfigValidation = errors.New("invalid configuration options provided")
)
