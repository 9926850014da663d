package maintdoc

// ErrorType classifies the origin of an ErrorPattern.
type ErrorType string

// Constants representing the defined error pattern types.
const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeException  ErrorType = "exception"
	ErrorTypeRetry      ErrorType = "retry"
	ErrorTypeGeneric    ErrorType = "generic"
	ErrorTypeAWS        ErrorType = "aws_error"
)

// Severity ranks how disruptive an ErrorPattern is for the operator.
type Severity string

// Constants representing the defined severities, lowest first.
const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Status defines the possible processing states of a file during a batch run.
type Status string

// Constants representing the defined file processing statuses.
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusSuccess    Status = "success"
	StatusFailed     Status = "failed"
	StatusSkipped    Status = "skipped"
)

// OnErrorMode defines the behavior when a per-file error occurs during a batch run.
type OnErrorMode string

const (
	OnErrorContinue OnErrorMode = "continue"
	OnErrorStop     OnErrorMode = "stop"
)

// OutputFormat defines how the CLI renders the extracted documents.
type OutputFormat string

const (
	OutputFormatText     OutputFormat = "text"
	OutputFormatJSON     OutputFormat = "json"
	OutputFormatYAML     OutputFormat = "yaml"
	OutputFormatMarkdown OutputFormat = "markdown"
)

var validErrorTypes = map[ErrorType]bool{
	ErrorTypeValidation: true,
	ErrorTypeException:  true,
	ErrorTypeRetry:      true,
	ErrorTypeGeneric:    true,
	ErrorTypeAWS:        true,
}

var validSeverities = map[Severity]bool{
	SeverityLow:      true,
	SeverityMedium:   true,
	SeverityHigh:     true,
	SeverityCritical: true,
}

// Valid reports whether t is one of the defined error types.
func (t ErrorType) Valid() bool { return validErrorTypes[t] }

// Valid reports whether s is one of the defined severities.
func (s Severity) Valid() bool { return validSeverities[s] }
