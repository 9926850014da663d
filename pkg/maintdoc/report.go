package maintdoc

import "time"

// Report summarizes the result of a single Engine run.
type Report struct {
	Summary      ReportSummary `json:"summary" yaml:"summary"`
	Documents    []FileResult  `json:"documents" yaml:"documents"`
	SkippedFiles []SkippedInfo `json:"skippedFiles" yaml:"skippedFiles"`
	Errors       []ErrorInfo   `json:"errors" yaml:"errors"`
}

// ReportSummary contains aggregated statistics for an Engine run.
type ReportSummary struct {
	InputPath          string    `json:"inputPath" yaml:"inputPath"`
	ConfigFilePath     string    `json:"configFilePath,omitempty" yaml:"configFilePath,omitempty"`
	TotalFilesScanned  int       `json:"totalFilesScanned" yaml:"totalFilesScanned"`
	ProcessedCount     int       `json:"processedCount" yaml:"processedCount"`
	SkippedCount       int       `json:"skippedCount" yaml:"skippedCount"`
	ErrorCount         int       `json:"errorCount" yaml:"errorCount"`
	FatalErrorOccurred bool      `json:"fatalError" yaml:"fatalError"`
	AverageCoverage    float64   `json:"averageCoverage" yaml:"averageCoverage"`
	DurationSeconds    float64   `json:"durationSeconds" yaml:"durationSeconds"`
	Concurrency        int       `json:"concurrency" yaml:"concurrency"`
	Timestamp          time.Time `json:"timestamp" yaml:"timestamp"`
	SchemaVersion      string    `json:"schemaVersion,omitempty" yaml:"schemaVersion,omitempty"`
}

// FileResult is the document extracted from one source file.
type FileResult struct {
	Path               string               `json:"path" yaml:"path"`
	Language           string               `json:"language" yaml:"language"`
	LanguageConfidence float64              `json:"languageConfidence" yaml:"languageConfidence"`
	Coverage           float64              `json:"coverage" yaml:"coverage"`
	DurationMs         int64                `json:"durationMs" yaml:"durationMs"`
	Document           *MaintenanceDocument `json:"document" yaml:"document"`
}

// SkippedInfo details a file that was intentionally not extracted.
type SkippedInfo struct {
	Path    string `json:"path" yaml:"path"`
	Reason  string `json:"reason" yaml:"reason"`
	Details string `json:"details" yaml:"details"`
}

// ErrorInfo details an error encountered while processing a specific file.
type ErrorInfo struct {
	Path    string `json:"path" yaml:"path"`
	Error   string `json:"error" yaml:"error"`
	IsFatal bool   `json:"isFatal" yaml:"isFatal"`
}
