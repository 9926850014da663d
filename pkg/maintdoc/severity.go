package maintdoc

import "strings"

// criticalKeywords escalate a failure to critical severity.
var criticalKeywords = []string{"credential", "access denied", "unauthorized", "permission", "data loss", "corrupt"}

// SeverityFor assigns a severity to a failure message of the given type.
// Critical keywords win; exceptions and AWS errors are high; validation and generic
// failures are medium; retried failures are low.
func SeverityFor(message string, errorType ErrorType) Severity {
	lower := strings.ToLower(message)
	for _, k := range criticalKeywords {
		if strings.Contains(lower, k) {
			return SeverityCritical
		}
	}
	switch errorType {
	case ErrorTypeException, ErrorTypeAWS:
		return SeverityHigh
	case ErrorTypeRetry:
		return SeverityLow
	default:
		return SeverityMedium
	}
}

// NewClassifiedErrorPattern builds an ErrorPattern whose severity is chosen by SeverityFor.
func NewClassifiedErrorPattern(pattern string, errorType ErrorType, recoverySteps []string) (ErrorPattern, error) {
	return NewErrorPattern(pattern, errorType, SeverityFor(pattern, errorType), recoverySteps)
}
