package businessrules

import (
	"fmt"

	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc"
)

// errorPatterns derives maintenance error patterns from validations, exception handlers
// and retry behavior.
func errorPatterns(logic *maintdoc.BusinessLogic) []maintdoc.ErrorPattern {
	out := []maintdoc.ErrorPattern{}
	for _, v := range logic.Validations {
		p, err := maintdoc.NewClassifiedErrorPattern(v.Message, maintdoc.ErrorTypeValidation, maintdoc.RecoveryHints(v.Message))
		if err != nil {
			continue
		}
		p.Condition = v.Condition
		out = append(out, p)
	}
	for _, h := range logic.ErrorHandlers {
		message := fmt.Sprintf("%s: %s", h.ExceptionType, h.Action)
		p, err := maintdoc.NewClassifiedErrorPattern(message, maintdoc.ErrorTypeException, maintdoc.RecoveryHints(message))
		if err != nil {
			continue
		}
		p.ExceptionType = h.ExceptionType
		out = append(out, p)
	}
	for _, r := range logic.RetryPatterns {
		message := fmt.Sprintf("Transient failure retried up to %d times with %s", r.MaxAttempts, r.BackoffStrategy)
		p, err := maintdoc.NewClassifiedErrorPattern(message, maintdoc.ErrorTypeRetry, []string{
			"Inspect the last failure once all attempts are exhausted",
			"Check the health of the downstream dependency before raising the attempt limit",
		})
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	return maintdoc.DedupeErrorPatterns(out)
}
