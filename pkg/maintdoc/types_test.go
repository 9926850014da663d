package maintdoc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc"
)

// TestErrorTypeConstants verifies the serialized values of ErrorType constants.
func TestErrorTypeConstants(t *testing.T) {
	assert.Equal(t, "validation", string(maintdoc.ErrorTypeValidation))
	assert.Equal(t, "exception", string(maintdoc.ErrorTypeException))
	assert.Equal(t, "retry", string(maintdoc.ErrorTypeRetry))
	assert.Equal(t, "generic", string(maintdoc.ErrorTypeGeneric))
	assert.Equal(t, "aws_error", string(maintdoc.ErrorTypeAWS))
}

// TestStatusConstants verifies the string values of Status constants.
func TestStatusConstants(t *testing.T) {
	assert.Equal(t, "pending", string(maintdoc.StatusPending))
	assert.Equal(t, "processing", string(maintdoc.StatusProcessing))
	assert.Equal(t, "success", string(maintdoc.StatusSuccess))
	assert.Equal(t, "failed", string(maintdoc.StatusFailed))
	assert.Equal(t, "skipped", string(maintdoc.StatusSkipped))
}

func TestOnErrorModeConstants(t *testing.T) {
	assert.Equal(t, "continue", string(maintdoc.OnErrorContinue))
	assert.Equal(t, "stop", string(maintdoc.OnErrorStop))
}

func TestValidity(t *testing.T) {
	assert.True(t, maintdoc.ErrorTypeAWS.Valid())
	assert.False(t, maintdoc.ErrorType("timeout").Valid())
	assert.True(t, maintdoc.SeverityCritical.Valid())
	assert.False(t, maintdoc.Severity("urgent").Valid())
}
