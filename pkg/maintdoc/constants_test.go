package maintdoc_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc"
)

func TestDefaultValues(t *testing.T) {
	assert.Equal(t, 0, maintdoc.DefaultConcurrency)
	assert.Equal(t, maintdoc.OnErrorContinue, maintdoc.DefaultOnErrorMode)
	assert.Equal(t, maintdoc.OutputFormatText, maintdoc.DefaultOutputFormat)
	assert.False(t, maintdoc.DefaultVerbose)
	assert.Equal(t, time.Second, maintdoc.DefaultDispatchWarnThreshold)
	assert.Equal(t, ".maintdocignore", maintdoc.IgnoreFileName)
	assert.Contains(t, maintdoc.DefaultIgnorePatterns, "__pycache__/")
	assert.Contains(t, maintdoc.DefaultIgnorePatterns, "target/")
}
