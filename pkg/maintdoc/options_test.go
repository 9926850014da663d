package maintdoc_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/catdotbashrc/docs-generator-sub000/internal/testutil"
	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc"
)

func TestNoOpHooks(t *testing.T) {
	hooks := &maintdoc.NoOpHooks{}
	assert.NoError(t, hooks.OnFileDiscovered("jobs/sync.py"))
	assert.NoError(t, hooks.OnFileStatusUpdate("jobs/sync.py", maintdoc.StatusSuccess, "done", 10*time.Millisecond))
	assert.NoError(t, hooks.OnRunComplete(maintdoc.Report{}))
}

func TestOptionsInterfaceAssignment(t *testing.T) {
	opts := maintdoc.Options{
		EventHooks:       &testutil.MockHooks{},
		Logger:           slog.NewJSONHandler(io.Discard, nil),
		LanguageDetector: &testutil.MockLanguageDetector{},
		Decoder:          &testutil.MockDecoder{},
		Reader:           &testutil.MockSourceReader{},
		Registry:         maintdoc.NewRegistry(),
	}
	assert.NotNil(t, opts.EventHooks)
	assert.NotNil(t, opts.Logger)
	assert.NotNil(t, opts.LanguageDetector)
	assert.NotNil(t, opts.Decoder)
	assert.NotNil(t, opts.Reader)
	assert.NotNil(t, opts.Registry)
}
