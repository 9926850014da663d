package maintdoc_test

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catdotbashrc/docs-generator-sub000/internal/testutil"
	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc"
)

func TestGenerateDocs_Validation(t *testing.T) {
	testCases := []struct {
		name   string
		opts   maintdoc.Options
		detail string
	}{
		{"nil logger", maintdoc.Options{InputPath: t.TempDir(), Registry: maintdoc.NewRegistry()}, "Logger"},
		{"negative concurrency", maintdoc.Options{InputPath: t.TempDir(), Registry: maintdoc.NewRegistry(), Logger: slog.DiscardHandler, Concurrency: -2}, "concurrency"},
		{"missing registry", maintdoc.Options{InputPath: t.TempDir(), Logger: slog.DiscardHandler}, "Registry"},
		{"missing input", maintdoc.Options{Registry: maintdoc.NewRegistry(), Logger: slog.DiscardHandler}, "input path"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := maintdoc.GenerateDocs(context.Background(), tc.opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, maintdoc.ErrConfigValidation)
			assert.Contains(t, err.Error(), tc.detail)
		})
	}
}

func TestGenerateDocs_RunsEngine(t *testing.T) {
	dir := t.TempDir()
	testutil.CreateDummyFile(t, filepath.Join(dir, "job.py"), "print('hi')\n")

	ex := new(testutil.MockExtractor)
	ex.ExpectEmpty()
	registry := maintdoc.NewRegistry()
	registry.Register("python", func(slog.Handler) maintdoc.Extractor { return ex })

	report, err := maintdoc.GenerateDocs(context.Background(), maintdoc.Options{
		InputPath:      dir,
		ConfigFilePath: "maintdoc.yaml",
		Logger:         slog.DiscardHandler,
		Registry:       registry,
		Concurrency:    1,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Summary.ProcessedCount)
	assert.Equal(t, "maintdoc.yaml", report.Summary.ConfigFilePath)
	require.Len(t, report.Documents, 1)
	assert.Equal(t, "job.py", report.Documents[0].Path)
}
