package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/catdotbashrc/docs-generator-sub000/internal/testutil"
	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc"
)

const ec2Script = `import boto3

ec2 = boto3.client('ec2')
ec2.describe_instances()
`

const javaService = `package com.acme;

public class OrderService {
    public void place(Order order) {
        if (order == null) {
            throw new IllegalArgumentException("Order is required");
        }
    }
}
`

func setupInput(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	testutil.CreateTree(t, root, map[string]string{
		"scripts/cleanup.py":    ec2Script,
		"src/OrderService.java": javaService,
		"README.txt":            "notes",
	})
	return root
}

func baseOptions(input string, format maintdoc.OutputFormat) maintdoc.Options {
	return maintdoc.Options{
		InputPath:    input,
		OutputFormat: format,
		OnErrorMode:  maintdoc.OnErrorContinue,
		Concurrency:  2,
		Logger:       slog.DiscardHandler,
	}
}

func discardLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{"java", "python"}, r.Languages())

	for _, lang := range []string{"Python", "Java"} {
		ex, err := r.New(lang, slog.DiscardHandler)
		require.NoError(t, err)
		assert.NotNil(t, ex)
	}
	_, err := r.New("ruby", nil)
	assert.ErrorIs(t, err, maintdoc.ErrUnsupportedLanguage)
}

func TestRun_TextSummary(t *testing.T) {
	var out bytes.Buffer
	err := Run(context.Background(), baseOptions(setupInput(t), maintdoc.OutputFormatText), discardLogger(), &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "maintdoc summary")
	assert.Contains(t, out.String(), "scripts/cleanup.py (python)")
	assert.Contains(t, out.String(), "src/OrderService.java (java)")
	assert.Contains(t, out.String(), "README.txt unsupported_language")
}

func TestRun_JSONReport(t *testing.T) {
	var out bytes.Buffer
	opts := baseOptions(setupInput(t), maintdoc.OutputFormatJSON)
	opts.ConfigFilePath = "/etc/maintdoc.yaml"
	require.NoError(t, Run(context.Background(), opts, discardLogger(), &out))

	var report struct {
		Summary struct {
			ProcessedCount int    `json:"processedCount"`
			SkippedCount   int    `json:"skippedCount"`
			ConfigFilePath string `json:"configFilePath"`
		} `json:"summary"`
		Documents []struct {
			Path     string `json:"path"`
			Document struct {
				Permissions []map[string]string `json:"permissions"`
			} `json:"document"`
		} `json:"documents"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, 2, report.Summary.ProcessedCount)
	assert.Equal(t, 1, report.Summary.SkippedCount)
	assert.Equal(t, "/etc/maintdoc.yaml", report.Summary.ConfigFilePath)

	require.Len(t, report.Documents, 2)
	assert.Equal(t, "scripts/cleanup.py", report.Documents[0].Path)
	assert.Contains(t, report.Documents[0].Document.Permissions, map[string]string{"service": "ec2", "action": "DescribeInstances"})
}

func TestRun_YAMLReportToFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "reports", "report.yaml")
	opts := baseOptions(setupInput(t), maintdoc.OutputFormatYAML)
	opts.OutputPath = target

	var stdout bytes.Buffer
	require.NoError(t, Run(context.Background(), opts, discardLogger(), &stdout))
	assert.Empty(t, stdout.String())

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "summary")
	assert.Contains(t, string(data), "action: DescribeInstances")
}

func TestRun_MarkdownToStdout(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), baseOptions(setupInput(t), maintdoc.OutputFormatMarkdown), discardLogger(), &out))

	assert.Contains(t, out.String(), "# Maintenance runbook: `scripts/cleanup.py`")
	assert.Contains(t, out.String(), "# Maintenance runbook: `src/OrderService.java`")
	assert.Contains(t, out.String(), "`ec2:DescribeInstances`")
	assert.Contains(t, out.String(), runbookSeparator)
}

func TestRun_MarkdownToDirectory(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "runbooks")
	opts := baseOptions(setupInput(t), maintdoc.OutputFormatMarkdown)
	opts.OutputPath = outDir

	var stdout bytes.Buffer
	require.NoError(t, Run(context.Background(), opts, discardLogger(), &stdout))
	assert.Empty(t, stdout.String())

	content, err := os.ReadFile(filepath.Join(outDir, "scripts", "cleanup.py.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "`ec2:DescribeInstances`")
	assert.FileExists(t, filepath.Join(outDir, "src", "OrderService.java.md"))
	assert.NoFileExists(t, filepath.Join(outDir, "README.txt.md"))
}

func TestRun_CustomTemplate(t *testing.T) {
	dir := t.TempDir()
	tmplPath := filepath.Join(dir, "short.md")
	testutil.CreateDummyFile(t, tmplPath, "{{ .Path }}={{ percent .Coverage }}\n")

	input := filepath.Join(dir, "cleanup.py")
	testutil.CreateDummyFile(t, input, ec2Script)

	opts := baseOptions(input, maintdoc.OutputFormatMarkdown)
	opts.TemplatePath = tmplPath

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), opts, discardLogger(), &out))
	assert.Regexp(t, `^cleanup\.py=\d+%\n$`, out.String())
}

func TestRun_EngineInitError(t *testing.T) {
	opts := baseOptions("", maintdoc.OutputFormatText)
	err := Run(context.Background(), opts, discardLogger(), &bytes.Buffer{})
	require.Error(t, err)
	assert.ErrorIs(t, err, maintdoc.ErrConfigValidation)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := Run(ctx, baseOptions(setupInput(t), maintdoc.OutputFormatText), discardLogger(), &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, out.String(), "maintdoc summary", "the partial report is still rendered")
}
