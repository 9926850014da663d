package template_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc"
	tmpl "github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/template"
)

var generatedAt = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func populatedResult(t *testing.T) maintdoc.FileResult {
	t.Helper()
	doc := maintdoc.NewMaintenanceDocument("jobs/sync.py")
	doc.Permissions = []maintdoc.PermissionRequirement{maintdoc.IAMPermission{Service: "s3", Action: "PutObject"}}
	pattern, err := maintdoc.NewErrorPattern("Bucket missing", maintdoc.ErrorTypeException, maintdoc.SeverityHigh,
		[]string{"Check the bucket name", "Re-run the job"})
	require.NoError(t, err)
	pattern.Condition = "not bucket_exists"
	doc.ErrorPatterns = []maintdoc.ErrorPattern{pattern}
	doc.StateManagement = &maintdoc.StateManagement{
		StateType:            "file",
		StateLocation:        "/var/lib/sync/state.json",
		IdempotencySupport:   true,
		StateValidationSteps: []string{"Verify the state file is valid JSON"},
	}
	doc.Dependencies = []string{"boto3"}
	doc.MaintenanceScenarios = maintdoc.GenerateDefaultScenarios(doc)
	return maintdoc.FileResult{Path: "jobs/sync.py", Language: "python", Coverage: 5.0 / 6.0, Document: doc}
}

func TestGoRunbookExecutor_DefaultTemplate(t *testing.T) {
	var buf bytes.Buffer
	err := tmpl.NewGoRunbookExecutor().Execute(&buf, nil, tmpl.NewRunbookData(populatedResult(t), generatedAt))
	require.NoError(t, err)
	out := buf.String()

	assert.Contains(t, out, "# Maintenance runbook: `jobs/sync.py`")
	assert.Contains(t, out, "Coverage: 83%")
	assert.Contains(t, out, "2024-03-01 09:30 UTC")
	assert.Contains(t, out, "- `s3:PutObject`")
	assert.Contains(t, out, "### Bucket missing")
	assert.Contains(t, out, "- Severity: **high**")
	assert.Contains(t, out, "- Condition: `not bucket_exists`")
	assert.Contains(t, out, "1. Check the bucket name")
	assert.Contains(t, out, "2. Re-run the job")
	assert.Contains(t, out, "- Idempotent: yes")
	assert.Contains(t, out, "- Rollback: no")
	assert.Contains(t, out, "- boto3")
	assert.Contains(t, out, "### Permission troubleshooting")
	assert.Contains(t, out, "### Error recovery")
	assert.NotContains(t, out, "## Business logic")
}

func TestGoRunbookExecutor_EmptyDocument(t *testing.T) {
	result := maintdoc.FileResult{Path: "empty.py", Document: maintdoc.NewMaintenanceDocument("empty.py")}
	var buf bytes.Buffer
	require.NoError(t, tmpl.NewGoRunbookExecutor().Execute(&buf, nil, tmpl.NewRunbookData(result, generatedAt)))
	out := buf.String()

	assert.Contains(t, out, "Coverage: 0%")
	assert.Contains(t, out, "Unknown.")
	assert.Contains(t, out, "No scenarios generated.")
	assert.NotContains(t, out, "Language:")
}

func TestGoRunbookExecutor_BusinessLogic(t *testing.T) {
	doc := maintdoc.NewMaintenanceDocument("PayrollService.java")
	logic := maintdoc.NewBusinessLogic()
	logic.Rules = append(logic.Rules, maintdoc.Rule{Condition: "hours > 40", Description: "Overtime calculation for hours exceeding 40"})
	logic.RetryPatterns = append(logic.RetryPatterns, maintdoc.RetryPattern{MaxAttempts: 5, BackoffStrategy: maintdoc.BackoffExponential})
	doc.BusinessLogic = logic

	var buf bytes.Buffer
	err := tmpl.NewGoRunbookExecutor().Execute(&buf, nil, tmpl.NewRunbookData(maintdoc.FileResult{Path: "PayrollService.java", Document: doc}, generatedAt))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "- Rule: Overtime calculation for hours exceeding 40 (`hours > 40`)")
	assert.Contains(t, buf.String(), "- Retry: up to 5 attempts, exponential backoff")
}

func TestLoadTemplateFile(t *testing.T) {
	dir := t.TempDir()
	custom := filepath.Join(dir, "custom.tmpl")
	require.NoError(t, os.WriteFile(custom, []byte("{{ .Path }} {{ percent .Coverage }}"), 0644))

	parsed, err := tmpl.LoadTemplateFile(custom)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, tmpl.NewGoRunbookExecutor().Execute(&buf, parsed, &tmpl.RunbookData{Path: "a.py", Coverage: 0.5}))
	assert.Equal(t, "a.py 50%", buf.String())

	testCases := []struct {
		name    string
		content *string
	}{
		{name: "Missing file"},
		{name: "Empty file", content: ptr("   \n")},
		{name: "Syntax error", content: ptr("{{ .Path ")},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, "broken-"+tc.name)
			if tc.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tc.content), 0644))
			}
			_, err := tmpl.LoadTemplateFile(path)
			assert.ErrorIs(t, err, tmpl.ErrTemplateLoad)
		})
	}
}

func TestExecute_TemplateError(t *testing.T) {
	parsed, err := tmpl.LoadTemplateFile(writeTemp(t, "{{ .Missing.Field }}"))
	require.NoError(t, err)
	err = tmpl.NewGoRunbookExecutor().Execute(&bytes.Buffer{}, parsed, &tmpl.RunbookData{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "template execution failed")
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "t.tmpl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func ptr(s string) *string { return &s }
