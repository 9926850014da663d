package maintdoc_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc"
)

func sampleReport() maintdoc.Report {
	doc := maintdoc.NewMaintenanceDocument("jobs/sync.py")
	doc.Permissions = []maintdoc.PermissionRequirement{maintdoc.IAMPermission{Service: "s3", Action: "PutObject"}}
	doc.Dependencies = []string{"boto3"}
	return maintdoc.Report{
		Summary: maintdoc.ReportSummary{
			InputPath:         "/in",
			TotalFilesScanned: 3,
			ProcessedCount:    1,
			SkippedCount:      1,
			ErrorCount:        1,
			AverageCoverage:   0.5,
			DurationSeconds:   1.25,
			Concurrency:       4,
			Timestamp:         time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		},
		Documents: []maintdoc.FileResult{{
			Path:               "jobs/sync.py",
			Language:           "python",
			LanguageConfidence: 0.8,
			Coverage:           0.5,
			DurationMs:         12,
			Document:           doc,
		}},
		SkippedFiles: []maintdoc.SkippedInfo{{Path: "logo.png", Reason: maintdoc.SkipReasonBinary}},
		Errors:       []maintdoc.ErrorInfo{{Path: "broken.py", Error: "read failed"}},
	}
}

func TestReportJSON(t *testing.T) {
	raw, err := json.Marshal(sampleReport())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	summary := decoded["summary"].(map[string]any)
	assert.Equal(t, "/in", summary["inputPath"])
	assert.Equal(t, 0.5, summary["averageCoverage"])
	assert.Equal(t, false, summary["fatalError"])
	assert.NotContains(t, summary, "configFilePath")
	assert.NotContains(t, summary, "schemaVersion")

	documents := decoded["documents"].([]any)
	require.Len(t, documents, 1)
	first := documents[0].(map[string]any)
	assert.Equal(t, "python", first["language"])
	doc := first["document"].(map[string]any)
	assert.Equal(t, "jobs/sync.py", doc["sourceFile"])
	assert.Equal(t, []any{map[string]any{"service": "s3", "action": "PutObject"}}, doc["permissions"])
	assert.Nil(t, doc["stateManagement"])
	assert.NotContains(t, doc, "businessLogic")

	assert.Equal(t, "binary_file", decoded["skippedFiles"].([]any)[0].(map[string]any)["reason"])
	assert.Equal(t, false, decoded["errors"].([]any)[0].(map[string]any)["isFatal"])
}

func TestReportYAML(t *testing.T) {
	raw, err := yaml.Marshal(sampleReport())
	require.NoError(t, err)
	out := string(raw)

	assert.Contains(t, out, "summary:")
	assert.Contains(t, out, "averageCoverage: 0.5")
	assert.Contains(t, out, "sourceFile: jobs/sync.py")
	assert.Contains(t, out, "service: s3")
	assert.Contains(t, out, "reason: binary_file")
	assert.NotContains(t, out, "businessLogic")
}
