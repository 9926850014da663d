package language_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/language"
)

func TestNewGoEnryDetector_NormalizesOverrides(t *testing.T) {
	detector := language.NewGoEnryDetector(map[string]string{
		".tf":    "HCL",
		"JOB":    "Python",
		"":       "ignored",
		".empty": "",
		".":      "dot",
	})
	require.NotNil(t, detector)

	lang, conf, err := detector.Detect([]byte("resource {}"), "main.tf")
	require.NoError(t, err)
	assert.Equal(t, "hcl", lang)
	assert.Equal(t, language.ConfidenceOverride, conf)

	lang, _, err = detector.Detect([]byte("print('x')"), "nightly.job")
	require.NoError(t, err)
	assert.Equal(t, "python", lang)

	lang, _, err = detector.Detect([]byte("plain words"), "file.empty")
	require.NoError(t, err)
	assert.Equal(t, language.PlainText, lang)
}

func TestGoEnryDetector_Detect(t *testing.T) {
	detector := language.NewGoEnryDetector(nil)

	testCases := []struct {
		name          string
		filePath      string
		content       string
		expectedLang  string
		minConfidence float64
	}{
		{
			name:          "Python automation script",
			filePath:      "scripts/rotate_keys.py",
			content:       "#!/usr/bin/env python\nimport boto3\n\ndef main():\n    boto3.client('iam').list_users()\n",
			expectedLang:  "python",
			minConfidence: language.ConfidenceExtension,
		},
		{
			name:          "Java service",
			filePath:      "src/main/java/com/acme/PayrollService.java",
			content:       "package com.acme;\n\npublic class PayrollService {\n    public int hours() { return 40; }\n}\n",
			expectedLang:  "java",
			minConfidence: language.ConfidenceExtension,
		},
		{
			name:         "Plain text",
			filePath:     "notes.txt",
			content:      "This is just plain text.",
			expectedLang: language.PlainText,
		},
		{
			name:         "Unknown extension",
			filePath:     "file.unknownext",
			content:      "Some text content here.",
			expectedLang: language.PlainText,
		},
		{
			name:         "Empty content",
			filePath:     "empty.py",
			content:      "",
			expectedLang: language.Unknown,
		},
		{
			name:          "Dockerfile by name",
			filePath:      "Dockerfile",
			content:       "FROM python:3.12\nCOPY . /app\n",
			expectedLang:  "dockerfile",
			minConfidence: language.ConfidenceExtension,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			lang, confidence, err := detector.Detect([]byte(tc.content), tc.filePath)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedLang, lang)
			assert.GreaterOrEqual(t, confidence, tc.minConfidence)
		})
	}
}

func TestGoEnryDetector_OverrideBeatsContent(t *testing.T) {
	detector := language.NewGoEnryDetector(map[string]string{".py": "Java"})
	lang, conf, err := detector.Detect([]byte("#!/usr/bin/env python\nprint('hi')\n"), "script.py")
	require.NoError(t, err)
	assert.Equal(t, "java", lang)
	assert.Equal(t, 1.0, conf)
}
