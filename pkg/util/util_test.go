package util_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/catdotbashrc/docs-generator-sub000/pkg/util"
)

func TestMatchesGitignore(t *testing.T) {
	root := filepath.FromSlash("/repo")
	sub := filepath.Join(root, "scripts")

	testCases := []struct {
		name        string
		pattern     string
		patternBase string
		path        string
		isRooted    bool
		expected    bool
	}{
		{name: "Exact file name", pattern: "secrets.py", patternBase: root, path: "secrets.py", expected: true},
		{name: "Glob at any depth", pattern: "*_test.py", patternBase: root, path: "jobs/nightly/sync_test.py", expected: true},
		{name: "Directory name at any depth", pattern: "__pycache__", patternBase: root, path: "jobs/__pycache__", expected: true},
		{name: "No match", pattern: "*.java", patternBase: root, path: "jobs/sync.py", expected: false},
		{name: "Rooted matches top level", pattern: "build", patternBase: root, path: "build", isRooted: true, expected: true},
		{name: "Rooted does not match deep", pattern: "build", patternBase: root, path: "src/build", isRooted: true, expected: false},
		{name: "Slash anchors pattern", pattern: "src/generated", patternBase: root, path: "src/generated", expected: true},
		{name: "Slash anchored pattern does not float", pattern: "src/generated", patternBase: root, path: "lib/src/generated", expected: false},
		{name: "Subdir ignore file scope", pattern: "*.py", patternBase: sub, path: "scripts/rotate.py", expected: true},
		{name: "Outside subdir ignore file scope", pattern: "*.py", patternBase: sub, path: "jobs/rotate.py", expected: false},
		{name: "Rooted from subdir ignore file", pattern: "tmp", patternBase: sub, path: "scripts/tmp", isRooted: true, expected: true},
		{name: "Leading double star", pattern: "**/fixtures", patternBase: root, path: "a/b/fixtures", expected: true},
		{name: "Leading double star zero segments", pattern: "**/fixtures", patternBase: root, path: "fixtures", expected: true},
		{name: "Middle double star", pattern: "src/**/Generated*.java", patternBase: root, path: "src/main/java/GeneratedApi.java", expected: true},
		{name: "Middle double star mismatch", pattern: "src/**/Generated*.java", patternBase: root, path: "lib/GeneratedApi.java", expected: false},
		{name: "Trailing double star", pattern: "vendor/**", patternBase: root, path: "vendor/x/y.py", expected: true},
		{name: "Empty pattern", pattern: "", patternBase: root, path: "a.py", expected: false},
		{name: "Empty path", pattern: "*", patternBase: root, path: "", expected: false},
		{name: "Dot path", pattern: "*", patternBase: root, path: ".", expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := util.MatchesGitignore(tc.pattern, tc.patternBase, root, tc.path, tc.isRooted)
			assert.Equal(t, tc.expected, got)
		})
	}
}
