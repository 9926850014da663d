// Package util holds path helpers shared by the walker and the CLI.
package util

import (
	"path"
	"path/filepath"
	"strings"
)

// MatchesGitignore reports whether pathToMatchRel (relative to walkerBaseAbsPath) matches a
// gitignore-style pattern defined in patternBaseAbsPath.
//
// A pattern containing a '/' or marked isRooted is anchored at its base directory; any other
// pattern matches at any depth. "**" matches zero or more whole path segments. Negation and the
// trailing '/' directory marker are handled by the caller.
func MatchesGitignore(pattern, patternBaseAbsPath, walkerBaseAbsPath, pathToMatchRel string, isRooted bool) bool {
	pattern = strings.Trim(filepath.ToSlash(pattern), "/")
	pathToMatchRel = filepath.ToSlash(pathToMatchRel)
	if pattern == "" || pathToMatchRel == "" || pathToMatchRel == "." {
		return false
	}
	rel, err := filepath.Rel(patternBaseAbsPath, filepath.Join(walkerBaseAbsPath, filepath.FromSlash(pathToMatchRel)))
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return false
	}

	patternSegs := strings.Split(pattern, "/")
	pathSegs := strings.Split(rel, "/")
	if isRooted || strings.Contains(pattern, "/") {
		return matchSegments(patternSegs, pathSegs)
	}
	for i := range pathSegs {
		if matchSegments(patternSegs, pathSegs[i:]) {
			return true
		}
	}
	return false
}

func matchSegments(pattern, segs []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			rest := pattern[1:]
			if len(rest) == 0 {
				return true
			}
			for i := 0; i <= len(segs); i++ {
				if matchSegments(rest, segs[i:]) {
					return true
				}
			}
			return false
		}
		if len(segs) == 0 {
			return false
		}
		if ok, _ := path.Match(pattern[0], segs[0]); !ok {
			return false
		}
		pattern, segs = pattern[1:], segs[1:]
	}
	return len(segs) == 0
}
