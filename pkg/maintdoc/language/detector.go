// Package language identifies the programming language of a source file so the
// engine can pick a matching extractor.
package language

import (
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Identifiers returned for inputs no rule recognizes.
const (
	Unknown   = "unknown"
	PlainText = "plaintext"
)

// Indicative confidence scores reported by the go-enry detector.
const (
	ConfidenceOverride  = 1.0
	ConfidenceContent   = 0.8
	ConfidenceExtension = 0.5
)

// LanguageDetector determines the language of a file from its content and path.
//
// Stability: Public Stable API - Implementations can be provided externally.
type LanguageDetector interface {
	// Detect returns a lowercase language identifier such as "python" or "java",
	// PlainText when content exists but nothing matched and Unknown for empty content.
	Detect(content []byte, filePath string) (language string, confidence float64, err error)
}

type goEnryDetector struct {
	overrides map[string]string // extension with leading dot -> language
}

// NewGoEnryDetector creates a go-enry backed detector. Override keys are file extensions,
// with or without the leading dot; keys and values are lowercased.
func NewGoEnryDetector(overrides map[string]string) LanguageDetector {
	normalized := make(map[string]string, len(overrides))
	for ext, lang := range overrides {
		ext = strings.ToLower(strings.TrimSpace(ext))
		lang = strings.ToLower(strings.TrimSpace(lang))
		if ext == "" || ext == "." || lang == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized[ext] = lang
	}
	return &goEnryDetector{overrides: normalized}
}

// Detect implements LanguageDetector. Overrides win, then combined content and
// filename analysis, then the extension table, then well-known filenames.
func (d *goEnryDetector) Detect(content []byte, filePath string) (string, float64, error) {
	if len(content) == 0 {
		return Unknown, 0, nil
	}
	if lang, ok := d.overrides[strings.ToLower(filepath.Ext(filePath))]; ok {
		return lang, ConfidenceOverride, nil
	}
	if lang := enry.GetLanguage(filepath.Base(filePath), content); recognized(lang) {
		return strings.ToLower(lang), ConfidenceContent, nil
	}
	if lang, safe := enry.GetLanguageByExtension(filePath); safe && recognized(lang) {
		return strings.ToLower(lang), ConfidenceExtension, nil
	}
	if lang, safe := enry.GetLanguageByFilename(filePath); safe && recognized(lang) {
		return strings.ToLower(lang), ConfidenceExtension, nil
	}
	return PlainText, 0, nil
}

func recognized(lang string) bool {
	return lang != "" && lang != "Text"
}
