// Package encoding turns raw source bytes into normalized UTF-8 text for extraction.
package encoding

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

const (
	// sniffLen is the number of bytes used by http.DetectContentType.
	sniffLen = 512
	// checkLen is the prefix inspected for null bytes.
	checkLen = 1024
	// nullThreshold is the fraction of null bytes above which content is binary.
	nullThreshold = 0.15
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Script and source MIME types that http.DetectContentType reports outside text/.
var textMIMETypes = map[string]bool{
	"application/json":         true,
	"application/xml":          true,
	"application/javascript":   true,
	"application/x-javascript": true,
	"application/yaml":         true,
	"application/x-yaml":       true,
	"application/toml":         true,
	"application/x-sh":         true,
	"application/octet-stream": true, // decided by the null byte check
}

// Decoded is source text ready for extraction.
type Decoded struct {
	// Text is UTF-8 with the byte order mark removed and CRLF/CR line endings turned into LF.
	Text string
	// Encoding is the IANA name of the detected source encoding.
	Encoding string
	// Certain is false when the encoding was guessed.
	Certain bool
}

// Decoder detects binary content and converts source files to UTF-8.
//
// Stability: Public Stable API - Implementations can be provided externally.
type Decoder interface {
	// Decode converts content to normalized UTF-8 text. When no encoding can be determined
	// with certainty, the configured default encoding is assumed.
	Decode(content []byte) (Decoded, error)
	// IsBinary reports whether content looks like binary data (MIME sniffing on the first
	// 512 bytes plus the share of null bytes in the first 1024 bytes).
	IsBinary(content []byte) bool
}

type charsetDecoder struct {
	defaultEncoding string
}

// NewCharsetDecoder creates a Decoder backed by golang.org/x/net/html/charset.
// defaultEncoding (e.g. "windows-1252") is used when detection is uncertain; empty keeps the guess.
func NewCharsetDecoder(defaultEncoding string) Decoder {
	return &charsetDecoder{defaultEncoding: defaultEncoding}
}

// Decode implements Decoder.
func (d *charsetDecoder) Decode(content []byte) (Decoded, error) {
	if bytes.HasPrefix(content, utf8BOM) {
		return Decoded{Text: normalizeNewlines(string(content[len(utf8BOM):])), Encoding: "utf-8", Certain: true}, nil
	}

	// ASCII is a subset of UTF-8; only fall back to detection for invalid input.
	if utf8.Valid(content) {
		return Decoded{Text: normalizeNewlines(string(content)), Encoding: "utf-8", Certain: true}, nil
	}

	enc, name, certain := charset.DetermineEncoding(content, "")
	if !certain && d.defaultEncoding != "" {
		if fallback, fallbackName := charset.Lookup(d.defaultEncoding); fallback != nil {
			enc, name, certain = fallback, fallbackName, true
		}
	}
	if name == "" {
		name = "utf-8"
	}
	if enc == nil || name == "utf-8" {
		return Decoded{Text: normalizeNewlines(string(content)), Encoding: name, Certain: certain}, nil
	}

	utf8Content, err := io.ReadAll(transform.NewReader(bytes.NewReader(content), enc.NewDecoder()))
	if err != nil {
		return Decoded{Encoding: name, Certain: certain}, fmt.Errorf("failed to convert from %q: %w", name, err)
	}
	// Decoders for UTF-16 keep the BOM as U+FEFF.
	text := strings.TrimPrefix(string(utf8Content), "\ufeff")
	return Decoded{Text: normalizeNewlines(text), Encoding: name, Certain: certain}, nil
}

func normalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func isTextMIME(contentType string) bool {
	mimeType := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	if strings.HasPrefix(mimeType, "text/") || textMIMETypes[mimeType] {
		return true
	}
	return strings.HasSuffix(mimeType, "+xml") || strings.HasSuffix(mimeType, "+json")
}

// IsBinary implements Decoder.
func (d *charsetDecoder) IsBinary(content []byte) bool {
	if len(content) == 0 {
		return false
	}
	if !isTextMIME(http.DetectContentType(content[:min(len(content), sniffLen)])) {
		return true
	}
	prefix := content[:min(len(content), checkLen)]
	nulls := bytes.Count(prefix, []byte{0x00})
	return float64(nulls)/float64(len(prefix)) > nullThreshold
}
