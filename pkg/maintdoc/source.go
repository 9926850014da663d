package maintdoc

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/encoding"
	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/sourcetree"
)

// Source is one source file prepared for extraction.
type Source struct {
	Path    string
	Content string
	// Lines is Content split on "\n".
	Lines []string
	// Tree is set by a TreeParser before the extraction operations run; nil otherwise.
	Tree *sourcetree.Tree
}

// NewSource builds a Source from already decoded text.
func NewSource(path, content string) *Source {
	return &Source{Path: path, Content: content, Lines: strings.Split(content, "\n")}
}

// SourceReader reads a path as decoded source text.
//
// Stability: Public Stable API - Implementations can be provided externally.
type SourceReader interface {
	// ReadSource returns ErrNotFound when path does not exist, ErrIO when it is a directory
	// or unreadable and ErrBinaryFile for binary content.
	ReadSource(path string) (*Source, error)
}

// OSReader reads sources from the local filesystem.
type OSReader struct {
	decoder encoding.Decoder
}

// NewOSReader creates an OSReader. A nil decoder falls back to a charset decoder with no default encoding.
func NewOSReader(decoder encoding.Decoder) *OSReader {
	if decoder == nil {
		decoder = encoding.NewCharsetDecoder("")
	}
	return &OSReader{decoder: decoder}
}

// ReadSource implements SourceReader.
func (r *OSReader) ReadSource(path string) (*Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: stat %s: %w", ErrIO, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrIO, path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	if r.decoder.IsBinary(raw) {
		return nil, fmt.Errorf("%w: %s", ErrBinaryFile, path)
	}
	decoded, err := r.decoder.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrIO, path, err)
	}
	return NewSource(path, decoded.Text), nil
}
