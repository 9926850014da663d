// Package businessrules extracts business logic from Java sources by walking a sourcetree.Tree:
// conditional rules, input validations, exception handlers, call workflows, constants,
// piecewise calculation tables and retry behavior, plus the maintenance facts derived from them.
package businessrules

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc"
	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/sourcetree"
	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/sourcetree/java"
)

// Extractor implements maintdoc.Extractor, maintdoc.TreeParser and
// maintdoc.BusinessLogicExtractor for Java.
// The analysis of the most recent Source is cached so the extraction operations
// of one pipeline run walk the tree only once.
type Extractor struct {
	parser sourcetree.Parser
	logger *slog.Logger

	mu       sync.Mutex
	lastSrc  *maintdoc.Source
	lastTree *sourcetree.Tree
	last     *analysis
}

var (
	_ maintdoc.Extractor              = (*Extractor)(nil)
	_ maintdoc.TreeParser             = (*Extractor)(nil)
	_ maintdoc.BusinessLogicExtractor = (*Extractor)(nil)
)

// NewExtractor creates an Extractor. A nil parser uses the tree-sitter Java front end.
func NewExtractor(parser sourcetree.Parser, loggerHandler slog.Handler) *Extractor {
	if loggerHandler == nil {
		loggerHandler = slog.DiscardHandler
	}
	if parser == nil {
		parser = java.NewParser(loggerHandler)
	}
	return &Extractor{
		parser: parser,
		logger: slog.New(loggerHandler).With(slog.String("component", "businessrules-extractor")),
	}
}

// ParseTree implements maintdoc.TreeParser.
func (e *Extractor) ParseTree(ctx context.Context, src *maintdoc.Source) (*sourcetree.Tree, error) {
	tree, err := e.parser.Parse(ctx, src.Path, []byte(src.Content))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", src.Path, err)
	}
	return tree, nil
}

// ExtractPermissions implements maintdoc.Extractor. Business code carries no cloud permission calls.
func (e *Extractor) ExtractPermissions(src *maintdoc.Source) []maintdoc.PermissionRequirement {
	return []maintdoc.PermissionRequirement{}
}

// ExtractErrorPatterns implements maintdoc.Extractor.
func (e *Extractor) ExtractErrorPatterns(src *maintdoc.Source) []maintdoc.ErrorPattern {
	return errorPatterns(e.analyze(src).logic)
}

// ExtractStateManagement implements maintdoc.Extractor.
func (e *Extractor) ExtractStateManagement(src *maintdoc.Source) *maintdoc.StateManagement {
	return e.analyze(src).state
}

// ExtractDependencies implements maintdoc.Extractor.
func (e *Extractor) ExtractDependencies(src *maintdoc.Source) []string {
	return e.analyze(src).dependencies
}

// ExtractConnectionRequirements implements maintdoc.Extractor.
func (e *Extractor) ExtractConnectionRequirements(src *maintdoc.Source) []maintdoc.ConnectionRequirement {
	return e.analyze(src).connections
}

// ExtractBusinessLogic implements maintdoc.BusinessLogicExtractor.
// A source without a tree yields an empty bundle.
func (e *Extractor) ExtractBusinessLogic(src *maintdoc.Source) *maintdoc.BusinessLogic {
	return e.analyze(src).logic
}

func (e *Extractor) analyze(src *maintdoc.Source) *analysis {
	e.mu.Lock()
	defer e.mu.Unlock()
	if src != nil && e.last != nil && e.lastSrc == src && e.lastTree == src.Tree {
		return e.last
	}
	a := newAnalysis()
	if src != nil && src.Tree != nil {
		a.run(src.Tree, e.logger)
	}
	e.lastSrc, e.last = src, a
	if src != nil {
		e.lastTree = src.Tree
	}
	return a
}
