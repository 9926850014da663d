// Package automation extracts maintenance knowledge from infrastructure-automation
// scripts: Ansible modules and plain Python using the boto3 SDK. Scripts are read
// through the tree-sitter Python front end.
package automation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc"
	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/sourcetree"
	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/sourcetree/python"
)

// Extractor implements maintdoc.Extractor and maintdoc.TreeParser for automation scripts.
// Sources arriving without a tree are parsed on first use; the tree of the most
// recent such Source is cached.
type Extractor struct {
	parser sourcetree.Parser
	logger *slog.Logger

	mu       sync.Mutex
	lastSrc  *maintdoc.Source
	lastTree *sourcetree.Tree
}

var (
	_ maintdoc.Extractor  = (*Extractor)(nil)
	_ maintdoc.TreeParser = (*Extractor)(nil)
)

// NewExtractor creates an automation Extractor. A nil handler discards logs.
func NewExtractor(loggerHandler slog.Handler) *Extractor {
	if loggerHandler == nil {
		loggerHandler = slog.DiscardHandler
	}
	return &Extractor{
		parser: python.NewParser(loggerHandler),
		logger: slog.New(loggerHandler).With(slog.String("component", "automation-extractor")),
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

// tree returns the syntax tree of src, or nil when it cannot be parsed.
func (e *Extractor) tree(src *maintdoc.Source) *sourcetree.Tree {
	if src == nil {
		return nil
	}
	if src.Tree != nil {
		return src.Tree
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.lastSrc == src {
		return e.lastTree
	}
	tree, err := e.ParseTree(context.Background(), src)
	if err != nil {
		e.logger.Debug("Script could not be parsed", slog.String("path", src.Path), slog.String("error", err.Error()))
	}
	e.lastSrc, e.lastTree = src, tree
	return tree
}

// ExtractPermissions implements maintdoc.Extractor.
func (e *Extractor) ExtractPermissions(src *maintdoc.Source) []maintdoc.PermissionRequirement {
	perms := extractPermissions(e.tree(src))
	e.logger.Debug("Permissions resolved", slog.String("path", src.Path), slog.Int("count", len(perms)))
	return perms
}

// ExtractErrorPatterns implements maintdoc.Extractor.
func (e *Extractor) ExtractErrorPatterns(src *maintdoc.Source) []maintdoc.ErrorPattern {
	patterns := extractErrorPatterns(e.tree(src))
	e.logger.Debug("Error patterns recognized", slog.String("path", src.Path), slog.Int("count", len(patterns)))
	return patterns
}

// ExtractStateManagement implements maintdoc.Extractor.
func (e *Extractor) ExtractStateManagement(src *maintdoc.Source) *maintdoc.StateManagement {
	return extractState(e.tree(src))
}

// ExtractDependencies implements maintdoc.Extractor.
func (e *Extractor) ExtractDependencies(src *maintdoc.Source) []string {
	return extractDependencies(e.tree(src))
}

// ExtractConnectionRequirements implements maintdoc.Extractor.
func (e *Extractor) ExtractConnectionRequirements(src *maintdoc.Source) []maintdoc.ConnectionRequirement {
	return extractConnections(e.tree(src))
}
