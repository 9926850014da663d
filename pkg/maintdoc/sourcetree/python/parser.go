// Package python is the tree-sitter based Python front end producing sourcetree arenas.
// Comments are dropped during conversion, so commented-out code never reaches an extractor.
package python

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sitter "github.com/smacker/go-tree-sitter"
	tspython "github.com/smacker/go-tree-sitter/python"

	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/sourcetree"
	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/sourcetree/tsconv"
)

// ErrUnparsable indicates that the content has syntax errors and no statement could be recovered.
var ErrUnparsable = errors.New("python source could not be parsed")

var kinds = map[string]sourcetree.Kind{
	"module":                   sourcetree.KindFile,
	"import_statement":         sourcetree.KindImport,
	"import_from_statement":    sourcetree.KindImport,
	"future_import_statement":  sourcetree.KindImport,
	"class_definition":         sourcetree.KindClass,
	"function_definition":      sourcetree.KindMethod,
	"parameters":               sourcetree.KindParameters,
	"default_parameter":        sourcetree.KindParameter,
	"typed_parameter":          sourcetree.KindParameter,
	"typed_default_parameter":  sourcetree.KindParameter,
	"decorator":                sourcetree.KindDecorator,
	"argument_list":            sourcetree.KindArguments,
	"keyword_argument":         sourcetree.KindKeywordArgument,
	"pair":                     sourcetree.KindElementValuePair,
	"block":                    sourcetree.KindBlock,
	"if_statement":             sourcetree.KindIf,
	"elif_clause":              sourcetree.KindIf,
	"else_clause":              sourcetree.KindElse,
	"while_statement":          sourcetree.KindWhile,
	"for_statement":            sourcetree.KindFor,
	"try_statement":            sourcetree.KindTry,
	"except_clause":            sourcetree.KindCatch,
	"except_group_clause":      sourcetree.KindCatch,
	"finally_clause":           sourcetree.KindFinally,
	"raise_statement":          sourcetree.KindThrow,
	"return_statement":         sourcetree.KindReturn,
	"expression_statement":     sourcetree.KindExpressionStatement,
	"assignment":               sourcetree.KindAssign,
	"augmented_assignment":     sourcetree.KindAssign,
	"call":                     sourcetree.KindCall,
	"binary_operator":          sourcetree.KindBinary,
	"boolean_operator":         sourcetree.KindBinary,
	"comparison_operator":      sourcetree.KindBinary,
	"not_operator":             sourcetree.KindUnary,
	"unary_operator":           sourcetree.KindUnary,
	"conditional_expression":   sourcetree.KindTernary,
	"parenthesized_expression": sourcetree.KindParenthesized,
	"attribute":                sourcetree.KindFieldAccess,
	"identifier":               sourcetree.KindIdentifier,
	"dotted_name":              sourcetree.KindDottedName,
	"subscript":                sourcetree.KindSubscript,
	"string":                   sourcetree.KindString,
	"concatenated_string":      sourcetree.KindString,
	"integer":                  sourcetree.KindInt,
	"float":                    sourcetree.KindFloat,
	"true":                     sourcetree.KindBool,
	"false":                    sourcetree.KindBool,
	"none":                     sourcetree.KindNull,
	"lambda":                   sourcetree.KindLambda,
	"match_statement":          sourcetree.KindSwitch,
}

var grammar = tsconv.Grammar{
	Kinds: kinds,
	FieldRoles: []tsconv.FieldRole{
		{Field: "name", Role: sourcetree.RoleName},
		{Field: "attribute", Role: sourcetree.RoleName},
		{Field: "key", Role: sourcetree.RoleName},
		{Field: "module_name", Role: sourcetree.RoleModule},
		{Field: "alias", Role: sourcetree.RoleAlias},
		{Field: "function", Role: sourcetree.RoleFunction},
		{Field: "object", Role: sourcetree.RoleObject},
		{Field: "arguments", Role: sourcetree.RoleArguments},
		{Field: "condition", Role: sourcetree.RoleCondition},
		{Field: "consequence", Role: sourcetree.RoleConsequence},
		{Field: "alternative", Role: sourcetree.RoleAlternative},
		{Field: "body", Role: sourcetree.RoleBody},
		{Field: "left", Role: sourcetree.RoleLeft},
		{Field: "right", Role: sourcetree.RoleRight},
		{Field: "value", Role: sourcetree.RoleValue},
		{Field: "parameters", Role: sourcetree.RoleParameters},
		{Field: "type", Role: sourcetree.RoleType},
	},
	Skipped: map[string]bool{
		"comment": true,
	},
	OperatorFields: map[string]string{
		"binary_operator":      "operator",
		"boolean_operator":     "operator",
		"unary_operator":       "operator",
		"augmented_assignment": "operator",
		"comparison_operator":  "operators",
	},
}

// Parser implements sourcetree.Parser for Python.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a Python front end. A nil handler discards logs.
func NewParser(loggerHandler slog.Handler) *Parser {
	if loggerHandler == nil {
		loggerHandler = slog.DiscardHandler
	}
	return &Parser{logger: slog.New(loggerHandler).With(slog.String("component", "python-parser"))}
}

// Parse implements sourcetree.Parser. Syntax errors are tolerated as long as some
// statement survives; tree-sitter keeps the well-formed parts around an error.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*sourcetree.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(tspython.GetLanguage())

	tsTree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse of %s failed: %w", path, err)
	}
	defer tsTree.Close()

	root := tsTree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("%w: %s: empty parse result", ErrUnparsable, path)
	}

	tree := tsconv.Convert(path, root, content, grammar)
	if root.HasError() {
		statements := tree.Find(tree.Root(), sourcetree.KindExpressionStatement, sourcetree.KindImport,
			sourcetree.KindMethod, sourcetree.KindClass)
		if len(statements) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrUnparsable, path)
		}
		p.logger.Debug("Python source contains syntax errors, using recovered tree", slog.String("path", path))
	}
	return tree, nil
}
