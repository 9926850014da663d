// Package java is the tree-sitter based Java front end producing sourcetree arenas.
package java

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sitter "github.com/smacker/go-tree-sitter"
	tsjava "github.com/smacker/go-tree-sitter/java"

	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/sourcetree"
	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/sourcetree/tsconv"
)

// ErrUnparsable indicates that the content has syntax errors and no type declaration could be recovered.
var ErrUnparsable = errors.New("java source could not be parsed")

// kinds maps tree-sitter grammar node types to language-neutral kinds.
// Types absent from the table become sourcetree.KindOther.
var kinds = map[string]sourcetree.Kind{
	"program":                        sourcetree.KindFile,
	"package_declaration":            sourcetree.KindPackage,
	"import_declaration":             sourcetree.KindImport,
	"class_declaration":              sourcetree.KindClass,
	"interface_declaration":          sourcetree.KindClass,
	"enum_declaration":               sourcetree.KindClass,
	"record_declaration":             sourcetree.KindClass,
	"field_declaration":              sourcetree.KindField,
	"constant_declaration":           sourcetree.KindField,
	"method_declaration":             sourcetree.KindMethod,
	"constructor_declaration":        sourcetree.KindMethod,
	"formal_parameters":              sourcetree.KindParameters,
	"formal_parameter":               sourcetree.KindParameter,
	"modifiers":                      sourcetree.KindModifiers,
	"annotation":                     sourcetree.KindAnnotation,
	"marker_annotation":              sourcetree.KindAnnotation,
	"annotation_argument_list":       sourcetree.KindArguments,
	"argument_list":                  sourcetree.KindArguments,
	"element_value_pair":             sourcetree.KindElementValuePair,
	"block":                          sourcetree.KindBlock,
	"constructor_body":               sourcetree.KindBlock,
	"class_body":                     sourcetree.KindBlock,
	"interface_body":                 sourcetree.KindBlock,
	"enum_body":                      sourcetree.KindBlock,
	"if_statement":                   sourcetree.KindIf,
	"while_statement":                sourcetree.KindWhile,
	"do_statement":                   sourcetree.KindWhile,
	"for_statement":                  sourcetree.KindFor,
	"enhanced_for_statement":         sourcetree.KindFor,
	"try_statement":                  sourcetree.KindTry,
	"try_with_resources_statement":   sourcetree.KindTry,
	"catch_clause":                   sourcetree.KindCatch,
	"catch_formal_parameter":         sourcetree.KindCatchParameter,
	"finally_clause":                 sourcetree.KindFinally,
	"throw_statement":                sourcetree.KindThrow,
	"return_statement":               sourcetree.KindReturn,
	"expression_statement":           sourcetree.KindExpressionStatement,
	"local_variable_declaration":     sourcetree.KindLocalVariable,
	"variable_declarator":            sourcetree.KindDeclarator,
	"method_invocation":              sourcetree.KindCall,
	"object_creation_expression":     sourcetree.KindNew,
	"binary_expression":              sourcetree.KindBinary,
	"unary_expression":               sourcetree.KindUnary,
	"update_expression":              sourcetree.KindUpdate,
	"assignment_expression":          sourcetree.KindAssign,
	"ternary_expression":             sourcetree.KindTernary,
	"parenthesized_expression":       sourcetree.KindParenthesized,
	"field_access":                   sourcetree.KindFieldAccess,
	"identifier":                     sourcetree.KindIdentifier,
	"type_identifier":                sourcetree.KindType,
	"scoped_type_identifier":         sourcetree.KindType,
	"generic_type":                   sourcetree.KindType,
	"array_type":                     sourcetree.KindType,
	"integral_type":                  sourcetree.KindType,
	"floating_point_type":            sourcetree.KindType,
	"boolean_type":                   sourcetree.KindType,
	"void_type":                      sourcetree.KindType,
	"catch_type":                     sourcetree.KindType,
	"string_literal":                 sourcetree.KindString,
	"text_block":                     sourcetree.KindString,
	"character_literal":              sourcetree.KindString,
	"decimal_integer_literal":        sourcetree.KindInt,
	"hex_integer_literal":            sourcetree.KindInt,
	"octal_integer_literal":          sourcetree.KindInt,
	"binary_integer_literal":         sourcetree.KindInt,
	"decimal_floating_point_literal": sourcetree.KindFloat,
	"hex_floating_point_literal":     sourcetree.KindFloat,
	"true":                           sourcetree.KindBool,
	"false":                          sourcetree.KindBool,
	"null_literal":                   sourcetree.KindNull,
	"lambda_expression":              sourcetree.KindLambda,
	"switch_expression":              sourcetree.KindSwitch,
}

var grammar = tsconv.Grammar{
	Kinds: kinds,
	FieldRoles: []tsconv.FieldRole{
		{Field: "name", Role: sourcetree.RoleName},
		{Field: "key", Role: sourcetree.RoleName},
		{Field: "type", Role: sourcetree.RoleType},
		{Field: "condition", Role: sourcetree.RoleCondition},
		{Field: "consequence", Role: sourcetree.RoleConsequence},
		{Field: "alternative", Role: sourcetree.RoleAlternative},
		{Field: "body", Role: sourcetree.RoleBody},
		{Field: "object", Role: sourcetree.RoleObject},
		{Field: "arguments", Role: sourcetree.RoleArguments},
		{Field: "left", Role: sourcetree.RoleLeft},
		{Field: "right", Role: sourcetree.RoleRight},
		{Field: "value", Role: sourcetree.RoleValue},
		{Field: "parameters", Role: sourcetree.RoleParameters},
		{Field: "init", Role: sourcetree.RoleInit},
		{Field: "update", Role: sourcetree.RoleUpdate},
	},
	Skipped: map[string]bool{
		"line_comment":  true,
		"block_comment": true,
	},
	OperatorFields: map[string]string{
		"binary_expression":     "operator",
		"unary_expression":      "operator",
		"assignment_expression": "operator",
	},
}

// Parser implements sourcetree.Parser for Java.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a Java front end. A nil handler discards logs.
func NewParser(loggerHandler slog.Handler) *Parser {
	if loggerHandler == nil {
		loggerHandler = slog.DiscardHandler
	}
	return &Parser{logger: slog.New(loggerHandler).With(slog.String("component", "java-parser"))}
}

// Parse implements sourcetree.Parser.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*sourcetree.Tree, error) {
	// tree-sitter parsers are not safe for concurrent use; one per call.
	parser := sitter.NewParser()
	parser.SetLanguage(tsjava.GetLanguage())

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
		if len(tree.Find(tree.Root(), sourcetree.KindClass)) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrUnparsable, path)
		}
		p.logger.Debug("Java source contains syntax errors, using recovered tree", slog.String("path", path))
	}
	return tree, nil
}
