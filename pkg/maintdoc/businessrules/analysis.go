package businessrules

import (
	"log/slog"
	"strings"

	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc"
	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/sourcetree"
)

// analysis is the result of one walk over a source tree.
type analysis struct {
	logic        *maintdoc.BusinessLogic
	state        *maintdoc.StateManagement
	dependencies []string
	connections  []maintdoc.ConnectionRequirement

	// intConstants resolves retry bounds written as constant names.
	intConstants map[string]int
	// transactional lists the declarations annotated as transactional.
	transactional []string
}

func newAnalysis() *analysis {
	return &analysis{
		logic:        maintdoc.NewBusinessLogic(),
		dependencies: []string{},
		connections:  []maintdoc.ConnectionRequirement{},
		intConstants: make(map[string]int),
	}
}

// run fills a from tree. Each method and each declaration-level pass is isolated:
// a panic while inspecting one construct drops only that construct.
func (a *analysis) run(tree *sourcetree.Tree, logger *slog.Logger) {
	logger = logger.With(slog.String("path", tree.Path))

	// Constants first so loop bounds can be resolved against them.
	a.guard(logger, "constants", func() { a.collectConstants(tree) })
	for _, m := range tree.Find(tree.Root(), sourcetree.KindMethod) {
		name := tree.Text(tree.ChildByRole(m, sourcetree.RoleName))
		a.guard(logger, "method "+name, func() { a.method(tree, m, name) })
	}
	a.guard(logger, "annotations", func() { a.collectAnnotations(tree) })
	a.guard(logger, "imports", func() { a.dependencies = dependenciesOf(tree) })
	a.guard(logger, "connections", func() { a.connections = connectionsOf(tree) })
	a.state = transactionState(a.transactional)

	logger.Debug("Business logic analysis finished",
		slog.Int("rules", len(a.logic.Rules)),
		slog.Int("validations", len(a.logic.Validations)),
		slog.Int("handlers", len(a.logic.ErrorHandlers)),
		slog.Int("workflows", len(a.logic.Workflows)),
		slog.Int("retryPatterns", len(a.logic.RetryPatterns)))
}

func (a *analysis) guard(logger *slog.Logger, scope string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("Skipping construct after panic during analysis", slog.String("scope", scope), slog.Any("panic", r))
		}
	}()
	fn()
}

// method inspects one method body. Nested methods and local classes are left to their own pass.
func (a *analysis) method(tree *sourcetree.Tree, m sourcetree.NodeID, name string) {
	body := tree.ChildByRole(m, sourcetree.RoleBody)
	if body == sourcetree.NoNode {
		return
	}
	calculation := isCalculation(name)
	var brackets []maintdoc.Bracket

	tree.Walk(body, func(id sourcetree.NodeID, n *sourcetree.Node) bool {
		if id != body && (n.Kind == sourcetree.KindMethod || n.Kind == sourcetree.KindClass) {
			return false
		}
		switch n.Kind {
		case sourcetree.KindIf:
			a.conditional(tree, id)
			if calculation {
				if b, ok := bracketOf(tree, id); ok {
					brackets = append(brackets, b)
				}
			}
		case sourcetree.KindCatch:
			if h, ok := handlerOf(tree, id); ok {
				a.logic.ErrorHandlers = append(a.logic.ErrorHandlers, h)
			}
		case sourcetree.KindWhile, sourcetree.KindFor:
			if r, ok := a.retryLoop(tree, id); ok {
				a.logic.RetryPatterns = append(a.logic.RetryPatterns, r)
			}
		}
		return true
	})

	if len(brackets) > 0 {
		a.logic.CalculationTables = append(a.logic.CalculationTables, maintdoc.CalculationTable{Name: name, Brackets: brackets})
	}
	if wf, ok := workflowOf(tree, name, body); ok {
		a.logic.Workflows = append(a.logic.Workflows, wf)
	}
}

func (a *analysis) addValidation(condition, message string) {
	a.logic.Validations = append(a.logic.Validations, maintdoc.Validation{Condition: condition, Message: message})
}

// directStatements returns the statements of a block, or the node itself for a brace-less branch.
func directStatements(tree *sourcetree.Tree, id sourcetree.NodeID) []sourcetree.NodeID {
	switch {
	case id == sourcetree.NoNode:
		return nil
	case tree.Kind(id) == sourcetree.KindBlock:
		return tree.Children(id)
	default:
		return []sourcetree.NodeID{id}
	}
}

// conditionText returns the normalized condition of an if or loop node.
func conditionText(tree *sourcetree.Tree, id sourcetree.NodeID) string {
	return cleanCondition(tree.Text(tree.ChildByRole(id, sourcetree.RoleCondition)))
}

// cleanCondition collapses whitespace and strips one pair of wrapping parentheses.
func cleanCondition(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' && wrapped(s) {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

// wrapped reports whether the opening parenthesis of s closes at its last byte.
func wrapped(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return false
			}
		}
	}
	return depth == 0
}
