package automation

import (
	"regexp"
	"strings"

	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/sourcetree"
)

var spaceRunRe = regexp.MustCompile(`\s+`)

// pyString returns the value of a Python string literal, dropping its prefix and quotes.
func pyString(text string) string {
	text = strings.TrimSpace(text)
	i := 0
	for i < len(text) && i < 2 && strings.IndexByte("rRbBuUfF", text[i]) >= 0 {
		i++
	}
	if i < len(text) && (text[i] == '\'' || text[i] == '"') {
		return sourcetree.Unquote(text[i:])
	}
	return text
}

// literal returns the value of a string node. Implicitly concatenated
// literals ("a" "b") are joined.
func literal(tree *sourcetree.Tree, id sourcetree.NodeID) (string, bool) {
	if tree.Kind(id) != sourcetree.KindString {
		return "", false
	}
	var parts []string
	for _, c := range tree.Children(id) {
		if tree.Kind(c) == sourcetree.KindString {
			parts = append(parts, pyString(tree.Text(c)))
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, ""), true
	}
	return pyString(tree.Text(id)), true
}

// callee splits a call into its receiver and the called name. Plain function
// calls have no receiver.
func callee(tree *sourcetree.Tree, call sourcetree.NodeID) (sourcetree.NodeID, string) {
	fn := tree.ChildByRole(call, sourcetree.RoleFunction)
	switch tree.Kind(fn) {
	case sourcetree.KindFieldAccess:
		return tree.ChildByRole(fn, sourcetree.RoleObject), tree.Text(tree.ChildByRole(fn, sourcetree.RoleName))
	case sourcetree.KindIdentifier:
		return sourcetree.NoNode, tree.Text(fn)
	}
	return sourcetree.NoNode, ""
}

// positionalArgs returns the arguments of call that are not keyword arguments.
func positionalArgs(tree *sourcetree.Tree, call sourcetree.NodeID) []sourcetree.NodeID {
	var out []sourcetree.NodeID
	for _, a := range tree.Children(tree.ChildByRole(call, sourcetree.RoleArguments)) {
		if tree.Kind(a) != sourcetree.KindKeywordArgument {
			out = append(out, a)
		}
	}
	return out
}

// keywordArg returns the value of the keyword argument name, or NoNode.
func keywordArg(tree *sourcetree.Tree, call sourcetree.NodeID, name string) sourcetree.NodeID {
	for _, a := range tree.Children(tree.ChildByRole(call, sourcetree.RoleArguments)) {
		if tree.Kind(a) == sourcetree.KindKeywordArgument && tree.Text(tree.ChildByRole(a, sourcetree.RoleName)) == name {
			return tree.ChildByRole(a, sourcetree.RoleValue)
		}
	}
	return sourcetree.NoNode
}

// firstString returns the first positional string argument of call.
func firstString(tree *sourcetree.Tree, call sourcetree.NodeID) (string, bool) {
	args := positionalArgs(tree, call)
	if len(args) == 0 {
		return "", false
	}
	return literal(tree, args[0])
}

// argsText returns the source between the parentheses of call.
func argsText(tree *sourcetree.Tree, call sourcetree.NodeID) string {
	text := tree.Text(tree.ChildByRole(call, sourcetree.RoleArguments))
	if len(text) >= 2 && text[0] == '(' && text[len(text)-1] == ')' {
		text = text[1 : len(text)-1]
	}
	return strings.TrimSpace(text)
}

func isUpper(name string) bool {
	return name != "" && 'A' <= name[0] && name[0] <= 'Z'
}

// guard describes the conditional context of a statement.
type guard struct {
	condition string
	inElse    bool
	inExcept  bool
}

// guardOf reports the condition of the innermost block holding id when that block
// belongs to an if or elif, or whether it is an else branch. Ancestors from stop
// upwards are not considered.
func guardOf(tree *sourcetree.Tree, id, stop sourcetree.NodeID) guard {
	var g guard
	owner := sourcetree.NoNode
	for cur := tree.Node(id).Parent; cur != sourcetree.NoNode && cur != stop; cur = tree.Node(cur).Parent {
		if owner == sourcetree.NoNode && tree.Kind(cur) == sourcetree.KindBlock {
			owner = tree.Node(cur).Parent
		}
		if tree.Kind(cur) == sourcetree.KindCatch {
			g.inExcept = true
		}
	}
	if owner == stop {
		return g
	}
	switch tree.Kind(owner) {
	case sourcetree.KindIf:
		g.condition = cleanCondition(tree.Text(tree.ChildByRole(owner, sourcetree.RoleCondition)))
	case sourcetree.KindElse:
		g.inElse = true
	}
	return g
}

// cleanCondition collapses whitespace and drops one pair of wrapping parentheses.
func cleanCondition(cond string) string {
	cond = strings.TrimSpace(spaceRunRe.ReplaceAllString(cond, " "))
	if strings.HasPrefix(cond, "(") && strings.HasSuffix(cond, ")") && balanced(cond[1:len(cond)-1]) {
		cond = strings.TrimSpace(cond[1 : len(cond)-1])
	}
	return cond
}

func balanced(s string) bool {
	depth := 0
	for _, c := range s {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}
