// Package tsconv copies tree-sitter syntax trees into sourcetree arenas.
// Each language front end supplies a Grammar describing its node types and fields.
package tsconv

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/sourcetree"
)

// FieldRole binds a grammar field name to the role its child takes in the arena.
type FieldRole struct {
	Field string
	Role  sourcetree.Role
}

// Grammar describes how one tree-sitter language maps onto the arena.
type Grammar struct {
	// Kinds maps grammar node types to kinds. Types absent from the map become KindOther.
	Kinds map[string]sourcetree.Kind
	// FieldRoles is consulted in order; the first field naming a child wins.
	FieldRoles []FieldRole
	// Skipped node types never enter the arena, together with their subtrees.
	Skipped map[string]bool
	// OperatorFields maps node types to the field holding their operator token.
	OperatorFields map[string]string
}

type pending struct {
	node   *sitter.Node
	parent sourcetree.NodeID
	role   sourcetree.Role
}

// Convert copies the named nodes under root into a new Tree using an explicit stack.
// Node ids follow pre-order, so comparing ids compares source positions.
func Convert(path string, root *sitter.Node, content []byte, g Grammar) *sourcetree.Tree {
	tree := sourcetree.NewTree(path)
	stack := []pending{{node: root, parent: sourcetree.NoNode}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := cur.node

		id := tree.Add(cur.parent, sourcetree.Node{
			Kind:     g.Kinds[n.Type()],
			Role:     cur.role,
			Text:     n.Content(content),
			Operator: g.operatorOf(n, content),
			Line:     int(n.StartPoint().Row) + 1,
		})

		roles := g.childRoles(n)
		for i := int(n.ChildCount()) - 1; i >= 0; i-- {
			child := n.Child(i)
			if child == nil || !child.IsNamed() || g.Skipped[child.Type()] {
				continue
			}
			stack = append(stack, pending{node: child, parent: id, role: roles[span(child)]})
		}
	}
	return tree
}

type byteSpan struct {
	start, end uint32
	typ        string
}

func span(n *sitter.Node) byteSpan {
	return byteSpan{start: n.StartByte(), end: n.EndByte(), typ: n.Type()}
}

// childRoles resolves which children of n sit in a named grammar field.
func (g Grammar) childRoles(n *sitter.Node) map[byteSpan]sourcetree.Role {
	roles := make(map[byteSpan]sourcetree.Role)
	for _, fr := range g.FieldRoles {
		child := n.ChildByFieldName(fr.Field)
		if child == nil {
			continue
		}
		s := span(child)
		if _, taken := roles[s]; !taken {
			roles[s] = fr.Role
		}
	}
	return roles
}

func (g Grammar) operatorOf(n *sitter.Node, content []byte) string {
	field, ok := g.OperatorFields[n.Type()]
	if !ok {
		return ""
	}
	if op := n.ChildByFieldName(field); op != nil {
		return op.Content(content)
	}
	return ""
}
