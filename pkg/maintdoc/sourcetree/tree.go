// Package sourcetree holds a language-neutral parse tree stored as an arena of nodes.
// Language front ends (the java and python subpackages) build a Tree; tree-walking extractors
// consume it through NodeID indices and the iterative Walk.
package sourcetree

import (
	"context"
	"sync"
)

// NodeID indexes a Node inside its Tree.
type NodeID int32

// NoNode is returned by lookups that find nothing.
const NoNode NodeID = -1

// Kind is the language-neutral category of a node.
type Kind uint8

const (
	KindOther Kind = iota
	KindFile
	KindPackage
	KindImport
	KindClass
	KindField
	KindMethod
	KindParameters
	KindParameter
	KindModifiers
	KindAnnotation
	KindArguments
	KindElementValuePair
	KindBlock
	KindIf
	KindWhile
	KindFor
	KindTry
	KindCatch
	KindCatchParameter
	KindFinally
	KindThrow
	KindReturn
	KindExpressionStatement
	KindLocalVariable
	KindDeclarator
	KindCall
	KindNew
	KindBinary
	KindUnary
	KindUpdate
	KindAssign
	KindTernary
	KindParenthesized
	KindFieldAccess
	KindIdentifier
	KindType
	KindString
	KindInt
	KindFloat
	KindBool
	KindNull
	KindLambda
	KindSwitch
	KindElse
	KindDecorator
	KindKeywordArgument
	KindDottedName
	KindSubscript
)

var kindNames = [...]string{
	KindOther: "other", KindFile: "file", KindPackage: "package", KindImport: "import",
	KindClass: "class", KindField: "field", KindMethod: "method", KindParameters: "parameters",
	KindParameter: "parameter", KindModifiers: "modifiers", KindAnnotation: "annotation",
	KindArguments: "arguments", KindElementValuePair: "element_value_pair", KindBlock: "block",
	KindIf: "if", KindWhile: "while", KindFor: "for", KindTry: "try", KindCatch: "catch",
	KindCatchParameter: "catch_parameter", KindFinally: "finally", KindThrow: "throw",
	KindReturn: "return", KindExpressionStatement: "expression_statement",
	KindLocalVariable: "local_variable", KindDeclarator: "declarator", KindCall: "call",
	KindNew: "new", KindBinary: "binary", KindUnary: "unary", KindUpdate: "update",
	KindAssign: "assign", KindTernary: "ternary", KindParenthesized: "parenthesized",
	KindFieldAccess: "field_access", KindIdentifier: "identifier", KindType: "type",
	KindString: "string", KindInt: "int", KindFloat: "float", KindBool: "bool",
	KindNull: "null", KindLambda: "lambda", KindSwitch: "switch", KindElse: "else",
	KindDecorator: "decorator", KindKeywordArgument: "keyword_argument",
	KindDottedName: "dotted_name", KindSubscript: "subscript",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "other"
}

// Role is the position a node occupies in its parent.
type Role uint8

const (
	RoleNone Role = iota
	RoleName
	RoleType
	RoleCondition
	RoleConsequence
	RoleAlternative
	RoleBody
	RoleObject
	RoleArguments
	RoleLeft
	RoleRight
	RoleValue
	RoleParameters
	RoleInit
	RoleUpdate
	RoleFunction
	RoleModule
	RoleAlias
)

// Node is one element of the arena. Children are stored in source order.
type Node struct {
	Kind     Kind
	Role     Role
	Text     string
	Operator string
	Line     int
	Parent   NodeID
	Children []NodeID
}

// Tree is an arena of nodes rooted at NodeID 0.
// The annotation index is built lazily on first use and guarded by a mutex;
// everything else is read-only after construction.
type Tree struct {
	Path  string
	nodes []Node

	annMu       sync.Mutex
	annBuilt    bool
	annotations map[NodeID]AnnotationSet
	annotated   []NodeID
}

// NewTree returns an empty tree for path.
func NewTree(path string) *Tree {
	return &Tree{Path: path}
}

// Add appends n as the last child of parent and returns its id.
// Pass NoNode as parent to add the root.
func (t *Tree) Add(parent NodeID, n Node) NodeID {
	id := NodeID(len(t.nodes))
	n.Parent = parent
	n.Children = nil
	t.nodes = append(t.nodes, n)
	if parent != NoNode && t.valid(parent) {
		t.nodes[parent].Children = append(t.nodes[parent].Children, id)
	}
	return id
}

// Root returns the root id, or NoNode for an empty tree.
func (t *Tree) Root() NodeID {
	if len(t.nodes) == 0 {
		return NoNode
	}
	return 0
}

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

func (t *Tree) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// Node returns the node for id, or nil if id is out of range.
func (t *Tree) Node(id NodeID) *Node {
	if !t.valid(id) {
		return nil
	}
	return &t.nodes[id]
}

// Kind returns the kind of id, or KindOther for invalid ids.
func (t *Tree) Kind(id NodeID) Kind {
	if n := t.Node(id); n != nil {
		return n.Kind
	}
	return KindOther
}

// Text returns the source text of id, or "" for invalid ids.
func (t *Tree) Text(id NodeID) string {
	if n := t.Node(id); n != nil {
		return n.Text
	}
	return ""
}

// Children returns the children of id.
func (t *Tree) Children(id NodeID) []NodeID {
	if n := t.Node(id); n != nil {
		return n.Children
	}
	return nil
}

// ChildByRole returns the first child of id with the given role.
func (t *Tree) ChildByRole(id NodeID, role Role) NodeID {
	for _, c := range t.Children(id) {
		if t.nodes[c].Role == role {
			return c
		}
	}
	return NoNode
}

// ChildByKind returns the first child of id with the given kind.
func (t *Tree) ChildByKind(id NodeID, kind Kind) NodeID {
	for _, c := range t.Children(id) {
		if t.nodes[c].Kind == kind {
			return c
		}
	}
	return NoNode
}

// Ancestor returns the nearest ancestor of id with the given kind.
func (t *Tree) Ancestor(id NodeID, kind Kind) NodeID {
	n := t.Node(id)
	for n != nil && n.Parent != NoNode {
		p := n.Parent
		if t.nodes[p].Kind == kind {
			return p
		}
		n = &t.nodes[p]
	}
	return NoNode
}

// WalkFunc is called for every visited node. Returning false skips the node's subtree.
type WalkFunc func(id NodeID, n *Node) bool

// Walk visits the subtree rooted at from in pre-order (parent before children,
// children in source order) using an explicit stack.
func (t *Tree) Walk(from NodeID, fn WalkFunc) {
	if !t.valid(from) {
		return
	}
	stack := []NodeID{from}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[id]
		if !fn(id, n) {
			continue
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
}

// Find returns all nodes of the given kinds in the subtree of from, in pre-order.
func (t *Tree) Find(from NodeID, kinds ...Kind) []NodeID {
	var out []NodeID
	t.Walk(from, func(id NodeID, n *Node) bool {
		for _, k := range kinds {
			if n.Kind == k {
				out = append(out, id)
				break
			}
		}
		return true
	})
	return out
}

// Parser is implemented by language front ends.
//
// Stability: Public Stable API - Implementations can be provided externally.
type Parser interface {
	// Parse builds a Tree from content. A front end may return a partial tree
	// together with a nil error when it recovered from syntax errors.
	Parse(ctx context.Context, path string, content []byte) (*Tree, error)
}
