package sourcetree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/sourcetree"
)

// sampleTree builds:
//
//	file
//	  class
//	    modifiers
//	      annotation @Retryable(maxAttempts = 5)
//	    method run
//	      block
//	        if
//	        while
func sampleTree() (*sourcetree.Tree, map[string]sourcetree.NodeID) {
	t := sourcetree.NewTree("Sample.java")
	ids := map[string]sourcetree.NodeID{}
	ids["file"] = t.Add(sourcetree.NoNode, sourcetree.Node{Kind: sourcetree.KindFile})
	ids["class"] = t.Add(ids["file"], sourcetree.Node{Kind: sourcetree.KindClass, Line: 1})
	ids["modifiers"] = t.Add(ids["class"], sourcetree.Node{Kind: sourcetree.KindModifiers})
	ids["annotation"] = t.Add(ids["modifiers"], sourcetree.Node{Kind: sourcetree.KindAnnotation, Text: "@Retryable(maxAttempts = 5)", Line: 2})
	t.Add(ids["annotation"], sourcetree.Node{Kind: sourcetree.KindIdentifier, Role: sourcetree.RoleName, Text: "Retryable"})
	args := t.Add(ids["annotation"], sourcetree.Node{Kind: sourcetree.KindArguments, Role: sourcetree.RoleArguments})
	pair := t.Add(args, sourcetree.Node{Kind: sourcetree.KindElementValuePair})
	t.Add(pair, sourcetree.Node{Kind: sourcetree.KindIdentifier, Role: sourcetree.RoleName, Text: "maxAttempts"})
	t.Add(pair, sourcetree.Node{Kind: sourcetree.KindInt, Role: sourcetree.RoleValue, Text: "5"})
	ids["method"] = t.Add(ids["class"], sourcetree.Node{Kind: sourcetree.KindMethod})
	t.Add(ids["method"], sourcetree.Node{Kind: sourcetree.KindIdentifier, Role: sourcetree.RoleName, Text: "run"})
	ids["block"] = t.Add(ids["method"], sourcetree.Node{Kind: sourcetree.KindBlock, Role: sourcetree.RoleBody})
	ids["if"] = t.Add(ids["block"], sourcetree.Node{Kind: sourcetree.KindIf})
	ids["while"] = t.Add(ids["block"], sourcetree.Node{Kind: sourcetree.KindWhile})
	return t, ids
}

func TestWalk_PreOrder(t *testing.T) {
	tree, ids := sampleTree()

	var kinds []sourcetree.Kind
	tree.Walk(ids["method"], func(_ sourcetree.NodeID, n *sourcetree.Node) bool {
		kinds = append(kinds, n.Kind)
		return true
	})
	assert.Equal(t, []sourcetree.Kind{
		sourcetree.KindMethod, sourcetree.KindIdentifier, sourcetree.KindBlock, sourcetree.KindIf, sourcetree.KindWhile,
	}, kinds)
}

func TestWalk_SkipSubtree(t *testing.T) {
	tree, ids := sampleTree()

	var visited []sourcetree.NodeID
	tree.Walk(tree.Root(), func(id sourcetree.NodeID, n *sourcetree.Node) bool {
		visited = append(visited, id)
		return n.Kind != sourcetree.KindModifiers && n.Kind != sourcetree.KindBlock
	})
	assert.Contains(t, visited, ids["modifiers"])
	assert.NotContains(t, visited, ids["annotation"])
	assert.Contains(t, visited, ids["block"])
	assert.NotContains(t, visited, ids["if"])
}

func TestWalk_DeepTreeDoesNotRecurse(t *testing.T) {
	tree := sourcetree.NewTree("deep")
	parent := tree.Add(sourcetree.NoNode, sourcetree.Node{Kind: sourcetree.KindBlock})
	const depth = 200000
	for i := 0; i < depth; i++ {
		parent = tree.Add(parent, sourcetree.Node{Kind: sourcetree.KindParenthesized})
	}
	count := 0
	tree.Walk(tree.Root(), func(sourcetree.NodeID, *sourcetree.Node) bool {
		count++
		return true
	})
	assert.Equal(t, depth+1, count)
}

func TestTreeLookups(t *testing.T) {
	tree, ids := sampleTree()

	assert.Equal(t, "run", tree.Text(tree.ChildByRole(ids["method"], sourcetree.RoleName)))
	assert.Equal(t, ids["block"], tree.ChildByKind(ids["method"], sourcetree.KindBlock))
	assert.Equal(t, sourcetree.NoNode, tree.ChildByKind(ids["method"], sourcetree.KindTry))
	assert.Equal(t, ids["method"], tree.Ancestor(ids["while"], sourcetree.KindMethod))
	assert.Equal(t, sourcetree.NoNode, tree.Ancestor(ids["file"], sourcetree.KindClass))
	assert.Equal(t, []sourcetree.NodeID{ids["if"], ids["while"]}, tree.Find(tree.Root(), sourcetree.KindIf, sourcetree.KindWhile))
	assert.Nil(t, tree.Node(sourcetree.NodeID(tree.Len())))
	assert.Equal(t, "", tree.Text(sourcetree.NoNode))
	assert.Equal(t, "while", sourcetree.KindWhile.String())
}

func TestAnnotations(t *testing.T) {
	tree, ids := sampleTree()

	assert.Equal(t, []sourcetree.NodeID{ids["class"]}, tree.AnnotatedDeclarations())

	set := tree.Annotations(ids["class"])
	require.Equal(t, 1, set.Len())
	assert.True(t, set.Has("@org.springframework.retry.annotation.Retryable"))

	ann, ok := set.Get("Retryable")
	require.True(t, ok)
	assert.Equal(t, 2, ann.Line)
	arg, ok := ann.Arg("maxAttempts")
	require.True(t, ok)
	assert.Equal(t, "5", arg.Value)
	_, ok = ann.Arg("backoff")
	assert.False(t, ok)

	assert.Equal(t, 0, tree.Annotations(ids["method"]).Len())
}

func TestNormalizeAnnotationName(t *testing.T) {
	testCases := []struct {
		raw  string
		want string
	}{
		{"@Transactional", "transactional"},
		{"@org.springframework.retry.annotation.Retryable(maxAttempts = 3)", "retryable"},
		{"  NotNull ", "notnull"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, sourcetree.NormalizeAnnotationName(tc.raw), tc.raw)
	}
}

func TestUnquote(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{`"plain"`, "plain"},
		{`'c'`, "c"},
		{`"""` + "\ntext block\n" + `"""`, "\ntext block\n"},
		{`unquoted`, "unquoted"},
		{`"`, `"`},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, sourcetree.Unquote(tc.in), tc.in)
	}
}
