package businessrules

import (
	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc"
	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/sourcetree"
)

// StepCall is the kind of a workflow step that invokes a method.
const StepCall = "call"

const minWorkflowEntries = 2

// workflowOf reports a method body made only of calls, optionally with one level of
// conditional call sequences folded into branches.
func workflowOf(tree *sourcetree.Tree, name string, body sourcetree.NodeID) (maintdoc.Workflow, bool) {
	wf := maintdoc.Workflow{Name: name, Steps: []maintdoc.Step{}, Branches: []maintdoc.Branch{}}
	for _, st := range tree.Children(body) {
		if step, ok := callStep(tree, st); ok {
			wf.Steps = append(wf.Steps, step)
			continue
		}
		if tree.Kind(st) == sourcetree.KindIf && tree.ChildByRole(st, sourcetree.RoleAlternative) == sourcetree.NoNode {
			if steps, ok := callSequence(tree, tree.ChildByRole(st, sourcetree.RoleConsequence)); ok {
				wf.Branches = append(wf.Branches, maintdoc.Branch{Condition: conditionText(tree, st), Steps: steps})
				continue
			}
		}
		return maintdoc.Workflow{}, false
	}
	if len(wf.Steps)+len(wf.Branches) < minWorkflowEntries {
		return maintdoc.Workflow{}, false
	}
	return wf, true
}

func callSequence(tree *sourcetree.Tree, branch sourcetree.NodeID) ([]maintdoc.Step, bool) {
	stmts := directStatements(tree, branch)
	if len(stmts) == 0 {
		return nil, false
	}
	steps := make([]maintdoc.Step, 0, len(stmts))
	for _, st := range stmts {
		step, ok := callStep(tree, st)
		if !ok {
			return nil, false
		}
		steps = append(steps, step)
	}
	return steps, true
}

// callStep accepts `call();`, `x = call();`, `T x = call();` and `return call();`.
func callStep(tree *sourcetree.Tree, st sourcetree.NodeID) (maintdoc.Step, bool) {
	expr := sourcetree.NoNode
	switch tree.Kind(st) {
	case sourcetree.KindExpressionStatement, sourcetree.KindReturn:
		if children := tree.Children(st); len(children) > 0 {
			expr = children[0]
		}
	case sourcetree.KindLocalVariable:
		expr = tree.ChildByRole(tree.ChildByKind(st, sourcetree.KindDeclarator), sourcetree.RoleValue)
	}
	if tree.Kind(expr) == sourcetree.KindAssign {
		expr = tree.ChildByRole(expr, sourcetree.RoleRight)
	}
	if tree.Kind(expr) != sourcetree.KindCall {
		return maintdoc.Step{}, false
	}
	name := tree.Text(tree.ChildByRole(expr, sourcetree.RoleName))
	if name == "" {
		return maintdoc.Step{}, false
	}
	return maintdoc.Step{Action: name, Kind: StepCall}, true
}
