package automation

import (
	"regexp"
	"strings"

	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc"
	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/sourcetree"
)

// State types reported by extractState.
const (
	StateDeclarative    = "declarative"
	StateIdempotent     = "idempotent"
	StateChangeTracking = "change_tracking"
)

var driftRe = regexp.MustCompile(`(?i)\b(?:current|existing|actual)\w*(?:\[[^\]]*\]|\.\w+)*\s*(?:!=|==)\s*\w*(?:desired|target|requested|wanted|module\.params)|\b(?:desired|target|requested)\w*(?:\[[^\]]*\]|\.\w+)*\s*(?:!=|==)\s*\w*(?:current|existing|actual)`)

// rollbackWords mark functions that undo a change.
var rollbackWords = []string{"rollback", "revert", "restore"}

func isRollback(name string) bool {
	for _, w := range rollbackWords {
		if strings.Contains(name, w) {
			return true
		}
	}
	return false
}

// stateSignals are the state handling markers found in a script.
type stateSignals struct {
	checkMode, changed, drift, rollback, cloud bool
}

func scanState(tree *sourcetree.Tree) stateSignals {
	var s stateSignals
	tree.Walk(tree.Root(), func(id sourcetree.NodeID, n *sourcetree.Node) bool {
		switch n.Kind {
		case sourcetree.KindKeywordArgument:
			switch tree.Text(tree.ChildByRole(id, sourcetree.RoleName)) {
			case "supports_check_mode":
				s.checkMode = s.checkMode || tree.Text(tree.ChildByRole(id, sourcetree.RoleValue)) == "True"
			case "changed":
				s.changed = true
			}
		case sourcetree.KindIdentifier:
			s.checkMode = s.checkMode || n.Text == "check_mode"
		case sourcetree.KindAssign:
			left := tree.Text(tree.ChildByRole(id, sourcetree.RoleLeft))
			s.changed = s.changed || left == "changed" || strings.HasSuffix(left, ".changed")
		case sourcetree.KindString:
			// result['changed'] and {'changed': ...}
			if k := tree.Kind(n.Parent); k == sourcetree.KindSubscript || k == sourcetree.KindElementValuePair {
				v, _ := literal(tree, id)
				s.changed = s.changed || v == "changed"
			}
		case sourcetree.KindBinary:
			s.drift = s.drift || driftRe.MatchString(n.Text)
		case sourcetree.KindCall:
			_, name := callee(tree, id)
			s.rollback = s.rollback || isRollback(name)
			_, _, ok := sdkService(tree, id)
			s.cloud = s.cloud || ok
		}
		return true
	})
	return s
}

// extractState detects check mode, changed tracking, drift comparison and rollback calls.
// It returns nil when none of them is present.
func extractState(tree *sourcetree.Tree) *maintdoc.StateManagement {
	if tree == nil {
		return nil
	}
	signals := scanState(tree)
	checkMode, changed, drift, rollback := signals.checkMode, signals.changed, signals.drift, signals.rollback
	if !checkMode && !changed && !drift && !rollback {
		return nil
	}

	sm := &maintdoc.StateManagement{
		StateType:            StateChangeTracking,
		StateLocation:        "managed resource",
		IdempotencySupport:   checkMode || drift,
		RollbackSupport:      rollback,
		StateValidationSteps: []string{},
	}
	switch {
	case drift:
		sm.StateType = StateDeclarative
	case checkMode:
		sm.StateType = StateIdempotent
	}
	if signals.cloud {
		sm.StateLocation = "cloud provider API"
	}

	if checkMode {
		sm.StateValidationSteps = append(sm.StateValidationSteps, "Run in check mode to preview changes without applying them")
	}
	if drift {
		sm.StateValidationSteps = append(sm.StateValidationSteps, "Compare the current resource state against the desired parameters")
	}
	if changed {
		sm.StateValidationSteps = append(sm.StateValidationSteps, "Confirm the reported 'changed' result matches the actual modification")
	}
	if rollback {
		sm.StateValidationSteps = append(sm.StateValidationSteps, "Verify the rollback path restores the previous state after a failed run")
	}
	return sm
}
