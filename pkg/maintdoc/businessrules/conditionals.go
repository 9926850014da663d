package businessrules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc"
	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/sourcetree"
)

var (
	// validationIdiomRe matches null checks, emptiness checks and bound comparisons.
	validationIdiomRe = regexp.MustCompile(`[=!]=\s*null\b|\bnull\s*[=!]=|\.isEmpty\(\)|\.isBlank\(\)|[<>]=?`)
	overtimeRe        = regexp.MustCompile(`(?i)hours?\w*\s*>=?\s*(\d+(?:\.\d+)?)`)
	amountRe          = regexp.MustCompile(`(?i)amount\w*(?:\(\))?\s*([<>]=?)\s*([\w.]+)`)
	thresholdRe       = regexp.MustCompile(`[<>]=?\s*(-?\d[\d_]*(?:\.\d+)?)|(-?\d[\d_]*(?:\.\d+)?)\s*[<>]`)
)

// ruleTopics describe conditions that mention a known business term.
var ruleTopics = []struct {
	keyword     string
	description string
}{
	{"discount", "Discount eligibility"},
	{"balance", "Balance check"},
	{"credit", "Credit limit check"},
	{"status", "Status-dependent behavior"},
	{"expir", "Expiry handling"},
}

// conditional records an if statement either as a validation or as a rule.
// An else-if is its own if node and is visited separately by the walk.
func (a *analysis) conditional(tree *sourcetree.Tree, id sourcetree.NodeID) {
	cond := conditionText(tree, id)
	if cond == "" {
		return
	}
	if validationIdiomRe.MatchString(cond) {
		if msg, ok := thrownMessage(tree, tree.ChildByRole(id, sourcetree.RoleConsequence)); ok {
			a.addValidation(cond, msg)
			return
		}
	}
	a.logic.Rules = append(a.logic.Rules, maintdoc.Rule{Condition: cond, Description: describeRule(cond)})
}

func describeRule(cond string) string {
	if m := overtimeRe.FindStringSubmatch(cond); m != nil {
		return fmt.Sprintf("Overtime calculation for hours exceeding %s", m[1])
	}
	if m := amountRe.FindStringSubmatch(cond); m != nil {
		if strings.HasPrefix(m[1], ">") {
			return fmt.Sprintf("Amount threshold above %s", m[2])
		}
		return fmt.Sprintf("Amount limit below %s", m[2])
	}
	lower := strings.ToLower(cond)
	for _, t := range ruleTopics {
		if strings.Contains(lower, t.keyword) {
			return fmt.Sprintf("%s: %s", t.description, cond)
		}
	}
	return "rule based on: " + cond
}

// thrownMessage returns the literal message of the first exception thrown directly in branch.
func thrownMessage(tree *sourcetree.Tree, branch sourcetree.NodeID) (string, bool) {
	for _, st := range directStatements(tree, branch) {
		if tree.Kind(st) != sourcetree.KindThrow {
			continue
		}
		created := tree.ChildByKind(st, sourcetree.KindNew)
		args := tree.ChildByKind(created, sourcetree.KindArguments)
		if args == sourcetree.NoNode {
			return "", false
		}
		if lits := tree.Find(args, sourcetree.KindString); len(lits) > 0 {
			if msg := sourcetree.Unquote(tree.Text(lits[0])); msg != "" {
				return msg, true
			}
		}
		return "", false
	}
	return "", false
}

func isCalculation(method string) bool {
	lower := strings.ToLower(method)
	return strings.Contains(lower, "calculate") || strings.Contains(lower, "compute")
}

// bracketOf reads a numeric threshold from the condition of an if node and a decimal rate
// from a multiplication in one of its direct statements.
func bracketOf(tree *sourcetree.Tree, id sourcetree.NodeID) (maintdoc.Bracket, bool) {
	m := thresholdRe.FindStringSubmatch(conditionText(tree, id))
	if m == nil {
		return maintdoc.Bracket{}, false
	}
	lit := m[1]
	if lit == "" {
		lit = m[2]
	}
	threshold, ok := parseNumber(lit)
	if !ok {
		return maintdoc.Bracket{}, false
	}

	for _, st := range directStatements(tree, tree.ChildByRole(id, sourcetree.RoleConsequence)) {
		for _, bin := range tree.Find(st, sourcetree.KindBinary) {
			if tree.Node(bin).Operator != "*" {
				continue
			}
			rate := tree.ChildByKind(bin, sourcetree.KindFloat)
			if rate == sourcetree.NoNode {
				continue
			}
			if r, ok := parseNumber(tree.Text(rate)); ok {
				return maintdoc.Bracket{Threshold: threshold, Rate: r}, true
			}
		}
	}
	return maintdoc.Bracket{}, false
}

// parseNumber parses a Java numeric literal, tolerating digit separators and type suffixes.
func parseNumber(lit string) (float64, bool) {
	lit = strings.ReplaceAll(lit, "_", "")
	lit = strings.TrimRight(lit, "dDfFlL")
	v, err := strconv.ParseFloat(lit, 64)
	return v, err == nil
}
