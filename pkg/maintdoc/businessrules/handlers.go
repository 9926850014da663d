package businessrules

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc"
	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/sourcetree"
)

// defaultHandlerAction describes a catch block whose outcome could not be read.
const defaultHandlerAction = "handle exception"

// defaultMaxAttempts applies when a retry bound is missing or cannot be resolved.
const defaultMaxAttempts = 3

var (
	constantNameRe = regexp.MustCompile(`^[A-Z][A-Z0-9_]*[A-Z0-9]$`)
	maxAttemptsRe  = regexp.MustCompile(`<=?\s*([\w.]+)`)
	attemptScaleRe = regexp.MustCompile(`\*=|\*\s*\(?\s*\w*(?:attempt|retr)\w*|\w*(?:attempt|retr)\w*\s*\)?\s*\*`)
)

// handlerOf describes a catch clause. The action comes from the first returned
// object construction in the handler body.
func handlerOf(tree *sourcetree.Tree, catch sourcetree.NodeID) (maintdoc.ErrorHandler, bool) {
	param := tree.ChildByKind(catch, sourcetree.KindCatchParameter)
	exceptionType := strings.Join(strings.Fields(tree.Text(tree.ChildByKind(param, sourcetree.KindType))), " ")
	if exceptionType == "" {
		return maintdoc.ErrorHandler{}, false
	}
	return maintdoc.ErrorHandler{
		ExceptionType: exceptionType,
		Action:        handlerAction(tree, tree.ChildByRole(catch, sourcetree.RoleBody)),
	}, true
}

func handlerAction(tree *sourcetree.Tree, body sourcetree.NodeID) string {
	returns := tree.Find(body, sourcetree.KindReturn)
	if len(returns) == 0 {
		return defaultHandlerAction
	}
	children := tree.Children(returns[0])
	if len(children) == 0 || tree.Kind(children[0]) != sourcetree.KindNew {
		return defaultHandlerAction
	}
	for _, arg := range tree.Children(tree.ChildByKind(children[0], sourcetree.KindArguments)) {
		switch tree.Kind(arg) {
		case sourcetree.KindString:
			if s := strings.TrimSpace(sourcetree.Unquote(tree.Text(arg))); s != "" {
				return s
			}
		case sourcetree.KindFieldAccess, sourcetree.KindIdentifier:
			if name := lastSegment(tree.Text(arg)); constantNameRe.MatchString(name) {
				return humanize(name)
			}
		}
	}
	return defaultHandlerAction
}

// humanize turns PAYMENT_GATEWAY_UNAVAILABLE into "payment gateway unavailable".
func humanize(constant string) string {
	return strings.ToLower(strings.Join(strings.FieldsFunc(constant, func(r rune) bool { return r == '_' }), " "))
}

func lastSegment(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// retryLoop recognizes a loop whose condition counts attempts or retries.
func (a *analysis) retryLoop(tree *sourcetree.Tree, loop sourcetree.NodeID) (maintdoc.RetryPattern, bool) {
	cond := conditionText(tree, loop)
	lower := strings.ToLower(cond)
	if !strings.Contains(lower, "attempt") && !strings.Contains(lower, "retry") && !strings.Contains(lower, "retries") {
		return maintdoc.RetryPattern{}, false
	}
	attempts := defaultMaxAttempts
	if m := maxAttemptsRe.FindStringSubmatch(cond); m != nil {
		attempts = a.resolveInt(m[1], defaultMaxAttempts)
	}
	return maintdoc.RetryPattern{
		MaxAttempts:     attempts,
		BackoffStrategy: backoffOf(tree.Text(tree.ChildByRole(loop, sourcetree.RoleBody))),
	}, true
}

// backoffOf classifies the delay between attempts from the loop body text.
func backoffOf(body string) string {
	lower := strings.ToLower(body)
	if !strings.Contains(lower, "sleep") {
		return maintdoc.BackoffImmediate
	}
	if strings.Contains(lower, "**") || strings.Contains(lower, "pow(") || strings.Contains(lower, "<<") ||
		attemptScaleRe.MatchString(lower) {
		return maintdoc.BackoffExponential
	}
	return maintdoc.BackoffFixed
}

// resolveInt reads an integer literal or the value of a known integer constant.
func (a *analysis) resolveInt(token string, fallback int) int {
	if v, err := strconv.ParseInt(strings.TrimRight(strings.ReplaceAll(token, "_", ""), "lL"), 0, 64); err == nil && v > 0 {
		return int(v)
	}
	if v, ok := a.intConstants[lastSegment(token)]; ok && v > 0 {
		return v
	}
	return fallback
}
