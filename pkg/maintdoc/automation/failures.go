package automation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc"
	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/sourcetree"
)

var quotedRe = regexp.MustCompile(`['"]([A-Za-z][\w.:-]*)['"]`)

// validationKeywords mark a failure message as an input validation error.
var validationKeywords = []string{"required", "must be", "must have", "must not", "cannot be", "invalid", "is not a valid"}

// errorCodeMarkers identify quoted strings that are SDK error codes.
var errorCodeMarkers = []string{
	"NotFound", "Unauthorized", "AccessDenied", "Throttl", "LimitExceeded", "AlreadyExists",
	"InUse", "Invalid", "DryRunOperation", "NoSuch", "Conflict", "Expired", "Malformed",
}

// awsExceptions are SDK exception types whose failures are AWS API errors.
var awsExceptions = map[string]bool{
	"ClientError":             true,
	"BotoCoreError":           true,
	"NoCredentialsError":      true,
	"NoRegionError":           true,
	"EndpointConnectionError": true,
	"WaiterError":             true,
	"ParamValidationError":    true,
}

// exceptionHints holds recovery steps for handlers that do not report a message themselves.
var exceptionHints = map[string][]string{
	"ClientError": {
		"Inspect the error code returned in the AWS response",
		"Verify IAM permissions and request parameters for the failing call",
	},
	"BotoCoreError": {
		"Check network connectivity and the AWS endpoint configuration",
		"Upgrade botocore if the error reports an unknown service or parameter",
	},
	"NoCredentialsError": {
		"Configure AWS credentials via environment variables, profile or instance role",
		"Verify the credential profile name passed to the module",
	},
	"NoRegionError": {
		"Set the region parameter or the AWS_REGION environment variable",
	},
	"EndpointConnectionError": {
		"Check network connectivity and DNS resolution for the service endpoint",
		"Verify the region supports the service",
	},
	"WaiterError": {
		"Check the resource for a failed or stuck state transition",
		"Increase the waiter timeout if the resource is slow to converge",
	},
	"KeyError": {
		"Verify the expected key is present in the API response or input",
	},
	"ValueError": {
		"Validate the input value format before running",
	},
	"TypeError": {
		"Check parameter types against the module documentation",
	},
	"OSError": {
		"Verify the file path exists and is accessible",
		"Check disk space and file permissions",
	},
	"IOError": {
		"Verify the file path exists and is accessible",
		"Check disk space and file permissions",
	},
}

// importPackages maps import names to the pip distribution that installs them.
var importPackages = map[string]string{
	"boto3":    "boto3",
	"botocore": "botocore",
	"yaml":     "PyYAML",
	"requests": "requests",
}

func isValidationMessage(message string) bool {
	lower := strings.ToLower(message)
	for _, k := range validationKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// failCall is one fail_json/fail_json_aws call site.
type failCall struct {
	at        sourcetree.NodeID
	method    string
	message   string
	traceback bool
}

func findFailCalls(tree *sourcetree.Tree) []failCall {
	var calls []failCall
	for _, c := range tree.Find(tree.Root(), sourcetree.KindCall) {
		recv, method := callee(tree, c)
		if recv == sourcetree.NoNode || (method != "fail_json" && method != "fail_json_aws") {
			continue
		}
		traceback := method == "fail_json_aws" || keywordArg(tree, c, "exception") != sourcetree.NoNode ||
			strings.Contains(argsText(tree, c), "traceback")
		calls = append(calls, failCall{at: c, method: method, message: failMessage(tree, c), traceback: traceback})
	}
	return calls
}

// failMessage returns the msg= argument of a fail call, falling back to the first
// positional argument that carries text.
func failMessage(tree *sourcetree.Tree, call sourcetree.NodeID) string {
	if v := keywordArg(tree, call, "msg"); v != sourcetree.NoNode {
		return messageText(tree, v)
	}
	for _, a := range positionalArgs(tree, call) {
		if m := messageText(tree, a); m != "" {
			return m
		}
	}
	return ""
}

// messageText returns the literal text of a message expression. The literal pieces of
// "a " + name + " b" are joined, and format strings keep their placeholders.
func messageText(tree *sourcetree.Tree, id sourcetree.NodeID) string {
	var parts []string
	var collect func(id sourcetree.NodeID)
	collect = func(id sourcetree.NodeID) {
		switch tree.Kind(id) {
		case sourcetree.KindString:
			v, _ := literal(tree, id)
			parts = append(parts, v)
		case sourcetree.KindParenthesized:
			for _, c := range tree.Children(id) {
				collect(c)
			}
		case sourcetree.KindBinary:
			switch tree.Node(id).Operator {
			case "+":
				collect(tree.ChildByRole(id, sourcetree.RoleLeft))
				collect(tree.ChildByRole(id, sourcetree.RoleRight))
			case "%":
				collect(tree.ChildByRole(id, sourcetree.RoleLeft))
			}
		case sourcetree.KindCall:
			if recv, method := callee(tree, id); method == "format" {
				collect(recv)
			}
		}
	}
	collect(id)
	return strings.TrimSpace(spaceRunRe.ReplaceAllString(strings.Join(parts, ""), " "))
}

func newPattern(message string, errorType maintdoc.ErrorType, steps []string) (maintdoc.ErrorPattern, bool) {
	p, err := maintdoc.NewClassifiedErrorPattern(message, errorType, steps)
	return p, err == nil
}

// locatedPattern remembers which call site produced a pattern.
type locatedPattern struct {
	at      sourcetree.NodeID
	pattern maintdoc.ErrorPattern
}

// failFastPatterns classifies every fail_json call with a literal message. Only the
// message and the enclosing handler decide the type here; SDK error attribution is
// left to the handler pass.
func failFastPatterns(tree *sourcetree.Tree, calls []failCall) []locatedPattern {
	var out []locatedPattern
	for _, c := range calls {
		if c.message == "" {
			continue
		}
		g := guardOf(tree, c.at, sourcetree.NoNode)
		errorType := maintdoc.ErrorTypeGeneric
		switch {
		case isValidationMessage(c.message):
			errorType = maintdoc.ErrorTypeValidation
		case g.inExcept:
			errorType = maintdoc.ErrorTypeException
		}
		p, ok := newPattern(c.message, errorType, maintdoc.RecoveryHints(c.message))
		if !ok {
			continue
		}
		p.Condition = g.condition
		out = append(out, locatedPattern{at: c.at, pattern: p})
	}
	return out
}

// handler is one except clause.
type handler struct {
	at         sourcetree.NodeID
	exceptions []string
	errorCode  string
}

func (h handler) exceptionType() string {
	return strings.Join(h.exceptions, ", ")
}

func findHandlers(tree *sourcetree.Tree) []handler {
	var out []handler
	for _, id := range tree.Find(tree.Root(), sourcetree.KindCatch) {
		h := handler{at: id, exceptions: []string{"Exception"}}
		clause := sourcetree.NoNode
		for _, c := range tree.Children(id) {
			if tree.Kind(c) != sourcetree.KindBlock {
				clause = c
				break
			}
		}
		if clause != sourcetree.NoNode {
			if code := boto3ErrorCode(tree, clause); code != "" {
				h.exceptions = []string{"ClientError"}
				h.errorCode = code
			} else {
				h.exceptions = exceptionNames(tree.Text(clause))
			}
		}
		out = append(out, h)
	}
	return out
}

// boto3ErrorCode returns X from an `except is_boto3_error_code('X')` clause.
func boto3ErrorCode(tree *sourcetree.Tree, clause sourcetree.NodeID) string {
	for _, call := range tree.Find(clause, sourcetree.KindCall) {
		if _, name := callee(tree, call); name == "is_boto3_error_code" {
			code, _ := firstString(tree, call)
			return code
		}
	}
	return ""
}

// exceptionNames parses `(botocore.exceptions.ClientError, KeyError) as e` into simple names.
func exceptionNames(clause string) []string {
	if i := strings.Index(clause, " as "); i >= 0 {
		clause = clause[:i]
	}
	clause = strings.Trim(strings.TrimSpace(clause), "()")
	var names []string
	for _, part := range strings.Split(clause, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if j := strings.LastIndexByte(part, '.'); j >= 0 {
			part = part[j+1:]
		}
		names = append(names, part)
	}
	if len(names) == 0 {
		return []string{"Exception"}
	}
	return names
}

// errorCodeIn returns the first quoted SDK error code in text.
func errorCodeIn(text string) string {
	for _, m := range quotedRe.FindAllStringSubmatch(text, -1) {
		for _, marker := range errorCodeMarkers {
			if strings.Contains(m[1], marker) {
				return m[1]
			}
		}
	}
	return ""
}

// handlerPatterns produces one pattern per fail call whose nearest enclosing except
// clause is the handler, or one generic pattern per handler that reports nothing itself.
func handlerPatterns(tree *sourcetree.Tree, calls []failCall) []locatedPattern {
	var out []locatedPattern
	for _, h := range findHandlers(tree) {
		nested := 0
		for _, c := range calls {
			if c.message == "" || tree.Ancestor(c.at, sourcetree.KindCatch) != h.at {
				continue
			}
			nested++
			if p, ok := handledFailure(tree, h, c); ok {
				out = append(out, locatedPattern{at: c.at, pattern: p})
			}
		}
		if nested == 0 {
			if p, ok := genericHandlerPattern(tree, h); ok {
				out = append(out, locatedPattern{at: sourcetree.NoNode, pattern: p})
			}
		}
	}
	return out
}

func handledFailure(tree *sourcetree.Tree, h handler, c failCall) (maintdoc.ErrorPattern, bool) {
	errorType := maintdoc.ErrorTypeException
	if c.method == "fail_json_aws" || awsExceptions[h.exceptions[0]] {
		errorType = maintdoc.ErrorTypeAWS
	}
	if isValidationMessage(c.message) {
		errorType = maintdoc.ErrorTypeValidation
	}
	p, ok := newPattern(c.message, errorType, maintdoc.RecoveryHints(c.message))
	if !ok {
		return p, false
	}
	p.ExceptionType = h.exceptionType()
	p.ErrorCode = h.errorCode
	p.IncludesTraceback = c.traceback

	g := guardOf(tree, c.at, h.at)
	p.Condition = g.condition
	if p.ErrorCode == "" && !g.inElse && g.condition != "" {
		p.ErrorCode = errorCodeIn(g.condition)
	}
	return p, true
}

func genericHandlerPattern(tree *sourcetree.Tree, h handler) (maintdoc.ErrorPattern, bool) {
	exc := h.exceptions[0]
	pattern := h.exceptionType()
	var steps []string

	if exc == "ImportError" || exc == "ModuleNotFoundError" {
		if sdk := tryImport(tree, h.at); sdk != "" {
			pkg := sdk
			if dist, ok := importPackages[sdk]; ok {
				pkg = dist
			}
			pattern = fmt.Sprintf("Missing Python library: %s", sdk)
			steps = []string{
				fmt.Sprintf("Install the %s package: pip install %s", pkg, pkg),
				fmt.Sprintf("Verify the Python interpreter running the automation can import %s", sdk),
			}
		} else {
			steps = []string{"Install the missing Python dependency", "Check the Python interpreter path used by the automation"}
		}
	} else if hints, ok := exceptionHints[exc]; ok {
		steps = append([]string(nil), hints...)
	} else {
		steps = maintdoc.RecoveryHints(exc)
	}

	errorType := maintdoc.ErrorTypeException
	if awsExceptions[exc] {
		errorType = maintdoc.ErrorTypeAWS
	}
	p, ok := newPattern(pattern, errorType, steps)
	if !ok {
		return p, false
	}
	p.ExceptionType = h.exceptionType()
	p.ErrorCode = h.errorCode
	return p, true
}

// tryImport returns the top-level package of the first import in the body of the
// try statement owning the except clause.
func tryImport(tree *sourcetree.Tree, except sourcetree.NodeID) string {
	try := tree.Node(except).Parent
	if tree.Kind(try) != sourcetree.KindTry {
		return ""
	}
	body := tree.ChildByRole(try, sourcetree.RoleBody)
	for _, imp := range tree.Find(body, sourcetree.KindImport) {
		if modules := importedModules(tree, imp); len(modules) > 0 {
			return topLevel(modules[0])
		}
	}
	return ""
}

// retryPatterns reports AWSRetry decorators and retry_decorator arguments.
func retryPatterns(tree *sourcetree.Tree) []maintdoc.ErrorPattern {
	var out []maintdoc.ErrorPattern
	for _, c := range tree.Find(tree.Root(), sourcetree.KindCall) {
		name, ok := strings.CutPrefix(tree.Text(tree.ChildByRole(c, sourcetree.RoleFunction)), "AWSRetry.")
		if !ok {
			continue
		}
		pattern := fmt.Sprintf("Throttled AWS API calls retried by AWSRetry.%s", name)
		if args := argsText(tree, c); args != "" {
			pattern += fmt.Sprintf(" (%s)", spaceRunRe.ReplaceAllString(args, " "))
		}
		if p, ok := newPattern(pattern, maintdoc.ErrorTypeRetry, maintdoc.RecoveryHints("throttling")); ok {
			out = append(out, p)
		}
	}
	return out
}

// extractErrorPatterns runs the fail-fast and exception-handler passes and concatenates them.
// A handler pattern for the same call and message replaces the fail-fast entry in place.
func extractErrorPatterns(tree *sourcetree.Tree) []maintdoc.ErrorPattern {
	if tree == nil {
		return []maintdoc.ErrorPattern{}
	}
	calls := findFailCalls(tree)
	failFast := failFastPatterns(tree, calls)

	merged := make([]maintdoc.ErrorPattern, 0, len(failFast))
	index := make(map[sourcetree.NodeID]int, len(failFast))
	for _, lp := range failFast {
		index[lp.at] = len(merged)
		merged = append(merged, lp.pattern)
	}
	for _, lp := range handlerPatterns(tree, calls) {
		if i, ok := index[lp.at]; ok && merged[i].Pattern == lp.pattern.Pattern {
			merged[i] = lp.pattern
			continue
		}
		merged = append(merged, lp.pattern)
	}
	merged = append(merged, retryPatterns(tree)...)
	return maintdoc.DedupeErrorPatterns(merged)
}
