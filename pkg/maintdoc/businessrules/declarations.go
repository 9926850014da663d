package businessrules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc"
	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/sourcetree"
)

// Constant types.
const (
	ConstantInteger = "integer"
	ConstantFloat   = "float"
	ConstantString  = "string"
)

// StateTransactional is the state type reported for transactional declarations.
const StateTransactional = "transactional"

// Connection requirement types.
const (
	ConnectionDatabase = "database"
	ConnectionEndpoint = "endpoint"
)

var (
	importRe   = regexp.MustCompile(`^import\s+(?:static\s+)?([\w.]+)`)
	packageRe  = regexp.MustCompile(`^package\s+([\w.]+)`)
	userInfoRe = regexp.MustCompile(`//[^/@\s]+@`)
)

// jdkPrefixes are import prefixes provided by the platform.
var jdkPrefixes = []string{"java.", "javax.", "jdk.", "sun.", "com.sun.", "org.w3c.dom.", "org.xml.sax."}

// dependencySegments is how many package segments name a dependency.
const dependencySegments = 3

// collectConstants records public static final fields initialized with a literal.
// Interface fields are implicitly public static final.
func (a *analysis) collectConstants(tree *sourcetree.Tree) {
	for _, f := range tree.Find(tree.Root(), sourcetree.KindField) {
		if !isInterface(tree, tree.Ancestor(f, sourcetree.KindClass)) &&
			!isPublicConstant(tree.Text(tree.ChildByKind(f, sourcetree.KindModifiers))) {
			continue
		}
		for _, d := range tree.Children(f) {
			if tree.Kind(d) != sourcetree.KindDeclarator {
				continue
			}
			c, ok := constantOf(tree, d)
			if !ok {
				continue
			}
			a.logic.Constants = append(a.logic.Constants, c)
			if c.Type == ConstantInteger {
				if v, err := strconv.ParseInt(strings.TrimRight(strings.ReplaceAll(c.Value, "_", ""), "lL"), 0, 64); err == nil {
					a.intConstants[c.Name] = int(v)
				}
			}
		}
	}
}

// isInterface reports whether the type declaration's header uses the interface keyword.
func isInterface(tree *sourcetree.Tree, class sourcetree.NodeID) bool {
	header, _, _ := strings.Cut(tree.Text(class), "{")
	for _, w := range strings.Fields(header) {
		if w == "interface" {
			return true
		}
	}
	return false
}

func isPublicConstant(modifiers string) bool {
	var public, static, final bool
	for _, w := range strings.Fields(modifiers) {
		switch w {
		case "public":
			public = true
		case "static":
			static = true
		case "final":
			final = true
		}
	}
	return public && static && final
}

func constantOf(tree *sourcetree.Tree, decl sourcetree.NodeID) (maintdoc.Constant, bool) {
	name := tree.Text(tree.ChildByRole(decl, sourcetree.RoleName))
	value := tree.ChildByRole(decl, sourcetree.RoleValue)
	if name == "" || value == sourcetree.NoNode {
		return maintdoc.Constant{}, false
	}
	text := tree.Text(value)
	kind := tree.Kind(value)
	if kind == sourcetree.KindUnary && tree.Node(value).Operator == "-" {
		if children := tree.Children(value); len(children) == 1 {
			kind = tree.Kind(children[0])
		}
	}
	switch kind {
	case sourcetree.KindInt:
		return maintdoc.Constant{Name: name, Type: ConstantInteger, Value: text}, true
	case sourcetree.KindFloat:
		return maintdoc.Constant{Name: name, Type: ConstantFloat, Value: text}, true
	case sourcetree.KindString:
		return maintdoc.Constant{Name: name, Type: ConstantString, Value: sourcetree.Unquote(text)}, true
	default:
		return maintdoc.Constant{}, false
	}
}

type annotationHandler func(a *analysis, target string, ann sourcetree.Annotation)

// annotationHandlers maps normalized annotation names to their interpretation.
// Annotations missing from the table carry no business meaning here and are ignored.
var annotationHandlers = map[string]annotationHandler{
	"retryable":     retryAnnotation,
	"transactional": transactionalAnnotation,
	"notnull":       requireAnnotation("%s == null", "%s must not be null"),
	"nonnull":       requireAnnotation("%s == null", "%s must not be null"),
	"notblank":      requireAnnotation("%s is blank", "%s must not be blank"),
	"notempty":      requireAnnotation("%s is empty", "%s must not be empty"),
	"positive":      requireAnnotation("%s <= 0", "%s must be positive"),
	"email":         requireAnnotation("%s is not an email address", "%s must be a valid email address"),
	"min":           boundAnnotation("<", "at least"),
	"max":           boundAnnotation(">", "at most"),
	"size":          sizeAnnotation,
	"pattern":       patternAnnotation,
}

func (a *analysis) collectAnnotations(tree *sourcetree.Tree) {
	for _, decl := range tree.AnnotatedDeclarations() {
		target := declarationName(tree, decl)
		for _, ann := range tree.Annotations(decl).All() {
			if h, ok := annotationHandlers[ann.Name]; ok {
				h(a, target, ann)
			}
		}
	}
}

func declarationName(tree *sourcetree.Tree, decl sourcetree.NodeID) string {
	if tree.Kind(decl) == sourcetree.KindField {
		return tree.Text(tree.ChildByRole(tree.ChildByKind(decl, sourcetree.KindDeclarator), sourcetree.RoleName))
	}
	return tree.Text(tree.ChildByRole(decl, sourcetree.RoleName))
}

// retryAnnotation reads maxAttempts and the nested backoff of a retry declaration.
// Without a multiplier the delay between attempts is fixed.
func retryAnnotation(a *analysis, _ string, ann sourcetree.Annotation) {
	r := maintdoc.RetryPattern{MaxAttempts: defaultMaxAttempts, BackoffStrategy: maintdoc.BackoffFixed}
	if arg, ok := ann.Arg("maxAttempts"); ok {
		r.MaxAttempts = a.resolveInt(arg.Value, defaultMaxAttempts)
	}
	if arg, ok := ann.Arg("backoff"); ok && arg.Nested != nil {
		if m, ok := arg.Nested.Arg("multiplier"); ok {
			if v, ok := parseNumber(m.Value); ok && v > 1 {
				r.BackoffStrategy = maintdoc.BackoffExponential
			}
		}
	}
	a.logic.RetryPatterns = append(a.logic.RetryPatterns, r)
}

func transactionalAnnotation(a *analysis, target string, _ sourcetree.Annotation) {
	a.transactional = append(a.transactional, target)
}

func requireAnnotation(condition, message string) annotationHandler {
	return func(a *analysis, target string, ann sourcetree.Annotation) {
		a.addValidation(fmt.Sprintf(condition, target), annotationMessage(ann, fmt.Sprintf(message, target)))
	}
}

func boundAnnotation(op, phrase string) annotationHandler {
	return func(a *analysis, target string, ann sourcetree.Annotation) {
		bound, ok := ann.Arg("value")
		if !ok {
			return
		}
		a.addValidation(fmt.Sprintf("%s %s %s", target, op, bound.Value),
			annotationMessage(ann, fmt.Sprintf("%s must be %s %s", target, phrase, bound.Value)))
	}
}

func sizeAnnotation(a *analysis, target string, ann sourcetree.Annotation) {
	lo, hasLo := ann.Arg("min")
	hi, hasHi := ann.Arg("max")
	var condition, message string
	switch {
	case hasLo && hasHi:
		condition = fmt.Sprintf("%s size outside [%s, %s]", target, lo.Value, hi.Value)
		message = fmt.Sprintf("%s size must be between %s and %s", target, lo.Value, hi.Value)
	case hasLo:
		condition = fmt.Sprintf("%s size < %s", target, lo.Value)
		message = fmt.Sprintf("%s size must be at least %s", target, lo.Value)
	case hasHi:
		condition = fmt.Sprintf("%s size > %s", target, hi.Value)
		message = fmt.Sprintf("%s size must be at most %s", target, hi.Value)
	default:
		return
	}
	a.addValidation(condition, annotationMessage(ann, message))
}

func patternAnnotation(a *analysis, target string, ann sourcetree.Annotation) {
	re, ok := ann.Arg("regexp")
	if !ok {
		return
	}
	a.addValidation(fmt.Sprintf("%s does not match %s", target, re.Value),
		annotationMessage(ann, fmt.Sprintf("%s must match %s", target, re.Value)))
}

// annotationMessage prefers an explicit message argument over def. Message bundle keys such as
// "{javax.validation.constraints.NotNull.message}" are not resolved.
func annotationMessage(ann sourcetree.Annotation, def string) string {
	if m, ok := ann.Arg("message"); ok && m.Value != "" && !strings.HasPrefix(m.Value, "{") {
		return m.Value
	}
	return def
}

func transactionState(targets []string) *maintdoc.StateManagement {
	if len(targets) == 0 {
		return nil
	}
	return &maintdoc.StateManagement{
		StateType:          StateTransactional,
		StateLocation:      "database transaction",
		IdempotencySupport: false,
		RollbackSupport:    true,
		StateValidationSteps: []string{
			fmt.Sprintf("Verify a failure inside %s rolls back every change made in the transaction", strings.Join(targets, ", ")),
			"Check the database for partial writes after an aborted run",
		},
	}
}

// dependenciesOf lists third-party packages imported by the file, truncated to their
// leading segments. Platform packages and the file's own package are excluded.
func dependenciesOf(tree *sourcetree.Tree) []string {
	own := ""
	for _, p := range tree.Find(tree.Root(), sourcetree.KindPackage) {
		if m := packageRe.FindStringSubmatch(tree.Text(p)); m != nil {
			own = dependencyName(m[1])
		}
	}
	deps := []string{}
	for _, imp := range tree.Find(tree.Root(), sourcetree.KindImport) {
		m := importRe.FindStringSubmatch(tree.Text(imp))
		if m == nil || isPlatformImport(m[1]) {
			continue
		}
		if name := dependencyName(m[1]); name != "" && name != own {
			deps = append(deps, name)
		}
	}
	return maintdoc.DedupeStrings(deps)
}

func isPlatformImport(path string) bool {
	for _, p := range jdkPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// dependencyName turns org.springframework.retry.annotation.Retryable into org.springframework.retry.
func dependencyName(path string) string {
	var segments []string
	for _, s := range strings.Split(strings.Trim(path, "."), ".") {
		if s == "" || s == "*" || (s[0] >= 'A' && s[0] <= 'Z') {
			break
		}
		segments = append(segments, s)
		if len(segments) == dependencySegments {
			break
		}
	}
	return strings.Join(segments, ".")
}

// connectionsOf reports JDBC URLs and HTTP endpoints written as string literals.
// User info embedded in a URL is masked.
func connectionsOf(tree *sourcetree.Tree) []maintdoc.ConnectionRequirement {
	out := []maintdoc.ConnectionRequirement{}
	seen := make(map[string]struct{})
	for _, lit := range tree.Find(tree.Root(), sourcetree.KindString) {
		value := strings.TrimSpace(sourcetree.Unquote(tree.Text(lit)))
		var req maintdoc.ConnectionRequirement
		switch {
		case strings.HasPrefix(value, "jdbc:"):
			req = maintdoc.ConnectionRequirement{
				RequirementType: ConnectionDatabase,
				Description:     "Database must be reachable at " + userInfoRe.ReplaceAllString(value, "//***@"),
				ValidationSteps: []string{
					"Connect to the database with the configured credentials from the application host",
					"Verify the schema and user referenced by the URL exist",
				},
			}
		case strings.HasPrefix(value, "http://"), strings.HasPrefix(value, "https://"):
			req = maintdoc.ConnectionRequirement{
				RequirementType: ConnectionEndpoint,
				Description:     "HTTP endpoint must be reachable: " + userInfoRe.ReplaceAllString(value, "//***@"),
				ValidationSteps: []string{
					"Request the endpoint from the application host and check the response status",
					"Check proxy and firewall rules between the host and the endpoint",
				},
			}
		default:
			continue
		}
		if _, dup := seen[req.Description]; dup {
			continue
		}
		seen[req.Description] = struct{}{}
		out = append(out, req)
	}
	return out
}
