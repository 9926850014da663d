package automation

import (
	"regexp"
	"strings"

	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/sourcetree"
)

// requirementNameRe keeps the distribution name of "boto3 >= 1.26.0".
var requirementNameRe = regexp.MustCompile(`^\s*([A-Za-z0-9][A-Za-z0-9_.\-]*)`)

// frameworkPackages are provided by the automation runtime itself.
var frameworkPackages = map[string]bool{
	"ansible":             true,
	"ansible_collections": true,
	"__future__":          true,
}

// pythonStdlib lists standard library top-level modules seen in automation scripts.
var pythonStdlib = map[string]bool{
	"abc":          true, "argparse": true, "ast": true, "base64": true, "collections": true,
	"configparser": true, "contextlib": true, "copy": true, "csv": true, "datetime": true,
	"enum":         true, "errno": true, "fnmatch": true, "functools": true, "glob": true,
	"hashlib":      true, "hmac": true, "http": true, "io": true, "ipaddress": true,
	"itertools":    true, "json": true, "logging": true, "math": true, "os": true,
	"pathlib":      true, "platform": true, "pprint": true, "random": true, "re": true,
	"shlex":        true, "shutil": true, "signal": true, "socket": true, "ssl": true,
	"string":       true, "struct": true, "subprocess": true, "sys": true, "tempfile": true,
	"textwrap":     true, "threading": true, "time": true, "traceback": true, "typing": true,
	"urllib":       true, "uuid": true, "warnings": true, "xml": true, "zipfile": true,
}

// requirementPackages maps import names to the distribution that provides them.
var requirementPackages = map[string]string{
	"yaml":     "PyYAML",
	"dateutil": "python-dateutil",
	"jwt":      "PyJWT",
}

// topLevel returns the first dotted component of a module path.
func topLevel(module string) string {
	name, _, _ := strings.Cut(strings.TrimSpace(module), ".")
	return name
}

// importedModules returns the modules named by an import statement. A from-import
// names its source module; relative and __future__ imports name none.
func importedModules(tree *sourcetree.Tree, imp sourcetree.NodeID) []string {
	if module := tree.ChildByRole(imp, sourcetree.RoleModule); module != sourcetree.NoNode {
		if tree.Kind(module) != sourcetree.KindDottedName {
			return nil
		}
		return []string{tree.Text(module)}
	}
	if strings.HasPrefix(tree.Text(imp), "from") {
		return nil
	}
	var out []string
	for _, c := range tree.Children(imp) {
		switch {
		case tree.Kind(c) == sourcetree.KindDottedName:
			out = append(out, tree.Text(c))
		case tree.ChildByKind(c, sourcetree.KindDottedName) != sourcetree.NoNode:
			// import x.y as z
			out = append(out, tree.Text(tree.ChildByKind(c, sourcetree.KindDottedName)))
		}
	}
	return out
}

// extractDependencies lists third-party packages from imports and the documented requirements,
// in first-seen order. Version specifiers are dropped and "python" itself is excluded.
func extractDependencies(tree *sourcetree.Tree) []string {
	if tree == nil {
		return []string{}
	}
	var deps []string
	for _, imp := range tree.Find(tree.Root(), sourcetree.KindImport) {
		for _, module := range importedModules(tree, imp) {
			name := topLevel(module)
			if name == "" || frameworkPackages[name] || pythonStdlib[name] {
				continue
			}
			if dist, ok := requirementPackages[name]; ok {
				name = dist
			}
			deps = append(deps, name)
		}
	}

	if doc, ok := parseDocBlock(tree); ok {
		for _, req := range doc.requirements {
			m := requirementNameRe.FindStringSubmatch(req)
			if m == nil || strings.EqualFold(m[1], "python") {
				continue
			}
			deps = append(deps, m[1])
		}
	}
	return dedupeFold(deps)
}

// dedupeFold drops case-insensitive duplicates, keeping the first spelling.
func dedupeFold(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		k := strings.ToLower(v)
		if _, dup := seen[k]; dup || v == "" {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}
